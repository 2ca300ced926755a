package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/plugin"
	"github.com/marcus/stagehand/internal/styles"
	"github.com/marcus/stagehand/internal/ui"
)

const (
	minWidth  = 40
	minHeight = 8
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.StatusDeleted.Render(msg))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.width, m.contentHeight()))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	if m.showHelp {
		return m.renderHelpOverlay(bg)
	}
	return bg
}

// renderHeader renders the title bar: repository on the left, the viewer's
// status summary on the right.
func (m Model) renderHeader() string {
	title := styles.BarTitle.Render(" stagehand")
	if m.repoName != "" && m.repoName != "." {
		title += styles.BarText.Render(" / " + m.repoName)
	}

	var summary string
	if sp, ok := m.plugin.(plugin.StatusProvider); ok {
		summary = sp.StatusSummary()
	}
	room := m.width - lipgloss.Width(title) - 2
	summary = styles.BarText.Render(diff.Truncate(summary, max(room, 0)))

	spacing := max(m.width-lipgloss.Width(title)-lipgloss.Width(summary)-1, 1)
	header := title + strings.Repeat(" ", spacing) + summary + " "
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(header)
}

func (m Model) renderContent(width, height int) string {
	if height == 0 {
		return ""
	}
	return ui.FitBlock(m.plugin.View(width, height), width, height)
}

// renderFooter shows the current toast, or key hints when there is none.
func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		st := styles.ToastSuccess
		if m.statusIsError {
			st = styles.ToastError
		}
		toast := st.Render(diff.Truncate(m.statusMsg, max(m.width-2, 1)))
		return styles.Footer.Width(m.width).MaxWidth(m.width).Render(toast)
	}
	hints := renderHintLineTruncated(m.footerHints(), m.width)
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(hints)
}

type footerHint struct {
	keys  string
	label string
}

var footerCommands = []string{
	keymap.CmdToggleStage,
	keymap.CmdToggleExpand,
	keymap.CmdCycleMode,
	keymap.CmdSwitchPane,
	keymap.CmdYankPatch,
	keymap.CmdRefresh,
	keymap.CmdHelp,
	keymap.CmdQuit,
}

func (m Model) footerHints() []footerHint {
	hints := make([]footerHint, 0, len(footerCommands))
	for _, cmd := range footerCommands {
		b := m.keys.Binding(cmd)
		hints = append(hints, footerHint{keys: b.Help().Key, label: b.Help().Desc})
	}
	return hints
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}
