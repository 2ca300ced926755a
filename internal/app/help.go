package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/styles"
	"github.com/marcus/stagehand/internal/ui"
)

const maxHelpWidth = 72

// helpMarkdown lists every binding as one markdown table per section.
func helpMarkdown(km *keymap.KeyMap) string {
	var b strings.Builder
	for _, s := range km.Sections() {
		if len(s.Bindings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n| --- | --- |\n", s.Title)
		for _, kb := range s.Bindings {
			fmt.Fprintf(&b, "| `%s` | %s |\n", keymap.HelpKeys(kb), kb.Help().Desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderHelp renders the key reference for a body width columns wide. The
// raw markdown is returned when glamour cannot render it.
func renderHelp(km *keymap.KeyMap, width int, style string) string {
	md := helpMarkdown(km)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	return strings.Join(lines, "\n")
}

// openHelp shows the help overlay sized to the terminal.
func (m *Model) openHelp() {
	w := max(min(m.width-8, maxHelpWidth), 10)
	h := max(m.height-10, 3)
	body := renderHelp(m.keys, w, m.helpStyle)
	if n := strings.Count(body, "\n") + 1; n < h {
		h = n
	}
	offset := 0
	if m.showHelp {
		offset = m.help.YOffset
	}
	m.help = viewport.New(w, h)
	m.help.SetContent(body)
	m.help.SetYOffset(offset)
	m.showHelp = true
}

// renderHelpOverlay renders the help modal over content.
func (m Model) renderHelpOverlay(content string) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	b.WriteString(m.help.View())
	b.WriteString("\n\n")
	hint := "esc to close"
	if !m.help.AtBottom() || !m.help.AtTop() {
		hint = "j/k to scroll · " + hint
	}
	if m.version != "" {
		hint = "stagehand " + m.version + " · " + hint
	}
	b.WriteString(styles.Subtle.Render(hint))
	return ui.Overlay(content, styles.ModalBox.Render(b.String()), m.width, m.height)
}
