package gitstatus

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/git"
	"github.com/marcus/stagehand/internal/styles"
	"github.com/marcus/stagehand/internal/ui"
)

const (
	minSidebarWidth = 24
	minDiffWidth    = 40
	dividerWidth    = 1
	dividerHitWidth = 3
	// borders of both panes plus the divider
	chromeWidth = 2 + 2 + dividerWidth
	// first content row inside a pane: top border, title, blank line
	contentTop = 3
)

// Mouse regions.
const (
	regionSidebar     = "sidebar"
	regionDiffPane    = "diff-pane"
	regionPaneDivider = "pane-divider"
	regionRow         = "row"
	regionTreeFile    = "tree-file"
)

// View renders the staging list and the diff pane side by side.
func (p *Plugin) View(width, height int) string {
	p.width, p.height = width, height
	p.mouseHandler.Clear()
	if width <= 0 || height <= 0 || p.list == nil {
		return ""
	}
	return ui.FitBlock(p.renderTwoPane(width, height), width, height)
}

// clampSidebar keeps the list at least minSidebarWidth wide while leaving
// the diff pane minDiffWidth columns where the terminal allows it.
func clampSidebar(w, total int) int {
	hi := total - chromeWidth - minDiffWidth
	if hi < minSidebarWidth {
		return max((total-chromeWidth)/3, 1)
	}
	return min(max(w, minSidebarWidth), hi)
}

func (p *Plugin) renderTwoPane(width, height int) string {
	paneHeight := max(height-2, 1)
	sw := clampSidebar(p.sidebarWidth, width)
	dw := max(width-sw-chromeWidth, 1)

	leftStyle, rightStyle := styles.PanelInactive, styles.PanelInactive
	if p.activePane == PaneList {
		leftStyle = styles.PanelActive
	} else {
		rightStyle = styles.PanelActive
	}

	// Pane regions go first; rows registered while rendering sit on top.
	p.mouseHandler.HitMap.AddRect(regionSidebar, 0, 0, sw+2, height, nil)
	p.mouseHandler.HitMap.AddRect(regionDiffPane, sw+2+dividerWidth, 0, dw+2, height, nil)

	left := p.renderSidebar(sw-2, paneHeight)
	right := p.renderDiffPane(sw+2+dividerWidth, dw-2, paneHeight)

	leftPane := leftStyle.Width(sw).Height(paneHeight).Render(left)
	rightPane := rightStyle.Width(dw).Height(paneHeight).Render(right)
	divider := styles.Subtle.Render(strings.Repeat("│\n", max(paneHeight, 1)-1) + "│")
	divider = lipgloss.NewStyle().MarginTop(1).Render(divider)

	// Added last so it wins over both panes near the edge.
	p.mouseHandler.HitMap.AddRect(regionPaneDivider, sw+2-1, 0, dividerHitWidth, height, nil)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, divider, rightPane)
}

// renderSidebar draws the staging list into a w×h content box.
func (p *Plugin) renderSidebar(w, h int) string {
	var sb strings.Builder
	title := "Files"
	if p.ctrl.ReadOnly() {
		title = "Commit " + shortRef(p.ctrl.Ref())
	}
	if p.busy() {
		title += " " + p.spinner.View()
	}
	sb.WriteString(styles.Title.Render(diff.Truncate(title, w)))
	sb.WriteString("\n\n")

	entries := p.list.Entries()
	rows := p.list.Rows()
	if len(rows) == 0 {
		empty := "Working tree clean"
		if p.ctrl.ReadOnly() {
			empty = "No changes in commit"
		}
		sb.WriteString(styles.Muted.Render(empty))
		return sb.String()
	}

	nav := p.list.Nav()
	nav.SetHeight(max(h-2-sectionCount(entries), 1))
	from, to := nav.Visible()

	y := contentTop
	lines := make([]string, 0, to-from+2)
	prev := Section(-1)
	for i := from; i < to; i++ {
		r := rows[i]
		e := entries[r.File]
		if e.Section != prev {
			prev = e.Section
			lines = append(lines, sectionHeader(e.Section, sectionSize(entries, e.Section)))
			y++
		}
		lines = append(lines, p.renderRow(r, e, i == nav.Cursor(), w))
		p.mouseHandler.HitMap.AddRect(regionRow, 1, y, w+2, 1, i)
		y++
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

func sectionCount(entries []*StagingEntry) int {
	seen := map[Section]bool{}
	for _, e := range entries {
		seen[e.Section] = true
	}
	return len(seen)
}

func sectionSize(entries []*StagingEntry, s Section) int {
	n := 0
	for _, e := range entries {
		if e.Section == s {
			n++
		}
	}
	return n
}

func sectionHeader(s Section, n int) string {
	text := fmt.Sprintf("%s (%d)", s.Title(), n)
	if s == SectionStaged {
		return styles.StatusStaged.Render(text)
	}
	return styles.StatusModified.Render(text)
}

// renderRow draws one file or hunk row of the staging list.
func (p *Plugin) renderRow(r Row, e *StagingEntry, selected bool, w int) string {
	var plain, line string
	if r.Kind == RowHunk {
		plain = "    " + hunkLabel(e, r.Hunk)
		line = styles.DiffMarker.Render(diff.Truncate(plain, w))
	} else {
		icon := " "
		if len(e.Hunks()) > 0 {
			icon = "▸"
			if e.Expanded {
				icon = "▾"
			}
		}
		flag := " "
		if !p.ctrl.Trusted(e.Path) {
			flag = "!"
		}
		stats := ""
		if e.Additions > 0 || e.Deletions > 0 {
			stats = fmt.Sprintf(" +%d -%d", e.Additions, e.Deletions)
		}
		prefix := icon + " " + e.ChangeType.Letter() + flag
		name := diff.Truncate(e.DisplayPath(), max(w-diff.Width(prefix)-diff.Width(stats), 1))
		plain = prefix + name + stats

		st := entryStyle(e)
		line = styles.Muted.Render(icon+" ") + st.Render(e.ChangeType.Letter()) +
			styles.StatusDeleted.Render(flag) + name + styles.Muted.Render(stats)
		if diff.Width(plain) > w {
			line = st.Render(diff.Truncate(plain, w))
		}
	}

	if selected {
		st := styles.ListItemSelected
		if p.activePane == PaneList {
			st = styles.ListItemFocused
		}
		return st.Render(diff.Fit(plain, w))
	}
	return line
}

func hunkLabel(e *StagingEntry, i int) string {
	hunks := e.Hunks()
	if i < 0 || i >= len(hunks) {
		return ""
	}
	h := hunks[i]
	text := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	if h.Section != "" {
		text += " " + h.Section
	}
	return text
}

func entryStyle(e *StagingEntry) lipgloss.Style {
	switch {
	case e.IsStaged:
		return styles.StatusStaged
	case e.ChangeType == git.ChangeUntracked:
		return styles.StatusUntracked
	case e.ChangeType == git.ChangeDeleted:
		return styles.StatusDeleted
	default:
		return styles.StatusModified
	}
}

// renderDiffPane draws the selected file into a w×h content box. x is the
// left edge of the pane on screen, used for mouse regions.
func (p *Plugin) renderDiffPane(x, w, h int) string {
	ch := max(h-2, 1)
	p.pane.setHeight(ch)
	f := p.pane.file()

	title := "No file selected"
	if p.pane.mode == ModeFileTree {
		title = fmt.Sprintf("Files (%d)", len(p.pane.files))
	} else if f != nil {
		title = f.DisplayPath()
	}
	mode := " [" + p.pane.mode.String() + "]"
	header := styles.Title.Render(diff.Truncate(title, max(w-diff.Width(mode), 1))) + styles.Muted.Render(mode)

	var body string
	switch p.pane.mode {
	case ModeUnified:
		cursor := -1
		if p.activePane == PaneDiff {
			cursor = p.pane.lines.Cursor()
		}
		body = p.renderer.Unified(f, w, ch, p.pane.lines.Scroll(), cursor)
	case ModeSideBySide:
		body = p.renderer.SideBySide(f, w, ch, p.pane.scroll)
	case ModeSplit:
		body = p.renderer.Split(f, w, ch, p.pane.scroll)
	case ModeFileTree:
		scroll := p.pane.followTree(ch)
		body = p.renderer.FileTree(p.pane.files, p.pane.tree, w, ch, scroll, p.pane.current)
		for i := scroll; i < min(scroll+ch, len(p.pane.tree)); i++ {
			if n := p.pane.tree[i].Node; !n.IsDir() {
				p.mouseHandler.HitMap.AddRect(regionTreeFile, x+1, contentTop+i-scroll, w+2, 1, n.FileIndex)
			}
		}
	}
	if body == "" && w > 0 {
		body = styles.Muted.Render(diff.Truncate("Pane too narrow", w))
	}
	return header + "\n\n" + body
}
