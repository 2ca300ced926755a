package gitstatus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/styles"
)

// ViewMode selects how the diff pane lays out the current file.
type ViewMode int

const (
	ModeUnified ViewMode = iota
	ModeSideBySide
	ModeFileTree
	ModeSplit
)

// String returns the config name of the mode.
func (m ViewMode) String() string {
	switch m {
	case ModeSideBySide:
		return config.ModeSideBySide
	case ModeFileTree:
		return config.ModeFileTree
	case ModeSplit:
		return config.ModeSplit
	default:
		return config.ModeUnified
	}
}

// ParseViewMode maps a config name to a mode.
func ParseViewMode(s string) (ViewMode, bool) {
	switch s {
	case config.ModeUnified:
		return ModeUnified, true
	case config.ModeSideBySide:
		return ModeSideBySide, true
	case config.ModeFileTree:
		return ModeFileTree, true
	case config.ModeSplit:
		return ModeSplit, true
	}
	return ModeUnified, false
}

// Next returns the mode the cycle key moves to. Split is outside the cycle
// and goes back to unified.
func (m ViewMode) Next() ViewMode {
	switch m {
	case ModeUnified:
		return ModeSideBySide
	case ModeSideBySide:
		return ModeFileTree
	default:
		return ModeUnified
	}
}

// FileAddressed reports whether the cursor of the diff pane moves between
// files rather than lines.
func (m ViewMode) FileAddressed() bool { return m != ModeUnified }

// Renderer draws a diff.File in one of the view modes. Every method returns
// at most height rows, none wider than width.
type Renderer struct {
	hl           *highlighter
	wordDiff     bool
	minPaneWidth int
}

// NewRenderer builds a renderer from the diff settings.
func NewRenderer(cfg config.DiffConfig) *Renderer {
	return &Renderer{
		hl:           newHighlighter(cfg.Highlight, cfg.HighlightStyle),
		wordDiff:     cfg.WordDiff,
		minPaneWidth: max(cfg.MinPaneWidth, 1),
	}
}

// viewRow is one unified-mode row: a diff line, or a line of the panel
// shown in place of binary content.
type viewRow struct {
	Kind diff.LineKind
	Line *diff.Line
	Text string
}

// unifiedRows lists the rows unified mode shows for f. Binary and image
// files never yield added or removed rows, only the informational panel.
func unifiedRows(f *diff.File) []viewRow {
	if f == nil {
		return nil
	}
	if f.ShowsPanel() {
		return binaryPanel(f)
	}
	rows := make([]viewRow, len(f.Lines))
	for i := range f.Lines {
		l := &f.Lines[i]
		rows[i] = viewRow{Kind: l.Kind, Line: l, Text: l.Text}
	}
	return rows
}

func binaryPanel(f *diff.File) []viewRow {
	ext := f.Ext()
	if ext == "" {
		ext = "(none)"
	}
	lines := []string{
		f.DisplayPath(),
		"",
		fmt.Sprintf("  kind       %s", f.Kind()),
		fmt.Sprintf("  extension  %s", ext),
		fmt.Sprintf("  changes    +%d -%d", f.Additions, f.Deletions),
		"",
		fmt.Sprintf("  %s content is not compared.", panelNoun(f)),
	}
	rows := make([]viewRow, len(lines))
	for i, text := range lines {
		rows[i] = viewRow{Kind: diff.LineBinary, Text: text}
	}
	rows[0].Kind = diff.LineHeader
	return rows
}

func panelNoun(f *diff.File) string {
	if f.IsImage {
		return "Image"
	}
	return "Binary"
}

// RowCount returns how many rows mode produces for f, which bounds the
// scroll offset.
func (r *Renderer) RowCount(f *diff.File, mode ViewMode) int {
	return rowCount(f, mode)
}

func rowCount(f *diff.File, mode ViewMode) int {
	if f == nil {
		return 0
	}
	if mode == ModeUnified || f.ShowsPanel() {
		return len(unifiedRows(f))
	}
	return len(diff.Align(f.Lines))
}

// numberWidth returns the gutter width needed for the largest line number.
func numberWidth(lines []diff.Line) int {
	hi := 0
	for _, l := range lines {
		hi = max(hi, l.OldLineNo, l.NewLineNo)
	}
	return max(len(strconv.Itoa(hi)), 3)
}

func lineNo(n, w int) string {
	if n <= 0 {
		return strings.Repeat(" ", w)
	}
	return fmt.Sprintf("%*d", w, n)
}

func kindStyle(k diff.LineKind) lipgloss.Style {
	switch k {
	case diff.LineAdded:
		return styles.DiffAdd
	case diff.LineRemoved:
		return styles.DiffRemove
	case diff.LineHeader:
		return styles.DiffHeader
	case diff.LineHunkMarker:
		return styles.DiffMarker
	case diff.LineBinary:
		return styles.Muted
	default:
		return styles.DiffContext
	}
}

func kindMarker(k diff.LineKind) string {
	switch k {
	case diff.LineAdded:
		return "+"
	case diff.LineRemoved:
		return "-"
	default:
		return " "
	}
}

// isSpan reports whether a line is drawn across the full width without a
// gutter.
func isSpan(k diff.LineKind) bool {
	return k == diff.LineHeader || k == diff.LineHunkMarker || k == diff.LineBinary
}

// Unified renders f one line per row starting at scroll. cursor is the
// highlighted line, or -1.
func (r *Renderer) Unified(f *diff.File, width, height, scroll, cursor int) string {
	if width < r.minPaneWidth || height <= 0 {
		return ""
	}
	if f == nil {
		return styles.Muted.Render("No diff content")
	}
	rows := unifiedRows(f)
	nw := numberWidth(f.Lines)
	// cursor column, two numbers, their separators and the +/- marker
	contentW := width - (1 + 2*nw + 2 + 1)
	if contentW < 1 {
		return ""
	}

	end := min(scroll+height, len(rows))
	out := make([]string, 0, max(end-scroll, 0))
	for i := max(scroll, 0); i < end; i++ {
		row := rows[i]
		var sb strings.Builder
		if i == cursor {
			sb.WriteString(styles.DiffMarker.Render("▌"))
		} else {
			sb.WriteByte(' ')
		}
		switch {
		case isSpan(row.Kind):
			sb.WriteString(kindStyle(row.Kind).Render(diff.Truncate(diff.ExpandTabs(row.Text), width-1)))
		case row.Line != nil && row.Line.NoNewline:
			sb.WriteString(strings.Repeat(" ", 2*nw+3))
			sb.WriteString(styles.DiffNoNewline.Render(diff.Truncate(row.Text, contentW)))
		default:
			l := row.Line
			sb.WriteString(styles.LineNumber.Render(lineNo(l.OldLineNo, nw) + " " + lineNo(l.NewLineNo, nw) + " "))
			base := kindStyle(row.Kind)
			sb.WriteString(base.Render(kindMarker(row.Kind)))
			body := diff.Truncate(diff.ExpandTabs(row.Text), contentW)
			sb.WriteString(r.hl.Render(f.Path, body, row.Kind, base))
		}
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}
