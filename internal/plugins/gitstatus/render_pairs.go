package gitstatus

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/styles"
)

const paneDivider = "│"

// side selects which half of an aligned pair a cell shows.
type side int

const (
	sideOld side = iota
	sideNew
)

// SideBySide renders f as two aligned panes, old on the left and new on the
// right, starting at pair row scroll. Either pane narrower than the minimum
// width makes the whole view render nothing.
func (r *Renderer) SideBySide(f *diff.File, width, height, scroll int) string {
	if height <= 0 {
		return ""
	}
	leftW := (width - 1) / 2
	rightW := width - 1 - leftW
	if leftW < r.minPaneWidth || rightW < r.minPaneWidth {
		return ""
	}
	if f == nil {
		return styles.Muted.Render("No diff content")
	}
	if f.ShowsPanel() {
		return r.Unified(f, width, height, scroll, -1)
	}

	pairs := diff.Align(f.Lines)
	nw := numberWidth(f.Lines)
	divider := styles.LineNumber.Render(paneDivider)

	end := min(scroll+height, len(pairs))
	out := make([]string, 0, max(end-scroll, 0))
	for i := max(scroll, 0); i < end; i++ {
		p := pairs[i]
		if p.Span != nil {
			out = append(out, spanRow(p.Span, width))
			continue
		}
		oldSegs, newSegs := r.segments(p)
		left := r.cell(f.Path, p.Left, sideOld, oldSegs, nw, leftW)
		right := r.cell(f.Path, p.Right, sideNew, newSegs, nw, rightW)
		out = append(out, left+divider+right)
	}
	return strings.Join(out, "\n")
}

// Split renders f with the old pane stacked above the new one. Both halves
// show the same pair rows so that lines stay vertically comparable.
func (r *Renderer) Split(f *diff.File, width, height, scroll int) string {
	if width < r.minPaneWidth || height <= 0 {
		return ""
	}
	if f == nil {
		return styles.Muted.Render("No diff content")
	}
	if f.ShowsPanel() {
		return r.Unified(f, width, height, scroll, -1)
	}
	half := (height - 1) / 2
	if half < 1 {
		return ""
	}

	pairs := diff.Align(f.Lines)
	nw := numberWidth(f.Lines)
	end := min(scroll+half, len(pairs))

	render := func(s side) []string {
		rows := make([]string, 0, half)
		for i := max(scroll, 0); i < end; i++ {
			p := pairs[i]
			if p.Span != nil {
				rows = append(rows, spanRow(p.Span, width))
				continue
			}
			oldSegs, newSegs := r.segments(p)
			line, segs := p.Left, oldSegs
			if s == sideNew {
				line, segs = p.Right, newSegs
			}
			rows = append(rows, r.cell(f.Path, line, s, segs, nw, width))
		}
		for len(rows) < half {
			rows = append(rows, "")
		}
		return rows
	}

	out := render(sideOld)
	out = append(out, styles.LineNumber.Render(strings.Repeat("─", width)))
	out = append(out, render(sideNew)...)
	return strings.Join(out, "\n")
}

func spanRow(l *diff.Line, width int) string {
	return kindStyle(l.Kind).Render(diff.Truncate(diff.ExpandTabs(l.Text), width))
}

// segments returns the word-level split of a removed/added pair, or nil
// when the pair is not a modification.
func (r *Renderer) segments(p diff.Pair) (oldSegs, newSegs []diff.Segment) {
	if !r.wordDiff || p.Left == nil || p.Right == nil {
		return nil, nil
	}
	if p.Left.Kind != diff.LineRemoved || p.Right.Kind != diff.LineAdded {
		return nil, nil
	}
	return diff.WordDiff(p.Left.Text, p.Right.Text)
}

// cell renders one side of a pair into exactly width columns. A nil line is
// a placeholder: its gutter stays blank.
func (r *Renderer) cell(path string, l *diff.Line, s side, segs []diff.Segment, nw, width int) string {
	contentW := width - (nw + 2)
	if contentW < 1 {
		return strings.Repeat(" ", max(width, 0))
	}

	var sb strings.Builder
	switch {
	case l == nil:
		sb.WriteString(styles.DiffPlaceholder.Render(strings.Repeat(" ", width)))
		return sb.String()
	case l.NoNewline:
		sb.WriteString(strings.Repeat(" ", nw+2))
		sb.WriteString(styles.DiffNoNewline.Render(diff.Fit(l.Text, contentW)))
		return sb.String()
	}

	n := l.NewLineNo
	if s == sideOld {
		n = l.OldLineNo
	}
	base := kindStyle(l.Kind)
	sb.WriteString(styles.LineNumber.Render(lineNo(n, nw) + " "))
	sb.WriteString(base.Render(kindMarker(l.Kind)))

	if segs != nil {
		emph := styles.DiffRemoveEmph
		if s == sideNew {
			emph = styles.DiffAddEmph
		}
		sb.WriteString(renderSegments(segs, contentW, base, emph))
		return sb.String()
	}

	body := diff.Truncate(diff.ExpandTabs(l.Text), contentW)
	sb.WriteString(r.hl.Render(path, body, l.Kind, base))
	if pad := contentW - diff.Width(body); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	return sb.String()
}

// renderSegments draws word-diff segments into exactly w columns, marking
// changed segments with emph. Text that does not fit is cut on a character
// boundary and ends with an ellipsis.
func renderSegments(segs []diff.Segment, w int, base, emph lipgloss.Style) string {
	total := 0
	for _, s := range segs {
		total += diff.Width(s.Text)
	}
	budget := w
	cut := total > w
	if cut {
		budget = w - diff.Width(diff.Ellipsis)
	}

	var sb strings.Builder
	used := 0
	for _, s := range segs {
		if used >= budget {
			break
		}
		text := diff.ExpandTabs(s.Text)
		part := diff.Prefix(text, budget-used)
		style := base
		if s.Changed {
			style = emph
		}
		sb.WriteString(style.Render(part))
		used += diff.Width(part)
		if len(part) < len(text) {
			break
		}
	}
	if cut {
		sb.WriteString(base.Render(diff.Ellipsis))
		used += diff.Width(diff.Ellipsis)
	}
	if used < w {
		sb.WriteString(strings.Repeat(" ", w-used))
	}
	return sb.String()
}
