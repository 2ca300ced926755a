package diff

// Pair is one aligned row of a two-pane layout. A nil side is a blank
// placeholder. Span is set instead of Left/Right for rows that cover both
// panes: file headers, hunk markers and binary markers.
type Pair struct {
	Left  *Line
	Right *Line
	Span  *Line
}

// IsPlaceholder reports whether either side of the pair is blank.
func (p Pair) IsPlaceholder() bool {
	return p.Span == nil && (p.Left == nil || p.Right == nil)
}

// Align pairs lines for side-by-side and split display. A run of removed
// lines followed by a run of added lines is paired positionally: line i of
// the removed run sits opposite line i of the added run and the shorter run
// is padded with placeholders. Context lines are mirrored onto both sides.
func Align(lines []Line) []Pair {
	pairs := make([]Pair, 0, len(lines))
	i := 0
	for i < len(lines) {
		l := &lines[i]
		switch {
		case l.Kind == LineHeader || l.Kind == LineHunkMarker || l.Kind == LineBinary:
			pairs = append(pairs, Pair{Span: l})
			i++

		case l.Kind == LineRemoved:
			removed := collectRun(lines, &i, LineRemoved)
			added := collectRun(lines, &i, LineAdded)
			pairs = appendRuns(pairs, removed, added)

		case l.Kind == LineAdded:
			added := collectRun(lines, &i, LineAdded)
			pairs = appendRuns(pairs, nil, added)

		default:
			// Context, including a stray "no newline" marker.
			pairs = append(pairs, Pair{Left: l, Right: l})
			i++
		}
	}
	return pairs
}

// runLine is one removed or added line plus the "no newline" marker that
// follows it, if any.
type runLine struct {
	line   *Line
	marker *Line
}

// collectRun gathers consecutive lines of kind starting at *i and advances *i
// past them. A "no newline" marker is attached to the line before it so that
// it never takes a positional slot.
func collectRun(lines []Line, i *int, kind LineKind) []runLine {
	var run []runLine
	for *i < len(lines) {
		l := &lines[*i]
		switch {
		case l.Kind == kind:
			run = append(run, runLine{line: l})
		case l.NoNewline && len(run) > 0 && run[len(run)-1].marker == nil:
			run[len(run)-1].marker = l
		default:
			return run
		}
		*i++
	}
	return run
}

// appendRuns pairs left and right positionally. A marker gets its own row
// right after the pair holding its line, opposite the other side's marker
// or a placeholder.
func appendRuns(pairs []Pair, left, right []runLine) []Pair {
	n := max(len(left), len(right))
	for k := 0; k < n; k++ {
		var p, m Pair
		if k < len(left) {
			p.Left, m.Left = left[k].line, left[k].marker
		}
		if k < len(right) {
			p.Right, m.Right = right[k].line, right[k].marker
		}
		pairs = append(pairs, p)
		if m.Left != nil || m.Right != nil {
			pairs = append(pairs, m)
		}
	}
	return pairs
}
