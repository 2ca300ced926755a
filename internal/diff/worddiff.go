package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Segment is a piece of a line in an intra-line diff.
type Segment struct {
	Text    string
	Changed bool
}

// WordDiff compares an old and a new version of one line and splits each
// into changed and unchanged segments. It returns nil slices when the lines
// share nothing worth highlighting, in which case the whole line is the
// change.
func WordDiff(oldText, newText string) (oldSegs, newSegs []Segment) {
	if oldText == newText {
		return nil, nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual && strings.TrimSpace(d.Text) != "" {
			common += len(d.Text)
		}
	}
	if common == 0 {
		return nil, nil
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = appendSegment(oldSegs, d.Text, false)
			newSegs = appendSegment(newSegs, d.Text, false)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, d.Text, true)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, d.Text, true)
		}
	}
	return oldSegs, newSegs
}

func appendSegment(segs []Segment, text string, changed bool) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Changed == changed {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Text: text, Changed: changed})
}
