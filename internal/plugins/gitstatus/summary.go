package gitstatus

import (
	"fmt"
	"strings"
)

// Summary is the state shown in the status bar.
type Summary struct {
	Staged   int
	Total    int
	Mode     ViewMode
	Hunk     int // 1-based, 0 when no hunk is selected
	Hunks    int
	ReadOnly bool
	Ref      string
	Busy     bool
}

// Summary reports counts, mode and the position of the current hunk.
// Counts are of distinct paths.
func (p *Plugin) Summary() Summary {
	s := Summary{
		Mode:     p.pane.mode,
		ReadOnly: p.ctrl.ReadOnly(),
		Ref:      p.ctrl.Ref(),
		Busy:     p.busy(),
	}
	// A partially staged file has an entry in both sections but is one file.
	paths := make(map[string]bool)
	for _, e := range p.list.Entries() {
		paths[e.Path] = paths[e.Path] || e.IsStaged
	}
	for _, staged := range paths {
		s.Total++
		if staged {
			s.Staged++
		}
	}

	r, ok := p.list.Current()
	if ok && r.Kind == RowHunk {
		s.Hunk = r.Hunk + 1
		s.Hunks = len(p.list.Entries()[r.File].Hunks())
		return s
	}
	if f := p.pane.file(); f != nil {
		s.Hunks = len(f.Hunks)
		s.Hunk = p.pane.hunk() + 1
	}
	return s
}

func (s Summary) String() string {
	var parts []string
	if s.ReadOnly {
		parts = append(parts, "read-only "+shortRef(s.Ref), fmt.Sprintf("%d files", s.Total))
	} else {
		parts = append(parts, fmt.Sprintf("%d/%d staged", s.Staged, s.Total))
	}
	parts = append(parts, s.Mode.String())
	if s.Hunks > 0 {
		parts = append(parts, fmt.Sprintf("hunk %d/%d", s.Hunk, s.Hunks))
	}
	if s.Busy {
		parts = append(parts, "working")
	}
	return strings.Join(parts, " · ")
}

func shortRef(ref string) string {
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}
