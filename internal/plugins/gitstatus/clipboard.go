package gitstatus

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/msg"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

const yankToastDuration = 2 * time.Second

// yankPatch copies the patch of the hunk under the cursor, or the file path
// on a file row.
func (p *Plugin) yankPatch() tea.Cmd {
	text, label, ok := p.selectionPatch()
	if !ok {
		return p.yankPath()
	}
	return copyToClipboard(text, label)
}

// yankPath copies the path of the selected file.
func (p *Plugin) yankPath() tea.Cmd {
	e, ok := p.list.CurrentEntry()
	if !ok {
		return nil
	}
	return copyToClipboard(e.Path, e.Path)
}

// selectionPatch returns the single-hunk patch for a hunk row.
func (p *Plugin) selectionPatch() (patch, label string, ok bool) {
	r, found := p.list.Current()
	if !found || r.Kind != RowHunk {
		return "", "", false
	}
	e := p.list.Entries()[r.File]
	if e.Diff == nil {
		return "", "", false
	}
	patch, err := e.Diff.HunkPatch(r.Hunk)
	if err != nil {
		p.log.Debug("hunk patch", "path", e.Path, "hunk", r.Hunk, "err", err)
		return "", "", false
	}
	return patch, fmt.Sprintf("hunk %d of %s", r.Hunk+1, e.Path), true
}

func copyToClipboard(text, label string) tea.Cmd {
	if err := writeClipboard(text); err != nil {
		return msg.ShowToast("Copy failed: "+err.Error(), yankToastDuration)
	}
	return msg.ShowToast("Yanked: "+label, yankToastDuration)
}
