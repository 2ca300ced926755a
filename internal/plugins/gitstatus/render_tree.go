package gitstatus

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/styles"
)

// FileTree renders rows of the changed-file tree starting at scroll, with
// the file at index current highlighted. Directories always show as open;
// the tree has no collapse state of its own.
func (r *Renderer) FileTree(files []*diff.File, rows []diff.TreeRow, width, height, scroll, current int) string {
	if width < r.minPaneWidth || height <= 0 {
		return ""
	}
	if len(rows) == 0 {
		return styles.Muted.Render("No files")
	}

	end := min(scroll+height, len(rows))
	out := make([]string, 0, max(end-scroll, 0))
	for i := max(scroll, 0); i < end; i++ {
		row := rows[i]
		indent := strings.Repeat("  ", row.Depth)
		n := row.Node
		if n.IsDir() {
			out = append(out, styles.TreeDir.Render(diff.Truncate(indent+"▾ "+n.Name+"/", width)))
			continue
		}

		f := files[n.FileIndex]
		stats := fmt.Sprintf(" +%d -%d", f.Additions, f.Deletions)
		if f.IsBinary {
			stats = " bin"
		}
		prefix := indent + "  " + f.Status.Letter() + " "
		nameW := max(width-diff.Width(prefix)-diff.Width(stats), 1)
		line := prefix + diff.Truncate(n.Name, nameW) + stats

		if n.FileIndex == current {
			out = append(out, styles.ListItemSelected.Render(diff.Fit(line, width)))
			continue
		}
		out = append(out, fileStatusStyle(f.Status).Render(diff.Truncate(line, width)))
	}
	return strings.Join(out, "\n")
}

func fileStatusStyle(s diff.FileStatus) lipgloss.Style {
	switch s {
	case diff.FileAdded:
		return styles.StatusStaged
	case diff.FileDeleted:
		return styles.StatusDeleted
	default:
		return styles.StatusModified
	}
}

// treeIndex returns the row index of file fi in rows, or -1.
func treeIndex(rows []diff.TreeRow, fi int) int {
	for i, r := range rows {
		if !r.Node.IsDir() && r.Node.FileIndex == fi {
			return i
		}
	}
	return -1
}
