package gitstatus

import (
	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/keymap"
)

// diffPane holds what the right-hand pane shows: one file of the staging
// list in the current view mode, plus the cursor of that mode. Unified
// mode moves a line cursor; the other modes move between files and scroll
// the file's pair rows.
type diffPane struct {
	mode     ViewMode
	pageSize int

	entries   []*StagingEntry
	files     []*diff.File // entries with a loaded diff, in list order
	fileEntry []int        // entry index of files[i]
	tree      []diff.TreeRow
	treeOrder []int

	current int // index into files, -1 when nothing is shown
	shown   entryKey

	lines      *Navigator
	scroll     int // first pair row in side-by-side and split
	focused    int // hunk brought into view from the list, -1 once scrolled
	treeScroll int
	height     int
}

func newDiffPane(mode ViewMode, pageSize int) *diffPane {
	return &diffPane{
		mode:     mode,
		pageSize: pageSize,
		current:  -1,
		focused:  -1,
		lines:    NewNavigator(pageSize, false),
	}
}

// setEntries rebuilds the file lists from a new staging list. The shown
// file is re-resolved by the caller through show.
func (d *diffPane) setEntries(entries []*StagingEntry) {
	d.entries = entries
	d.files = d.files[:0]
	d.fileEntry = d.fileEntry[:0]
	for i, e := range entries {
		if e.Diff == nil {
			continue
		}
		d.files = append(d.files, e.Diff)
		d.fileEntry = append(d.fileEntry, i)
	}
	root := diff.BuildTree(d.files)
	d.tree = root.Flatten()
	d.treeOrder = root.FileOrder()
	if d.current >= len(d.files) {
		d.current = -1
	}
}

// file returns the shown file, or nil.
func (d *diffPane) file() *diff.File {
	if d.current < 0 || d.current >= len(d.files) {
		return nil
	}
	return d.files[d.current]
}

// fileOfEntry maps a staging list entry to its position in files.
func (d *diffPane) fileOfEntry(e int) int {
	for i, idx := range d.fileEntry {
		if idx == e {
			return i
		}
	}
	return -1
}

// entryIndex returns the staging list entry of the shown file, or -1.
func (d *diffPane) entryIndex() int {
	if d.current < 0 || d.current >= len(d.fileEntry) {
		return -1
	}
	return d.fileEntry[d.current]
}

// show switches to file fi. Cursor and scroll are kept when fi is the
// file already shown, which is the case after a refresh.
func (d *diffPane) show(fi int) {
	if fi < 0 || fi >= len(d.files) {
		d.current = -1
		d.shown = entryKey{}
		d.resetCursor()
		d.lines.SetLen(0)
		return
	}
	key := d.entries[d.fileEntry[fi]].key()
	d.current = fi
	d.lines.SetLen(rowCount(d.files[fi], ModeUnified))
	if key != d.shown {
		d.shown = key
		d.resetCursor()
	}
	d.clampScroll()
}

func (d *diffPane) resetCursor() {
	d.lines.Home()
	d.lines.ScrollTo(0)
	d.scroll = 0
	d.focused = -1
}

func (d *diffPane) setMode(m ViewMode) {
	d.mode = m
	d.resetCursor()
}

// setHeight records how many content rows the last frame had.
func (d *diffPane) setHeight(h int) {
	d.height = max(h, 1)
	d.lines.SetHeight(d.height)
	d.clampScroll()
}

func (d *diffPane) clampScroll() {
	n := rowCount(d.file(), d.mode)
	d.scroll = min(d.scroll, max(n-d.visibleRows(), 0))
	d.scroll = max(d.scroll, 0)
}

// visibleRows is how many pair rows one frame shows. Split stacks two
// halves under a divider row.
func (d *diffPane) visibleRows() int {
	if d.mode == ModeSplit {
		return max((d.height-1)/2, 1)
	}
	return max(d.height, 1)
}

// focusHunk brings the marker of hunk h of the shown file to the top, or as
// close to it as the last page allows.
func (d *diffPane) focusHunk(h int) {
	f := d.file()
	if f == nil || f.ShowsPanel() {
		return
	}
	idx := f.HunkLineIndex(h)
	if idx < 0 {
		return
	}
	if d.mode == ModeUnified {
		d.lines.Select(idx)
		d.lines.ScrollTo(idx)
		return
	}
	for i, p := range diff.Align(f.Lines) {
		if p.Span == &f.Lines[idx] {
			d.scroll = i
			d.focused = h
			break
		}
	}
	d.clampScroll()
}

// scrollBy moves the view of the shown file without changing files.
func (d *diffPane) scrollBy(delta int) {
	if d.mode == ModeUnified {
		d.lines.ScrollBy(delta)
		return
	}
	if d.mode == ModeFileTree {
		d.treeScroll = max(d.treeScroll+delta, 0)
		return
	}
	d.scroll += delta
	d.focused = -1
	d.clampScroll()
}

// navigate applies a cursor command to the pane and reports whether the
// shown file changed.
func (d *diffPane) navigate(cmd string) bool {
	switch d.mode {
	case ModeUnified:
		applyNav(d.lines, cmd)
		return false
	case ModeFileTree:
		return d.moveFile(cmd, true)
	default:
		switch cmd {
		case keymap.CmdPageDown:
			d.scrollBy(d.pageSize)
			return false
		case keymap.CmdPageUp:
			d.scrollBy(-d.pageSize)
			return false
		}
		return d.moveFile(cmd, false)
	}
}

// order lists file indexes in the order the current mode walks them.
func (d *diffPane) order() []int {
	if d.mode == ModeFileTree {
		return d.treeOrder
	}
	order := make([]int, len(d.files))
	for i := range order {
		order[i] = i
	}
	return order
}

func (d *diffPane) moveFile(cmd string, wrap bool) bool {
	order := d.order()
	if len(order) == 0 {
		return false
	}
	nav := NewNavigator(d.pageSize, wrap)
	nav.SetLen(len(order))
	for pos, fi := range order {
		if fi == d.current {
			nav.Select(pos)
			break
		}
	}
	applyNav(nav, cmd)
	next := order[nav.Cursor()]
	if next == d.current {
		return false
	}
	d.show(next)
	return true
}

// hunk returns the index of the hunk at the pane's cursor (unified), or in
// pair modes the hunk focused from the list or else the one at the top of
// the view. It returns -1 when there is none.
func (d *diffPane) hunk() int {
	f := d.file()
	if f == nil || f.ShowsPanel() {
		return -1
	}
	if d.mode == ModeUnified {
		return f.HunkAt(d.lines.Cursor())
	}
	if d.focused >= 0 {
		return d.focused
	}
	h := -1
	for i, p := range diff.Align(f.Lines) {
		if i > d.scroll {
			break
		}
		if p.Span != nil && p.Span.Kind == diff.LineHunkMarker {
			h++
		}
	}
	return h
}

// followTree keeps the tree row of the shown file inside the window.
func (d *diffPane) followTree(height int) int {
	row := treeIndex(d.tree, d.current)
	if row >= 0 {
		if row < d.treeScroll {
			d.treeScroll = row
		}
		if row >= d.treeScroll+height {
			d.treeScroll = row - height + 1
		}
	}
	d.treeScroll = max(min(d.treeScroll, len(d.tree)-height), 0)
	return d.treeScroll
}

// applyNav maps a cursor command onto nav.
func applyNav(nav *Navigator, cmd string) bool {
	switch cmd {
	case keymap.CmdCursorDown:
		nav.Down()
	case keymap.CmdCursorUp:
		nav.Up()
	case keymap.CmdPageDown:
		nav.PageDown()
	case keymap.CmdPageUp:
		nav.PageUp()
	case keymap.CmdCursorTop:
		nav.Home()
	case keymap.CmdCursorBottom:
		nav.End()
	default:
		return false
	}
	return true
}
