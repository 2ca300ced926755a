package gitstatus

// RowKind tags a navigation row.
type RowKind int

const (
	RowFile RowKind = iota
	RowHunk
)

// Row is one selectable line of the staging list: a file, or one hunk of an
// expanded file. File indexes the entry list; Hunk is only meaningful for
// RowHunk.
type Row struct {
	Kind RowKind
	File int
	Hunk int
}

// FileRow returns the row of entry i.
func FileRow(i int) Row { return Row{Kind: RowFile, File: i} }

// HunkRow returns the row of hunk h of entry f.
func HunkRow(f, h int) Row { return Row{Kind: RowHunk, File: f, Hunk: h} }

// BuildRows lists one row per entry followed by one row per hunk of each
// expanded entry.
func BuildRows(entries []*StagingEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, FileRow(i))
		if !e.Expanded {
			continue
		}
		for h := range e.Hunks() {
			rows = append(rows, HunkRow(i, h))
		}
	}
	return rows
}

// DefaultPageSize is the number of rows PageUp/PageDown move.
const DefaultPageSize = 10

// Navigator is a cursor and scroll offset over a list of n rows. The list
// can change size at any time; every mutation re-clamps the cursor and
// keeps it inside the visible window.
type Navigator struct {
	n        int
	cursor   int
	scroll   int
	height   int
	pageSize int
	wrap     bool
}

// NewNavigator returns a navigator that moves pageSize rows per page and,
// when wrap is set, wraps around at either end on Up/Down.
func NewNavigator(pageSize int, wrap bool) *Navigator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Navigator{pageSize: pageSize, wrap: wrap, height: 1}
}

// SetLen changes the number of rows.
func (n *Navigator) SetLen(count int) {
	n.n = max(count, 0)
	n.clamp()
}

// SetHeight sets how many rows fit on screen.
func (n *Navigator) SetHeight(h int) {
	n.height = max(h, 1)
	n.clamp()
}

func (n *Navigator) Len() int    { return n.n }
func (n *Navigator) Cursor() int { return n.cursor }
func (n *Navigator) Scroll() int { return n.scroll }
func (n *Navigator) Height() int { return n.height }

// Visible returns the half-open range of rows on screen.
func (n *Navigator) Visible() (from, to int) {
	return n.scroll, min(n.scroll+n.height, n.n)
}

func (n *Navigator) Up() {
	switch {
	case n.n == 0:
	case n.cursor > 0:
		n.cursor--
	case n.wrap:
		n.cursor = n.n - 1
	}
	n.clamp()
}

func (n *Navigator) Down() {
	switch {
	case n.n == 0:
	case n.cursor < n.n-1:
		n.cursor++
	case n.wrap:
		n.cursor = 0
	}
	n.clamp()
}

func (n *Navigator) PageUp() {
	n.cursor -= n.pageSize
	n.clamp()
}

func (n *Navigator) PageDown() {
	n.cursor += n.pageSize
	n.clamp()
}

func (n *Navigator) Home() {
	n.cursor = 0
	n.clamp()
}

func (n *Navigator) End() {
	n.cursor = n.n - 1
	n.clamp()
}

// Select moves the cursor to i.
func (n *Navigator) Select(i int) {
	n.cursor = i
	n.clamp()
}

// ScrollTo puts row i at the top of the window where possible, without
// moving the cursor out of view.
func (n *Navigator) ScrollTo(i int) {
	n.scroll = i
	n.clampScroll()
}

// ScrollBy moves the window by delta rows and drags the cursor along when it
// would leave the window.
func (n *Navigator) ScrollBy(delta int) {
	n.scroll += delta
	n.clampScroll()
	if n.cursor < n.scroll {
		n.cursor = n.scroll
	}
	if last := n.scroll + n.height - 1; n.cursor > last {
		n.cursor = last
	}
	n.clamp()
}

func (n *Navigator) clamp() {
	if n.n == 0 {
		n.cursor, n.scroll = 0, 0
		return
	}
	n.cursor = min(max(n.cursor, 0), n.n-1)
	if n.cursor < n.scroll {
		n.scroll = n.cursor
	}
	if n.cursor >= n.scroll+n.height {
		n.scroll = n.cursor - n.height + 1
	}
	n.clampScroll()
}

func (n *Navigator) clampScroll() {
	n.scroll = min(n.scroll, max(n.n-n.height, 0))
	n.scroll = max(n.scroll, 0)
}

// StagingList pairs the entry list with its visible rows and a non-wrapping
// cursor over them.
type StagingList struct {
	entries []*StagingEntry
	rows    []Row
	nav     *Navigator
}

// NewStagingList returns an empty list.
func NewStagingList(pageSize int) *StagingList {
	return &StagingList{nav: NewNavigator(pageSize, false)}
}

// SetEntries replaces the entry list. The cursor stays on the same file (or
// hunk) when it still exists, otherwise it is clamped.
func (l *StagingList) SetEntries(entries []*StagingEntry) {
	var prev *Row
	var prevKey entryKey
	if r, ok := l.Current(); ok {
		prev = &r
		prevKey = l.entries[r.File].key()
	}
	l.entries = entries
	l.rebuild()
	if prev == nil {
		return
	}
	for i, e := range entries {
		if e.key() != prevKey {
			continue
		}
		target := FileRow(i)
		if prev.Kind == RowHunk && e.Expanded && prev.Hunk < len(e.Hunks()) {
			target = HunkRow(i, prev.Hunk)
		}
		l.nav.Select(l.IndexOf(target))
		return
	}
}

func (l *StagingList) rebuild() {
	l.rows = BuildRows(l.entries)
	l.nav.SetLen(len(l.rows))
}

func (l *StagingList) Entries() []*StagingEntry { return l.entries }
func (l *StagingList) Rows() []Row              { return l.rows }
func (l *StagingList) Nav() *Navigator          { return l.nav }

// Current returns the row under the cursor.
func (l *StagingList) Current() (Row, bool) {
	if len(l.rows) == 0 {
		return Row{}, false
	}
	return l.rows[l.nav.Cursor()], true
}

// CurrentEntry returns the entry owning the row under the cursor.
func (l *StagingList) CurrentEntry() (*StagingEntry, bool) {
	r, ok := l.Current()
	if !ok {
		return nil, false
	}
	return l.entries[r.File], true
}

// IndexOf returns the position of r in the visible rows, or -1.
func (l *StagingList) IndexOf(r Row) int {
	for i, row := range l.rows {
		if row == r {
			return i
		}
	}
	return -1
}

// ToggleExpand applies Enter to the row under the cursor. On a file row it
// flips the expand flag when the file has parsed hunks. On a hunk row it
// collapses the owning file and moves the cursor to it. It reports whether
// the row list changed.
func (l *StagingList) ToggleExpand() bool {
	r, ok := l.Current()
	if !ok {
		return false
	}
	e := l.entries[r.File]
	switch r.Kind {
	case RowHunk:
		e.Expanded = false
	case RowFile:
		if len(e.Hunks()) == 0 {
			return false
		}
		e.Expanded = !e.Expanded
	}
	l.rebuild()
	l.nav.Select(l.IndexOf(FileRow(r.File)))
	return true
}

// SelectEntry moves the cursor to the file row of entry i.
func (l *StagingList) SelectEntry(i int) {
	if idx := l.IndexOf(FileRow(i)); idx >= 0 {
		l.nav.Select(idx)
	}
}
