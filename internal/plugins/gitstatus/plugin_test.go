package gitstatus

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/git"
	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/msg"
	"github.com/marcus/stagehand/internal/plugin"
	"github.com/marcus/stagehand/internal/state"
)

func newTestPlugin(t *testing.T, fp *fakeProvider, ref string) *Plugin {
	t.Helper()
	require.NoError(t, state.Load())

	cfg := config.Default()
	cfg.UI.FrameInterval = time.Millisecond
	cfg.Diff.Highlight = false
	cfg.Git.Watch = false

	p := New(fp, ref)
	require.NoError(t, p.Init(&plugin.Context{Config: cfg, Keymap: keymap.New(nil)}))
	drive(t, p, p.Start())
	return p
}

// drive runs cmd, feeds the plugin's own messages back into it until
// nothing is left, and returns every other message.
func drive(t *testing.T, p *Plugin, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "plugin did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, m...)
		case pollMsg, opDoneMsg, entriesLoadedMsg:
			_, next := p.Update(m)
			queue = append(queue, next)
		default:
			out = append(out, m)
		}
	}
	return out
}

func press(t *testing.T, p *Plugin, keys ...string) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for _, k := range keys {
		var km tea.KeyMsg
		switch k {
		case "enter":
			km = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			km = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			km = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			km = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		res, cmd := p.HandleKey(km)
		require.Equal(t, plugin.Handled, res, "key %q", k)
		out = append(out, drive(t, p, cmd)...)
	}
	return out
}

func toasts(msgs []tea.Msg) []msg.ToastMsg {
	var out []msg.ToastMsg
	for _, m := range msgs {
		if tm, ok := m.(msg.ToastMsg); ok {
			out = append(out, tm)
		}
	}
	return out
}

func TestPlugin_StartLoadsEntries(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)

	require.Len(t, p.list.Entries(), 3)
	require.NotNil(t, p.pane.file())
	assert.Equal(t, "b.txt", p.pane.file().Path, "diff pane follows the list cursor")
	assert.Equal(t, "1/3 staged · unified · hunk 0/1", p.StatusSummary())
}

func TestPlugin_SummaryCountsPartiallyStagedFileOnce(t *testing.T) {
	fp := newFakeProvider()
	fp.status.Staged = append(fp.status.Staged, git.FileStatus{Path: "a.txt", ChangeType: git.ChangeModified, Additions: 1})
	p := newTestPlugin(t, fp, git.RefWorktree)

	require.Len(t, p.list.Entries(), 4)
	s := p.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Staged)
	assert.True(t, strings.HasPrefix(p.StatusSummary(), "2/3 staged"))
}

func TestPlugin_ExpandAndFocusHunk(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)

	press(t, p, "j", "enter")
	require.Len(t, p.list.Rows(), 5)

	press(t, p, "j", "j")
	r, _ := p.list.Current()
	assert.Equal(t, HunkRow(1, 1), r)
	f := p.pane.file()
	require.NotNil(t, f)
	assert.Equal(t, "a.txt", f.Path)
	assert.Equal(t, f.HunkLineIndex(1), p.pane.lines.Cursor(), "unified cursor sits on the hunk marker")

	s := p.Summary()
	assert.Equal(t, 2, s.Hunk)
	assert.Equal(t, 2, s.Hunks)

	press(t, p, "enter")
	r, _ = p.list.Current()
	assert.Equal(t, FileRow(1), r, "collapsing a hunk row returns to its file")
	assert.Len(t, p.list.Rows(), 3)
}

func TestPlugin_ModeKeys(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)

	var seen []ViewMode
	for i := 0; i < 3; i++ {
		press(t, p, "v")
		seen = append(seen, p.pane.mode)
	}
	assert.Equal(t, []ViewMode{ModeSideBySide, ModeFileTree, ModeUnified}, seen)

	press(t, p, "4")
	assert.Equal(t, ModeSplit, p.pane.mode)
	assert.Equal(t, config.ModeSplit, state.GetDiffMode(), "mode is remembered")
}

func TestPlugin_ModeSwitchResetsScroll(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)
	press(t, p, "j", "tab")
	p.pane.setHeight(2)
	press(t, p, "G")
	require.Positive(t, p.pane.lines.Scroll())

	press(t, p, "2")
	assert.Zero(t, p.pane.scroll)
	press(t, p, "1")
	assert.Zero(t, p.pane.lines.Scroll())
	assert.Zero(t, p.pane.lines.Cursor())
}

func TestDiffPane_PairScrollStopsAtLastPage(t *testing.T) {
	var b strings.Builder
	b.WriteString("diff --git a/x.txt b/x.txt\n--- a/x.txt\n+++ b/x.txt\n@@ -1,12 +1,12 @@\n")
	for i := 0; i < 12; i++ {
		b.WriteString(" line\n")
	}
	b.WriteString("@@ -20 +20 @@\n-old\n+new\n")
	f := diff.ParseFile(b.String())
	require.NotNil(t, f)

	for _, tc := range []struct {
		mode    ViewMode
		visible int
	}{
		{ModeSideBySide, 6},
		{ModeSplit, 2},
	} {
		d := newDiffPane(tc.mode, 10)
		d.setEntries([]*StagingEntry{{Path: "x.txt", Diff: f}})
		d.show(0)
		d.setHeight(6)
		n := rowCount(f, tc.mode)

		d.scrollBy(100)
		assert.Equal(t, n-tc.visible, d.scroll, "%v stops with a full last page", tc.mode)
		d.scrollBy(-100)
		assert.Zero(t, d.scroll)

		d.focusHunk(1)
		assert.Equal(t, n-tc.visible, d.scroll, "%v", tc.mode)
		assert.Equal(t, 1, d.hunk(), "%v keeps the focused hunk", tc.mode)
	}
}

func TestPlugin_KeysLeftToHost(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)
	for _, k := range []string{"q", "?", "x"} {
		res, cmd := p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		assert.Equal(t, plugin.NotHandled, res, "key %q", k)
		assert.Nil(t, cmd)
	}
}

func TestPlugin_StageHunk(t *testing.T) {
	fp := newFakeProvider()
	p := newTestPlugin(t, fp, git.RefWorktree)

	press(t, p, "j", "enter", "j", " ")
	assert.Equal(t, []string{"apply a.txt reverse=false"}, fp.Calls())
	assert.False(t, p.busy())
}

func TestPlugin_StageFailureShowsError(t *testing.T) {
	fp := newFakeProvider()
	p := newTestPlugin(t, fp, git.RefWorktree)
	fp.FailNext(errors.New("index.lock exists"))

	out := press(t, p, "j", "s")
	ts := toasts(out)
	require.Len(t, ts, 1)
	assert.True(t, ts[0].IsError)
	assert.Contains(t, ts[0].Message, "index.lock")
	assert.False(t, p.ctrl.Trusted("a.txt"))
	assert.Contains(t, p.View(100, 20), "!", "untrusted entry is flagged")
}

func TestPlugin_ReadOnlyRejectsStaging(t *testing.T) {
	fp := newFakeProvider()
	p := newTestPlugin(t, fp, "abc123")

	out := press(t, p, " ")
	ts := toasts(out)
	require.Len(t, ts, 1)
	assert.True(t, ts[0].IsError)
	assert.Contains(t, ts[0].Message, "read-only")
	assert.Empty(t, fp.Calls())
	assert.True(t, strings.HasPrefix(p.StatusSummary(), "read-only abc123"))
}

func TestPlugin_FileTreeWraps(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), "abc123")
	press(t, p, "3", "tab")
	require.Len(t, p.pane.files, 2)

	start := p.pane.current
	press(t, p, "j")
	assert.NotEqual(t, start, p.pane.current)
	e, _ := p.list.CurrentEntry()
	assert.Equal(t, p.pane.file().Path, e.Path, "list follows the tree")

	press(t, p, "j")
	assert.Equal(t, start, p.pane.current, "file tree wraps around")
	press(t, p, "k")
	assert.NotEqual(t, start, p.pane.current)
}

func TestPlugin_Yank(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)
	press(t, p, "j")
	out := press(t, p, "y")
	assert.Equal(t, "a.txt", copied, "file row yanks the path")
	require.Len(t, toasts(out), 1)

	press(t, p, "enter", "j")
	out = press(t, p, "y")
	assert.Contains(t, copied, "--- a/a.txt")
	assert.Contains(t, copied, "@@ -1,2 +1,3 @@")
	assert.NotContains(t, copied, "@@ -10,2 +11,2 @@")
	assert.Equal(t, "Yanked: hunk 1 of a.txt", toasts(out)[0].Message)

	press(t, p, "Y")
	assert.Equal(t, "a.txt", copied)
}

func TestPlugin_View(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)

	out := p.View(100, 24)
	assertFits(t, out, 100, 24)
	assert.Contains(t, out, "Staged (1)")
	assert.Contains(t, out, "Changes (2)")
	assert.Contains(t, out, "new.txt")
	assert.Contains(t, out, "[unified]")

	for _, mode := range []string{"2", "3", "4"} {
		press(t, p, mode)
		assertFits(t, p.View(100, 24), 100, 24)
	}
	assertFits(t, p.View(30, 8), 30, 8)
	assert.Empty(t, p.View(0, 10))
}

func TestPlugin_MouseSelectsRow(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)
	p.View(100, 24)

	// row 3 is the "Staged" header, row 5 the "Changes" header
	click := tea.MouseMsg{X: 5, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	p.Update(click)
	r, _ := p.list.Current()
	assert.Equal(t, FileRow(1), r)
	assert.Equal(t, "a.txt", p.pane.file().Path)

	p.View(100, 24)
	p.Update(tea.MouseMsg{X: 80, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, PaneDiff, p.activePane)
}

func TestPlugin_DividerDrag(t *testing.T) {
	p := newTestPlugin(t, newFakeProvider(), git.RefWorktree)
	p.View(120, 24)
	edge := clampSidebar(p.sidebarWidth, 120) + 2

	p.Update(tea.MouseMsg{X: edge, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	p.Update(tea.MouseMsg{X: edge + 6, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	p.Update(tea.MouseMsg{X: edge + 6, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, 46, p.sidebarWidth)
	assert.Equal(t, 46, state.GetSidebarWidth())
}

func TestClampSidebar(t *testing.T) {
	assert.Equal(t, minSidebarWidth, clampSidebar(5, 200))
	assert.Equal(t, 200-chromeWidth-minDiffWidth, clampSidebar(500, 200))
	assert.Equal(t, 40, clampSidebar(40, 120))
	assert.Equal(t, (50-chromeWidth)/3, clampSidebar(40, 50))
}
