package gitstatus

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/git"
)

const worktreeDiff = `diff --git a/a.txt b/a.txt
index 1111111..2222222 100644
--- a/a.txt
+++ b/a.txt
@@ -1,2 +1,3 @@
 one
+two
 three
@@ -10,2 +11,2 @@ section
 ten
-eleven
+ELEVEN
`

const indexDiff = `diff --git a/b.txt b/b.txt
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/b.txt
@@ -0,0 +1,2 @@
+alpha
+beta
`

const commitDiff = `diff --git a/img.png b/img.png
index 1111111..2222222 100644
Binary files a/img.png and b/img.png differ
diff --git a/src/main.go b/src/main.go
index 1111111..2222222 100644
--- a/src/main.go
+++ b/src/main.go
@@ -1,3 +1,4 @@
 package main
+
 func main() {
 }
`

// fakeProvider is an in-memory git.Provider that records every mutation.
type fakeProvider struct {
	mu       sync.Mutex
	status   *git.Status
	worktree string
	index    string
	commits  map[string]string
	calls    []string
	fail     error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		status: &git.Status{
			Staged:    []git.FileStatus{{Path: "b.txt", ChangeType: git.ChangeAdded, Additions: 2}},
			Unstaged:  []git.FileStatus{{Path: "a.txt", ChangeType: git.ChangeModified, Additions: 2, Deletions: 1}},
			Untracked: []git.FileStatus{{Path: "new.txt", ChangeType: git.ChangeUntracked}},
		},
		worktree: worktreeDiff,
		index:    indexDiff,
		commits:  map[string]string{"abc123": commitDiff},
	}
}

func (f *fakeProvider) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	err := f.fail
	f.fail = nil
	return err
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) FailNext(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeProvider) LoadDiff(_ context.Context, ref, _ string) (string, error) {
	switch ref {
	case git.RefWorktree:
		return f.worktree, nil
	case git.RefIndex:
		return f.index, nil
	}
	if d, ok := f.commits[ref]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown revision %q", ref)
}

func (f *fakeProvider) GetStatus(context.Context) (*git.Status, error) {
	return f.status, nil
}

func (f *fakeProvider) StageFile(_ context.Context, path string) error {
	return f.record("stage " + path)
}

func (f *fakeProvider) UnstageFile(_ context.Context, path string) error {
	return f.record("unstage " + path)
}

func (f *fakeProvider) ApplyPatchToIndex(_ context.Context, patch string, reverse bool) error {
	files := diff.Parse(patch)
	path := ""
	if len(files) > 0 {
		path = files[0].Path
	}
	return f.record(fmt.Sprintf("apply %s reverse=%v", path, reverse))
}

func (f *fakeProvider) StageAll(context.Context) error   { return f.record("stage-all") }
func (f *fakeProvider) UnstageAll(context.Context) error { return f.record("unstage-all") }

var _ git.Provider = (*fakeProvider)(nil)

// collect runs cmd and every command it batches, returning the messages
// that are not frame ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	switch m := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range m {
			out = append(out, collect(c)...)
		}
	case pollMsg:
	case nil:
	default:
		out = append(out, m)
	}
	return out
}

func newTestController(p git.Provider, ref string) *StagingController {
	return NewStagingController(p, ref, time.Millisecond, nil)
}
