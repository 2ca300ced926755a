package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/stagehand/internal/diff"
	"github.com/marcus/stagehand/internal/git"
	"github.com/marcus/stagehand/internal/msg"
)

var (
	// ErrUntrusted rejects intents against a path whose last operation
	// failed, until a refresh has re-read the repository.
	ErrUntrusted = errors.New("waiting for refresh after a failed operation")
	// ErrReadOnly rejects staging intents in the commit viewer.
	ErrReadOnly = errors.New("commit view is read-only")
	// ErrNoHunk is returned for a hunk intent on a row without a hunk.
	ErrNoHunk = errors.New("no hunk under cursor")
)

type opKind int

const (
	opFile opKind = iota
	opHunk
	opBulk
)

type fileIntent struct {
	Path  string
	Stage bool
}

type hunkIntent struct {
	Path    string
	Hunk    int
	Patch   string
	Reverse bool
}

type bulkIntent struct {
	Stage bool
}

// pollMsg is the frame tick that drains the intent registers.
type pollMsg struct{}

// opDoneMsg reports the result of one git mutation.
type opDoneMsg struct {
	Kind opKind
	Path string
	Desc string
	Err  error
}

// entriesLoadedMsg carries a rebuilt staging list. Seq lets the receiver
// drop results of an older refresh.
type entriesLoadedMsg struct {
	Seq     uint64
	Entries []*StagingEntry
	Err     error
}

// StagingController turns staging intents into git operations. Intents only
// write a register; the frame poller dispatches them, and the local entry
// list changes only through a refresh after git confirms.
type StagingController struct {
	provider git.Provider
	ref      string
	log      *slog.Logger
	interval time.Duration

	fileReg register[fileIntent]
	hunkReg register[hunkIntent]
	bulkReg register[bulkIntent]

	mu        sync.Mutex
	untrusted map[string]bool
	seq       uint64
	loading   bool
	polling   bool
}

// NewStagingController returns a controller over provider. A non-empty ref
// that is neither git.RefWorktree nor git.RefIndex opens the read-only
// commit viewer for that commit.
func NewStagingController(provider git.Provider, ref string, interval time.Duration, log *slog.Logger) *StagingController {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &StagingController{
		provider:  provider,
		ref:       ref,
		log:       log,
		interval:  interval,
		untrusted: make(map[string]bool),
	}
}

// ReadOnly reports whether the controller shows a commit.
func (c *StagingController) ReadOnly() bool {
	return c.ref != git.RefWorktree && c.ref != git.RefIndex
}

// Ref returns the commit shown in read-only mode.
func (c *StagingController) Ref() string { return c.ref }

// Trusted reports whether intents against path are accepted.
func (c *StagingController) Trusted(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.untrusted[path]
}

func (c *StagingController) check(path string) error {
	if c.ReadOnly() {
		return ErrReadOnly
	}
	if path != "" && !c.Trusted(path) {
		return fmt.Errorf("%s: %w", path, ErrUntrusted)
	}
	return nil
}

// ToggleFileStaging signals a flip of the staged state of e.
func (c *StagingController) ToggleFileStaging(e *StagingEntry) (tea.Cmd, error) {
	if err := c.check(e.Path); err != nil {
		return nil, err
	}
	c.fileReg.Set(fileIntent{Path: e.Path, Stage: !e.IsStaged})
	return c.schedule(), nil
}

// ToggleHunkStaging signals applying hunk h of e to the index. A staged
// entry's hunk is applied in reverse, which unstages it.
func (c *StagingController) ToggleHunkStaging(e *StagingEntry, h int) (tea.Cmd, error) {
	if err := c.check(e.Path); err != nil {
		return nil, err
	}
	if e.Diff == nil || h < 0 || h >= len(e.Diff.Hunks) {
		return nil, ErrNoHunk
	}
	patch, err := e.Diff.HunkPatch(h)
	if err != nil {
		return nil, err
	}
	if err := diff.ValidatePatch(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Path, err)
	}
	c.hunkReg.Set(hunkIntent{Path: e.Path, Hunk: h, Patch: patch, Reverse: e.IsStaged})
	return c.schedule(), nil
}

// StageAll signals staging every change.
func (c *StagingController) StageAll() (tea.Cmd, error) {
	return c.bulk(true)
}

// UnstageAll signals emptying the index back to HEAD.
func (c *StagingController) UnstageAll() (tea.Cmd, error) {
	return c.bulk(false)
}

func (c *StagingController) bulk(stage bool) (tea.Cmd, error) {
	if err := c.check(""); err != nil {
		return nil, err
	}
	c.bulkReg.Set(bulkIntent{Stage: stage})
	return c.schedule(), nil
}

// Busy reports whether an intent is waiting or a git operation is running.
func (c *StagingController) Busy() bool {
	return c.fileReg.Pending() || c.fileReg.Busy() ||
		c.hunkReg.Pending() || c.hunkReg.Busy() ||
		c.bulkReg.Pending() || c.bulkReg.Busy()
}

// Loading reports whether the newest refresh has not come back yet.
func (c *StagingController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// schedule starts the frame poller unless it is already ticking.
func (c *StagingController) schedule() tea.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.polling {
		return nil
	}
	c.polling = true
	return c.tick()
}

func (c *StagingController) tick() tea.Cmd {
	return tea.Tick(c.interval, func(time.Time) tea.Msg { return pollMsg{} })
}

// Poll drains the registers once and returns the git operations to run,
// plus the next tick while anything is still outstanding.
func (c *StagingController) Poll() tea.Cmd {
	var cmds []tea.Cmd
	if in, ok := c.fileReg.Take(); ok {
		cmds = append(cmds, c.runFile(in))
	}
	if in, ok := c.hunkReg.Take(); ok {
		cmds = append(cmds, c.runHunk(in))
	}
	if in, ok := c.bulkReg.Take(); ok {
		cmds = append(cmds, c.runBulk(in))
	}

	c.mu.Lock()
	if c.Busy() {
		cmds = append(cmds, c.tick())
	} else {
		c.polling = false
	}
	c.mu.Unlock()
	return tea.Batch(cmds...)
}

func (c *StagingController) runFile(in fileIntent) tea.Cmd {
	return func() tea.Msg {
		op, call := "unstage", c.provider.UnstageFile
		if in.Stage {
			op, call = "stage", c.provider.StageFile
		}
		start := time.Now()
		err := call(context.Background(), in.Path)
		c.log.Debug("file staging", "op", op, "path", in.Path, "duration", time.Since(start), "err", err)
		return opDoneMsg{Kind: opFile, Path: in.Path, Desc: op + " " + in.Path, Err: err}
	}
}

func (c *StagingController) runHunk(in hunkIntent) tea.Cmd {
	return func() tea.Msg {
		op := "stage"
		if in.Reverse {
			op = "unstage"
		}
		start := time.Now()
		err := c.provider.ApplyPatchToIndex(context.Background(), in.Patch, in.Reverse)
		c.log.Debug("hunk staging", "op", op, "path", in.Path, "hunk", in.Hunk, "duration", time.Since(start), "err", err)
		desc := fmt.Sprintf("%s hunk %d of %s", op, in.Hunk+1, in.Path)
		return opDoneMsg{Kind: opHunk, Path: in.Path, Desc: desc, Err: err}
	}
}

func (c *StagingController) runBulk(in bulkIntent) tea.Cmd {
	return func() tea.Msg {
		op, call := "unstage all", c.provider.UnstageAll
		if in.Stage {
			op, call = "stage all", c.provider.StageAll
		}
		start := time.Now()
		err := call(context.Background())
		c.log.Debug("bulk staging", "op", op, "duration", time.Since(start), "err", err)
		return opDoneMsg{Kind: opBulk, Desc: op, Err: err}
	}
}

// Finish folds an operation result back in. Success re-reads the
// repository; failure marks the path untrusted and raises an error toast.
func (c *StagingController) Finish(m opDoneMsg) tea.Cmd {
	switch m.Kind {
	case opFile:
		c.fileReg.Done()
	case opHunk:
		c.hunkReg.Done()
	case opBulk:
		c.bulkReg.Done()
	}
	if m.Err == nil {
		return c.Refresh()
	}
	c.log.Warn("staging failed", "op", m.Desc, "path", m.Path, "err", m.Err)
	if m.Path != "" {
		c.mu.Lock()
		c.untrusted[m.Path] = true
		c.mu.Unlock()
	}
	return msg.ShowError(fmt.Sprintf("%s failed: %v", m.Desc, m.Err))
}

// Refresh discards the cached list and re-reads status and diffs.
func (c *StagingController) Refresh() tea.Cmd {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()

	return func() tea.Msg {
		start := time.Now()
		entries, err := c.load(context.Background())
		c.log.Debug("refresh", "entries", len(entries), "duration", time.Since(start), "err", err)
		return entriesLoadedMsg{Seq: seq, Entries: entries, Err: err}
	}
}

func (c *StagingController) load(ctx context.Context) ([]*StagingEntry, error) {
	if c.ReadOnly() {
		raw, err := c.provider.LoadDiff(ctx, c.ref, "")
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c.ref, err)
		}
		return commitEntries(parseLogged(c.log, raw)), nil
	}

	var (
		st                  *git.Status
		stagedRaw, worktree string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		st, err = c.provider.GetStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		worktree, err = c.provider.LoadDiff(gctx, git.RefWorktree, "")
		return err
	})
	g.Go(func() error {
		var err error
		stagedRaw, err = c.provider.LoadDiff(gctx, git.RefIndex, "")
		if err != nil {
			c.log.Debug("index diff unavailable", "err", err)
			stagedRaw = ""
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return buildEntries(st, parseLogged(c.log, stagedRaw), parseLogged(c.log, worktree)), nil
}

func parseLogged(log *slog.Logger, raw string) []*diff.File {
	files := diff.Parse(raw)
	for _, f := range files {
		if f.Anomalies > 0 {
			log.Debug("diff parse anomalies", "path", f.Path, "count", f.Anomalies)
		}
	}
	return files
}

// Loaded accepts a refresh result. It returns false for a stale or failed
// load, in which case the current list stays as it is.
func (c *StagingController) Loaded(m entriesLoadedMsg) (bool, tea.Cmd) {
	c.mu.Lock()
	stale := m.Seq != c.seq
	if !stale {
		c.loading = false
		if m.Err == nil {
			c.untrusted = make(map[string]bool)
		}
	}
	c.mu.Unlock()

	if stale {
		return false, nil
	}
	if m.Err != nil {
		c.log.Warn("refresh failed", "err", m.Err)
		return false, msg.ShowError(m.Err.Error())
	}
	return true, nil
}
