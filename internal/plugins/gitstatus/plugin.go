package gitstatus

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/git"
	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/mouse"
	"github.com/marcus/stagehand/internal/plugin"
	"github.com/marcus/stagehand/internal/state"
)

const (
	pluginID   = "git-status"
	pluginName = "git"
)

// FocusPane represents which pane is active in the two-pane view.
type FocusPane int

const (
	PaneList FocusPane = iota
	PaneDiff
)

// watchEventMsg is sent when the repository changed on disk.
type watchEventMsg struct{}

// Plugin is the viewer shell: a staging list on the left and the diff of
// the selected file on the right.
type Plugin struct {
	ctx      *plugin.Context
	provider git.Provider
	ref      string
	log      *slog.Logger
	keys     *keymap.KeyMap
	pageSize int

	ctrl     *StagingController
	list     *StagingList
	renderer *Renderer
	pane     *diffPane

	focused      bool
	activePane   FocusPane
	width        int
	height       int
	sidebarWidth int

	watcher  *git.Watcher
	spinner  spinner.Model
	spinning bool

	mouseHandler *mouse.Handler
}

// New creates the viewer over provider. ref selects what is shown: the
// work tree and index (git.RefWorktree) or a single commit, read-only.
func New(provider git.Provider, ref string) *Plugin {
	return &Plugin{
		provider:     provider,
		ref:          ref,
		activePane:   PaneList,
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		mouseHandler: mouse.NewHandler(),
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.Default()
	}
	p.log = ctx.Logger
	if p.log == nil {
		p.log = slog.Default()
	}
	p.keys = ctx.Keymap
	if p.keys == nil {
		p.keys = keymap.New(cfg.Keymap.Overrides)
	}

	p.pageSize = cfg.Diff.PageSize
	if p.pageSize <= 0 {
		p.pageSize = DefaultPageSize
	}
	p.ctrl = NewStagingController(p.provider, p.ref, cfg.UI.FrameInterval, p.log)
	p.list = NewStagingList(p.pageSize)
	p.renderer = NewRenderer(cfg.Diff)

	mode, ok := ParseViewMode(state.GetDiffMode())
	if !ok {
		mode, _ = ParseViewMode(cfg.Diff.DefaultMode)
	}
	p.pane = newDiffPane(mode, p.pageSize)

	p.sidebarWidth = cfg.UI.SidebarWidth
	if saved := state.GetSidebarWidth(); saved > 0 {
		p.sidebarWidth = saved
	}
	return nil
}

// Start loads the repository and starts watching it.
func (p *Plugin) Start() tea.Cmd {
	return tea.Batch(p.refresh(), p.startWatcher())
}

// Stop cleans up plugin resources.
func (p *Plugin) Stop() {
	if p.watcher != nil {
		_ = p.watcher.Close()
		p.watcher = nil
	}
}

// Update handles messages.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case tea.KeyMsg:
		_, cmd := p.HandleKey(m)
		return p, cmd

	case tea.MouseMsg:
		return p, p.handleMouse(m)

	case tea.WindowSizeMsg:
		p.width, p.height = m.Width, m.Height

	case pollMsg:
		return p, p.ctrl.Poll()

	case opDoneMsg:
		return p, p.ctrl.Finish(m)

	case entriesLoadedMsg:
		ok, cmd := p.ctrl.Loaded(m)
		if ok {
			p.applyEntries(m.Entries)
		}
		return p, cmd

	case watchEventMsg:
		return p, tea.Batch(p.refresh(), p.listenForWatchEvents())

	case plugin.FocusedMsg:
		return p, p.refresh()

	case spinner.TickMsg:
		if !p.busy() {
			p.spinning = false
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(m)
		return p, cmd
	}
	return p, nil
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// StatusSummary implements plugin.StatusProvider.
func (p *Plugin) StatusSummary() string {
	return p.Summary().String()
}

func (p *Plugin) busy() bool {
	return p.ctrl.Busy() || p.ctrl.Loading()
}

// startSpinner starts the activity spinner unless it is already running.
func (p *Plugin) startSpinner() tea.Cmd {
	if p.spinning {
		return nil
	}
	p.spinning = true
	return p.spinner.Tick
}

func (p *Plugin) refresh() tea.Cmd {
	return tea.Batch(p.ctrl.Refresh(), p.startSpinner())
}

// applyEntries installs a freshly loaded list, keeping expand state and the
// selection where the same files are still present.
func (p *Plugin) applyEntries(entries []*StagingEntry) {
	carryExpanded(p.list.Entries(), entries)
	p.list.SetEntries(entries)
	p.pane.setEntries(entries)
	p.syncPaneToList()
}

// syncPaneToList shows the file under the list cursor in the diff pane and
// brings a selected hunk into view.
func (p *Plugin) syncPaneToList() {
	r, ok := p.list.Current()
	if !ok {
		p.pane.show(-1)
		return
	}
	p.pane.show(p.pane.fileOfEntry(r.File))
	if r.Kind == RowHunk {
		p.pane.focusHunk(r.Hunk)
	}
}

// syncListToPane moves the list cursor to the file shown in the diff pane.
func (p *Plugin) syncListToPane() {
	if e := p.pane.entryIndex(); e >= 0 {
		p.list.SelectEntry(e)
	}
}

func (p *Plugin) startWatcher() tea.Cmd {
	if p.ctx == nil || p.ctx.Config == nil || !p.ctx.Config.Git.Watch {
		return nil
	}
	if p.ctrl.ReadOnly() || p.ctx.WorkDir == "" {
		return nil
	}
	w, err := git.NewWatcher(p.ctx.WorkDir, p.ctx.Config.Git.WatchDebounce)
	if err != nil {
		p.log.Warn("file watcher unavailable", "dir", p.ctx.WorkDir, "err", err)
		return nil
	}
	p.watcher = w
	return p.listenForWatchEvents()
}

// listenForWatchEvents waits for the next debounced repository change.
func (p *Plugin) listenForWatchEvents() tea.Cmd {
	w := p.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

// setMode switches the diff pane layout and remembers it for next start.
func (p *Plugin) setMode(m ViewMode) {
	if m == p.pane.mode {
		return
	}
	p.pane.setMode(m)
	if r, ok := p.list.Current(); ok && r.Kind == RowHunk {
		p.pane.focusHunk(r.Hunk)
	}
	if err := state.SetDiffMode(m.String()); err != nil {
		p.log.Debug("save diff mode", "err", err)
	}
}
