package app

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/plugin"
)

const (
	headerHeight = 1
	footerHeight = 1
)

// Model is the root Bubble Tea model. It hosts a single plugin, the viewer,
// and owns the header, footer, toasts and the help overlay.
type Model struct {
	cfg    *config.Config
	keys   *keymap.KeyMap
	plugin plugin.Plugin
	log    *slog.Logger

	width, height int
	ready         bool
	showFooter    bool

	showHelp  bool
	help      viewport.Model
	helpStyle string

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	repoName string
	version  string
}

// New creates the application model around p.
func New(p plugin.Plugin, keys *keymap.KeyMap, cfg *config.Config, workDir, version string, log *slog.Logger) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return Model{
		cfg:        cfg,
		keys:       keys,
		plugin:     p,
		log:        log,
		showFooter: cfg.UI.ShowFooter,
		helpStyle:  "dark",
		repoName:   filepath.Base(workDir),
		version:    version,
	}
}

// Init starts the plugin and the clock.
func (m Model) Init() tea.Cmd {
	m.plugin.SetFocused(true)
	return tea.Batch(tickCmd(), m.plugin.Start())
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// contentHeight is the number of rows left for the plugin.
func (m Model) contentHeight() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	return max(h, 0)
}
