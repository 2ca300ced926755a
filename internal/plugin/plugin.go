package plugin

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/stagehand/internal/config"
	"github.com/marcus/stagehand/internal/keymap"
)

// Plugin defines the interface for the views hosted by the app shell.
type Plugin interface {
	ID() string
	Name() string
	Init(ctx *Context) error
	Start() tea.Cmd
	Stop()
	Update(msg tea.Msg) (Plugin, tea.Cmd)
	View(width, height int) string
	IsFocused() bool
	SetFocused(bool)
}

// Context carries what a plugin needs from the host.
type Context struct {
	WorkDir string
	Config  *config.Config
	Keymap  *keymap.KeyMap
	Logger  *slog.Logger
}

// KeyResult tells the host whether a plugin consumed a key.
type KeyResult int

const (
	NotHandled KeyResult = iota
	Handled
)

// KeyHandler is implemented by plugins that report whether they consumed a
// key, so the host can fall through to its global shortcuts.
type KeyHandler interface {
	HandleKey(msg tea.KeyMsg) (KeyResult, tea.Cmd)
}

// StatusProvider is implemented by plugins that contribute to the host
// status bar.
type StatusProvider interface {
	StatusSummary() string
}

// FocusedMsg is sent to a plugin when it becomes the active plugin.
type FocusedMsg struct{}
