package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/msg"
	"github.com/marcus/stagehand/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		if m.showHelp {
			m.openHelp()
		}
		return m, m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})

	case tea.MouseMsg:
		if !m.cfg.UI.Mouse || m.showHelp {
			return m, nil
		}
		message.Y -= headerHeight
		if message.Y < 0 {
			return m, nil
		}
		return m, m.forward(message)

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		if message.IsError {
			m.log.Debug("error toast", "msg", message.Message)
		}
		return m, nil
	}

	return m, m.forward(message)
}

func (m *Model) forward(message tea.Msg) tea.Cmd {
	next, cmd := m.plugin.Update(message)
	m.plugin = next
	return cmd
}

// handleKeyMsg gives the plugin the first chance at a key, then applies
// the global shortcuts.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m.handleHelpKey(k)
	}

	if kh, ok := m.plugin.(plugin.KeyHandler); ok {
		res, cmd := kh.HandleKey(k)
		if res == plugin.Handled {
			return m, cmd
		}
	}

	switch {
	case m.keys.Matches(k, keymap.CmdQuit):
		m.plugin.Stop()
		return m, tea.Quit
	case m.keys.Matches(k, keymap.CmdHelp):
		m.openHelp()
		return m, nil
	}
	return m, nil
}

func (m Model) handleHelpKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case k.Type == tea.KeyCtrlC:
		m.plugin.Stop()
		return m, tea.Quit
	case k.Type == tea.KeyEsc, m.keys.Matches(k, keymap.CmdHelp), m.keys.Matches(k, keymap.CmdQuit):
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(k)
	return m, cmd
}
