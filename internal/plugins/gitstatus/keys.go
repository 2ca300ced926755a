package gitstatus

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/keymap"
	"github.com/marcus/stagehand/internal/msg"
	"github.com/marcus/stagehand/internal/plugin"
)

// HandleKey implements plugin.KeyHandler. Help and quit are left to the
// host, as is any key without a binding.
func (p *Plugin) HandleKey(m tea.KeyMsg) (plugin.KeyResult, tea.Cmd) {
	cmd, ok := p.keys.Lookup(m, keymap.ContextList)
	if !ok {
		return plugin.NotHandled, nil
	}

	switch cmd {
	case keymap.CmdHelp, keymap.CmdQuit:
		return plugin.NotHandled, nil

	case keymap.CmdCursorDown, keymap.CmdCursorUp,
		keymap.CmdPageDown, keymap.CmdPageUp,
		keymap.CmdCursorTop, keymap.CmdCursorBottom:
		p.navigate(cmd)

	case keymap.CmdToggleExpand:
		if p.list.ToggleExpand() {
			p.syncPaneToList()
		}

	case keymap.CmdToggleStage:
		return plugin.Handled, p.toggleStage()

	case keymap.CmdStageAll:
		return plugin.Handled, p.intent(p.ctrl.StageAll())

	case keymap.CmdUnstageAll:
		return plugin.Handled, p.intent(p.ctrl.UnstageAll())

	case keymap.CmdCycleMode:
		p.setMode(p.pane.mode.Next())
	case keymap.CmdUnified:
		p.setMode(ModeUnified)
	case keymap.CmdSideBySide:
		p.setMode(ModeSideBySide)
	case keymap.CmdFileTree:
		p.setMode(ModeFileTree)
	case keymap.CmdSplit:
		p.setMode(ModeSplit)

	case keymap.CmdSwitchPane:
		if p.activePane == PaneList {
			p.activePane = PaneDiff
		} else {
			p.activePane = PaneList
		}

	case keymap.CmdRefresh:
		return plugin.Handled, p.refresh()

	case keymap.CmdYankPatch:
		return plugin.Handled, p.yankPatch()

	case keymap.CmdYankPath:
		return plugin.Handled, p.yankPath()

	default:
		return plugin.NotHandled, nil
	}
	return plugin.Handled, nil
}

// navigate moves the cursor of the focused pane and keeps the other pane
// pointing at the same file.
func (p *Plugin) navigate(cmd string) {
	if p.activePane == PaneList {
		applyNav(p.list.Nav(), cmd)
		p.syncPaneToList()
		return
	}
	if p.pane.navigate(cmd) {
		p.syncListToPane()
	}
}

// toggleStage signals staging or unstaging of the row under the cursor: a
// whole file on a file row, a single hunk on a hunk row.
func (p *Plugin) toggleStage() tea.Cmd {
	r, ok := p.list.Current()
	if !ok {
		return nil
	}
	e := p.list.Entries()[r.File]
	if r.Kind == RowHunk {
		return p.intent(p.ctrl.ToggleHunkStaging(e, r.Hunk))
	}
	return p.intent(p.ctrl.ToggleFileStaging(e))
}

// intent turns the result of a staging call into commands: the poller and
// spinner on success, an error toast otherwise.
func (p *Plugin) intent(cmd tea.Cmd, err error) tea.Cmd {
	if err != nil {
		if !errors.Is(err, ErrReadOnly) {
			p.log.Debug("staging intent rejected", "err", err)
		}
		return msg.ShowError(err.Error())
	}
	return tea.Batch(cmd, p.startSpinner())
}
