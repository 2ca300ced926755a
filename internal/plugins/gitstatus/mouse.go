package gitstatus

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stagehand/internal/mouse"
	"github.com/marcus/stagehand/internal/state"
)

// handleMouse processes mouse events against the regions of the last frame.
func (p *Plugin) handleMouse(m tea.MouseMsg) tea.Cmd {
	action := p.mouseHandler.HandleMouse(m)

	switch action.Type {
	case mouse.ActionClick:
		p.handleMouseClick(action)
	case mouse.ActionDoubleClick:
		p.handleMouseDoubleClick(action)
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		p.handleMouseScroll(action)
	case mouse.ActionDrag:
		p.handleMouseDrag(action)
	case mouse.ActionDragEnd:
		p.handleMouseDragEnd()
	}
	return nil
}

func (p *Plugin) handleMouseClick(action mouse.MouseAction) {
	if action.Region == nil {
		return
	}

	switch action.Region.ID {
	case regionSidebar:
		p.activePane = PaneList

	case regionDiffPane:
		p.activePane = PaneDiff

	case regionPaneDivider:
		p.mouseHandler.StartDrag(action.X, action.Y, regionPaneDivider, clampSidebar(p.sidebarWidth, p.width))

	case regionRow:
		if idx, ok := action.Region.Data.(int); ok {
			p.activePane = PaneList
			p.list.Nav().Select(idx)
			p.syncPaneToList()
		}

	case regionTreeFile:
		if fi, ok := action.Region.Data.(int); ok {
			p.activePane = PaneDiff
			p.pane.show(fi)
			p.syncListToPane()
		}
	}
}

// handleMouseDoubleClick expands or collapses a clicked list row.
func (p *Plugin) handleMouseDoubleClick(action mouse.MouseAction) {
	if action.Region == nil || action.Region.ID != regionRow {
		return
	}
	if idx, ok := action.Region.Data.(int); ok {
		p.list.Nav().Select(idx)
		if p.list.ToggleExpand() {
			p.syncPaneToList()
		}
	}
}

func (p *Plugin) handleMouseScroll(action mouse.MouseAction) {
	inList := action.X < clampSidebar(p.sidebarWidth, p.width)+2
	if action.Region != nil {
		switch action.Region.ID {
		case regionSidebar, regionRow:
			inList = true
		case regionDiffPane, regionTreeFile:
			inList = false
		}
	}
	if inList {
		p.list.Nav().ScrollBy(action.Delta)
		p.syncPaneToList()
		return
	}
	p.pane.scrollBy(action.Delta)
}

func (p *Plugin) handleMouseDrag(action mouse.MouseAction) {
	if p.mouseHandler.DragRegion() != regionPaneDivider {
		return
	}
	p.sidebarWidth = clampSidebar(p.mouseHandler.DragStartValue()+action.DragDX, p.width)
}

func (p *Plugin) handleMouseDragEnd() {
	if err := state.SetSidebarWidth(p.sidebarWidth); err != nil {
		p.log.Debug("save sidebar width", "err", err)
	}
}
