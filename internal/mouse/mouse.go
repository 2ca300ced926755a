// Package mouse maps terminal mouse events onto rectangular screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scrollStep is the number of rows one wheel notch moves.
const scrollStep = 3

// doubleClickWindow bounds the gap between the clicks of a double click.
const doubleClickWindow = 400 * time.Millisecond

// Rect is a screen rectangle. The right and bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered during the last render. Regions
// added later take priority when they overlap.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap { return &HitMap{} }

// Add registers a region.
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect registers a region from coordinates.
func (h *HitMap) AddRect(id string, x, y, w, ht int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: ht}, data)
}

// Clear removes every region.
func (h *HitMap) Clear() { h.regions = h.regions[:0] }

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the interpreted form of a tea.MouseMsg.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int // scroll rows, negative is up/left
	DragDX int
	DragDY int
}

// ClickResult describes a click resolved against the hit map.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks click timing and drag state across events.
type Handler struct {
	HitMap *HitMap

	lastClickAt     time.Time
	lastClickRegion string

	dragging   bool
	dragRegion string
	dragStartX int
	dragStartY int
	dragValue  int
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear empties the hit map. Drag state survives so a drag can span
// renders.
func (h *Handler) Clear() { h.HitMap.Clear() }

// HandleClick resolves a click and detects double clicks on the same
// region.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	res := ClickResult{Region: region}
	if region == nil {
		h.lastClickRegion = ""
		return res
	}
	now := time.Now()
	if region.ID == h.lastClickRegion && now.Sub(h.lastClickAt) <= doubleClickWindow {
		res.IsDoubleClick = true
		h.lastClickRegion = ""
		return res
	}
	h.lastClickAt = now
	h.lastClickRegion = region.ID
	return res
}

// StartDrag begins a drag on region, remembering the value being dragged.
func (h *Handler) StartDrag(x, y int, region string, value int) {
	h.dragging = true
	h.dragRegion = region
	h.dragStartX, h.dragStartY = x, y
	h.dragValue = value
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region the drag started on.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value passed to StartDrag.
func (h *Handler) DragStartValue() int { return h.dragValue }

// DragDelta returns the offset of (x, y) from the drag start.
func (h *Handler) DragDelta(x, y int) (int, int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag stops the current drag.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse interprets msg against the current hit map.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	a := MouseAction{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionRelease:
		if h.dragging {
			h.EndDrag()
			a.Type = ActionDragEnd
		}
		return a

	case tea.MouseActionMotion:
		if h.dragging {
			a.Type = ActionDrag
			a.DragDX, a.DragDY = h.DragDelta(msg.X, msg.Y)
			return a
		}
		a.Type = ActionHover
		a.Region = h.HitMap.Test(msg.X, msg.Y)
		return a
	}

	a.Region = h.HitMap.Test(msg.X, msg.Y)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.Type, a.Delta = ActionScrollUp, -scrollStep
		if msg.Shift {
			a.Type = ActionScrollLeft
		}
	case tea.MouseButtonWheelDown:
		a.Type, a.Delta = ActionScrollDown, scrollStep
		if msg.Shift {
			a.Type = ActionScrollRight
		}
	case tea.MouseButtonWheelLeft:
		// Natural scrolling reports the wheel direction inverted.
		a.Type, a.Delta = ActionScrollRight, scrollStep
	case tea.MouseButtonWheelRight:
		a.Type, a.Delta = ActionScrollLeft, -scrollStep
	case tea.MouseButtonLeft:
		res := h.HandleClick(msg.X, msg.Y)
		if res.Region == nil {
			a.Type = ActionNone
			return a
		}
		a.Type = ActionClick
		if res.IsDoubleClick {
			a.Type = ActionDoubleClick
		}
	}
	return a
}
