// Package mouse resolves terminal mouse events against rectangular hit regions
// registered during rendering.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// doubleClickWindow is the max interval between two clicks on the same region
// for the second one to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// scrollStep is the number of lines a single wheel notch scrolls.
const scrollStep = 3

// Rect is a screen rectangle. Right and bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named clickable area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered for the current frame.
// Regions added later take priority over earlier ones.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect registers a region from raw coordinates.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: hgt}, data)
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

// Clear removes all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns a copy of the registered regions in insertion order.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// ActionType classifies a handled mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionHover
)

// Action is the result of HandleMouse.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int // scroll lines, negative is up
}

// ClickResult is the result of HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler owns a HitMap and tracks click timing.
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time
	now           func() time.Time
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
		now:    time.Now,
	}
}

// Clear drops all regions and click state.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.lastClickID = ""
	h.lastClickTime = time.Time{}
}

// HandleClick resolves a left click at (x, y). A double click resets the
// tracker so a third click starts a new sequence.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	now := h.now()
	double := h.lastClickID == region.ID && now.Sub(h.lastClickTime) <= doubleClickWindow
	if double {
		h.lastClickID = ""
		h.lastClickTime = time.Time{}
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// HandleMouse converts a bubbletea mouse message into an Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			if res.Region == nil {
				return Action{Type: ActionNone, X: msg.X, Y: msg.Y}
			}
			t := ActionClick
			if res.IsDoubleClick {
				t = ActionDoubleClick
			}
			return Action{Type: t, Region: res.Region, X: msg.X, Y: msg.Y}
		case tea.MouseButtonWheelUp:
			return Action{Type: ActionScrollUp, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y, Delta: -scrollStep}
		case tea.MouseButtonWheelDown:
			return Action{Type: ActionScrollDown, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y, Delta: scrollStep}
		}
	case tea.MouseActionMotion:
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y}
	}
	return Action{Type: ActionNone, X: msg.X, Y: msg.Y}
}
