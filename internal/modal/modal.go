// Package modal builds overlay dialogs out of sections and keeps their mouse
// hit regions in sync with what was rendered.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/mouse"
)

// Region IDs registered by every modal render.
const (
	RegionBackdrop = "modal-backdrop"
	RegionBody     = "modal-body"
)

// ActionCancel is returned when the modal should be dismissed.
const ActionCancel = "cancel"

// Modal is a declarative dialog. Sections are rendered top to bottom and
// every focusable they report becomes a Tab stop and a click target.
type Modal struct {
	title           string
	variant         Variant
	width           int
	sections        []Section
	showHints       bool
	primaryAction   string
	closeOnBackdrop bool

	focusIdx     int
	hoverID      string
	focusIDs     []string // rebuilt on every Render
	scrollOffset int

	focusPositions map[string]focusablePos
	lastViewportH  int
}

type focusablePos struct {
	y      int
	height int
}

// New creates a new Modal with the given title and options.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:           title,
		variant:         VariantDefault,
		width:           DefaultWidth,
		showHints:       true,
		closeOnBackdrop: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section. Returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Render renders the modal centered on a screenW x screenH screen and
// registers its hit regions on handler (which may be nil).
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

// HandleKey processes keyboard input and returns the triggered action, if any.
// Esc always yields ActionCancel. Enter routes to the focused section first,
// then falls back to the primary action or the focused ID.
func (m *Modal) HandleKey(msg tea.KeyMsg) (action string, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return ActionCancel, nil

	case "tab":
		m.cycleFocus(1)
		return "", nil

	case "shift+tab":
		m.cycleFocus(-1)
		return "", nil

	case "enter":
		focusID := m.currentFocusID()
		if focusID == "" {
			return "", nil
		}
		for _, s := range m.sections {
			if ec, ok := s.(enterConsumer); ok && ec.consumesEnter(focusID) {
				_, cmd = s.Update(msg, focusID)
				return "", cmd
			}
		}
		action, cmd = m.routeToFocusedSection(msg)
		if action != "" {
			return action, cmd
		}
		if m.primaryAction != "" {
			return m.primaryAction, cmd
		}
		return focusID, cmd

	default:
		return m.routeToFocusedSection(msg)
	}
}

// HandleMouse processes mouse input against the regions from the last Render.
// A backdrop click yields ActionCancel (unless disabled), a body click is
// absorbed, and a click on a focusable focuses it and returns its ID.
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	action := handler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return ""
		}
		id := action.Region.ID
		switch id {
		case RegionBackdrop:
			if m.closeOnBackdrop {
				return ActionCancel
			}
			return ""
		case RegionBody:
			return ""
		}
		for i, fid := range m.focusIDs {
			if fid == id {
				m.focusIdx = i
				m.selectRow(id, action.Y-action.Region.Rect.Y)
				return id
			}
		}
		return ""

	case mouse.ActionHover:
		if action.Region != nil && action.Region.ID != RegionBackdrop && action.Region.ID != RegionBody {
			m.hoverID = action.Region.ID
		} else {
			m.hoverID = ""
		}
		return ""

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region != nil && action.Region.ID != RegionBackdrop {
			m.scrollOffset = max(0, m.scrollOffset+action.Delta)
		}
		return ""
	}

	return ""
}

// rowSelector is implemented by sections whose rows are picked by click.
type rowSelector interface {
	selectRow(id string, row int) bool
}

func (m *Modal) selectRow(id string, row int) {
	for _, s := range m.sections {
		if rs, ok := s.(rowSelector); ok && rs.selectRow(id, row) {
			return
		}
	}
}

// ScrollBy adjusts the scroll offset by delta lines. Clamped on next Render.
func (m *Modal) ScrollBy(delta int) { m.scrollOffset = max(0, m.scrollOffset+delta) }

// SetFocus focuses the element with the given ID if it was rendered.
func (m *Modal) SetFocus(id string) {
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			return
		}
	}
}

// FocusedID returns the currently focused element ID.
func (m *Modal) FocusedID() string {
	return m.currentFocusID()
}

// HoveredID returns the currently hovered element ID.
func (m *Modal) HoveredID() string {
	return m.hoverID
}

// Reset clears focus, hover and scroll state.
func (m *Modal) Reset() {
	m.focusIdx = 0
	m.hoverID = ""
	m.scrollOffset = 0
}

func (m *Modal) currentFocusID() string {
	if len(m.focusIDs) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return m.focusIDs[0]
	}
	return m.focusIDs[m.focusIdx]
}

func (m *Modal) cycleFocus(delta int) {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(m.focusIDs)) % len(m.focusIDs)
	m.scrollToFocused()
}

// scrollToFocused keeps the focused element inside the last viewport.
func (m *Modal) scrollToFocused() {
	pos, ok := m.focusPositions[m.currentFocusID()]
	if !ok || m.lastViewportH <= 0 {
		return
	}
	if pos.y < m.scrollOffset {
		m.scrollOffset = pos.y
	}
	if pos.y+pos.height > m.scrollOffset+m.lastViewportH {
		m.scrollOffset = pos.y + pos.height - m.lastViewportH
	}
}

func (m *Modal) routeToFocusedSection(msg tea.KeyMsg) (string, tea.Cmd) {
	focusID := m.currentFocusID()
	if focusID == "" {
		return "", nil
	}
	for _, section := range m.sections {
		action, cmd := section.Update(msg, focusID)
		if action != "" || cmd != nil {
			return action, cmd
		}
	}
	return "", nil
}
