package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/styles"
)

// ListItem is one row of a List section.
type ListItem struct {
	ID    string
	Label string
	Data  any
}

// ListOption configures a List section.
type ListOption func(*listSection)

type listSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int
	maxVisible   int
	scrollOffset int
	onChange     func(idx int)
}

// List renders selectable rows. The whole list is a single Tab stop; while
// focused, up/down (j/k) move the selection and Enter returns the selected
// item's ID. Clicking a row selects it.
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxVisible sets the number of rows shown at once.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// WithOnChange registers a callback invoked after the selection moves.
func WithOnChange(fn func(idx int)) ListOption {
	return func(s *listSection) { s.onChange = fn }
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: styles.Muted.Render("(no items)")}
	}

	visible := min(s.maxVisible, len(s.items))
	selected := 0
	if s.selectedIdx != nil {
		selected = *s.selectedIdx
	}
	if selected < s.scrollOffset {
		s.scrollOffset = selected
	} else if selected >= s.scrollOffset+visible {
		s.scrollOffset = selected - visible + 1
	}
	s.scrollOffset = clamp(s.scrollOffset, 0, max(0, len(s.items)-visible))

	focused := focusID == s.id
	lines := make([]string, 0, visible+2)
	if s.scrollOffset > 0 {
		lines = append(lines, styles.Muted.Render("↑ more above"))
	}
	top := len(lines)
	for i := 0; i < visible; i++ {
		idx := s.scrollOffset + i
		item := s.items[idx]

		var style lipgloss.Style
		cursor := "  "
		switch {
		case idx == selected && focused:
			style = styles.ListItemFocused
			cursor = styles.ListCursor.Render("▸ ")
		case idx == selected:
			style = styles.ListItemSelected
			cursor = styles.ListCursor.Render("> ")
		case item.ID == hoverID:
			style = styles.ListItemSelected
		default:
			style = styles.ListItemNormal
		}
		lines = append(lines, cursor+style.Render(item.Label))
	}
	if s.scrollOffset+visible < len(s.items) {
		lines = append(lines, styles.Muted.Render("↓ more below"))
	}

	return RenderedSection{
		Content: strings.Join(lines, "\n"),
		Focusables: []FocusableInfo{{
			ID: s.id, OffsetY: top, Width: contentWidth, Height: visible,
		}},
	}
}

// selectRow selects the visible row clicked, counted from the first
// rendered item.
func (s *listSection) selectRow(id string, row int) bool {
	if id != s.id || s.selectedIdx == nil {
		return false
	}
	idx := s.scrollOffset + row
	if row < 0 || idx >= len(s.items) {
		return true
	}
	if idx != *s.selectedIdx {
		*s.selectedIdx = idx
		if s.onChange != nil {
			s.onChange(idx)
		}
	}
	return true
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.selectedIdx == nil {
		return "", nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	prev := *s.selectedIdx
	switch km.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	case "home":
		*s.selectedIdx = 0
	case "end":
		*s.selectedIdx = len(s.items) - 1
	case "enter":
		if *s.selectedIdx >= 0 && *s.selectedIdx < len(s.items) {
			return s.items[*s.selectedIdx].ID, nil
		}
	}
	if *s.selectedIdx != prev && s.onChange != nil {
		s.onChange(*s.selectedIdx)
	}
	return "", nil
}
