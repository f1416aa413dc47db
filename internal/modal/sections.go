package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/styles"
)

// FocusableInfo describes a focusable element relative to its section.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// RenderedSection is the output of Section.Render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one vertical block of a modal.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a message while focusID is focused. A non-empty action
	// is returned to the modal's caller.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// enterConsumer is implemented by sections that use Enter themselves
// (multi-line editors) instead of confirming the modal.
type enterConsumer interface {
	consumesEnter(focusID string) bool
}

// --- Text ---

type textSection struct {
	text  string
	style *lipgloss.Style
}

// Text renders wrapped static text.
func Text(s string) Section { return &textSection{text: s} }

// StyledText renders wrapped static text with a style.
func StyledText(s string, style lipgloss.Style) Section {
	return &textSection{text: s, style: &style}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	st := lipgloss.NewStyle()
	if s.style != nil {
		st = *s.style
	}
	return RenderedSection{Content: st.Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// --- Spacer ---

type spacerSection struct{}

// Spacer renders one blank line.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// --- When ---

type whenSection struct {
	cond  func() bool
	inner Section
}

// When renders inner only while cond returns true.
func When(cond func() bool, inner Section) Section {
	return &whenSection{cond: cond, inner: inner}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}

// --- Custom ---

// RenderFunc renders a custom section.
type RenderFunc func(contentWidth int, focusID, hoverID string) RenderedSection

// UpdateFunc updates a custom section.
type UpdateFunc func(msg tea.Msg, focusID string) (string, tea.Cmd)

type customSection struct {
	render RenderFunc
	update UpdateFunc
}

// Custom wraps arbitrary render/update functions. update may be nil.
func Custom(render RenderFunc, update UpdateFunc) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// --- Buttons ---

// ButtonDef describes one button in a Buttons row.
type ButtonDef struct {
	Label    string
	ID       string
	danger   bool
	disabled func() bool
}

// ButtonOption configures a ButtonDef.
type ButtonOption func(*ButtonDef)

// BtnDanger renders the button with the destructive style.
func BtnDanger() ButtonOption {
	return func(b *ButtonDef) { b.danger = true }
}

// BtnDisabled renders the button greyed out while fn returns true.
// Callers still receive the button's action and must guard it.
func BtnDisabled(fn func() bool) ButtonOption {
	return func(b *ButtonDef) { b.disabled = fn }
}

// Btn creates a button definition.
func Btn(label, id string, opts ...ButtonOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, o := range opts {
		o(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons renders a horizontal row of buttons, each a focusable.
func Buttons(btns ...ButtonDef) Section {
	return &buttonsSection{buttons: btns}
}

func (s *buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var sb strings.Builder
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	x := 0
	for i, b := range s.buttons {
		if i > 0 {
			sb.WriteString("  ")
			x += 2
		}
		rendered := buttonStyle(b, b.ID == focusID, b.ID == hoverID).Render(b.Label)
		w := ansi.StringWidth(rendered)
		sb.WriteString(rendered)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		x += w
	}
	return RenderedSection{Content: sb.String(), Focusables: focusables}
}

func buttonStyle(b ButtonDef, focused, hovered bool) lipgloss.Style {
	if b.disabled != nil && b.disabled() {
		return styles.ButtonDisabled
	}
	switch {
	case b.danger && focused:
		return styles.ButtonDangerFocused
	case b.danger && hovered:
		return styles.ButtonDangerHover
	case b.danger:
		return styles.ButtonDanger
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	}
	return styles.Button
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || km.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID {
			return b.ID, nil
		}
	}
	return "", nil
}

// --- Input ---

type inputSection struct {
	id    string
	label string
	model *textinput.Model
}

// Input renders a single-line text input.
func Input(id string, model *textinput.Model) Section {
	return &inputSection{id: id, model: model}
}

// InputWithLabel renders a label line above a text input.
func InputWithLabel(id, label string, model *textinput.Model) Section {
	return &inputSection{id: id, label: label, model: model}
}

func (s *inputSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	if focusID == s.id {
		s.model.Focus()
	} else {
		s.model.Blur()
	}
	s.model.Width = max(1, contentWidth-4)

	border := styles.BorderNormal
	if focusID == s.id {
		border = styles.BorderActive
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(max(1, contentWidth-2)).
		Render(s.model.View())

	offsetY := 0
	content := box
	if s.label != "" {
		content = s.label + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID: s.id, OffsetY: offsetY, Width: contentWidth, Height: lipgloss.Height(box),
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok || km.String() == "enter" {
		return "", nil
	}
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(km)
	return "", cmd
}

// --- Textarea ---

type textareaSection struct {
	id     string
	label  string
	model  *textarea.Model
	height int
}

// TextareaWithLabel renders a label line above a multi-line editor.
// Enter inserts a newline while it is focused.
func TextareaWithLabel(id, label string, model *textarea.Model, height int) Section {
	return &textareaSection{id: id, label: label, model: model, height: height}
}

func (s *textareaSection) Render(contentWidth int, focusID, _ string) RenderedSection {
	if focusID == s.id {
		s.model.Focus()
	} else {
		s.model.Blur()
	}
	s.model.SetWidth(max(1, contentWidth-2))
	s.model.SetHeight(max(1, s.height))

	border := styles.BorderNormal
	if focusID == s.id {
		border = styles.BorderActive
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Render(s.model.View())

	offsetY := 0
	content := box
	if s.label != "" {
		content = s.label + "\n" + box
		offsetY = 1
	}
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID: s.id, OffsetY: offsetY, Width: contentWidth, Height: lipgloss.Height(box),
		}},
	}
}

func (s *textareaSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(km)
	return "", cmd
}

func (s *textareaSection) consumesEnter(focusID string) bool { return focusID == s.id }
