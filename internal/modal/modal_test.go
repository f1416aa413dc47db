package modal

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/notehub/internal/mouse"
)

// noteForm mirrors the create-note dialog: title, content, tag list, an
// error line shown on demand and a Create/Cancel row.
type noteForm struct {
	m       *Modal
	h       *mouse.Handler
	title   textinput.Model
	content textarea.Model
	tagIdx  int
	errLine string
	valid   bool
	changes []int
}

var noteTags = []ListItem{
	{ID: "Todo", Label: "Todo"},
	{ID: "Work", Label: "Work"},
	{ID: "Personal", Label: "Personal"},
	{ID: "Meeting", Label: "Meeting"},
	{ID: "Shopping", Label: "Shopping"},
}

func newNoteForm(t *testing.T, screenW, screenH int) *noteForm {
	t.Helper()
	f := &noteForm{title: textinput.New(), content: textarea.New()}
	f.m = New("Create note", WithWidth(60), WithPrimaryAction("create")).
		AddSection(InputWithLabel("title", "Title", &f.title)).
		AddSection(TextareaWithLabel("content", "Content", &f.content, 4)).
		AddSection(List("tag", noteTags, &f.tagIdx,
			WithMaxVisible(len(noteTags)),
			WithOnChange(func(idx int) { f.changes = append(f.changes, idx) }))).
		AddSection(When(func() bool { return f.errLine != "" },
			Custom(func(int, string, string) RenderedSection {
				return RenderedSection{Content: f.errLine}
			}, nil))).
		AddSection(Buttons(
			Btn(" Create note ", "create", BtnDisabled(func() bool { return !f.valid })),
			Btn(" Cancel ", ActionCancel),
		))
	f.h = mouse.NewHandler()
	f.render(screenW, screenH)
	return f
}

func (f *noteForm) render(screenW, screenH int) string {
	return f.m.Render(screenW, screenH, f.h)
}

func regionOf(h *mouse.Handler, id string) (mouse.Rect, bool) {
	for _, r := range h.HitMap.Regions() {
		if r.ID == id {
			return r.Rect, true
		}
	}
	return mouse.Rect{}, false
}

func mustRegion(t *testing.T, h *mouse.Handler, id string) mouse.Rect {
	t.Helper()
	r, ok := regionOf(h, id)
	if !ok {
		t.Fatalf("region %q not registered", id)
	}
	return r
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func typeKeys(m *Modal, s string) {
	for _, r := range s {
		m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestRender_RegistersRegionsInOrder(t *testing.T) {
	f := newNoteForm(t, 100, 40)

	var ids []string
	for _, r := range f.h.HitMap.Regions() {
		ids = append(ids, r.ID)
	}
	want := []string{RegionBackdrop, RegionBody, "title", "content", "tag", "create", ActionCancel}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("regions = %v, want %v", ids, want)
	}
	if f.m.FocusedID() != "title" {
		t.Errorf("initial focus = %q, want title", f.m.FocusedID())
	}

	backdrop := mustRegion(t, f.h, RegionBackdrop)
	if backdrop != (mouse.Rect{X: 0, Y: 0, W: 100, H: 40}) {
		t.Errorf("backdrop = %+v, want full screen", backdrop)
	}
	body := mustRegion(t, f.h, RegionBody)
	for _, id := range []string{"title", "content", "tag", "create", ActionCancel} {
		r := mustRegion(t, f.h, id)
		if !body.Contains(r.X, r.Y) {
			t.Errorf("%s at %+v lies outside the body %+v", id, r, body)
		}
	}
}

func TestHandleKey_EscCancelsFromAnyFocus(t *testing.T) {
	for _, id := range []string{"title", "content", "tag", "create", ActionCancel} {
		t.Run(id, func(t *testing.T) {
			f := newNoteForm(t, 100, 40)
			f.m.SetFocus(id)
			if action, _ := f.m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}); action != ActionCancel {
				t.Errorf("esc = %q, want cancel", action)
			}
		})
	}
}

func TestHandleKey_TabCyclesFocus(t *testing.T) {
	f := newNoteForm(t, 100, 40)

	var got []string
	for range 5 {
		f.m.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
		got = append(got, f.m.FocusedID())
	}
	if want := "content,tag,create,cancel,title"; strings.Join(got, ",") != want {
		t.Errorf("tab order = %v, want %s", got, want)
	}

	f.m.HandleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.m.FocusedID() != ActionCancel {
		t.Errorf("shift+tab from title = %q, want cancel", f.m.FocusedID())
	}
}

func TestHandleKey_EnterRouting(t *testing.T) {
	t.Run("title falls back to primary action", func(t *testing.T) {
		f := newNoteForm(t, 100, 40)
		typeKeys(f.m, "Buy milk")
		action, _ := f.m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
		if action != "create" {
			t.Errorf("enter = %q, want create", action)
		}
		if f.title.Value() != "Buy milk" {
			t.Errorf("title = %q", f.title.Value())
		}
	})

	t.Run("content keeps enter as newline", func(t *testing.T) {
		f := newNoteForm(t, 100, 40)
		f.m.SetFocus("content")
		f.render(100, 40)
		typeKeys(f.m, "eggs")
		action, _ := f.m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
		typeKeys(f.m, "bread")
		if action != "" {
			t.Errorf("enter in content = %q, want none", action)
		}
		if got := f.content.Value(); got != "eggs\nbread" {
			t.Errorf("content = %q", got)
		}
		if f.title.Value() != "" {
			t.Errorf("typing leaked into title: %q", f.title.Value())
		}
	})

	t.Run("tag list returns the selected tag", func(t *testing.T) {
		f := newNoteForm(t, 100, 40)
		f.m.SetFocus("tag")
		f.m.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
		f.m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		action, _ := f.m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
		if action != "Personal" || f.tagIdx != 2 {
			t.Errorf("enter = %q idx %d, want Personal 2", action, f.tagIdx)
		}
		if len(f.changes) != 2 {
			t.Errorf("onChange calls = %v, want 2", f.changes)
		}
	})

	t.Run("cancel button", func(t *testing.T) {
		f := newNoteForm(t, 100, 40)
		f.m.SetFocus(ActionCancel)
		if action, _ := f.m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); action != ActionCancel {
			t.Errorf("enter = %q, want cancel", action)
		}
	})
}

func TestHandleMouse_Clicks(t *testing.T) {
	f := newNoteForm(t, 100, 40)
	body := mustRegion(t, f.h, RegionBody)
	create := mustRegion(t, f.h, "create")

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"backdrop", 0, 0, ActionCancel},
		{"body padding", body.X + 1, body.Y + 1, ""},
		{"disabled create still reports", create.X + 1, create.Y, "create"},
	}
	for _, tt := range tests {
		if got := f.m.HandleMouse(press(tt.x, tt.y), f.h); got != tt.want {
			t.Errorf("%s: HandleMouse = %q, want %q", tt.name, got, tt.want)
		}
	}
	if f.m.FocusedID() != "create" {
		t.Errorf("focus after button click = %q, want create", f.m.FocusedID())
	}
}

func TestHandleMouse_BackdropCanBeDisabled(t *testing.T) {
	m := New("Saving", WithCloseOnBackdropClick(false)).
		AddSection(Buttons(Btn(" OK ", "ok")))
	h := mouse.NewHandler()
	m.Render(80, 24, h)

	if got := m.HandleMouse(press(0, 0), h); got != "" {
		t.Errorf("backdrop click = %q, want none", got)
	}
}

func TestHandleMouse_ClickSelectsTagRow(t *testing.T) {
	f := newNoteForm(t, 100, 40)
	list := mustRegion(t, f.h, "tag")

	if got := f.m.HandleMouse(press(list.X+2, list.Y+3), f.h); got != "tag" {
		t.Fatalf("click = %q, want tag", got)
	}
	if f.tagIdx != 3 {
		t.Errorf("tagIdx = %d, want 3 (Meeting)", f.tagIdx)
	}
	if f.m.FocusedID() != "tag" {
		t.Errorf("focus = %q, want tag", f.m.FocusedID())
	}

	// Clicking the selected row again changes nothing.
	f.m.HandleMouse(press(list.X+2, list.Y+3), f.h)
	if len(f.changes) != 1 || f.changes[0] != 3 {
		t.Errorf("onChange calls = %v, want [3]", f.changes)
	}
}

func TestHandleMouse_HoverTracksFocusables(t *testing.T) {
	f := newNoteForm(t, 100, 40)
	cancel := mustRegion(t, f.h, ActionCancel)
	body := mustRegion(t, f.h, RegionBody)

	f.m.HandleMouse(tea.MouseMsg{X: cancel.X, Y: cancel.Y, Action: tea.MouseActionMotion}, f.h)
	if f.m.HoveredID() != ActionCancel {
		t.Errorf("hover = %q, want cancel", f.m.HoveredID())
	}
	f.m.HandleMouse(tea.MouseMsg{X: body.X + 1, Y: body.Y + 1, Action: tea.MouseActionMotion}, f.h)
	if f.m.HoveredID() != "" {
		t.Errorf("hover over body = %q, want none", f.m.HoveredID())
	}
}

func TestWhen_ErrorLinePushesButtonsDown(t *testing.T) {
	f := newNoteForm(t, 100, 40)
	before := mustRegion(t, f.h, "create")

	f.errLine = "title must be at least 3 characters"
	view := ansi.Strip(f.render(100, 40))
	after := mustRegion(t, f.h, "create")

	if !strings.Contains(view, f.errLine) {
		t.Error("error line not rendered")
	}
	if after.Y != before.Y+1 {
		t.Errorf("create moved from y=%d to y=%d, want one line down", before.Y, after.Y)
	}
}

func TestRender_ShortScreenScrollsToFocus(t *testing.T) {
	f := newNoteForm(t, 100, 16)

	if _, ok := regionOf(f.h, "title"); !ok {
		t.Fatal("title should be visible at the top")
	}
	if _, ok := regionOf(f.h, ActionCancel); ok {
		t.Fatal("cancel should be scrolled out of view")
	}

	for range 4 {
		f.m.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	}
	f.render(100, 16)

	if _, ok := regionOf(f.h, ActionCancel); !ok {
		t.Error("cancel should scroll into view once focused")
	}
	if _, ok := regionOf(f.h, "title"); ok {
		t.Error("title should have scrolled out of view")
	}

	f.m.Reset()
	f.render(100, 16)
	if _, ok := regionOf(f.h, "title"); !ok || f.m.FocusedID() != "title" {
		t.Error("Reset should return to the top with title focused")
	}
}

func TestDangerConfirm(t *testing.T) {
	m := New("Delete note?", WithVariant(VariantDanger), WithHints(false)).
		AddSection(Text(`Delete "Buy milk"? This cannot be undone.`)).
		AddSection(Spacer()).
		AddSection(Buttons(Btn(" Delete ", "confirm", BtnDanger()), Btn(" Cancel ", ActionCancel)))
	h := mouse.NewHandler()
	view := ansi.Strip(m.Render(80, 24, h))

	for _, want := range []string{"Delete note?", "Buy milk", "Delete", "Cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Tab to switch") {
		t.Error("hint line shown with hints disabled")
	}
	if action, _ := m.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); action != "confirm" {
		t.Errorf("enter = %q, want confirm", action)
	}
}

func TestSliceLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		offset  int
		height  int
		pad     bool
		want    string
	}{
		{"window", "a\nb\nc\nd", 1, 2, false, "b\nc"},
		{"offset past end", "a\nb", 5, 2, false, "b"},
		{"padded", "a", 0, 3, true, "a\n\n"},
	}
	for _, tt := range tests {
		if got := sliceLines(tt.content, tt.offset, tt.height, tt.pad); got != tt.want {
			t.Errorf("%s: sliceLines = %q, want %q", tt.name, got, tt.want)
		}
	}
	if h := measureHeight("a\nb\n"); h != 2 {
		t.Errorf("measureHeight = %d, want 2", h)
	}
}
