package notes

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/draft"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	formTitleID   = "note-title"
	formContentID = "note-content"
	formTagID     = "note-tag"
	formCreateID  = "create"

	formContentHeight = 6
)

type formState int

const (
	formEditing formState = iota
	formSubmitting
	formSucceeded
)

// createForm is the note creation modal. Its fields mirror the draft
// store: every edit is written through.
type createForm struct {
	modal        *modal.Modal
	mouseHandler *mouse.Handler

	titleInput   textinput.Model
	contentInput textarea.Model
	tagIdx       int

	state formState
	err   string
}

func newCreateForm(d note.Draft) *createForm {
	ti := textinput.New()
	ti.Placeholder = "Title (3-50 characters)"
	ti.Prompt = ""
	ti.PlaceholderStyle = styles.Muted
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Content"
	ta.ShowLineNumbers = false
	ta.CharLimit = note.ContentMax
	ta.Prompt = ""
	ta.FocusedStyle = textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		EndOfBuffer: styles.Muted,
		Placeholder: styles.Muted,
		Prompt:      lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle

	f := &createForm{
		mouseHandler: mouse.NewHandler(),
		titleInput:   ti,
		contentInput: ta,
	}
	f.load(d)
	f.buildModal()
	return f
}

// load replaces the field values with d.
func (f *createForm) load(d note.Draft) {
	f.titleInput.SetValue(d.Title)
	f.contentInput.SetValue(d.Content)
	f.tagIdx = 0
	for i, t := range note.Tags {
		if string(t) == d.Tag {
			f.tagIdx = i
			break
		}
	}
}

func (f *createForm) tag() string {
	if f.tagIdx < 0 || f.tagIdx >= len(note.Tags) {
		return ""
	}
	return string(note.Tags[f.tagIdx])
}

func (f *createForm) input() note.CreateInput {
	return note.CreateInput{
		Title:   f.titleInput.Value(),
		Content: f.contentInput.Value(),
		Tag:     note.Tag(f.tag()),
	}
}

// canSubmit reports whether the create button is enabled.
func (f *createForm) canSubmit() bool {
	return f.state == formEditing && note.CanSubmit(f.titleInput.Value(), f.tag())
}

func (f *createForm) buildModal() {
	items := make([]modal.ListItem, len(note.Tags))
	for i, t := range note.Tags {
		items[i] = modal.ListItem{ID: "tag-" + string(t), Label: string(t), Data: t}
	}

	f.modal = modal.New("Create note",
		modal.WithWidth(ui.ModalWidthLarge),
		modal.WithPrimaryAction(formCreateID),
	).
		AddSection(modal.InputWithLabel(formTitleID, "Title", &f.titleInput)).
		AddSection(modal.Spacer()).
		AddSection(modal.TextareaWithLabel(formContentID, "Content", &f.contentInput, formContentHeight)).
		AddSection(modal.Custom(f.renderCounter, nil)).
		AddSection(modal.Text("Tag")).
		AddSection(modal.List(formTagID, items, &f.tagIdx, modal.WithMaxVisible(len(items)))).
		AddSection(modal.Spacer()).
		AddSection(modal.Custom(f.renderStatus, nil)).
		AddSection(modal.Buttons(
			modal.Btn(" Create note ", formCreateID, modal.BtnDisabled(func() bool { return !f.canSubmit() })),
			modal.Btn(" Cancel ", modal.ActionCancel),
		))
}

func (f *createForm) renderCounter(contentWidth int, _, _ string) modal.RenderedSection {
	n := utf8.RuneCountInString(f.contentInput.Value())
	text := styles.Muted.Width(contentWidth).Align(lipgloss.Right).
		Render(fmt.Sprintf("%d/%d", n, note.ContentMax))
	return modal.RenderedSection{Content: text}
}

// renderStatus shows the submit error, the pending state or the first
// validation problem, in that order.
func (f *createForm) renderStatus(contentWidth int, _, _ string) modal.RenderedSection {
	var text string
	switch {
	case f.state == formSubmitting:
		text = styles.Muted.Render("Creating note...")
	case f.err != "":
		text = styles.ErrorText.Width(contentWidth).Render(f.err)
	case f.titleInput.Value() != "":
		if err := f.input().Validate(); err != nil {
			text = styles.Muted.Width(contentWidth).Render(err.Error())
		}
	}
	return modal.RenderedSection{Content: text}
}

// openForm shows the creation modal filled from the draft.
func (p *Plugin) openForm() {
	p.form = newCreateForm(p.draft.Get())
}

// syncDraft writes changed form fields to the draft store.
func (p *Plugin) syncDraft() {
	f := p.form
	if f == nil {
		return
	}
	d := p.draft.Get()
	var patch draft.Patch
	changed := false
	if v := f.titleInput.Value(); v != d.Title {
		patch.Title = draft.Str(v)
		changed = true
	}
	if v := f.contentInput.Value(); v != d.Content {
		patch.Content = draft.Str(v)
		changed = true
	}
	if v := f.tag(); v != d.Tag {
		patch.Tag = draft.Str(v)
		changed = true
	}
	if changed {
		p.draft.Set(patch)
	}
}

func (p *Plugin) handleFormKey(k tea.KeyMsg) tea.Cmd {
	f := p.form

	switch p.lookup(k.String(), keymap.ContextNoteCreate) {
	case "submit":
		return p.submitForm()
	case "cancel":
		return p.cancelForm()
	case "next-field":
		k = tea.KeyMsg{Type: tea.KeyTab}
	case "prev-field":
		k = tea.KeyMsg{Type: tea.KeyShiftTab}
	}

	if f.state == formSubmitting {
		return nil
	}
	action, cmd := f.modal.HandleKey(k)
	if f.err != "" && action == "" {
		f.err = ""
	}
	p.syncDraft()
	return tea.Batch(cmd, p.formAction(action))
}

func (p *Plugin) formAction(action string) tea.Cmd {
	switch action {
	case formCreateID:
		return p.submitForm()
	case modal.ActionCancel:
		return p.cancelForm()
	}
	return nil
}

// cancelForm closes the modal and leaves the draft in place.
func (p *Plugin) cancelForm() tea.Cmd {
	p.form = nil
	return router.Back()
}

// submitForm sends the form unless it is invalid or already in flight.
func (p *Plugin) submitForm() tea.Cmd {
	f := p.form
	if f == nil || !f.canSubmit() {
		return nil
	}
	in := f.input()
	if err := in.Validate(); err != nil {
		f.err = err.Error()
		return nil
	}
	f.state = formSubmitting
	f.err = ""

	api, epoch := p.api, p.epoch()
	return func() tea.Msg {
		n, err := api.Create(context.Background(), in)
		return NoteCreatedMsg{Note: n, Err: err, Epoch: epoch}
	}
}

func (p *Plugin) handleCreated(m NoteCreatedMsg) tea.Cmd {
	if m.Err != nil {
		p.logger().Warn("notes: create failed", "error", m.Err)
		if p.form == nil {
			return showErrorToast("Create failed: " + m.Err.Error())
		}
		p.form.state = formEditing
		p.form.err = m.Err.Error()
		return nil
	}

	p.draft.Clear()
	p.lists.InvalidatePrefix("notes")
	p.page = 1
	p.cursor = 0
	p.scrollY = 0

	cmds := []tea.Cmd{showToast("Note created")}
	if p.form != nil {
		p.form.state = formSucceeded
		p.form = nil
		cmds = append(cmds, router.Back())
	}
	cmds = append(cmds, p.ensureList())
	return tea.Batch(cmds...)
}

func (p *Plugin) handleFormMouse(m tea.MouseMsg) tea.Cmd {
	f := p.form
	if f.state == formSubmitting {
		return nil
	}
	action := f.modal.HandleMouse(m, f.mouseHandler)
	p.syncDraft()
	return p.formAction(action)
}
