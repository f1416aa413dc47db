package notes

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

const (
	detailDeleteID = "detail-delete"
	detailYankID   = "detail-yank"
	detailDateFmt  = "2006-01-02 15:04"
)

// detailView is the read-only note modal shown on /notes/<id>.
type detailView struct {
	id           string
	modal        *modal.Modal
	mouseHandler *mouse.Handler
}

func (p *Plugin) openDetail(id string) {
	d := &detailView{id: id, mouseHandler: mouse.NewHandler()}
	d.modal = modal.New("Note",
		modal.WithWidth(ui.ModalWidthLarge),
		modal.WithHints(false),
	).
		AddSection(modal.Custom(p.renderDetailBody, nil)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Close ", modal.ActionCancel),
			modal.Btn(" Copy ", detailYankID),
			modal.Btn(" Delete ", detailDeleteID, modal.BtnDanger()),
		))
	p.detail = d
}

// detailNote returns the note shown by the detail modal. The cached
// detail wins; the row from the current list page is used until it
// arrives.
func (p *Plugin) detailNote() (note.Note, bool) {
	if p.detail == nil {
		return note.Note{}, false
	}
	if snap := p.notes.Snapshot(noteKey(p.detail.id)); snap.HasData {
		return snap.Data, true
	}
	for _, n := range p.visibleNotes() {
		if n.ID == p.detail.id {
			return n, true
		}
	}
	return note.Note{}, false
}

func (p *Plugin) renderDetailBody(contentWidth int, _, _ string) modal.RenderedSection {
	n, ok := p.detailNote()
	if !ok {
		snap := p.notes.Snapshot(noteKey(p.detail.id))
		if snap.Err != nil {
			return modal.RenderedSection{Content: styles.ErrorText.Width(contentWidth).
				Render("Could not load note: " + snap.Err.Error())}
		}
		return modal.RenderedSection{Content: styles.Muted.Render("Loading, please wait...")}
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Width(contentWidth).Render(n.Title))
	sb.WriteString("\n")
	sb.WriteString(styles.TagChip(string(n.Tag)))
	if !n.CreatedAt.IsZero() {
		sb.WriteString("  ")
		sb.WriteString(styles.Muted.Render("Created " + n.CreatedAt.Local().Format(detailDateFmt)))
	}
	sb.WriteString("\n\n")
	if strings.TrimSpace(n.Content) == "" {
		sb.WriteString(styles.Muted.Render("(no content)"))
	} else {
		sb.WriteString(p.renderMarkdown(n.Content, contentWidth))
	}
	return modal.RenderedSection{Content: sb.String()}
}

func (p *Plugin) closeDetail() tea.Cmd {
	p.detail = nil
	return router.Back()
}

func (p *Plugin) handleDetailKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k.String(), keymap.ContextNoteDetail) {
	case "close":
		return p.closeDetail()
	case "scroll-down":
		p.detail.modal.ScrollBy(1)
		return nil
	case "scroll-up":
		p.detail.modal.ScrollBy(-1)
		return nil
	case "yank-note":
		return p.detailAction(detailYankID)
	case "delete-note":
		return p.detailAction(detailDeleteID)
	}
	action, cmd := p.detail.modal.HandleKey(k)
	return tea.Batch(cmd, p.detailAction(action))
}

func (p *Plugin) handleDetailMouse(m tea.MouseMsg) tea.Cmd {
	return p.detailAction(p.detail.modal.HandleMouse(m, p.detail.mouseHandler))
}

func (p *Plugin) detailAction(action string) tea.Cmd {
	switch action {
	case modal.ActionCancel:
		return p.closeDetail()
	case detailYankID:
		if n, ok := p.detailNote(); ok {
			return yankNote(n)
		}
	case detailDeleteID:
		if n, ok := p.detailNote(); ok {
			p.openDelete(n)
		}
	}
	return nil
}

// yankNote copies the note content to the system clipboard.
func yankNote(n note.Note) tea.Cmd {
	if err := clipboard.WriteAll(n.Content); err != nil {
		return showErrorToast("Copy failed: " + err.Error())
	}
	return showToast("Copied: " + ui.Truncate(n.Title, 30))
}
