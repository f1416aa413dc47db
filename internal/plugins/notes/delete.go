package notes

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/mouse"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/styles"
	"github.com/marcus/notehub/internal/ui"
)

// deleteConfirm is the confirmation dialog shown before a delete.
type deleteConfirm struct {
	note         note.Note
	modal        *modal.Modal
	mouseHandler *mouse.Handler
	pending      bool
}

func (p *Plugin) openDelete(n note.Note) {
	d := ui.NewConfirmDialog("Delete note?",
		fmt.Sprintf("Delete %q? This cannot be undone.", ui.Truncate(n.Title, 40)))
	d.ConfirmLabel = " Delete "
	d.BorderColor = styles.Error
	p.del = &deleteConfirm{
		note:         n,
		modal:        d.ToModal(),
		mouseHandler: mouse.NewHandler(),
	}
}

func (p *Plugin) handleDeleteKey(k tea.KeyMsg) tea.Cmd {
	switch p.lookup(k.String(), keymap.ContextNoteDelete) {
	case "confirm":
		return p.deleteAction("confirm")
	case "cancel":
		return p.deleteAction(modal.ActionCancel)
	}
	action, cmd := p.del.modal.HandleKey(k)
	return tea.Batch(cmd, p.deleteAction(action))
}

func (p *Plugin) handleDeleteMouse(m tea.MouseMsg) tea.Cmd {
	return p.deleteAction(p.del.modal.HandleMouse(m, p.del.mouseHandler))
}

func (p *Plugin) deleteAction(action string) tea.Cmd {
	switch action {
	case "confirm":
		if p.del.pending {
			return nil
		}
		p.del.pending = true
		return p.deleteNote(p.del.note)
	case modal.ActionCancel:
		p.del = nil
	}
	return nil
}

func (p *Plugin) deleteNote(n note.Note) tea.Cmd {
	api, epoch := p.api, p.epoch()
	return func() tea.Msg {
		_, err := api.Delete(context.Background(), n.ID)
		return NoteDeletedMsg{ID: n.ID, Title: n.Title, Err: err, Epoch: epoch}
	}
}

func (p *Plugin) handleDeleted(m NoteDeletedMsg) tea.Cmd {
	p.del = nil
	if m.Err != nil {
		p.logger().Warn("notes: delete failed", "id", m.ID, "error", m.Err)
		return showErrorToast("Delete failed: " + m.Err.Error())
	}

	p.lists.InvalidatePrefix("notes")
	p.notes.Remove(noteKey(m.ID))

	cmds := []tea.Cmd{showToast("Note deleted")}
	if p.detail != nil && p.detail.id == m.ID {
		p.detail = nil
		cmds = append(cmds, router.Back())
	}
	cmds = append(cmds, p.ensureList())
	return tea.Batch(cmds...)
}
