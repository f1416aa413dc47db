package notes

import (
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/plugin"
)

// Commands returns the commands available in the current focus context.
func (p *Plugin) Commands() []plugin.Command {
	if p.del != nil {
		return []plugin.Command{
			{ID: "confirm", Name: "Delete", Description: "Confirm delete", Category: plugin.CategoryActions, Context: keymap.ContextNoteDelete, Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Cancel delete", Category: plugin.CategoryActions, Context: keymap.ContextNoteDelete, Priority: 2},
		}
	}
	if p.form != nil {
		return []plugin.Command{
			{ID: "submit", Name: "Create", Description: "Create the note", Category: plugin.CategoryEdit, Context: keymap.ContextNoteCreate, Priority: 1},
			{ID: "next-field", Name: "Next", Description: "Next field", Category: plugin.CategoryNavigation, Context: keymap.ContextNoteCreate, Priority: 2},
			{ID: "cancel", Name: "Cancel", Description: "Close the form and keep the draft", Category: plugin.CategoryEdit, Context: keymap.ContextNoteCreate, Priority: 3},
		}
	}
	if p.detail != nil {
		return []plugin.Command{
			{ID: "close", Name: "Close", Description: "Close the note", Category: plugin.CategoryNavigation, Context: keymap.ContextNoteDetail, Priority: 1},
			{ID: "scroll-down", Name: "Down", Description: "Scroll down", Category: plugin.CategoryNavigation, Context: keymap.ContextNoteDetail, Priority: 2},
			{ID: "yank-note", Name: "Yank", Description: "Copy note content", Category: plugin.CategoryActions, Context: keymap.ContextNoteDetail, Priority: 3},
			{ID: "delete-note", Name: "Delete", Description: "Delete this note", Category: plugin.CategoryActions, Context: keymap.ContextNoteDetail, Priority: 4},
		}
	}
	if p.searchMode {
		return []plugin.Command{
			{ID: "confirm-search", Name: "Search", Description: "Search now", Category: plugin.CategorySearch, Context: keymap.ContextNotesSearch, Priority: 1},
			{ID: "clear-search", Name: "Clear", Description: "Clear search", Category: plugin.CategorySearch, Context: keymap.ContextNotesSearch, Priority: 2},
		}
	}

	cmds := []plugin.Command{
		{ID: "open-note", Name: "Open", Description: "Open selected note", Category: plugin.CategoryActions, Context: keymap.ContextNotes, Priority: 1},
		{ID: "new-note", Name: "New", Description: "Create a note", Category: plugin.CategoryActions, Context: keymap.ContextNotes, Priority: 2},
		{ID: "search", Name: "Search", Description: "Search notes", Category: plugin.CategorySearch, Context: keymap.ContextNotes, Priority: 3},
		{ID: "next-tag", Name: "Tag", Description: "Next tag filter", Category: plugin.CategoryNavigation, Context: keymap.ContextNotes, Priority: 4},
		{ID: "delete-note", Name: "Delete", Description: "Delete selected note", Category: plugin.CategoryActions, Context: keymap.ContextNotes, Priority: 6},
		{ID: "yank-note", Name: "Yank", Description: "Copy note content", Category: plugin.CategoryActions, Context: keymap.ContextNotes, Priority: 7},
	}
	if p.totalPages() > 1 {
		cmds = append(cmds,
			plugin.Command{ID: "next-page", Name: "Next", Description: "Next page", Category: plugin.CategoryNavigation, Context: keymap.ContextNotes, Priority: 5},
			plugin.Command{ID: "prev-page", Name: "Prev", Description: "Previous page", Category: plugin.CategoryNavigation, Context: keymap.ContextNotes, Priority: 5},
		)
	}
	if p.snapshot().Err != nil {
		cmds = append(cmds,
			plugin.Command{ID: "retry", Name: "Retry", Description: "Try loading again", Category: plugin.CategoryActions, Context: keymap.ContextNotes, Priority: 0},
		)
	}
	return cmds
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	switch {
	case p.del != nil:
		return keymap.ContextNoteDelete
	case p.form != nil:
		return keymap.ContextNoteCreate
	case p.detail != nil:
		return keymap.ContextNoteDetail
	case p.searchMode:
		return keymap.ContextNotesSearch
	}
	return keymap.ContextNotes
}
