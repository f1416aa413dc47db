package keymap

// Focus contexts.
const (
	ContextNotes       = "notes"
	ContextNotesSearch = "notes-search"
	ContextNoteCreate  = "note-create"
	ContextNoteDetail  = "note-detail"
	ContextNoteDelete  = "note-delete"
	ContextNotFound    = "not-found"
	ContextHelp        = "help"
	ContextDiagnostics = "diagnostics"
	ContextQuit        = "quit-confirm"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "q", Command: "quit", Context: "global"},
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "?", Command: "toggle-help", Context: "global"},
		{Key: "ctrl+h", Command: "toggle-footer", Context: "global"},
		{Key: "!", Command: "toggle-diagnostics", Context: "global"},
		{Key: "R", Command: "refresh", Context: "global"},
		{Key: "esc", Command: "back", Context: "global"},

		// Notes list
		{Key: "j", Command: "cursor-down", Context: ContextNotes},
		{Key: "down", Command: "cursor-down", Context: ContextNotes},
		{Key: "k", Command: "cursor-up", Context: ContextNotes},
		{Key: "up", Command: "cursor-up", Context: ContextNotes},
		{Key: "g", Command: "cursor-top", Context: ContextNotes},
		{Key: "G", Command: "cursor-bottom", Context: ContextNotes},
		{Key: "enter", Command: "open-note", Context: ContextNotes},
		{Key: "/", Command: "search", Context: ContextNotes},
		{Key: "n", Command: "new-note", Context: ContextNotes},
		{Key: "d", Command: "delete-note", Context: ContextNotes},
		{Key: "y", Command: "yank-note", Context: ContextNotes},
		{Key: "]", Command: "next-page", Context: ContextNotes},
		{Key: "right", Command: "next-page", Context: ContextNotes},
		{Key: "[", Command: "prev-page", Context: ContextNotes},
		{Key: "left", Command: "prev-page", Context: ContextNotes},
		{Key: "t", Command: "next-tag", Context: ContextNotes},
		{Key: "T", Command: "prev-tag", Context: ContextNotes},
		{Key: "1", Command: "tag-1", Context: ContextNotes},
		{Key: "2", Command: "tag-2", Context: ContextNotes},
		{Key: "3", Command: "tag-3", Context: ContextNotes},
		{Key: "4", Command: "tag-4", Context: ContextNotes},
		{Key: "5", Command: "tag-5", Context: ContextNotes},
		{Key: "6", Command: "tag-6", Context: ContextNotes},
		{Key: "r", Command: "retry", Context: ContextNotes},

		// Search input
		{Key: "esc", Command: "clear-search", Context: ContextNotesSearch},
		{Key: "enter", Command: "confirm-search", Context: ContextNotesSearch},
		{Key: "tab", Command: "confirm-search", Context: ContextNotesSearch},

		// Create form
		{Key: "tab", Command: "next-field", Context: ContextNoteCreate},
		{Key: "shift+tab", Command: "prev-field", Context: ContextNoteCreate},
		{Key: "ctrl+s", Command: "submit", Context: ContextNoteCreate},
		{Key: "esc", Command: "cancel", Context: ContextNoteCreate},

		// Detail
		{Key: "esc", Command: "close", Context: ContextNoteDetail},
		{Key: "j", Command: "scroll-down", Context: ContextNoteDetail},
		{Key: "k", Command: "scroll-up", Context: ContextNoteDetail},
		{Key: "y", Command: "yank-note", Context: ContextNoteDetail},
		{Key: "d", Command: "delete-note", Context: ContextNoteDetail},

		// Delete confirm
		{Key: "y", Command: "confirm", Context: ContextNoteDelete},
		{Key: "enter", Command: "confirm", Context: ContextNoteDelete},
		{Key: "n", Command: "cancel", Context: ContextNoteDelete},
		{Key: "esc", Command: "cancel", Context: ContextNoteDelete},

		// Not found
		{Key: "esc", Command: "back", Context: ContextNotFound},
		{Key: "enter", Command: "home", Context: ContextNotFound},

		// Help and quit modals
		{Key: "esc", Command: "close", Context: ContextHelp},
		{Key: "?", Command: "close", Context: ContextHelp},
		{Key: "esc", Command: "close", Context: ContextDiagnostics},
		{Key: "!", Command: "close", Context: ContextDiagnostics},
		{Key: "y", Command: "confirm", Context: ContextQuit},
		{Key: "n", Command: "cancel", Context: ContextQuit},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
