package notes

import (
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/query"
)

// NotesLoadedMsg reports the outcome of a list fetch. The key is carried so
// results for a key the user has moved away from are not acted on.
type NotesLoadedMsg struct {
	Key    query.Key
	Result note.ListResult
	Err    error
	Epoch  uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NotesLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteLoadedMsg reports the outcome of a detail fetch.
type NoteLoadedMsg struct {
	ID    string
	Note  note.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteLoadedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteCreatedMsg reports the outcome of a create request.
type NoteCreatedMsg struct {
	Note  note.Note
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteCreatedMsg) GetEpoch() uint64 { return m.Epoch }

// NoteDeletedMsg reports the outcome of a delete request.
type NoteDeletedMsg struct {
	ID    string
	Title string
	Err   error
	Epoch uint64
}

// GetEpoch implements plugin.EpochMessage.
func (m NoteDeletedMsg) GetEpoch() uint64 { return m.Epoch }

// searchDebounceMsg fires when the search debounce elapses. Only the tick
// whose ID matches the latest keystroke is acted on.
type searchDebounceMsg struct {
	ID int
}

// DraftChangedMsg is sent when the persisted draft was modified outside
// this process.
type DraftChangedMsg struct{}

// draftWatchClosedMsg is sent when the draft watcher stops.
type draftWatchClosedMsg struct{}
