// Package draft persists the in-progress note between runs.
package draft

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/storage"
)

// Key is the storage key of the persisted draft.
const Key = "note-draft"

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title   *string
	Content *string
	Tag     *string
}

// Str returns a pointer to s, for building a Patch.
func Str(s string) *string { return &s }

// Store holds the current draft and mirrors every change to a
// storage.Store. If the backing store fails, the draft keeps working in
// memory for the rest of the session.
type Store struct {
	mu       sync.Mutex
	current  note.Draft
	backend  storage.Store
	degraded bool
	logger   *slog.Logger
}

// New loads the persisted draft from backend. A missing or unreadable
// record yields the default draft. backend may be nil for memory-only use.
func New(backend storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		current: note.DefaultDraft(),
		backend: backend,
		logger:  logger,
	}
	if backend == nil {
		s.degraded = true
		return s
	}
	s.current = s.read()
	return s
}

// read returns the persisted draft, or the default.
func (s *Store) read() note.Draft {
	raw, ok, err := s.backend.Get(Key)
	if err != nil {
		s.degrade("read", err)
		return note.DefaultDraft()
	}
	if !ok {
		return note.DefaultDraft()
	}
	d := note.DefaultDraft()
	if err := json.Unmarshal(raw, &d); err != nil {
		s.logger.Warn("draft: ignoring corrupt record", "err", err)
		return note.DefaultDraft()
	}
	return d
}

// Get returns the current draft.
func (s *Store) Get() note.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set applies p to the current draft and persists the result.
func (s *Store) Set(p Patch) note.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Title != nil {
		s.current.Title = *p.Title
	}
	if p.Content != nil {
		s.current.Content = *p.Content
	}
	if p.Tag != nil {
		s.current.Tag = *p.Tag
	}
	s.persist()
	return s.current
}

// Clear resets the draft to the default and removes the persisted record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = note.DefaultDraft()
	if s.degraded {
		return
	}
	if err := s.backend.Remove(Key); err != nil {
		s.degrade("remove", err)
	}
}

// Reload re-reads the persisted draft, picking up writes made by another
// process. It reports whether the draft changed.
func (s *Store) Reload() (note.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return s.current, false
	}
	d := s.read()
	changed := d != s.current
	s.current = d
	return d, changed
}

// Persistent reports whether changes still reach the backing store.
func (s *Store) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.degraded
}

func (s *Store) persist() {
	if s.degraded {
		return
	}
	raw, err := json.Marshal(s.current)
	if err != nil {
		s.degrade("encode", err)
		return
	}
	if err := s.backend.Set(Key, raw); err != nil {
		s.degrade("write", err)
	}
}

func (s *Store) degrade(op string, err error) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.logger.Warn("draft: storage unavailable, keeping draft in memory", "op", op, "err", err)
}
