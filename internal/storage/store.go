// Package storage provides small key/value stores used to persist client
// state such as the note draft between runs.
package storage

import "errors"

// ErrInvalidValue is returned by stores that require values to be JSON.
var ErrInvalidValue = errors.New("storage: value is not valid JSON")

// Store is a string-keyed byte store. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for the named backend. path is ignored for the
// memory backend; driver only applies to sqlite.
func Open(backend, path, driver string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path, driver)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, errors.New("storage: unknown backend " + backend)
}

// Close closes s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
