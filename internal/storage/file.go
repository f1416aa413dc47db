package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all keys in a single JSON object on disk. Values must be
// valid JSON so the file stays readable. The file is re-read on every call
// so writes from another process are picked up.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path. The file and
// its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := data[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *FileStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return ErrInvalidValue
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = json.RawMessage(append([]byte(nil), value...))
	return f.save(data)
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

func (f *FileStore) load() (map[string]json.RawMessage, error) {
	data := make(map[string]json.RawMessage)
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return data, nil // no file yet
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return data, nil
}

// save writes to a temp file in the same directory and renames it over the
// target so readers never see a partial file.
func (f *FileStore) save(data map[string]json.RawMessage) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
