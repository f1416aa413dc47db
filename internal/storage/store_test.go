package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "state.db"), DriverModernc)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(dir, "nested", "state.json")),
		"sqlite": sq,
	}
}

func TestStore_GetSetRemove(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v, err %v; want false, nil", ok, err)
			}

			if err := s.Set("k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, ok, err := s.Get("k")
			if err != nil || !ok {
				t.Fatalf("Get(k) = ok %v, err %v", ok, err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("Get(k) = %s, want {\"a\":1}", got)
			}

			if err := s.Set("k", []byte(`"second"`)); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			got, _, _ = s.Get("k")
			if string(got) != `"second"` {
				t.Errorf("Get(k) after overwrite = %s", got)
			}

			if err := s.Remove("k"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, ok, _ := s.Get("k"); ok {
				t.Error("key still present after Remove")
			}
			if err := s.Remove("k"); err != nil {
				t.Errorf("Remove() of missing key error = %v", err)
			}
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	v := []byte("abc")
	_ = s.Set("k", v)
	v[0] = 'x'

	got, _, _ := s.Get("k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

func TestFileStore_RejectsNonJSON(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err := s.Set("k", []byte("not json")); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set() error = %v, want ErrInvalidValue", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := NewFileStore(path).Set("draft", []byte(`{"title":"x"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := NewFileStore(path).Get("draft")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if string(got) != `{"title":"x"}` {
		t.Errorf("Get() = %s", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStore(path).Get("k"); err == nil {
		t.Error("expected parse error for corrupt file")
	}
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := OpenSQLite(path, "")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s1.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path, "")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	got, ok, err := s2.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		driver  string
		want    string
		wantErr bool
	}{
		{"modernc file", "/tmp/a.db", DriverModernc, "file:/tmp/a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", false},
		{"cgo file", "/tmp/a.db", DriverCGO, "/tmp/a.db?_busy_timeout=5000&_journal_mode=WAL", false},
		{"memory", ":memory:", DriverModernc, ":memory:", false},
		{"unknown", "/tmp/a.db", "pg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqliteDSN(tt.path, tt.driver)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sqliteDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("sqliteDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{BackendFile, false},
		{BackendMemory, false},
		{BackendSQLite, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := Open(tt.backend, filepath.Join(dir, tt.backend+".store"), "")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v", tt.backend, err)
			}
			if s != nil {
				Close(s)
			}
		})
	}
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := NewFileStore(path).Set("k", []byte(`1`)); err != nil {
		t.Fatal(err)
	}

	select {
	case <-events:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			// drain a late notification, then expect close
			if _, ok := <-events; ok {
				t.Error("channel not closed after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, filepath.Join(dir, "state.json"), 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-events:
		t.Error("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
