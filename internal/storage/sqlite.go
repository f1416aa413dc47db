package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite driver names. DriverModernc is pure Go and the default;
// DriverCGO needs a cgo build.
const (
	DriverModernc = "sqlite"
	DriverCGO     = "sqlite3"
)

// SQLiteStore keeps values in a kv table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path with the given
// driver. An empty driver selects DriverModernc. path may be ":memory:".
func OpenSQLite(path, driver string) (*SQLiteStore, error) {
	if driver == "" {
		driver = DriverModernc
	}
	dsn, err := sqliteDSN(path, driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps :memory: databases alive and avoids lock churn.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func sqliteDSN(path, driver string) (string, error) {
	memory := path == ":memory:"
	switch driver {
	case DriverModernc:
		if memory {
			return path, nil
		}
		return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	case DriverCGO:
		if memory {
			return path, nil
		}
		return path + "?_busy_timeout=5000&_journal_mode=WAL", nil
	}
	return "", errors.New("storage: unknown sqlite driver " + driver)
}

func (s *SQLiteStore) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(`
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
