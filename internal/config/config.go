package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/marcus/notehub/internal/note"
)

// Config is the root configuration structure.
type Config struct {
	API     APIConfig     `json:"api"`
	Storage StorageConfig `json:"storage"`
	Cache   CacheConfig   `json:"cache"`
	UI      UIConfig      `json:"ui"`
	Keymap  KeymapConfig  `json:"keymap"`
}

// APIConfig configures the remote notes service.
type APIConfig struct {
	BaseURL string        `json:"baseURL"`
	Token   string        `json:"token"`
	Timeout time.Duration `json:"timeout"`
}

// StorageConfig configures where client state (the draft) is kept.
type StorageConfig struct {
	Backend      string `json:"backend"`      // "file", "sqlite" or "memory"
	Path         string `json:"path"`         // empty = default under the config dir
	SQLiteDriver string `json:"sqliteDriver"` // "sqlite" (pure Go) or "sqlite3" (cgo)
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	StaleTime time.Duration `json:"staleTime"`
}

// UIConfig configures UI behavior.
type UIConfig struct {
	ShowFooter     bool          `json:"showFooter"`
	DefaultTag     string        `json:"defaultTag"`
	SearchDebounce time.Duration `json:"searchDebounce"`
}

// KeymapConfig holds key binding overrides, key -> command.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// Defaults.
const (
	DefaultBaseURL        = "https://notehub-public.goit.study/api"
	DefaultTimeout        = 10 * time.Second
	DefaultStaleTime      = 5 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Storage: StorageConfig{
			Backend:      "file",
			SQLiteDriver: "sqlite",
		},
		Cache: CacheConfig{
			StaleTime: DefaultStaleTime,
		},
		UI: UIConfig{
			ShowFooter:     true,
			DefaultTag:     note.AllTags,
			SearchDebounce: DefaultSearchDebounce,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors. Out-of-range durations and
// unknown tags are reset to defaults; a bad URL or backend is an error.
func (c *Config) Validate() error {
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Cache.StaleTime <= 0 {
		c.Cache.StaleTime = DefaultStaleTime
	}
	if c.UI.SearchDebounce <= 0 {
		c.UI.SearchDebounce = DefaultSearchDebounce
	}
	if c.UI.DefaultTag != note.AllTags && !note.Tag(c.UI.DefaultTag).Valid() {
		c.UI.DefaultTag = note.AllTags
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.baseURL %q is not an absolute URL", c.API.BaseURL)
	}

	switch c.Storage.Backend {
	case "", "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend %q must be file, sqlite or memory", c.Storage.Backend)
	}
	switch c.Storage.SQLiteDriver {
	case "", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("storage.sqliteDriver %q must be sqlite or sqlite3", c.Storage.SQLiteDriver)
	}
	return nil
}
