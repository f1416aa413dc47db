package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/notehub"
	configFile = "config.json"
)

// Environment variables that override file values.
const (
	EnvAPIURL = "NOTEHUB_API_URL"
	EnvToken  = "NOTEHUB_TOKEN"
)

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// rawConfig is the unmarshaling intermediary. Durations are strings and
// optional values are pointers so absent keys keep their defaults.
type rawConfig struct {
	API     rawAPIConfig     `json:"api" yaml:"api"`
	Storage rawStorageConfig `json:"storage" yaml:"storage"`
	Cache   rawCacheConfig   `json:"cache" yaml:"cache"`
	UI      rawUIConfig      `json:"ui" yaml:"ui"`
	Keymap  rawKeymapConfig  `json:"keymap" yaml:"keymap"`
}

type rawAPIConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
	Token   string `json:"token" yaml:"token"`
	Timeout string `json:"timeout" yaml:"timeout"`
}

type rawStorageConfig struct {
	Backend      string `json:"backend" yaml:"backend"`
	Path         string `json:"path" yaml:"path"`
	SQLiteDriver string `json:"sqliteDriver" yaml:"sqliteDriver"`
}

type rawCacheConfig struct {
	StaleTime string `json:"staleTime" yaml:"staleTime"`
}

type rawUIConfig struct {
	ShowFooter     *bool  `json:"showFooter" yaml:"showFooter"`
	DefaultTag     string `json:"defaultTag" yaml:"defaultTag"`
	SearchDebounce string `json:"searchDebounce" yaml:"searchDebounce"`
}

type rawKeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/notehub/config.json. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
// Environment overrides are applied after the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults
		case err != nil:
			return nil, err
		default:
			var raw rawConfig
			if err := unmarshal(path, data, &raw); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			mergeConfig(cfg, &raw)
		}
	}

	ApplyEnv(cfg)
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(path string, data []byte, v any) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// API
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(raw.API.BaseURL, "/")
	}
	if raw.API.Token != "" {
		cfg.API.Token = raw.API.Token
	}
	if d, ok := parseDuration(raw.API.Timeout); ok {
		cfg.API.Timeout = d
	}

	// Storage
	if raw.Storage.Backend != "" {
		cfg.Storage.Backend = raw.Storage.Backend
	}
	if raw.Storage.Path != "" {
		cfg.Storage.Path = raw.Storage.Path
	}
	if raw.Storage.SQLiteDriver != "" {
		cfg.Storage.SQLiteDriver = raw.Storage.SQLiteDriver
	}

	// Cache
	if d, ok := parseDuration(raw.Cache.StaleTime); ok {
		cfg.Cache.StaleTime = d
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.DefaultTag != "" {
		cfg.UI.DefaultTag = raw.UI.DefaultTag
	}
	if d, ok := parseDuration(raw.UI.SearchDebounce); ok {
		cfg.UI.SearchDebounce = d
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// ApplyEnv overrides API settings from the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.API.Token = v
	}
}

// LoadDotenv loads a .env file from dir into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotenv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Dir returns the notehub config directory.
func Dir() string {
	if testConfigPath != "" {
		return filepath.Dir(testConfigPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// StoragePath returns the configured storage path, or the default file
// for the backend inside the config directory.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	name := "state.json"
	if c.Storage.Backend == "sqlite" {
		name = "state.db"
	}
	return filepath.Join(Dir(), name)
}

// SetTestConfigPath points ConfigPath at path. Tests only.
func SetTestConfigPath(path string) {
	testConfigPath = path
}

// ResetTestConfigPath restores the default config location.
func ResetTestConfigPath() {
	testConfigPath = ""
}
