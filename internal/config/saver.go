package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// saveConfig is the marshaling intermediary that uses string durations.
type saveConfig struct {
	API     saveAPIConfig   `json:"api"`
	Storage StorageConfig   `json:"storage"`
	Cache   saveCacheConfig `json:"cache"`
	UI      saveUIConfig    `json:"ui"`
	Keymap  KeymapConfig    `json:"keymap"`
}

type saveAPIConfig struct {
	BaseURL string `json:"baseURL,omitempty"`
	Token   string `json:"token,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

type saveCacheConfig struct {
	StaleTime string `json:"staleTime,omitempty"`
}

type saveUIConfig struct {
	ShowFooter     bool   `json:"showFooter"`
	DefaultTag     string `json:"defaultTag,omitempty"`
	SearchDebounce string `json:"searchDebounce,omitempty"`
}

// toSaveConfig converts Config to the serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		API: saveAPIConfig{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout.String(),
		},
		Storage: cfg.Storage,
		Cache: saveCacheConfig{
			StaleTime: cfg.Cache.StaleTime.String(),
		},
		UI: saveUIConfig{
			ShowFooter:     cfg.UI.ShowFooter,
			DefaultTag:     cfg.UI.DefaultTag,
			SearchDebounce: cfg.UI.SearchDebounce.String(),
		},
		Keymap: cfg.Keymap,
	}
}

// Save writes the config to ConfigPath. Keys in an existing file that
// Config does not manage are preserved.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path in the format implied by its extension.
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	doc := make(map[string]any)
	if existing, err := os.ReadFile(path); err == nil && len(existing) > 0 {
		if err := unmarshal(path, existing, &doc); err != nil {
			return err
		}
	}

	// Round-trip through JSON so managed sections become plain maps that
	// either encoder can write.
	managedJSON, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var managed map[string]any
	if err := json.Unmarshal(managedJSON, &managed); err != nil {
		return err
	}
	for k, v := range managed {
		doc[k] = v
	}

	var data []byte
	if isYAML(path) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
