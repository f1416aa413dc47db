package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write a config file that includes keys not managed by Save
	initial := []byte(`{
  "profiles": [
    {"name": "staging", "baseURL": "https://staging.example.com"}
  ],
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	// Point Save() at our temp file
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	// Save a default config
	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Read back and verify profiles and customKey still exist
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	if _, ok := raw["profiles"]; !ok {
		t.Error("Save() deleted 'profiles' key from config.json")
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("Save() deleted 'customKey' from config.json")
	}

	var profiles []map[string]interface{}
	if err := json.Unmarshal(raw["profiles"], &profiles); err != nil {
		t.Fatalf("unmarshal profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0]["name"] != "staging" {
		t.Errorf("profiles = %v", profiles)
	}

	// Verify managed keys are also present
	for _, key := range []string{"api", "storage", "cache", "ui", "keymap"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Save() did not write %q key", key)
		}
	}
}

func TestSave_WorksWithNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify file was created and is valid JSON
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := raw["api"]; !ok {
		t.Error("missing 'api' key")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.API.Token = "tok"
			cfg.Cache.StaleTime = 12 * time.Second
			cfg.UI.ShowFooter = false
			cfg.UI.DefaultTag = "Meeting"
			cfg.Keymap.Overrides["ctrl+n"] = "new-note"

			if err := SaveTo(path, cfg); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			got, err := LoadFrom(path)
			if err != nil {
				t.Fatalf("LoadFrom failed: %v", err)
			}
			if got.API.Token != "tok" || got.Cache.StaleTime != 12*time.Second {
				t.Errorf("loaded api/cache = %+v / %+v", got.API, got.Cache)
			}
			if got.UI.ShowFooter || got.UI.DefaultTag != "Meeting" {
				t.Errorf("loaded ui = %+v", got.UI)
			}
			if got.Keymap.Overrides["ctrl+n"] != "new-note" {
				t.Errorf("loaded overrides = %v", got.Keymap.Overrides)
			}
		})
	}
}

func TestSave_YAMLPreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("customKey: kept\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveTo(path, Default()); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["customKey"] != "kept" {
		t.Errorf("customKey = %v", doc["customKey"])
	}
	if _, ok := doc["api"]; !ok {
		t.Error("missing api section")
	}
}
