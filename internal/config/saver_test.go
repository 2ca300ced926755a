package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	initial := []byte(`{
  "aliases": {"st": "status"},
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := Save(Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	for _, key := range []string{"aliases", "customKey", "diff", "git", "ui", "keymap"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("saved config is missing %q", key)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Default()
	cfg.Diff.DefaultMode = ModeSplit
	cfg.Git.WatchDebounce = time.Second
	cfg.UI.SidebarWidth = 55

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Diff.DefaultMode != ModeSplit {
		t.Errorf("got mode %q, want split", loaded.Diff.DefaultMode)
	}
	if loaded.Git.WatchDebounce != time.Second {
		t.Errorf("got debounce %v, want 1s", loaded.Git.WatchDebounce)
	}
	if loaded.UI.SidebarWidth != 55 {
		t.Errorf("got sidebar width %d, want 55", loaded.UI.SidebarWidth)
	}
}

func TestMarshal_StringDurations(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Git struct {
			Timeout string `json:"timeout"`
		} `json:"git"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Git.Timeout != "10s" {
		t.Errorf("got timeout %q, want \"10s\"", out.Git.Timeout)
	}
}
