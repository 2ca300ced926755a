package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Diff.DefaultMode != ModeUnified {
		t.Errorf("got mode %q, want %q", cfg.Diff.DefaultMode, ModeUnified)
	}
	if cfg.Diff.PageSize != 10 {
		t.Errorf("got page size %d, want 10", cfg.Diff.PageSize)
	}
	if cfg.Git.Timeout != 10*time.Second {
		t.Errorf("got timeout %v, want 10s", cfg.Git.Timeout)
	}
	if cfg.UI.FrameInterval != 33*time.Millisecond {
		t.Errorf("got frame interval %v, want 33ms", cfg.UI.FrameInterval)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"diff": {
			"defaultMode": "side-by-side",
			"wordDiff": false
		},
		"git": {
			"timeout": "5s"
		},
		"ui": {
			"showFooter": false
		},
		"keymap": {
			"overrides": {"stage-all": "S"}
		}
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Diff.DefaultMode != ModeSideBySide {
		t.Errorf("got mode %q, want side-by-side", cfg.Diff.DefaultMode)
	}
	if cfg.Diff.WordDiff {
		t.Error("wordDiff should be disabled")
	}
	if cfg.Git.Timeout != 5*time.Second {
		t.Errorf("got timeout %v, want 5s", cfg.Git.Timeout)
	}
	if cfg.UI.ShowFooter {
		t.Error("showFooter should be false")
	}
	if cfg.Keymap.Overrides["stage-all"] != "S" {
		t.Errorf("override not merged: %v", cfg.Keymap.Overrides)
	}
	// Default values should still be present
	if !cfg.Diff.Highlight {
		t.Error("highlight should still be enabled (default)")
	}
	if cfg.Diff.PageSize != 10 {
		t.Errorf("page size should keep its default, got %d", cfg.Diff.PageSize)
	}
}

func TestLoadFrom_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("diff:\n  defaultMode: file-tree\n  pageSize: 20\ngit:\n  watch: false\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Diff.DefaultMode != ModeFileTree {
		t.Errorf("got mode %q, want file-tree", cfg.Diff.DefaultMode)
	}
	if cfg.Diff.PageSize != 20 {
		t.Errorf("got page size %d, want 20", cfg.Diff.PageSize)
	}
	if cfg.Git.Watch {
		t.Error("watch should be disabled")
	}
}

func TestLoadFrom_YAMLUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	if err := os.WriteFile(path, []byte("diff:\n  colour: red\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("should error on unknown YAML field")
	}
}

func TestLoadFrom_EmptyYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("empty YAML should load defaults: %v", err)
	}
	if cfg.Diff.PageSize != 10 {
		t.Errorf("got page size %d, want 10", cfg.Diff.PageSize)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("should error on invalid JSON")
	}
}

func TestLoadFrom_BadDurationKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"ui": {"frameInterval": "soon"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.UI.FrameInterval != 33*time.Millisecond {
		t.Errorf("got %v, want default 33ms", cfg.UI.FrameInterval)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/logs/stagehand.log", filepath.Join(home, "logs/stagehand.log")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Diff.DefaultMode = "diagonal"
	cfg.Diff.PageSize = 0
	cfg.Git.Timeout = -1
	cfg.UI.FrameInterval = 0
	cfg.Keymap.Overrides = nil

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	if cfg.Diff.DefaultMode != ModeUnified {
		t.Errorf("got mode %q, want unified after validation", cfg.Diff.DefaultMode)
	}
	if cfg.Diff.PageSize != 10 {
		t.Errorf("got page size %d, want 10", cfg.Diff.PageSize)
	}
	if cfg.Git.Timeout != 10*time.Second {
		t.Errorf("got %v, want 10s after validation", cfg.Git.Timeout)
	}
	if cfg.UI.FrameInterval != 33*time.Millisecond {
		t.Errorf("got %v, want 33ms after validation", cfg.UI.FrameInterval)
	}
	if cfg.Keymap.Overrides == nil {
		t.Error("overrides map should be initialised")
	}
}
