package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// useTempState points the package at a state file under a temp dir and
// restores the previous globals afterwards.
func useTempState(t *testing.T) string {
	t.Helper()
	originalPath, originalCurrent := path, current
	t.Cleanup(func() {
		path = originalPath
		current = originalCurrent
	})
	stateFile := filepath.Join(t.TempDir(), "stagehand", "state.json")
	path = stateFile
	current = nil
	return stateFile
}

func TestInitWithDir(t *testing.T) {
	useTempState(t)

	if err := InitWithDir(t.TempDir()); err != nil {
		t.Fatalf("InitWithDir() failed: %v", err)
	}
	if current == nil {
		t.Fatal("current state should be initialized")
	}
	if current.DiffMode != "" {
		t.Errorf("default DiffMode = %q, want empty", current.DiffMode)
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	stateFile := useTempState(t)

	if err := os.MkdirAll(filepath.Dir(stateFile), 0755); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(State{DiffMode: "split", SidebarWidth: 33})
	if err := os.WriteFile(stateFile, data, 0644); err != nil {
		t.Fatalf("failed to write test state file: %v", err)
	}

	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if GetDiffMode() != "split" {
		t.Errorf("DiffMode = %q, want split", GetDiffMode())
	}
	if GetSidebarWidth() != 33 {
		t.Errorf("SidebarWidth = %d, want 33", GetSidebarWidth())
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	stateFile := useTempState(t)

	if err := os.MkdirAll(filepath.Dir(stateFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stateFile, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("failed to write invalid JSON: %v", err)
	}

	if err := Load(); err == nil {
		t.Error("Load() should return error for invalid JSON")
	}
	if GetDiffMode() != "" {
		t.Errorf("state should fall back to defaults, got %q", GetDiffMode())
	}
}

func TestSave_CreateDirectories(t *testing.T) {
	stateFile := useTempState(t)

	if err := SetDiffMode("side-by-side"); err != nil {
		t.Fatalf("SetDiffMode() failed: %v", err)
	}

	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatalf("state file not created: %v", err)
	}
	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("failed to unmarshal saved state: %v", err)
	}
	if loaded.DiffMode != "side-by-side" {
		t.Errorf("saved DiffMode = %q, want side-by-side", loaded.DiffMode)
	}

	entries, err := os.ReadDir(filepath.Dir(stateFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("state dir holds %d files, want only state.json", len(entries))
	}
}

func TestSave_WithoutPath(t *testing.T) {
	useTempState(t)
	path = ""

	if err := SetSidebarWidth(50); err != nil {
		t.Fatalf("SetSidebarWidth() without a path should not error, got %v", err)
	}
	if GetSidebarWidth() != 50 {
		t.Errorf("in-memory width = %d, want 50", GetSidebarWidth())
	}
}

func TestGetters_NilCurrent(t *testing.T) {
	useTempState(t)

	if mode := GetDiffMode(); mode != "" {
		t.Errorf("GetDiffMode() with nil current = %q, want empty", mode)
	}
	if w := GetSidebarWidth(); w != 0 {
		t.Errorf("GetSidebarWidth() with nil current = %d, want 0", w)
	}
}

func TestConcurrentAccess(t *testing.T) {
	useTempState(t)
	current = &State{DiffMode: "unified"}

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			mode := "unified"
			if n%2 == 0 {
				mode = "side-by-side"
			}
			if err := SetDiffMode(mode); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = GetDiffMode()
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	useTempState(t)

	if err := SetSidebarWidth(44); err != nil {
		t.Fatalf("SetSidebarWidth() failed: %v", err)
	}
	current = nil
	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if GetSidebarWidth() != 44 {
		t.Errorf("round-trip SidebarWidth = %d, want 44", GetSidebarWidth())
	}
}
