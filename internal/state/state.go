package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent UI preferences. Repository data is never stored
// here.
type State struct {
	DiffMode     string `json:"diffMode"`
	SidebarWidth int    `json:"sidebarWidth,omitempty"` // 0 = use configured width
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// InitWithDir loads state from dir/state.json. Until it is called, getters
// return defaults and setters keep values in memory only.
func InitWithDir(dir string) error {
	mu.Lock()
	path = filepath.Join(dir, "state.json")
	mu.Unlock()
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, current); err != nil {
		current = &State{}
		return err
	}
	return nil
}

// Save writes state to disk. The file is replaced atomically so a second
// instance never reads a half-written file.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()
	return saveLocked()
}

func saveLocked() error {
	if current == nil || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// update applies fn to the in-memory state and persists the result.
func update(fn func(*State)) error {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	return saveLocked()
}

func read[T any](get func(*State) T) T {
	mu.RLock()
	defer mu.RUnlock()
	var zero T
	if current == nil {
		return zero
	}
	return get(current)
}

// GetDiffMode returns the saved diff view mode, or "" when none is saved.
func GetDiffMode() string {
	return read(func(s *State) string { return s.DiffMode })
}

// SetDiffMode saves the diff view mode preference.
func SetDiffMode(mode string) error {
	return update(func(s *State) { s.DiffMode = mode })
}

// GetSidebarWidth returns the saved staging list width, or 0 when none is
// saved.
func GetSidebarWidth() int {
	return read(func(s *State) int { return s.SidebarWidth })
}

// SetSidebarWidth saves the staging list width.
func SetSidebarWidth(width int) error {
	return update(func(s *State) { s.SidebarWidth = width })
}
