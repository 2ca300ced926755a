package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Diff   DiffConfig   `json:"diff"`
	Git    saveGit      `json:"git"`
	UI     saveUI       `json:"ui"`
	Keymap KeymapConfig `json:"keymap"`
}

type saveGit struct {
	Binary        string `json:"binary"`
	Timeout       string `json:"timeout"`
	Watch         bool   `json:"watch"`
	WatchDebounce string `json:"watchDebounce"`
}

type saveUI struct {
	SidebarWidth  int    `json:"sidebarWidth"`
	FrameInterval string `json:"frameInterval"`
	ShowFooter    bool   `json:"showFooter"`
	Mouse         bool   `json:"mouse"`
	LogFile       string `json:"logFile,omitempty"`
}

func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Diff: cfg.Diff,
		Git: saveGit{
			Binary:        cfg.Git.Binary,
			Timeout:       cfg.Git.Timeout.String(),
			Watch:         cfg.Git.Watch,
			WatchDebounce: cfg.Git.WatchDebounce.String(),
		},
		UI: saveUI{
			SidebarWidth:  cfg.UI.SidebarWidth,
			FrameInterval: cfg.UI.FrameInterval.String(),
			ShowFooter:    cfg.UI.ShowFooter,
			Mouse:         cfg.UI.Mouse,
			LogFile:       cfg.UI.LogFile,
		},
		Keymap: cfg.Keymap,
	}
}

// Marshal renders cfg as indented JSON in the on-disk format.
func Marshal(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(toSaveConfig(cfg), "", "  ")
}

// Save writes the config to ConfigPath. Top-level keys in an existing file
// that the config does not manage are kept.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, keeping unmanaged top-level keys.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// An unreadable file is overwritten rather than blocking the save.
		_ = json.Unmarshal(existing, &merged)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	var managed map[string]json.RawMessage
	if err := json.Unmarshal(data, &managed); err != nil {
		return err
	}
	for k, v := range managed {
		merged[k] = v
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0644)
}
