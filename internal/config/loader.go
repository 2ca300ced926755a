package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "stagehand"
	configFile = "config.json"
)

// rawConfig is the unmarshaling intermediary. Pointers and strings tell an
// absent key apart from a zero value.
type rawConfig struct {
	Diff   rawDiffConfig `json:"diff" yaml:"diff"`
	Git    rawGitConfig  `json:"git" yaml:"git"`
	UI     rawUIConfig   `json:"ui" yaml:"ui"`
	Keymap KeymapConfig  `json:"keymap" yaml:"keymap"`
}

type rawDiffConfig struct {
	DefaultMode    string `json:"defaultMode" yaml:"defaultMode"`
	PageSize       *int   `json:"pageSize" yaml:"pageSize"`
	ContextLines   *int   `json:"contextLines" yaml:"contextLines"`
	WordDiff       *bool  `json:"wordDiff" yaml:"wordDiff"`
	Highlight      *bool  `json:"highlight" yaml:"highlight"`
	HighlightStyle string `json:"highlightStyle" yaml:"highlightStyle"`
	MinPaneWidth   *int   `json:"minPaneWidth" yaml:"minPaneWidth"`
}

type rawGitConfig struct {
	Binary        string `json:"binary" yaml:"binary"`
	Timeout       string `json:"timeout" yaml:"timeout"`
	Watch         *bool  `json:"watch" yaml:"watch"`
	WatchDebounce string `json:"watchDebounce" yaml:"watchDebounce"`
}

type rawUIConfig struct {
	SidebarWidth  *int   `json:"sidebarWidth" yaml:"sidebarWidth"`
	FrameInterval string `json:"frameInterval" yaml:"frameInterval"`
	ShowFooter    *bool  `json:"showFooter" yaml:"showFooter"`
	Mouse         *bool  `json:"mouse" yaml:"mouse"`
	LogFile       string `json:"logFile" yaml:"logFile"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path. If path is empty the
// default location is used. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	mergeConfig(cfg, &raw)
	cfg.UI.LogFile = ExpandPath(cfg.UI.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Diff
	if raw.Diff.DefaultMode != "" {
		cfg.Diff.DefaultMode = raw.Diff.DefaultMode
	}
	setInt(&cfg.Diff.PageSize, raw.Diff.PageSize)
	setInt(&cfg.Diff.ContextLines, raw.Diff.ContextLines)
	setBool(&cfg.Diff.WordDiff, raw.Diff.WordDiff)
	setBool(&cfg.Diff.Highlight, raw.Diff.Highlight)
	if raw.Diff.HighlightStyle != "" {
		cfg.Diff.HighlightStyle = raw.Diff.HighlightStyle
	}
	setInt(&cfg.Diff.MinPaneWidth, raw.Diff.MinPaneWidth)

	// Git
	if raw.Git.Binary != "" {
		cfg.Git.Binary = raw.Git.Binary
	}
	setDuration(&cfg.Git.Timeout, raw.Git.Timeout, "git.timeout")
	setBool(&cfg.Git.Watch, raw.Git.Watch)
	setDuration(&cfg.Git.WatchDebounce, raw.Git.WatchDebounce, "git.watchDebounce")

	// UI
	setInt(&cfg.UI.SidebarWidth, raw.UI.SidebarWidth)
	setDuration(&cfg.UI.FrameInterval, raw.UI.FrameInterval, "ui.frameInterval")
	setBool(&cfg.UI.ShowFooter, raw.UI.ShowFooter)
	setBool(&cfg.UI.Mouse, raw.UI.Mouse)
	if raw.UI.LogFile != "" {
		cfg.UI.LogFile = raw.UI.LogFile
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, s, key string) {
	if s == "" {
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		slog.Warn("invalid duration in config", "key", key, "value", s, "err", err)
		return
	}
	*dst = d
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

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	return filepath.Join(xdg.ConfigHome, appName, configFile)
}

// StateDir returns the directory for state and log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

var testConfigPath string

// SetTestConfigPath redirects ConfigPath for tests.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath undoes SetTestConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }
