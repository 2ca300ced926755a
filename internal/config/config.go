package config

import "time"

// View modes accepted by DiffConfig.DefaultMode.
const (
	ModeUnified    = "unified"
	ModeSideBySide = "side-by-side"
	ModeFileTree   = "file-tree"
	ModeSplit      = "split"
)

// Config is the root configuration structure.
type Config struct {
	Diff   DiffConfig   `json:"diff" yaml:"diff"`
	Git    GitConfig    `json:"git" yaml:"git"`
	UI     UIConfig     `json:"ui" yaml:"ui"`
	Keymap KeymapConfig `json:"keymap" yaml:"keymap"`
}

// DiffConfig configures diff loading and rendering.
type DiffConfig struct {
	DefaultMode    string `json:"defaultMode" yaml:"defaultMode"`
	PageSize       int    `json:"pageSize" yaml:"pageSize"`
	ContextLines   int    `json:"contextLines" yaml:"contextLines"`
	WordDiff       bool   `json:"wordDiff" yaml:"wordDiff"`
	Highlight      bool   `json:"highlight" yaml:"highlight"`
	HighlightStyle string `json:"highlightStyle" yaml:"highlightStyle"`
	MinPaneWidth   int    `json:"minPaneWidth" yaml:"minPaneWidth"` // panes narrower than this render nothing
}

// GitConfig configures the git command line layer.
type GitConfig struct {
	Binary        string        `json:"binary" yaml:"binary"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	Watch         bool          `json:"watch" yaml:"watch"`
	WatchDebounce time.Duration `json:"watchDebounce" yaml:"watchDebounce"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	SidebarWidth  int           `json:"sidebarWidth" yaml:"sidebarWidth"`
	FrameInterval time.Duration `json:"frameInterval" yaml:"frameInterval"`
	ShowFooter    bool          `json:"showFooter" yaml:"showFooter"`
	Mouse         bool          `json:"mouse" yaml:"mouse"`
	LogFile       string        `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

// KeymapConfig holds key binding overrides, command id to key.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Diff: DiffConfig{
			DefaultMode:    ModeUnified,
			PageSize:       10,
			ContextLines:   3,
			WordDiff:       true,
			Highlight:      true,
			HighlightStyle: "monokai",
			MinPaneWidth:   20,
		},
		Git: GitConfig{
			Binary:        "git",
			Timeout:       10 * time.Second,
			Watch:         true,
			WatchDebounce: 250 * time.Millisecond,
		},
		UI: UIConfig{
			SidebarWidth:  40,
			FrameInterval: 33 * time.Millisecond,
			ShowFooter:    true,
			Mouse:         true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// ValidMode reports whether mode names a diff view mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeUnified, ModeSideBySide, ModeFileTree, ModeSplit:
		return true
	}
	return false
}

// Validate repairs out-of-range values in place.
func (c *Config) Validate() error {
	d := Default()
	if !ValidMode(c.Diff.DefaultMode) {
		c.Diff.DefaultMode = d.Diff.DefaultMode
	}
	if c.Diff.PageSize < 1 {
		c.Diff.PageSize = d.Diff.PageSize
	}
	if c.Diff.ContextLines < 0 {
		c.Diff.ContextLines = d.Diff.ContextLines
	}
	if c.Diff.MinPaneWidth < 1 {
		c.Diff.MinPaneWidth = d.Diff.MinPaneWidth
	}
	if c.Diff.HighlightStyle == "" {
		c.Diff.HighlightStyle = d.Diff.HighlightStyle
	}
	if c.Git.Binary == "" {
		c.Git.Binary = d.Git.Binary
	}
	if c.Git.Timeout < 0 {
		c.Git.Timeout = d.Git.Timeout
	}
	if c.Git.WatchDebounce <= 0 {
		c.Git.WatchDebounce = d.Git.WatchDebounce
	}
	if c.UI.SidebarWidth < 10 {
		c.UI.SidebarWidth = d.UI.SidebarWidth
	}
	if c.UI.FrameInterval <= 0 {
		c.UI.FrameInterval = d.UI.FrameInterval
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
