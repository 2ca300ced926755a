package keymap

// Binding is one default key assignment. Keys lists every key that triggers
// Command; the first one is shown in help.
type Binding struct {
	Keys    []string
	Command string
	Help    string
	Context string
}

// Command identifiers, also used as keys of the keymap.overrides config map.
const (
	CmdCursorDown   = "cursor-down"
	CmdCursorUp     = "cursor-up"
	CmdPageDown     = "page-down"
	CmdPageUp       = "page-up"
	CmdCursorTop    = "cursor-top"
	CmdCursorBottom = "cursor-bottom"
	CmdToggleExpand = "toggle-expand"
	CmdToggleStage  = "toggle-stage"
	CmdStageAll     = "stage-all"
	CmdUnstageAll   = "unstage-all"
	CmdCycleMode    = "cycle-mode"
	CmdUnified      = "mode-unified"
	CmdSideBySide   = "mode-side-by-side"
	CmdFileTree     = "mode-file-tree"
	CmdSplit        = "mode-split"
	CmdSwitchPane   = "switch-pane"
	CmdRefresh      = "refresh"
	CmdYankPatch    = "yank-patch"
	CmdYankPath     = "yank-path"
	CmdHelp         = "help"
	CmdQuit         = "quit"
)

// Contexts group bindings in the help overlay.
const (
	ContextGlobal = "global"
	ContextList   = "list"
	ContextDiff   = "diff"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Navigation applies to whichever pane has focus
		{Keys: []string{"j", "down"}, Command: CmdCursorDown, Help: "down", Context: ContextDiff},
		{Keys: []string{"k", "up"}, Command: CmdCursorUp, Help: "up", Context: ContextDiff},
		{Keys: []string{"pgdown", "ctrl+d"}, Command: CmdPageDown, Help: "page down", Context: ContextDiff},
		{Keys: []string{"pgup", "ctrl+u"}, Command: CmdPageUp, Help: "page up", Context: ContextDiff},
		{Keys: []string{"g", "home"}, Command: CmdCursorTop, Help: "first", Context: ContextDiff},
		{Keys: []string{"G", "end"}, Command: CmdCursorBottom, Help: "last", Context: ContextDiff},

		// Staging list
		{Keys: []string{"enter"}, Command: CmdToggleExpand, Help: "expand/collapse", Context: ContextList},
		{Keys: []string{" ", "s"}, Command: CmdToggleStage, Help: "stage/unstage", Context: ContextList},
		{Keys: []string{"a"}, Command: CmdStageAll, Help: "stage all", Context: ContextList},
		{Keys: []string{"A"}, Command: CmdUnstageAll, Help: "unstage all", Context: ContextList},
		{Keys: []string{"y"}, Command: CmdYankPatch, Help: "yank patch", Context: ContextList},
		{Keys: []string{"Y"}, Command: CmdYankPath, Help: "yank path", Context: ContextList},

		// Viewer-wide
		{Keys: []string{"v"}, Command: CmdCycleMode, Help: "cycle view", Context: ContextGlobal},
		{Keys: []string{"1"}, Command: CmdUnified, Help: "unified", Context: ContextGlobal},
		{Keys: []string{"2"}, Command: CmdSideBySide, Help: "side-by-side", Context: ContextGlobal},
		{Keys: []string{"3"}, Command: CmdFileTree, Help: "file tree", Context: ContextGlobal},
		{Keys: []string{"4"}, Command: CmdSplit, Help: "split", Context: ContextGlobal},
		{Keys: []string{"tab"}, Command: CmdSwitchPane, Help: "switch pane", Context: ContextGlobal},
		{Keys: []string{"r"}, Command: CmdRefresh, Help: "refresh", Context: ContextGlobal},
		{Keys: []string{"?"}, Command: CmdHelp, Help: "help", Context: ContextGlobal},
		{Keys: []string{"q", "ctrl+c"}, Command: CmdQuit, Help: "quit", Context: ContextGlobal},
	}
}
