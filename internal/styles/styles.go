// Package styles holds the shared palette and lipgloss styles of the viewer.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	// Backgrounds behind the changed segments of a word diff.
	AddEmphBg    = lipgloss.Color("#14532D")
	RemoveEmphBg = lipgloss.Color("#7F1D1D")

	textOnLight = lipgloss.Color("#000000")
	textOnDark  = lipgloss.Color("#FFFFFF")
)

// Pane frames. The focused pane gets the accent border.
var (
	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BgTertiary).
			Padding(0, 1)
)

var (
	Title  = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	Muted  = lipgloss.NewStyle().Foreground(TextMuted)
	Subtle = lipgloss.NewStyle().Foreground(TextSubtle)

	// KeyHint renders a key name as a chip in the footer.
	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)
)

// Staging list: change letters and row selection.
var (
	StatusStaged    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	StatusModified  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	StatusUntracked = lipgloss.NewStyle().Foreground(TextMuted)
	StatusDeleted   = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// ListItemSelected marks the cursor row while the list is not focused.
	ListItemSelected = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary)
)

// Toasts shown in the footer.
var (
	ToastSuccess = lipgloss.NewStyle().
			Background(Success).
			Foreground(textOnLight).
			Bold(true).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Background(Error).
			Foreground(textOnDark).
			Bold(true).
			Padding(0, 1)
)

// Header and footer bars
var (
	BarTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	BarText  = lipgloss.NewStyle().Foreground(TextMuted)
	Header   = lipgloss.NewStyle().Background(BgSecondary)
	Footer   = lipgloss.NewStyle().Foreground(TextMuted).Background(BgSecondary)
)

// Diff pane
var (
	DiffAdd     = lipgloss.NewStyle().Foreground(Success)
	DiffRemove  = lipgloss.NewStyle().Foreground(Error)
	DiffContext = lipgloss.NewStyle().Foreground(TextSecondary)
	DiffHeader  = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	DiffMarker  = lipgloss.NewStyle().Foreground(Secondary)

	DiffAddEmph    = lipgloss.NewStyle().Foreground(TextPrimary).Background(AddEmphBg)
	DiffRemoveEmph = lipgloss.NewStyle().Foreground(TextPrimary).Background(RemoveEmphBg)

	// "\ No newline at end of file"
	DiffNoNewline = lipgloss.NewStyle().Foreground(Warning).Italic(true)

	// Blank rows that pad the shorter side of an aligned run.
	DiffPlaceholder = lipgloss.NewStyle().Foreground(TextSubtle)

	LineNumber = lipgloss.NewStyle().Foreground(TextMuted)
	TreeDir    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
)

// Help overlay
var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Background(BgSecondary).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true).
			MarginBottom(1)
)
