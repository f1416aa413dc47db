package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	// Primary colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	Info    = lipgloss.Color("#3B82F6") // Blue

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	// Background colors
	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	// Border colors
	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	ButtonHoverColor      = lipgloss.Color("#9D174D")
	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	// MarkdownTheme is the glamour standard style used for note content.
	MarkdownTheme = "dark"
)

// Tag colors, one per note tag.
var tagColors = map[string]lipgloss.Color{
	"Todo":     lipgloss.Color("#F59E0B"),
	"Work":     lipgloss.Color("#3B82F6"),
	"Personal": lipgloss.Color("#10B981"),
	"Meeting":  lipgloss.Color("#EC4899"),
	"Shopping": lipgloss.Color("#8B5CF6"),
}

// Card styles for the note grid
var (
	CardNormal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)

	CardSelected = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Toast styles for status messages
	ToastSuccess = lipgloss.NewStyle().
			Background(Success).
			Foreground(ToastSuccessTextColor).
			Bold(true).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Background(Error).
			Foreground(ToastErrorTextColor).
			Bold(true).
			Padding(0, 1)

	StatusBlocked = lipgloss.NewStyle().
			Foreground(Error)

	StatusCompleted = lipgloss.NewStyle().
			Foreground(Success)

	StatusModified = lipgloss.NewStyle().
			Foreground(Warning)
)

// List item styles
var (
	ListItemNormal = lipgloss.NewStyle().
			Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Bar element styles (shared by header/footer and the tag bar)
var (
	BarTitle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true)

	BarText = lipgloss.NewStyle().
		Foreground(TextMuted)

	BarChip = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	BarChipActive = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Padding(0, 1).
			Bold(true)
)

// Footer and header
var (
	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)
)

// Modal styles
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

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	ButtonHover = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(ButtonHoverColor).
			Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
			Foreground(TextSubtle).
			Background(BgSecondary).
			Padding(0, 2)

	// Danger button styles (for destructive actions like delete)
	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FCA5A5")). // Light red text
			Background(lipgloss.Color("#7F1D1D")). // Dark red background
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#DC2626")).
				Padding(0, 2).
				Bold(true)

	ButtonDangerHover = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#B91C1C")).
				Padding(0, 2)
)

// TagChip renders a tag label in its tag color. Unknown tags render muted.
func TagChip(tag string) string {
	c, ok := tagColors[tag]
	if !ok {
		return BarChip.Render(tag)
	}
	return lipgloss.NewStyle().
		Foreground(c).
		Bold(true).
		Render("#" + tag)
}
