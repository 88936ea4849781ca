package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors, lifted from the club site's palette
	accentColor = lipgloss.Color("#F57F3B") // Club orange
	inkColor    = lipgloss.Color("#0D0C0B") // Near-black
	fgColor     = lipgloss.Color("#F9FAFB") // Light
	mutedColor  = lipgloss.Color("#7D7C77") // Warm gray
	borderColor = lipgloss.Color("#6B6963") // Card border
	errorColor  = lipgloss.Color("#EF4444") // Red

	// Layout styles
	AppStyle      = lipgloss.NewStyle().Padding(1, 2)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	SubtitleStyle = lipgloss.NewStyle().Foreground(mutedColor).MarginBottom(1)

	// Session cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 2)
	SelectedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(fgColor).
				Padding(0, 2)
	PulsedCardStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accentColor).
			Padding(0, 2)

	// Card fields
	DateStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	BadgeStyle  = lipgloss.NewStyle().Background(accentColor).Foreground(fgColor).Bold(true).Padding(0, 1)
	TimeStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(fgColor).Underline(true)
	ActionStyle = lipgloss.NewStyle().Foreground(fgColor)
	PulseStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	LinkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true)

	// Progress bar under the timeline
	ProgressFillStyle  = lipgloss.NewStyle().Foreground(accentColor)
	ProgressTrackStyle = lipgloss.NewStyle().Foreground(borderColor)

	// Placeholder, status, and help
	NoticeStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	StatusStyle = lipgloss.NewStyle().Foreground(accentColor)
	HelpStyle   = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)
