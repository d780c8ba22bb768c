package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/fapm/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers such as the conversation title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SubjectStyle renders a message subject line.
var SubjectStyle = lipgloss.NewStyle().
	Bold(true)

// DimmedStyle is used for timestamps, counts and other secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for hints and notices.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// QuoteStyle renders quoted text inside a message body.
var QuoteStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBorder).
	PaddingLeft(1)

// sentBody and receivedBody frame message bodies on opposite sides.
var (
	sentBody = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGreen).
			Padding(0, 1).
			MarginLeft(8)

	receivedBody = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(0, 1)
)

// MessageStyle returns the frame for a message body depending on who
// wrote it.
func MessageStyle(sent bool) lipgloss.Style {
	if sent {
		return sentBody
	}
	return receivedBody
}

// AuthorStyle returns a color-coded style for a message author.
func AuthorStyle(sent bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if sent {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorBlue)
}

// FolderLabelStyle returns a color-coded style for the given folder.
func FolderLabelStyle(folder model.Folder) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch folder {
	case model.FolderInbox:
		return base.Foreground(ColorBlue)
	case model.FolderSent:
		return base.Foreground(ColorGreen)
	case model.FolderArchive:
		return base.Foreground(ColorYellow)
	case model.FolderTrash:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// CountStyle highlights numbers in summaries.
var CountStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorMagenta)
