package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. These are the single source of truth; never use inline
// lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: package ids, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" file status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "updated" file status.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for the "removed" file status.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed is used for the "failed" file status.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (package ids, file paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (generating, cleaning, compiling).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// File status values reported by gen, clean and doc.
const (
	StatusCreated   = "created"
	StatusUpdated   = "updated"
	StatusUnchanged = "unchanged"
	StatusRemoved   = "removed"
	StatusSkipped   = "skipped"
	StatusCopied    = "copied"
	StatusFailed    = "failed"
)

// Styles groups the styles used by block renderers (diffs, trees).
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
}

// GetStyles returns the default colored styles.
func GetStyles() *Styles {
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(ColorGreen),
		Error:   lipgloss.NewStyle().Foreground(ColorRed),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(ColorDimGray),
	}
}

// NoColorStyles returns styles that render text unchanged.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Success: plain,
		Error:   plain,
		Warning: plain,
		Bold:    plain,
		Muted:   plain,
	}
}

// statusStyle returns the lipgloss style for a file status.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated, StatusCopied:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusUpdated:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusUnchanged, StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusRemoved:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth is the minimum width of the path column before the
// status suffix, so status words line up.
const minPathColumnWidth = 48

// FormatFileLine renders a file path with a right-aligned, color-coded
// status suffix.
//
// Format: f:<path>  <status>
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("f:") + StyleNoun.Render(path) +
		strings.Repeat(" ", padding) + statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatNoun renders an identifiable noun.
func FormatNoun(s string) string {
	return StyleNoun.Render(s)
}
