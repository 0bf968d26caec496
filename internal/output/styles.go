package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/scimtools/scimwatch/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Log level styles
	Trace lipgloss.Style
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Fatal lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Category  lipgloss.Style
	Request   lipgloss.Style
	Message   lipgloss.Style

	// Misc
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
}{
	Trace: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),                            // Dark gray
	Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),                            // Gray
	Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),                             // Cyan
	Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),                 // Orange bold
	Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Fatal: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta bold underline

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Category:  lipgloss.NewStyle().Foreground(lipgloss.Color("142")), // Yellow-green
	Request:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
	Message:   lipgloss.NewStyle(),

	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// LevelStyle returns the appropriate style for a severity
func LevelStyle(level domain.Severity) lipgloss.Style {
	switch level {
	case domain.SeverityTrace:
		return Styles.Trace
	case domain.SeverityDebug:
		return Styles.Debug
	case domain.SeverityInfo:
		return Styles.Info
	case domain.SeverityWarn:
		return Styles.Warn
	case domain.SeverityError:
		return Styles.Error
	case domain.SeverityFatal:
		return Styles.Fatal
	default:
		return Styles.Info
	}
}

// LevelIndicator returns a styled three-letter level indicator
func LevelIndicator(level domain.Severity) string {
	style := LevelStyle(level)
	switch level {
	case domain.SeverityTrace:
		return style.Render("TRC")
	case domain.SeverityDebug:
		return style.Render("DBG")
	case domain.SeverityInfo:
		return style.Render("INF")
	case domain.SeverityWarn:
		return style.Render("WRN")
	case domain.SeverityError:
		return style.Render("ERR")
	case domain.SeverityFatal:
		return style.Render("FTL")
	default:
		return style.Render("???")
	}
}
