package output

import (
	"fmt"
	"io"

	"github.com/scimtools/scimwatch/internal/domain"
)

// TextWriter writes log entries as styled text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteEntry outputs a single log entry as styled text
func (w *TextWriter) WriteEntry(entry *domain.LogEntry) error {
	timestamp := Styles.Timestamp.Render(entry.Timestamp.Format("15:04:05.000"))
	category := Styles.Category.Render(string(entry.Category))

	line := timestamp + " " + LevelIndicator(entry.Level) + " " + category
	if entry.RequestID != "" {
		line += " " + Styles.Request.Render("["+entry.RequestID+"]")
	}
	line += " " + LevelStyle(entry.Level).Render(entry.Message)
	if entry.Error != nil {
		line += " " + Styles.Danger.Render("error="+entry.Error.Message)
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteActivity outputs a single activity summary as styled text
func (w *TextWriter) WriteActivity(summary *domain.ActivitySummary) error {
	timestamp := Styles.Timestamp.Render(summary.Timestamp.Format("2006-01-02 15:04:05"))

	var style = Styles.Info
	switch summary.Severity {
	case domain.ActivitySuccess:
		style = Styles.Success
	case domain.ActivityWarning:
		style = Styles.Warning
	case domain.ActivityError:
		style = Styles.Danger
	}

	line := timestamp + " " + summary.Icon + " " + style.Render(summary.Message)
	if summary.Details != "" {
		line += " " + Styles.Label.Render("("+summary.Details+")")
	}
	if summary.IsKeepalive {
		line += " " + Styles.Label.Render("[keepalive]")
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteAck outputs the stream liveness ack
func (w *TextWriter) WriteAck(message string) error {
	_, err := fmt.Fprintln(w.w, Styles.Label.Render("-- "+message))
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	_, err := fmt.Fprintf(w.w, "%s %s: %s\n", Styles.Danger.Render("Error"), Styles.Warning.Render("["+code+"]"), message)
	return err
}
