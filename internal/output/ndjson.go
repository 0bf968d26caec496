// Package output provides the NDJSON and styled-text writers used by the
// tail, query and analyze commands.
package output

import (
	"encoding/json"
	"io"

	"github.com/scimtools/scimwatch/internal/domain"
)

// NDJSONWriter writes log entries and activity summaries as NDJSON
type NDJSONWriter struct {
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log payloads unescaped
	return &NDJSONWriter{encoder: enc}
}

// AckOutput is the liveness ack emitted when a stream connects
type AckOutput struct {
	Type    string `json:"type"` // Always "connected"
	Message string `json:"message,omitempty"`
}

// ErrorOutput reports a command error in machine-readable form
type ErrorOutput struct {
	Type    string `json:"type"` // Always "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteEntry outputs a single log entry
func (w *NDJSONWriter) WriteEntry(entry *domain.LogEntry) error {
	return w.encoder.Encode(entry)
}

// WriteActivity outputs a single activity summary
func (w *NDJSONWriter) WriteActivity(summary *domain.ActivitySummary) error {
	return w.encoder.Encode(summary)
}

// WriteAck outputs the stream liveness ack
func (w *NDJSONWriter) WriteAck(message string) error {
	return w.encoder.Encode(&AckOutput{Type: "connected", Message: message})
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string) error {
	return w.encoder.Encode(&ErrorOutput{Type: "error", Code: code, Message: message})
}

// WriteRaw outputs arbitrary JSON data
func (w *NDJSONWriter) WriteRaw(v any) error {
	return w.encoder.Encode(v)
}
