package domain

import "time"

// ErrorDetail captures an error attached to a log entry
type ErrorDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// LogEntry is a single structured log record. Entries are immutable once
// created; the store copies them by value.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      Severity       `json:"level"`
	Category   Category       `json:"category"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	Error      *ErrorDetail   `json:"error,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	EndpointID string         `json:"endpointId,omitempty"`
}
