package logstore

import (
	"github.com/scimtools/scimwatch/internal/domain"
)

// Filter selects log entries. All set fields must match (AND semantics);
// the zero Filter matches everything.
type Filter struct {
	MinLevel   *domain.Severity
	Category   domain.Category
	RequestID  string
	EndpointID string
}

// Match returns true if the entry passes the filter
func (f Filter) Match(entry domain.LogEntry) bool {
	if f.MinLevel != nil && entry.Level < *f.MinLevel {
		return false
	}
	if f.Category != "" && entry.Category != f.Category {
		return false
	}
	if f.RequestID != "" && entry.RequestID != f.RequestID {
		return false
	}
	if f.EndpointID != "" && entry.EndpointID != f.EndpointID {
		return false
	}
	return true
}

// MinSeverity returns a pointer to s, for building filters inline
func MinSeverity(s domain.Severity) *domain.Severity {
	return &s
}
