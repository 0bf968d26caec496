package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the log severity levels of the monitor
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
	SeverityOff
)

var severityNames = [...]string{
	SeverityTrace: "TRACE",
	SeverityDebug: "DEBUG",
	SeverityInfo:  "INFO",
	SeverityWarn:  "WARN",
	SeverityError: "ERROR",
	SeverityFatal: "FATAL",
	SeverityOff:   "OFF",
}

// String returns the canonical upper-case level name
func (s Severity) String() string {
	if s < SeverityTrace || s > SeverityOff {
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a level name to a Severity (case-insensitive)
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range severityNames {
		if n == upper {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}

// SeverityNames returns all level names in ascending severity order
func SeverityNames() []string {
	names := make([]string, len(severityNames))
	copy(names, severityNames[:])
	return names
}

// MarshalJSON encodes the severity as its name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
