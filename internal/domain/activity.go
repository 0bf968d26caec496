package domain

import "time"

// RequestLogRecord is a raw HTTP request/response audit record captured by
// the proxy. Bodies are kept as the original JSON text; the classifier
// parses them on demand.
type RequestLogRecord struct {
	ID           string    `json:"id"`
	Method       string    `json:"method"`
	URL          string    `json:"url"`
	Status       int       `json:"status,omitempty"`
	RequestBody  string    `json:"requestBody,omitempty"`
	ResponseBody string    `json:"responseBody,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Identifier   string    `json:"identifier,omitempty"`
}

// ActivityType categorizes which kind of resource an activity touched
type ActivityType string

const (
	ActivityTypeUser   ActivityType = "user"
	ActivityTypeGroup  ActivityType = "group"
	ActivityTypeSystem ActivityType = "system"
	ActivityTypeError  ActivityType = "error"
)

// ActivitySeverity is the display severity of an activity summary
type ActivitySeverity string

const (
	ActivityInfo    ActivitySeverity = "info"
	ActivitySuccess ActivitySeverity = "success"
	ActivityWarning ActivitySeverity = "warning"
	ActivityError   ActivitySeverity = "error"
)

// MemberChange names one member added to or removed from a group
type MemberChange struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivitySummary is the human-readable projection of one audit record.
// It is computed on demand and never stored.
type ActivitySummary struct {
	ID              string           `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	Icon            string           `json:"icon"`
	Message         string           `json:"message"`
	Details         string           `json:"details,omitempty"`
	Type            ActivityType     `json:"type"`
	Severity        ActivitySeverity `json:"severity"`
	UserIdentifier  string           `json:"userIdentifier,omitempty"`
	GroupIdentifier string           `json:"groupIdentifier,omitempty"`
	AddedMembers    []MemberChange   `json:"addedMembers,omitempty"`
	RemovedMembers  []MemberChange   `json:"removedMembers,omitempty"`
	IsKeepalive     bool             `json:"isKeepalive"`
}
