// Package logstore implements the in-memory observability core of the
// monitor: a runtime-reconfigurable admission filter, a bounded ring buffer
// of structured entries, and live fan-out to stream subscribers.
package logstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/benbjohnson/clock"

	"github.com/scimtools/scimwatch/internal/domain"
)

// Format selects the download serialization
type Format string

const (
	// FormatNDJSON writes one JSON object per line
	FormatNDJSON Format = "ndjson"
	// FormatJSON writes a single JSON array
	FormatJSON Format = "json"
)

// ParseFormat validates a download format name, defaulting to NDJSON
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatNDJSON:
		return FormatNDJSON, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatNDJSON, fmt.Errorf("unknown format %q", name)
	}
}

// Options configures a Store. Zero values select the documented defaults.
type Options struct {
	Capacity         int             // ring capacity, DefaultCapacity if <= 0
	SubscriberBuffer int             // per-subscriber channel size
	GlobalLevel      domain.Severity // initial global level
	Clock            clock.Clock     // timestamp source, real clock if nil
}

// Store composes the level resolver, ring buffer and subscriber hub into
// the ingestion/query/download API. One Store instance owns the whole
// configuration; there is no package-level state.
type Store struct {
	resolver *LevelResolver
	ring     *Ring
	hub      *Hub
	clock    clock.Clock
}

// NewStore creates a store from the given options
func NewStore(opts Options) *Store {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		resolver: NewLevelResolver(opts.GlobalLevel),
		ring:     NewRing(opts.Capacity),
		hub:      NewHub(opts.SubscriberBuffer),
		clock:    clk,
	}
}

// Ingest runs admission control and, if the entry passes, appends it to
// the ring and fans it out. The buffer write never depends on fan-out.
// Returns whether the entry was admitted; a drop is not an error.
func (s *Store) Ingest(entry domain.LogEntry) bool {
	if entry.Level < s.resolver.Effective(entry.Category, entry.EndpointID) {
		return false
	}
	s.ring.Append(entry)
	s.hub.Publish(entry)
	return true
}

// Log builds an entry stamped from the clock and the ambient request
// context and ingests it.
func (s *Store) Log(ctx context.Context, level domain.Severity, category domain.Category, msg string, data map[string]any) {
	s.ingestWith(ctx, level, category, msg, data, nil)
}

// Trace logs at TRACE level
func (s *Store) Trace(ctx context.Context, category domain.Category, msg string, data map[string]any) {
	s.ingestWith(ctx, domain.SeverityTrace, category, msg, data, nil)
}

// Debug logs at DEBUG level
func (s *Store) Debug(ctx context.Context, category domain.Category, msg string, data map[string]any) {
	s.ingestWith(ctx, domain.SeverityDebug, category, msg, data, nil)
}

// Info logs at INFO level
func (s *Store) Info(ctx context.Context, category domain.Category, msg string, data map[string]any) {
	s.ingestWith(ctx, domain.SeverityInfo, category, msg, data, nil)
}

// Warn logs at WARN level
func (s *Store) Warn(ctx context.Context, category domain.Category, msg string, data map[string]any) {
	s.ingestWith(ctx, domain.SeverityWarn, category, msg, data, nil)
}

// Error logs at ERROR level with an optional attached error
func (s *Store) Error(ctx context.Context, category domain.Category, msg string, err error, data map[string]any) {
	var detail *domain.ErrorDetail
	if err != nil {
		detail = &domain.ErrorDetail{Message: err.Error()}
	}
	s.ingestWith(ctx, domain.SeverityError, category, msg, data, detail)
}

func (s *Store) ingestWith(ctx context.Context, level domain.Severity, category domain.Category, msg string, data map[string]any, errDetail *domain.ErrorDetail) {
	entry := domain.LogEntry{
		Timestamp: s.clock.Now(),
		Level:     level,
		Category:  category,
		Message:   msg,
		Data:      data,
		Error:     errDetail,
	}
	if rc, ok := RequestFromContext(ctx); ok {
		entry.RequestID = rc.RequestID
		entry.EndpointID = rc.EndpointID
	}
	s.Ingest(entry)
}

// Query returns buffered entries matching the filter, most recent first
func (s *Store) Query(f Filter, limit int) []domain.LogEntry {
	return s.ring.Snapshot(f, limit, OrderRecentFirst)
}

// Download writes matching entries in chronological order, either as
// newline-delimited JSON objects or as a single JSON array.
func (s *Store) Download(w io.Writer, f Filter, format Format) error {
	entries := s.ring.Snapshot(f, 0, OrderChronological)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if format == FormatJSON {
		if entries == nil {
			entries = []domain.LogEntry{}
		}
		return enc.Encode(entries)
	}
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}

// Stream registers a live subscriber for entries matching the filter
func (s *Store) Stream(f Filter) *Subscription {
	return s.hub.Subscribe(f)
}

// Clear empties the ring buffer; the level configuration is untouched
func (s *Store) Clear() {
	s.ring.Clear()
}

// Len returns the number of buffered entries
func (s *Store) Len() int {
	return s.ring.Len()
}

// Subscribers returns the number of live stream subscribers
func (s *Store) Subscribers() int {
	return s.hub.Len()
}

// ConfigView renders the level configuration with level names, for the
// admin surface.
type ConfigView struct {
	GlobalLevel     string            `json:"globalLevel"`
	CategoryLevels  map[string]string `json:"categoryLevels"`
	EndpointLevels  map[string]string `json:"endpointLevels"`
	AvailableLevels []string          `json:"availableLevels"`
	Categories      []string          `json:"categories"`
}

// Config returns the current level configuration rendered as names
func (s *Store) Config() ConfigView {
	snap := s.resolver.Snapshot()

	view := ConfigView{
		GlobalLevel:     snap.Global.String(),
		CategoryLevels:  make(map[string]string, len(snap.Category)),
		EndpointLevels:  make(map[string]string, len(snap.Endpoint)),
		AvailableLevels: domain.SeverityNames(),
		Categories:      domain.CategoryNames(),
	}
	for cat, level := range snap.Category {
		view.CategoryLevels[string(cat)] = level.String()
	}
	for id, level := range snap.Endpoint {
		view.EndpointLevels[id] = level.String()
	}
	return view
}

// SetGlobalLevel sets the global level by name
func (s *Store) SetGlobalLevel(level string) error {
	parsed, err := domain.ParseSeverity(level)
	if err != nil {
		return err
	}
	s.resolver.SetGlobal(parsed)
	return nil
}

// SetCategoryLevel sets a category override by names
func (s *Store) SetCategoryLevel(category, level string) error {
	parsed, err := domain.ParseSeverity(level)
	if err != nil {
		return err
	}
	return s.resolver.SetCategory(domain.Category(category), parsed)
}

// ClearCategoryLevel removes a category override
func (s *Store) ClearCategoryLevel(category string) error {
	return s.resolver.ClearCategory(domain.Category(category))
}

// SetEndpointLevel sets an endpoint override by level name
func (s *Store) SetEndpointLevel(endpointID, level string) error {
	parsed, err := domain.ParseSeverity(level)
	if err != nil {
		return err
	}
	s.resolver.SetEndpoint(endpointID, parsed)
	return nil
}

// ClearEndpointLevel removes an endpoint override
func (s *Store) ClearEndpointLevel(endpointID string) {
	s.resolver.ClearEndpoint(endpointID)
}
