package logstore

import (
	"fmt"
	"sync"

	"github.com/scimtools/scimwatch/internal/domain"
)

// LevelConfig is a point-in-time snapshot of the level configuration.
// Category and endpoint overrides are sparse; anything unset falls back to
// the global level.
type LevelConfig struct {
	Global   domain.Severity
	Category map[domain.Category]domain.Severity
	Endpoint map[string]domain.Severity
}

// LevelResolver resolves the effective minimum severity for a
// (category, endpoint) pair. Precedence, highest first: endpoint override,
// category override, global level. The resolver owns its configuration;
// all access goes through the setters and Snapshot.
type LevelResolver struct {
	mu       sync.RWMutex
	global   domain.Severity
	category map[domain.Category]domain.Severity
	endpoint map[string]domain.Severity
}

// NewLevelResolver creates a resolver with the given global level
func NewLevelResolver(global domain.Severity) *LevelResolver {
	return &LevelResolver{
		global:   global,
		category: make(map[domain.Category]domain.Severity),
		endpoint: make(map[string]domain.Severity),
	}
}

// Effective returns the minimum severity that applies to entries of the
// given category and endpoint. An empty endpointID skips the endpoint tier.
func (r *LevelResolver) Effective(category domain.Category, endpointID string) domain.Severity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if endpointID != "" {
		if level, ok := r.endpoint[endpointID]; ok {
			return level
		}
	}
	if level, ok := r.category[category]; ok {
		return level
	}
	return r.global
}

// SetGlobal replaces the global level
func (r *LevelResolver) SetGlobal(level domain.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = level
}

// SetCategory sets a category override. Unknown categories are rejected
// and the configuration is left untouched.
func (r *LevelResolver) SetCategory(category domain.Category, level domain.Severity) error {
	if !domain.ValidCategory(string(category)) {
		return fmt.Errorf("unknown category %q", category)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.category[category] = level
	return nil
}

// ClearCategory removes a category override. Clearing an unset override is
// a no-op; unknown categories are still rejected.
func (r *LevelResolver) ClearCategory(category domain.Category) error {
	if !domain.ValidCategory(string(category)) {
		return fmt.Errorf("unknown category %q", category)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.category, category)
	return nil
}

// SetEndpoint sets an endpoint override
func (r *LevelResolver) SetEndpoint(endpointID string, level domain.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpoint[endpointID] = level
}

// ClearEndpoint removes an endpoint override (no-op if unset)
func (r *LevelResolver) ClearEndpoint(endpointID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.endpoint, endpointID)
}

// Snapshot returns a copy of the current configuration
func (r *LevelResolver) Snapshot() LevelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := LevelConfig{
		Global:   r.global,
		Category: make(map[domain.Category]domain.Severity, len(r.category)),
		Endpoint: make(map[string]domain.Severity, len(r.endpoint)),
	}
	for k, v := range r.category {
		cfg.Category[k] = v
	}
	for k, v := range r.endpoint {
		cfg.Endpoint[k] = v
	}
	return cfg
}
