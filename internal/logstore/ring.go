package logstore

import (
	"sync"

	"github.com/scimtools/scimwatch/internal/domain"
)

// DefaultCapacity is the ring size used when none is configured.
const DefaultCapacity = 1000

// Order selects how Snapshot arranges its results
type Order int

const (
	// OrderRecentFirst returns the most recent entry first (interactive views)
	OrderRecentFirst Order = iota
	// OrderChronological returns the oldest entry first (downloads)
	OrderChronological
)

// Ring is a fixed-capacity FIFO store of log entries. Once full, each
// append evicts exactly the oldest entry. All access is guarded by an
// RWMutex; Snapshot copies so readers never hold the lock while encoding.
type Ring struct {
	mu       sync.RWMutex
	entries  []domain.LogEntry
	head     int // index where the next write goes once full
	capacity int
}

// NewRing creates a ring buffer with the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		entries:  make([]domain.LogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append adds one entry, evicting the oldest if the ring is full
func (r *Ring) Append(entry domain.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, entry)
		return
	}
	r.entries[r.head] = entry
	r.head = (r.head + 1) % r.capacity
}

// Snapshot returns a filtered copy of the buffered entries. A limit <= 0
// means no limit. With OrderRecentFirst the limit keeps the newest entries;
// with OrderChronological it keeps the oldest.
func (r *Ring) Snapshot(f Filter, limit int, order Order) []domain.LogEntry {
	all := r.chronological()

	result := make([]domain.LogEntry, 0, len(all))
	if order == OrderRecentFirst {
		for i := len(all) - 1; i >= 0; i-- {
			if f.Match(all[i]) {
				result = append(result, all[i])
				if limit > 0 && len(result) >= limit {
					break
				}
			}
		}
		return result
	}

	for _, entry := range all {
		if f.Match(entry) {
			result = append(result, entry)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result
}

// chronological copies the buffer contents oldest first
func (r *Ring) chronological() []domain.LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.entries) == 0 {
		return nil
	}
	result := make([]domain.LogEntry, len(r.entries))
	if len(r.entries) < r.capacity {
		copy(result, r.entries)
	} else {
		// Full and wrapped: head points at the oldest entry
		n := copy(result, r.entries[r.head:])
		copy(result[n:], r.entries[:r.head])
	}
	return result
}

// Clear removes all buffered entries; capacity is unchanged
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
	r.head = 0
}

// Len returns the number of buffered entries
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Cap returns the ring capacity
func (r *Ring) Cap() int {
	return r.capacity
}
