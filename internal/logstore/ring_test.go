package logstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scimtools/scimwatch/internal/domain"
)

func entryN(n int) domain.LogEntry {
	return domain.LogEntry{
		Level:    domain.SeverityInfo,
		Category: domain.CategoryGeneral,
		Message:  fmt.Sprintf("entry %d", n),
	}
}

func messages(entries []domain.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestRingEviction(t *testing.T) {
	r := NewRing(3)

	for i := 1; i <= 3; i++ {
		r.Append(entryN(i))
	}
	assert.Equal(t, 3, r.Len())

	// The N+1th append evicts exactly the oldest entry.
	r.Append(entryN(4))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"entry 2", "entry 3", "entry 4"},
		messages(r.Snapshot(Filter{}, 0, OrderChronological)))

	// Keep wrapping past the capacity boundary.
	r.Append(entryN(5))
	r.Append(entryN(6))
	r.Append(entryN(7))
	assert.Equal(t, []string{"entry 5", "entry 6", "entry 7"},
		messages(r.Snapshot(Filter{}, 0, OrderChronological)))
}

func TestRingOrders(t *testing.T) {
	r := NewRing(10)
	for i := 1; i <= 4; i++ {
		r.Append(entryN(i))
	}

	assert.Equal(t, []string{"entry 1", "entry 2", "entry 3", "entry 4"},
		messages(r.Snapshot(Filter{}, 0, OrderChronological)))
	assert.Equal(t, []string{"entry 4", "entry 3", "entry 2", "entry 1"},
		messages(r.Snapshot(Filter{}, 0, OrderRecentFirst)))
}

func TestRingLimit(t *testing.T) {
	r := NewRing(10)
	for i := 1; i <= 5; i++ {
		r.Append(entryN(i))
	}

	// Recent-first limit keeps the newest entries.
	assert.Equal(t, []string{"entry 5", "entry 4"},
		messages(r.Snapshot(Filter{}, 2, OrderRecentFirst)))

	// Chronological limit keeps the oldest.
	assert.Equal(t, []string{"entry 1", "entry 2"},
		messages(r.Snapshot(Filter{}, 2, OrderChronological)))

	// Zero or negative limit means unlimited.
	assert.Len(t, r.Snapshot(Filter{}, 0, OrderRecentFirst), 5)
	assert.Len(t, r.Snapshot(Filter{}, -1, OrderRecentFirst), 5)
}

func TestRingFilteredSnapshot(t *testing.T) {
	r := NewRing(10)
	r.Append(domain.LogEntry{Level: domain.SeverityInfo, Category: domain.CategoryHTTP, Message: "a"})
	r.Append(domain.LogEntry{Level: domain.SeverityError, Category: domain.CategoryDatabase, Message: "b"})
	r.Append(domain.LogEntry{Level: domain.SeverityWarn, Category: domain.CategoryHTTP, Message: "c"})

	got := r.Snapshot(Filter{MinLevel: MinSeverity(domain.SeverityWarn)}, 0, OrderChronological)
	assert.Equal(t, []string{"b", "c"}, messages(got))

	got = r.Snapshot(Filter{Category: domain.CategoryHTTP}, 0, OrderChronological)
	assert.Equal(t, []string{"a", "c"}, messages(got))
}

func TestRingClear(t *testing.T) {
	r := NewRing(3)
	for i := 1; i <= 5; i++ {
		r.Append(entryN(i))
	}

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot(Filter{}, 0, OrderChronological))
	assert.Equal(t, 3, r.Cap())

	// The ring is fully usable after a clear, including wrap-around.
	for i := 10; i <= 13; i++ {
		r.Append(entryN(i))
	}
	assert.Equal(t, []string{"entry 11", "entry 12", "entry 13"},
		messages(r.Snapshot(Filter{}, 0, OrderChronological)))
}

func TestRingDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewRing(0).Cap())
	assert.Equal(t, DefaultCapacity, NewRing(-5).Cap())
}
