package logstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/scimtools/scimwatch/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drainAck(t *testing.T, sub *Subscription) {
	t.Helper()
	ev, ok := <-sub.Events()
	require.True(t, ok)
	require.Equal(t, EventConnected, ev.Kind)
}

func TestHubConnectedAck(t *testing.T) {
	h := NewHub(4)
	sub := h.Subscribe(Filter{})
	defer sub.Close()

	ev := <-sub.Events()
	assert.Equal(t, EventConnected, ev.Kind)
	assert.Nil(t, ev.Entry)
	assert.Equal(t, 1, h.Len())
}

func TestHubFanOut(t *testing.T) {
	h := NewHub(4)

	all := h.Subscribe(Filter{})
	defer all.Close()
	filtered := h.Subscribe(Filter{Category: domain.CategoryDatabase})
	defer filtered.Close()

	drainAck(t, all)
	drainAck(t, filtered)

	h.Publish(domain.LogEntry{Level: domain.SeverityInfo, Category: domain.CategoryHTTP, Message: "http"})
	h.Publish(domain.LogEntry{Level: domain.SeverityError, Category: domain.CategoryDatabase, Message: "db"})

	ev := <-all.Events()
	assert.Equal(t, "http", ev.Entry.Message)
	ev = <-all.Events()
	assert.Equal(t, "db", ev.Entry.Message)

	// The filtered subscriber only sees the database entry.
	ev = <-filtered.Events()
	require.Equal(t, EventEntry, ev.Kind)
	assert.Equal(t, "db", ev.Entry.Message)
	assert.Empty(t, filtered.Events())
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub(2)

	slow := h.Subscribe(Filter{}) // never read: the ack occupies one slot
	fast := h.Subscribe(Filter{})
	defer fast.Close()
	drainAck(t, fast)

	h.Publish(entryN(1)) // slow buffer now full
	h.Publish(entryN(2)) // overflows slow, it gets cut loose
	h.Publish(entryN(3))

	assert.Equal(t, 1, h.Len())

	// The fast subscriber keeps receiving everything.
	for i := 1; i <= 3; i++ {
		ev := <-fast.Events()
		assert.Equal(t, EventEntry, ev.Kind)
	}

	// The slow subscriber's channel holds what fit, then is closed.
	drainAck(t, slow)
	ev, ok := <-slow.Events()
	require.True(t, ok)
	assert.Equal(t, "entry 1", ev.Entry.Message)
	_, ok = <-slow.Events()
	assert.False(t, ok)
}

func TestHubUnsubscribeIdempotent(t *testing.T) {
	h := NewHub(4)
	sub := h.Subscribe(Filter{})

	sub.Close()
	sub.Close()
	h.Unsubscribe(sub)
	h.Unsubscribe(nil)

	assert.Equal(t, 0, h.Len())

	// Publishing to an empty hub is fine.
	h.Publish(entryN(1))
}
