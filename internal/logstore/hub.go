package logstore

import (
	"sync"

	"github.com/scimtools/scimwatch/internal/domain"
)

// DefaultSubscriberBuffer is the per-subscriber channel size used when none
// is configured.
const DefaultSubscriberBuffer = 64

// EventKind discriminates hub events
type EventKind string

const (
	// EventConnected is the synthetic liveness ack sent once on subscribe
	EventConnected EventKind = "connected"
	// EventEntry carries one accepted log entry
	EventEntry EventKind = "entry"
)

// Event is one message delivered to a subscriber
type Event struct {
	Kind  EventKind
	Entry *domain.LogEntry
}

// Subscription is a live listener registered with a Hub. Events arrive on
// Events(); the channel is closed when the subscription is removed, either
// via Close or because the subscriber fell behind.
type Subscription struct {
	id     uint64
	filter Filter
	ch     chan Event
	hub    *Hub
}

// Events returns the delivery channel
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unsubscribes from the hub. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.Unsubscribe(s)
}

// Hub fans accepted entries out to live subscribers. Delivery never blocks
// the producer: each subscriber has a bounded channel and is dropped from
// the hub when it cannot keep up.
type Hub struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	bufSize int
}

// NewHub creates a hub with the given per-subscriber buffer size.
// Non-positive sizes fall back to DefaultSubscriberBuffer.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultSubscriberBuffer
	}
	return &Hub{
		subs:    make(map[uint64]*Subscription),
		bufSize: bufSize,
	}
}

// Subscribe registers a listener and immediately queues a connected ack for
// it (and only it).
func (h *Hub) Subscribe(f Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:     h.nextID,
		filter: f,
		ch:     make(chan Event, h.bufSize),
		hub:    h,
	}
	h.subs[sub.id] = sub

	// Buffer is empty at this point, the ack always fits.
	sub.ch <- Event{Kind: EventConnected}
	return sub
}

// Unsubscribe removes a subscription. Idempotent: unknown or already
// removed subscriptions are a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

// Publish delivers the entry to every subscriber whose filter matches.
// Subscribers with a full buffer are dropped rather than blocking the
// producer.
func (h *Hub) Publish(entry domain.LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !sub.filter.Match(entry) {
			continue
		}
		e := entry
		select {
		case sub.ch <- Event{Kind: EventEntry, Entry: &e}:
		default:
			// Subscriber fell behind; cut it loose instead of applying
			// backpressure to ingestion.
			h.removeLocked(sub)
		}
	}
}

// Len returns the number of live subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// removeLocked deletes and closes a subscription, must be called with mu held
func (h *Hub) removeLocked(sub *Subscription) {
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)
}
