package events

import (
	"sync"

	"github.com/google/uuid"
)

// Event describes one change to a backend table, scoped to the user whose
// rows changed. Payload carries event-specific fields.
type Event struct {
	Table   string         `json:"table"`
	Type    string         `json:"type"`
	UserID  uuid.UUID      `json:"user_id"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Predicate func(Event) bool

type Callback func(Event)

type subscription struct {
	table string
	pred  Predicate
	fn    Callback
}

// Hub is an in-process change feed. Subscribers register for a table with an
// optional predicate and get called back on every matching published event.
// This backs the storefront's cart badge counter.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscription)}
}

// Subscribe registers fn for events on table. A nil predicate matches every
// event on the table. The returned function removes the subscription and is
// safe to call more than once.
func (h *Hub) Subscribe(table string, pred Predicate, fn Callback) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = subscription{table: table, pred: pred, fn: fn}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	matched := make([]Callback, 0, len(h.subs))
	for _, s := range h.subs {
		if s.table != e.Table {
			continue
		}
		if s.pred != nil && !s.pred(e) {
			continue
		}
		matched = append(matched, s.fn)
	}
	h.mu.RUnlock()

	// callbacks run outside the lock so they may subscribe/unsubscribe
	for _, fn := range matched {
		fn(e)
	}
}
