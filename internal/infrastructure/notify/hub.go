package notify

import (
	"context"
	"sync"
	"time"
)

// Topics published by the services
const (
	TopicBills    = "bills"
	TopicProducts = "products"
	TopicProfiles = "profiles"
)

// Actions carried by events
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event tells subscribers that data behind a topic changed.
// Subscribers refetch what they need, events carry no payload.
type Event struct {
	Topic  string    `json:"topic"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

// Handler is called for every event on a subscribed topic
type Handler func(Event)

// Hub fans change events out to subscribers
type Hub interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers fn for topic and returns a function removing it
	Subscribe(topic string, fn Handler) (unsubscribe func())
	Close() error
}

// MemoryHub delivers events inside the process, synchronously and in
// subscription order.
type MemoryHub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	order  map[string][]int
}

// NewMemoryHub creates an empty hub
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		subs:  make(map[string]map[int]Handler),
		order: make(map[string][]int),
	}
}

// Publish implements Hub
func (h *MemoryHub) Publish(_ context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	h.deliver(event)
	return nil
}

func (h *MemoryHub) deliver(event Event) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.order[event.Topic]))
	for _, id := range h.order[event.Topic] {
		if fn, ok := h.subs[event.Topic][id]; ok {
			handlers = append(handlers, fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}

// Subscribe implements Hub
func (h *MemoryHub) Subscribe(topic string, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]Handler)
	}
	h.subs[topic][id] = fn
	h.order[topic] = append(h.order[topic], id)

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(topic, id) })
	}
}

func (h *MemoryHub) unsubscribe(topic string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[topic], id)
	ids := h.order[topic]
	for i, v := range ids {
		if v == id {
			h.order[topic] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// Subscribers returns the number of handlers on topic
func (h *MemoryHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Close implements Hub
func (h *MemoryHub) Close() error {
	return nil
}
