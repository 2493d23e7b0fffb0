// Package events provides a fan-out hub for ledger activity. Websocket
// handlers subscribe to receive a copy of every event the state machine
// raises.
package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Subscribers that fall behind lose events rather than block the hub.
// The buffer gives a slow websocket writer room to catch up.
const subscriberBuffer = 100

// Hub maintains the set of subscriber channels receiving ledger events.
type Hub struct {
	subscribers map[string]chan string
	mu          sync.RWMutex
}

// NewHub constructs a hub for subscribing to ledger events.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscriber channel.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}

// Subscribe registers a new subscriber and returns its id along with the
// channel events will be delivered on. The id must be passed to Unsubscribe
// when the caller is done.
func (h *Hub) Subscribe() (string, chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan string, subscriberBuffer)
	h.subscribers[id] = ch

	return id, ch
}

// Unsubscribe closes and removes the channel associated with the id.
func (h *Hub) Unsubscribe(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, exists := h.subscribers[id]
	if !exists {
		return fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(h.subscribers, id)
	close(ch)
	return nil
}

// Publish delivers the message to every subscriber without blocking. A
// subscriber with a full buffer misses the message.
func (h *Hub) Publish(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}
