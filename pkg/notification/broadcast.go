package notification

import (
	"context"
	"sync"
)

// Hub fans live notifications out to per-user subscribers. Transport layers
// (SSE, WebSocket) subscribe on behalf of a connected user and stream
// whatever the in-app adapter publishes.
//
// Publishing is non-blocking: a subscriber that stopped draining its channel
// misses messages rather than stalling delivery for everyone else. The
// durable inbox remains the source of truth.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[int]chan Notification // userID -> subscriber id -> channel
	nextID      int
	buffer      int
	closed      bool
}

// NewHub creates a hub whose subscriber channels buffer up to bufferSize
// notifications each.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		subscribers: make(map[string]map[int]chan Notification),
		buffer:      bufferSize,
	}
}

// Subscribe registers a listener for a user's notifications. The returned
// cancel function removes the subscription and closes the channel; it is safe
// to call more than once. The subscription is also removed when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, userID string) (<-chan Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Notification, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[int]chan Notification)
	}
	h.subscribers[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subscribers[userID]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
					if len(subs) == 0 {
						delete(h.subscribers, userID)
					}
				}
			}
		})
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}

	return ch, cancel
}

// Publish delivers the notification to every live subscriber of its target
// user and returns the number of subscribers that received it.
func (h *Hub) Publish(ctx context.Context, n Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for _, ch := range h.subscribers[n.UserID] {
		select {
		case ch <- n:
			delivered++
		default:
			// Subscriber buffer full; drop rather than block.
		}
	}
	return delivered
}

// SubscriberCount returns the number of live subscribers for a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for userID, subs := range h.subscribers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(h.subscribers, userID)
	}
}
