package messaging

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/disaster-relief/internal/models"
)

// Hub fans newly posted messages out to live subscribers of each thread.
type Hub struct {
	threads map[int64]map[uint64]chan models.Message
	owner   map[uint64]int64
	nextID  atomic.Uint64
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		threads: make(map[int64]map[uint64]chan models.Message),
		owner:   make(map[uint64]int64),
	}
}

func (h *Hub) Subscribe(disasterID int64) (uint64, <-chan models.Message) {
	id := h.nextID.Add(1)
	ch := make(chan models.Message, 16)

	h.mu.Lock()
	subs, ok := h.threads[disasterID]
	if !ok {
		subs = make(map[uint64]chan models.Message)
		h.threads[disasterID] = subs
	}
	subs[id] = ch
	h.owner[id] = disasterID
	h.mu.Unlock()

	return id, ch
}

func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	disasterID, ok := h.owner[id]
	if !ok {
		return
	}
	subs := h.threads[disasterID]
	close(subs[id])
	delete(subs, id)
	delete(h.owner, id)
	if len(subs) == 0 {
		delete(h.threads, disasterID)
	}
}

// Publish delivers m to the subscribers of its thread. Slow subscribers miss
// the message rather than block the poster.
func (h *Hub) Publish(m models.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.threads[m.DisasterID] {
		select {
		case ch <- m:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(disasterID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.threads[disasterID])
}

// Close ends every subscription so streams return.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for disasterID, subs := range h.threads {
		for id, ch := range subs {
			close(ch)
			delete(h.owner, id)
		}
		delete(h.threads, disasterID)
	}
}
