// Package events fans change notifications out to a household's connected
// clients. Notifications carry only the resource class that changed;
// clients refetch the class rather than applying deltas, so a dropped
// message costs one redundant reload at worst.
package events

import (
	"sync"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// subscriberBuffer bounds how many undelivered events a slow client can
// queue before further events to it are dropped.
const subscriberBuffer = 16

// Subscriber receives a household's change events.
type Subscriber struct {
	C         chan models.ChangeEvent
	household string
}

// Hub routes change events to subscribers grouped by household.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe registers a listener for one household's events.
func (h *Hub) Subscribe(householdID string) *Subscriber {
	sub := &Subscriber{
		C:         make(chan models.ChangeEvent, subscriberBuffer),
		household: householdID,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[householdID] == nil {
		h.subs[householdID] = make(map[*Subscriber]struct{})
	}
	h.subs[householdID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes the listener and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.household]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.household)
	}
	close(sub.C)
}

// Publish delivers an event to every subscriber of the household. Slow
// subscribers with a full buffer miss the event; they will catch up on
// their next refetch.
func (h *Hub) Publish(householdID string, event models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[householdID] {
		select {
		case sub.C <- event:
		default:
		}
	}
}

// SubscriberCount reports how many listeners a household has.
func (h *Hub) SubscriberCount(householdID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[householdID])
}
