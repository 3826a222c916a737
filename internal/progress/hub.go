package progress

import (
	"sync"

	"hoops-edge-lab/internal/domain"
)

// Hub fans progress snapshots out to subscribers. Delivery is push-based
// and best-effort: a slow subscriber loses intermediate snapshots rather
// than slowing the publisher, and a snapshot published while nobody is
// subscribed is simply not delivered.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	latest *domain.ProgressSnapshot
}

// Subscription is one subscriber's handle. Its channel carries at most
// the single most recent undelivered snapshot.
type Subscription struct {
	hub  *Hub
	ch   chan domain.ProgressSnapshot
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe attaches a new subscriber. A subscriber that attaches mid-run
// immediately receives the latest snapshot, not a replay of history.
// The caller must Close the subscription when done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{hub: h, ch: make(chan domain.ProgressSnapshot, 1)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
	if h.latest != nil {
		sub.ch <- *h.latest
	}
	return sub
}

// Publish records snap as the latest state and offers it to every
// subscriber, replacing any snapshot they have not consumed yet.
func (h *Hub) Publish(snap domain.ProgressSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = &snap
	for sub := range h.subs {
		// Drop-oldest: evict the unconsumed snapshot, then offer the
		// new one. The second select covers a concurrent receive
		// between the two steps.
		select {
		case sub.ch <- snap:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snap:
			default:
			}
		}
	}
}

// Latest returns the most recent published snapshot, if any. This backs
// synchronous status queries that do not want a subscription.
func (h *Hub) Latest() (domain.ProgressSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return domain.ProgressSnapshot{}, false
	}
	return *h.latest, true
}

// C is the subscriber's receive channel.
func (s *Subscription) C() <-chan domain.ProgressSnapshot {
	return s.ch
}

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}
