package services

import (
	"sync"

	"github.com/bestellboard/bestellboard-api/models"
)

// Hub fans out full-state snapshots to subscribers. Each published
// snapshot fully replaces the previous one; there is no merge step, so
// consumers treat every received value as complete and authoritative.
type Hub[T any] struct {
	mu        sync.Mutex
	latest    T
	hasLatest bool
	subs      map[chan T]struct{}
}

// NewHub creates an empty hub with no snapshot yet.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a subscriber. The latest snapshot, if one exists,
// is delivered immediately; the returned cancel function unsubscribes
// and closes the channel.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.hasLatest {
		ch <- h.latest
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish atomically replaces the current snapshot and notifies every
// subscriber. A subscriber that has not drained its previous value
// keeps only the newest snapshot; skipping intermediate states is safe
// because each snapshot is the full state.
func (h *Hub[T]) Publish(snapshot T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snapshot
	h.hasLatest = true
	for ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Latest returns the current snapshot and whether one has been published.
func (h *Hub[T]) Latest() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

var (
	catalogStream = NewHub[[]models.Product]()
	orderStream   = NewHub[[]models.Order]()
)

// CatalogStream is the live, name-ascending product listing.
func CatalogStream() *Hub[[]models.Product] {
	return catalogStream
}

// OrderStream is the live, newest-first order listing, archived records
// included; consumers filter.
func OrderStream() *Hub[[]models.Order] {
	return orderStream
}

// ResetStreams replaces both hubs with fresh ones (primarily for testing).
func ResetStreams() {
	catalogStream = NewHub[[]models.Product]()
	orderStream = NewHub[[]models.Order]()
}
