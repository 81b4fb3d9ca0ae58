// Package storage holds the process-resident order state: the pending and
// processed order maps, the notification idempotency tracker and the status
// board. Nothing here survives a restart; unprocessed orders are recreated by
// the client retrying payment confirmation.
package storage

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
)

// PendingTTL bounds how long a prepared order waits for its payment.
const PendingTTL = time.Hour

type pendingEntry struct {
	order domain.PendingOrder
	timer *clock.Timer
}

// OrderStateStore owns the pending -> processed lifecycle of in-flight orders.
// The clock is injected so TTL eviction is deterministic under test.
type OrderStateStore struct {
	mu        sync.RWMutex
	clock     clock.Clock
	pending   map[string]*pendingEntry
	processed map[string]domain.ProcessedOrder
}

func NewOrderStateStore(c clock.Clock) *OrderStateStore {
	return &OrderStateStore{
		clock:     c,
		pending:   make(map[string]*pendingEntry),
		processed: make(map[string]domain.ProcessedOrder),
	}
}

// Prepare inserts or overwrites a pending entry and schedules its eviction
// after PendingTTL unless Complete removes it first.
func (s *OrderStateStore) Prepare(orderID string, order domain.PendingOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[orderID]; ok {
		prev.timer.Stop()
	}
	entry := &pendingEntry{order: order}
	entry.timer = s.clock.AfterFunc(PendingTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// The entry may already be gone; eviction is a no-op then.
		if cur, ok := s.pending[orderID]; ok && cur == entry {
			delete(s.pending, orderID)
		}
	})
	s.pending[orderID] = entry
}

// Complete removes and returns the pending entry. Idempotent: repeat calls
// report absence.
func (s *OrderStateStore) Complete(orderID string) (domain.PendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[orderID]
	if !ok {
		return domain.PendingOrder{}, false
	}
	entry.timer.Stop()
	delete(s.pending, orderID)
	return entry.order, true
}

// MarkProcessed records the completed order. The first write wins; fan-out is
// deduplicated upstream, so a second write would carry the same result anyway.
func (s *OrderStateStore) MarkProcessed(orderID string, order domain.ProcessedOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processed[orderID]; ok {
		return
	}
	s.processed[orderID] = order
}

// LookupResult is the read-only answer for polling endpoints.
type LookupResult struct {
	State     domain.OrderState
	Pending   *domain.PendingOrder
	Processed *domain.ProcessedOrder
}

// Lookup reports order state; processed takes priority over pending when both
// improbably exist.
func (s *OrderStateStore) Lookup(orderID string) LookupResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.processed[orderID]; ok {
		return LookupResult{State: domain.OrderStateSuccess, Processed: &p}
	}
	if entry, ok := s.pending[orderID]; ok {
		order := entry.order
		return LookupResult{State: domain.OrderStatePending, Pending: &order}
	}
	return LookupResult{State: domain.OrderStateNotFound}
}
