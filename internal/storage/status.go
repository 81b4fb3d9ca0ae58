package storage

import (
	"sync"

	"github.com/foodles-shop/order-notify-service/internal/domain"
)

// StatusBoard is the process-wide per-order notification status map read by
// the email-status polling endpoint. Unknown orders report zero values.
type StatusBoard struct {
	mu      sync.RWMutex
	byOrder map[string]domain.NotificationResult
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{byOrder: make(map[string]domain.NotificationResult)}
}

func (b *StatusBoard) Set(orderID string, result domain.NotificationResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byOrder[orderID] = result
}

// Get returns the last known result, defaulting to zeros with a non-nil error
// slice so callers can marshal it directly.
func (b *StatusBoard) Get(orderID string) domain.NotificationResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if r, ok := b.byOrder[orderID]; ok {
		if r.EmailErrors == nil {
			r.EmailErrors = []domain.EmailError{}
		}
		return r
	}
	return domain.NotificationResult{EmailErrors: []domain.EmailError{}}
}

// Known reports whether any status was ever recorded for the order.
func (b *StatusBoard) Known(orderID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.byOrder[orderID]
	return ok
}
