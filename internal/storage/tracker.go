package storage

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TrackerTTL bounds how long a computed fan-out result is remembered. After
// eviction a resend is treated as a new attempt, which is acceptable because
// by then the order sits in the processed set.
const TrackerTTL = 2 * time.Minute

// NotificationTracker deduplicates notification fan-outs per order id. The
// gateway webhook, the client callback and a polling-triggered retry can all
// race on the same order; only one of them may execute the fan-out.
type NotificationTracker struct {
	mu      sync.Mutex
	clock   clock.Clock
	group   singleflight.Group
	results map[string]domain.NotificationResult
}

func NewNotificationTracker(c clock.Clock) *NotificationTracker {
	return &NotificationTracker{
		clock:   c,
		results: make(map[string]domain.NotificationResult),
	}
}

// GetOrCompute returns the cached result for orderID, or runs compute exactly
// once across concurrent callers, caches its result and schedules eviction
// after TrackerTTL.
func (t *NotificationTracker) GetOrCompute(orderID string, compute func() domain.NotificationResult) domain.NotificationResult {
	v, _, _ := t.group.Do(orderID, func() (interface{}, error) {
		t.mu.Lock()
		if cached, ok := t.results[orderID]; ok {
			t.mu.Unlock()
			return cached, nil
		}
		t.mu.Unlock()

		result := compute()

		t.mu.Lock()
		t.results[orderID] = result
		t.mu.Unlock()

		t.clock.AfterFunc(TrackerTTL, func() {
			t.mu.Lock()
			delete(t.results, orderID)
			t.mu.Unlock()
		})
		return result, nil
	})
	return v.(domain.NotificationResult)
}

// Peek reports the cached result without computing anything.
func (t *NotificationTracker) Peek(orderID string) (domain.NotificationResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.results[orderID]
	return r, ok
}
