package httpapi

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// StatusCacheTTL bounds how stale a served open/closed flag may be.
const StatusCacheTTL = 10 * time.Second

// RestaurantStatusCache answers open/closed probes from a short-lived cache
// so storefront polling does not hammer the environment on every request.
type RestaurantStatusCache struct {
	mu    sync.Mutex
	clock clock.Clock
	ttl   time.Duration
	probe func(restaurantID string) bool

	entries map[string]statusEntry
}

type statusEntry struct {
	open      bool
	fetchedAt time.Time
}

func NewRestaurantStatusCache(clk clock.Clock, ttl time.Duration, probe func(restaurantID string) bool) *RestaurantStatusCache {
	return &RestaurantStatusCache{
		clock:   clk,
		ttl:     ttl,
		probe:   probe,
		entries: make(map[string]statusEntry),
	}
}

func (c *RestaurantStatusCache) Open(restaurantID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.entries[restaurantID]; ok && now.Sub(e.fetchedAt) < c.ttl {
		return e.open
	}
	open := c.probe(restaurantID)
	c.entries[restaurantID] = statusEntry{open: open, fetchedAt: now}
	return open
}
