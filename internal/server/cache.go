package server

import (
	"context"
	"sync"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// DefaultCacheTTL is how long serve reuses a store listing.
const DefaultCacheTTL = 5 * time.Minute

// recordCache keeps the last store listing for ttl
type recordCache struct {
	mu       sync.Mutex
	source   Lister
	ttl      time.Duration
	now      func() time.Time
	records  []competition.Record
	cachedAt time.Time
	valid    bool
}

func newRecordCache(source Lister, ttl time.Duration) *recordCache {
	return &recordCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// List returns the cached listing, refreshing it once expired.
// Failed refreshes are not cached.
func (c *recordCache) List(ctx context.Context) ([]competition.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.cachedAt) <= c.ttl {
		return c.records, nil
	}

	records, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	c.records = records
	c.cachedAt = c.now()
	c.valid = true
	return records, nil
}

// Invalidate drops the cached listing
func (c *recordCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.records = nil
}
