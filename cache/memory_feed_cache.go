package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kabar-app/kabar/model"
)

// MemoryFeedCache is an in-process FeedCache used in tests and local
// development where no redis is available. It honors the same TTL contract as
// the redis implementation.
type MemoryFeedCache struct {
	mu      sync.RWMutex
	entries map[int64]memoryEntry

	// now is swappable so tests can step time instead of sleeping.
	now func() time.Time
}

type memoryEntry struct {
	feed      []model.PostSummary
	expiresAt time.Time
}

func NewMemoryFeedCache() *MemoryFeedCache {
	return &MemoryFeedCache{
		entries: make(map[int64]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryFeedCache) Get(ctx context.Context, viewerID int64) ([]model.PostSummary, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[viewerID]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		// Lazily expire on read, same observable behavior as redis TTL.
		c.mu.Lock()
		delete(c.entries, viewerID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.feed, true, nil
}

func (c *MemoryFeedCache) Set(ctx context.Context, viewerID int64, feed []model.PostSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[viewerID] = memoryEntry{feed: feed, expiresAt: c.now().Add(FeedTTL)}
	return nil
}

func (c *MemoryFeedCache) Evict(ctx context.Context, viewerID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, viewerID)
	return nil
}

func (c *MemoryFeedCache) EvictMany(ctx context.Context, viewerIDs []int64) error {
	if len(viewerIDs) == 0 {
		return nil
	}
	// Single critical section so no reader observes a half-evicted batch.
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range viewerIDs {
		delete(c.entries, id)
	}
	return nil
}
