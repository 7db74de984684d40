package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kabar-app/kabar/model"
	Logger "github.com/kabar-app/kabar/utils/log"
)

const (
	// feedKeyPrefix namespaces feed entries away from any other cached data
	// sharing the same redis instance.
	feedKeyPrefix = "feed:"

	// FeedTTL bounds how stale a cached feed can get when an invalidation is
	// missed. Not configurable per call.
	FeedTTL = 30 * time.Second
)

// FeedCache is the per-viewer materialized feed view. Implementations must be
// safe for concurrent use.
type FeedCache interface {
	// Get returns the cached feed and true, or false on miss/expiry.
	Get(ctx context.Context, viewerID int64) ([]model.PostSummary, bool, error)
	// Set stores the feed under the fixed TTL, replacing any prior value.
	Set(ctx context.Context, viewerID int64, feed []model.PostSummary) error
	// Evict removes the entry immediately, regardless of TTL.
	Evict(ctx context.Context, viewerID int64) error
	// EvictMany removes a batch in one pipelined round trip. Empty input is a
	// no-op and must not issue any cache operation.
	EvictMany(ctx context.Context, viewerIDs []int64) error
}

type RedisFeedCache struct {
	inner *redis.Client
}

// NewRedisFeedCache connects to the redis instance specified by env and
// verifies the connection before returning.
func NewRedisFeedCache(ctx context.Context) (*RedisFeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return &RedisFeedCache{inner: client}, nil
}

func FeedKey(viewerID int64) string {
	return fmt.Sprintf("%s%d", feedKeyPrefix, viewerID)
}

func (c *RedisFeedCache) Get(ctx context.Context, viewerID int64) ([]model.PostSummary, bool, error) {
	data, err := c.inner.Get(ctx, FeedKey(viewerID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var feed []model.PostSummary
	if err := json.Unmarshal([]byte(data), &feed); err != nil {
		// A corrupt entry is treated as a miss. The caller recomputes and
		// overwrites it.
		Logger.Log.Errorln("corrupt feed cache entry for viewer", viewerID, ":", err)
		return nil, false, nil
	}
	return feed, true, nil
}

func (c *RedisFeedCache) Set(ctx context.Context, viewerID int64, feed []model.PostSummary) error {
	data, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return c.inner.Set(ctx, FeedKey(viewerID), data, FeedTTL).Err()
}

func (c *RedisFeedCache) Evict(ctx context.Context, viewerID int64) error {
	return c.inner.Del(ctx, FeedKey(viewerID)).Err()
}

func (c *RedisFeedCache) EvictMany(ctx context.Context, viewerIDs []int64) error {
	if len(viewerIDs) == 0 {
		return nil
	}

	// One pipelined DEL per batch instead of a round trip per id, so fanout
	// latency is bounded by a single network exchange.
	pipe := c.inner.Pipeline()
	for _, id := range viewerIDs {
		pipe.Del(ctx, FeedKey(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}
