package cache

import (
	"context"
	"testing"
	"time"

	"github.com/kabar-app/kabar/model"
	"github.com/stretchr/testify/require"
)

func TestFeedKey(t *testing.T) {
	require.Equal(t, "feed:42", FeedKey(42))
	require.Equal(t, "feed:0", FeedKey(0))
}

func TestMemoryFeedCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	feed := []model.PostSummary{{Id: 1, Title: "hello"}}
	require.NoError(t, c.Set(ctx, 7, feed))

	got, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, feed, got)

	// Unknown viewer misses.
	_, ok, err = c.Get(ctx, 8)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryFeedCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, 7, []model.PostSummary{{Id: 1}}))

	// Entry is still trusted right before the TTL edge.
	now = now.Add(FeedTTL - time.Second)
	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)

	// Past the TTL the entry no longer exists.
	now = now.Add(2 * time.Second)
	_, ok, err = c.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryFeedCacheEvict(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	require.NoError(t, c.Set(ctx, 1, []model.PostSummary{{Id: 10}}))
	require.NoError(t, c.Set(ctx, 2, []model.PostSummary{{Id: 20}}))
	require.NoError(t, c.Set(ctx, 3, []model.PostSummary{{Id: 30}}))

	require.NoError(t, c.Evict(ctx, 1))
	_, ok, _ := c.Get(ctx, 1)
	require.False(t, ok)

	require.NoError(t, c.EvictMany(ctx, []int64{2, 3}))
	_, ok, _ = c.Get(ctx, 2)
	require.False(t, ok)
	_, ok, _ = c.Get(ctx, 3)
	require.False(t, ok)

	// Empty batch is a no-op that must not error.
	require.NoError(t, c.EvictMany(ctx, nil))
}

func TestMemoryFeedCacheSetReplaces(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryFeedCache()

	require.NoError(t, c.Set(ctx, 5, []model.PostSummary{{Id: 1}}))
	require.NoError(t, c.Set(ctx, 5, []model.PostSummary{{Id: 2}}))

	got, ok, err := c.Get(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].Id)
}
