package feed

import (
	"context"
	"testing"
	"time"

	"github.com/kabar-app/kabar/cache"
	"github.com/kabar-app/kabar/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	following map[int64][]int64
}

func (g *fakeGraph) FollowingIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	return g.following[viewerID], nil
}

type fakePostReader struct {
	posts   []*model.Post
	queries int
}

func (r *fakePostReader) PostsByAuthors(ctx context.Context, authorIDs []int64) ([]*model.Post, error) {
	r.queries++
	matched := []*model.Post{}
	for _, post := range r.posts {
		for _, id := range authorIDs {
			if post.AuthorID == id {
				matched = append(matched, post)
			}
		}
	}
	return matched, nil
}

type erroringCache struct {
	cache.FeedCache
}

func (erroringCache) Get(ctx context.Context, viewerID int64) ([]model.PostSummary, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (erroringCache) Set(ctx context.Context, viewerID int64, feed []model.PostSummary) error {
	return errors.New("connection refused")
}

func newTestService() (*Service, *cache.MemoryFeedCache, *fakePostReader) {
	feedCache := cache.NewMemoryFeedCache()
	graph := &fakeGraph{following: map[int64][]int64{
		// Viewer 2 follows author 1.
		2: {1},
	}}
	posts := &fakePostReader{posts: []*model.Post{
		{Id: 11, Title: "second", AuthorID: 1, CreatedAt: time.Now(), Author: &model.User{Id: 1, FirstName: "Ada"}},
		{Id: 10, Title: "first", AuthorID: 1, CreatedAt: time.Now().Add(-time.Hour), Author: &model.User{Id: 1, FirstName: "Ada"}},
	}}
	return NewService(feedCache, graph, posts), feedCache, posts
}

func TestGetFeedMissRecomputesAndCaches(t *testing.T) {
	ctx := context.Background()
	service, feedCache, posts := newTestService()

	feed, err := service.GetFeed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, int64(11), feed[0].Id)
	assert.Equal(t, 1, posts.queries)

	// The recomputed feed was cached.
	cached, ok, err := feedCache.Get(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, feed, cached)
}

func TestGetFeedHitSkipsRecompute(t *testing.T) {
	ctx := context.Background()
	service, _, posts := newTestService()

	_, err := service.GetFeed(ctx, 2)
	require.NoError(t, err)
	_, err = service.GetFeed(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, posts.queries, "a warm cache entry must serve reads without recompute")
}

func TestGetFeedNoFollowing(t *testing.T) {
	ctx := context.Background()
	service, _, posts := newTestService()

	feed, err := service.GetFeed(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Zero(t, posts.queries, "no followed authors means no post query")
}

func TestGetFeedCacheErrorDegradesToStoreRead(t *testing.T) {
	ctx := context.Background()
	graph := &fakeGraph{following: map[int64][]int64{2: {1}}}
	posts := &fakePostReader{posts: []*model.Post{{Id: 10, AuthorID: 1}}}
	service := NewService(erroringCache{}, graph, posts)

	feed, err := service.GetFeed(ctx, 2)
	require.NoError(t, err, "cache transport failure must not fail the read")
	assert.Len(t, feed, 1)
}

func TestGetFeedFiltered(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	expression := `{"id":"1","expr":{"pred":{"type":"LITERAL","param":{"text":"second"}}}}`
	feed, err := service.GetFeedFiltered(ctx, 2, expression)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, int64(11), feed[0].Id)

	// Empty expression returns the full feed.
	feed, err = service.GetFeedFiltered(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}
