// Package feed serves the per-viewer aggregated timeline.
package feed

import (
	"context"

	"github.com/kabar-app/kabar/cache"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
	"github.com/pkg/errors"
)

// Graph answers "who does viewer Y follow". Satisfied by store.Store.
type Graph interface {
	FollowingIDs(ctx context.Context, viewerID int64) ([]int64, error)
}

// PostReader is the feed recompute query. Satisfied by store.Store.
type PostReader interface {
	PostsByAuthors(ctx context.Context, authorIDs []int64) ([]*model.Post, error)
}

// Service computes a viewer's feed, probing the cache first and falling back
// to a follower-graph driven store query on miss.
type Service struct {
	cache cache.FeedCache
	graph Graph
	posts PostReader
}

func NewService(feedCache cache.FeedCache, graph Graph, posts PostReader) *Service {
	return &Service{
		cache: feedCache,
		graph: graph,
		posts: posts,
	}
}

// GetFeed returns the viewer's feed, newest first. A cache hit within the TTL
// window is served as-is, accepting the bounded staleness; on miss the feed
// is recomputed from the store and the cache repopulated. Cache transport
// errors degrade to a plain store read, never to a request failure.
func (s *Service) GetFeed(ctx context.Context, viewerID int64) ([]model.PostSummary, error) {
	cached, ok, err := s.cache.Get(ctx, viewerID)
	if err != nil {
		Logger.Log.Errorln("feed cache read failed for viewer", viewerID, ":", err)
	} else if ok {
		return cached, nil
	}

	feed, err := s.recompute(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, viewerID, feed); err != nil {
		Logger.Log.Errorln("feed cache write failed for viewer", viewerID, ":", err)
	}
	return feed, nil
}

// GetFeedFiltered applies a serialized filter expression on top of the
// viewer's feed. Filtering happens after the cache layer so that the cached
// entry stays the unfiltered source all presets share.
func (s *Service) GetFeedFiltered(ctx context.Context, viewerID int64, expression string) ([]model.PostSummary, error) {
	feed, err := s.GetFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return feed, nil
	}

	filtered := []model.PostSummary{}
	for idx := range feed {
		matched, err := utils.FilterExpressionMatchPost(expression, &feed[idx])
		if err != nil {
			return nil, errors.Wrap(err, "fail to apply feed filter")
		}
		if matched {
			filtered = append(filtered, feed[idx])
		}
	}
	return filtered, nil
}

func (s *Service) recompute(ctx context.Context, viewerID int64) ([]model.PostSummary, error) {
	followingIDs, err := s.graph.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read following set")
	}
	if len(followingIDs) == 0 {
		return []model.PostSummary{}, nil
	}

	posts, err := s.posts.PostsByAuthors(ctx, followingIDs)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read followed authors' posts")
	}

	feed := make([]model.PostSummary, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, post.Summary())
	}
	return feed, nil
}
