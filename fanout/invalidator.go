// Package fanout propagates an author's content mutations to the cached
// feeds of everyone following them.
package fanout

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/kabar-app/kabar/cache"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// FollowerGraph answers "who follows author X". Satisfied by store.Store.
type FollowerGraph interface {
	FollowerIDs(ctx context.Context, authorID int64) ([]int64, error)
}

// Invalidator evicts stale feed cache entries after a content write. All of
// its operations are best-effort: a failed invalidation degrades a follower's
// feed to "stale for up to the cache TTL" and is never surfaced to the write
// that triggered it.
type Invalidator struct {
	graph  FollowerGraph
	cache  cache.FeedCache
	statsd *statsd.Client
}

func NewInvalidator(graph FollowerGraph, feedCache cache.FeedCache, statsdClient *statsd.Client) *Invalidator {
	return &Invalidator{
		graph:  graph,
		cache:  feedCache,
		statsd: statsdClient,
	}
}

// InvalidateForAuthor evicts the cached feed of every follower of authorID.
// The full follower set is read in one query and evicted in one batched
// cache call. With zero followers no cache operation is issued at all.
func (i *Invalidator) InvalidateForAuthor(ctx context.Context, authorID int64) {
	followerIDs, err := i.graph.FollowerIDs(ctx, authorID)
	if err != nil {
		Logger.Log.Errorln("fail to enumerate followers of author", authorID, ":", err)
		utils.IncrCounter(i.statsd, utils.DDogCacheEvictionFailure)
		return
	}
	if len(followerIDs) == 0 {
		return
	}

	if err := i.cache.EvictMany(ctx, followerIDs); err != nil {
		Logger.Log.Errorln("fail to evict feed caches for author", authorID, ":", err)
		utils.IncrCounter(i.statsd, utils.DDogCacheEvictionFailure)
	}
}

// InvalidateForUser evicts one user's own cached feed, used when the user's
// own view must reflect a change they just made.
func (i *Invalidator) InvalidateForUser(ctx context.Context, userID int64) {
	if err := i.cache.Evict(ctx, userID); err != nil {
		Logger.Log.Errorln("fail to evict feed cache for user", userID, ":", err)
		utils.IncrCounter(i.statsd, utils.DDogCacheEvictionFailure)
	}
}
