package server

import (
	"context"
	"time"

	"github.com/kabar-app/kabar/fanout"
	"github.com/pkg/errors"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// FollowStore is the persistence surface FollowService needs. Satisfied by
// store.Store.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followingID int64) error
	Unfollow(ctx context.Context, followerID, followingID int64) error
}

type FollowService struct {
	store             FollowStore
	invalidator       *fanout.Invalidator
	sideEffectTimeout time.Duration
}

func NewFollowService(followStore FollowStore, invalidator *fanout.Invalidator, sideEffectTimeout time.Duration) *FollowService {
	return &FollowService{
		store:             followStore,
		invalidator:       invalidator,
		sideEffectTimeout: sideEffectTimeout,
	}
}

// Follow creates the edge and evicts the follower's cached feed so the new
// author's posts show up on the next read instead of after TTL expiry.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	if err := s.store.Follow(ctx, followerID, followingID); err != nil {
		return err
	}
	runSideEffects(ctx, s.sideEffectTimeout, func(ctx context.Context) {
		s.invalidator.InvalidateForUser(ctx, followerID)
	})
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	if err := s.store.Unfollow(ctx, followerID, followingID); err != nil {
		return err
	}
	runSideEffects(ctx, s.sideEffectTimeout, func(ctx context.Context) {
		s.invalidator.InvalidateForUser(ctx, followerID)
	})
	return nil
}
