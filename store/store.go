// Package store is the gorm backed persistence layer. It owns all SQL and
// exposes the narrow query surfaces the rest of the system consumes.
package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced entity does not exist. Handlers
// map it to a 404.
var ErrNotFound = errors.New("entity not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migration and test setup.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).Where("id = ?", userID).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// FollowerIDs returns every user following the author. The full set is read
// in one query; follower sets are assumed to fit in memory per author.
func (s *Store) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	result := s.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("following_id = ?", authorID).
		Pluck("follower_id", &ids)
	return ids, result.Error
}

// FollowingIDs returns every user the viewer follows.
func (s *Store) FollowingIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	var ids []int64
	result := s.db.WithContext(ctx).
		Model(&model.Follower{}).
		Where("follower_id = ?", viewerID).
		Pluck("following_id", &ids)
	return ids, result.Error
}

// Follow creates the (follower, following) edge. The unique index rejects
// duplicate edges.
func (s *Store) Follow(ctx context.Context, followerID, followingID int64) error {
	edge := model.Follower{FollowerID: followerID, FollowingID: followingID}
	return s.db.WithContext(ctx).Create(&edge).Error
}

func (s *Store) Unfollow(ctx context.Context, followerID, followingID int64) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follower{}).Error
}
