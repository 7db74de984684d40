package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Store) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	result := s.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", commentID).
		First(&comment)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *Store) UpdateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Save(comment).Error
}

func (s *Store) DeleteComment(ctx context.Context, commentID int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Comment{}, commentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CommentsForPost loads a post's comments oldest first, with authors, so the
// client can thread replies.
func (s *Store) CommentsForPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	result := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&comments)
	return comments, result.Error
}
