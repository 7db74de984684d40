package store

import (
	"context"

	"github.com/kabar-app/kabar/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const feedQueryLimit = 100

// GetPost loads one post with its author and tags.
func (s *Store) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	var post model.Post
	result := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("id = ?", postID).
		First(&post)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &post, nil
}

// PostsByAuthors returns posts authored by the given set of identities,
// newest first. This is the feed recompute query.
func (s *Store) PostsByAuthors(ctx context.Context, authorIDs []int64) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}
	var posts []*model.Post
	result := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("author_id IN ?", authorIDs).
		Order("created_at desc").
		Limit(feedQueryLimit).
		Find(&posts)
	return posts, result.Error
}

// CreatePost persists the post together with its tag associations.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// UpdatePost persists scalar field changes and, when tags is non-nil,
// replaces the tag association set.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		if tags != nil {
			if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Post{}, postID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TagsByIDs resolves tag ids to rows, erroring when any id is unknown.
func (s *Store) TagsByIDs(ctx context.Context, tagIDs []int64) ([]*model.Tag, error) {
	if len(tagIDs) == 0 {
		return []*model.Tag{}, nil
	}
	var tags []*model.Tag
	result := s.db.WithContext(ctx).Where("id IN ?", tagIDs).Find(&tags)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(tags) != len(tagIDs) {
		return nil, errors.Wrap(ErrNotFound, "one or more tag ids are invalid")
	}
	return tags, nil
}
