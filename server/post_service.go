package server

import (
	"context"
	"time"

	"github.com/kabar-app/kabar/auditlog"
	"github.com/kabar-app/kabar/fanout"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/relay"
	"github.com/pkg/errors"
)

// PostStore is the persistence surface PostService needs. Satisfied by
// store.Store.
type PostStore interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	GetPost(ctx context.Context, postID int64) (*model.Post, error)
	CreatePost(ctx context.Context, post *model.Post) error
	UpdatePost(ctx context.Context, post *model.Post, tags []*model.Tag) error
	DeletePost(ctx context.Context, postID int64) error
	TagsByIDs(ctx context.Context, tagIDs []int64) ([]*model.Tag, error)
}

// PostService owns the post write paths: the store mutation itself, followed
// by the independent side effects (cache fanout, relay publish, audit log).
// The store mutation is the only step whose failure fails the request; all
// side effects run after commit and degrade on their own.
type PostService struct {
	store             PostStore
	invalidator       *fanout.Invalidator
	publisher         *relay.Publisher
	recorder          *auditlog.Recorder
	sideEffectTimeout time.Duration
}

func NewPostService(
	postStore PostStore,
	invalidator *fanout.Invalidator,
	publisher *relay.Publisher,
	recorder *auditlog.Recorder,
	sideEffectTimeout time.Duration,
) *PostService {
	return &PostService{
		store:             postStore,
		invalidator:       invalidator,
		publisher:         publisher,
		recorder:          recorder,
		sideEffectTimeout: sideEffectTimeout,
	}
}

type CreatePostInput struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	TagIDs   []int64 `json:"tagIds"`
	ParentID *int64  `json:"parentId"`
}

type UpdatePostInput struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	TagIDs  *[]int64 `json:"tagIds"`
}

func (s *PostService) CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*model.Post, error) {
	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, "author lookup failed")
	}
	if input.ParentID != nil {
		if _, err := s.store.GetPost(ctx, *input.ParentID); err != nil {
			return nil, errors.Wrap(err, "parent post lookup failed")
		}
	}
	tags, err := s.store.TagsByIDs(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: author.Id,
		Author:   author,
		ParentID: input.ParentID,
		Tags:     tags,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	event := relay.NewPostEvent(post)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			s.invalidator.InvalidateForAuthor(ctx, post.AuthorID)
			// The author's own view should also pick the write up on its
			// next recompute.
			s.invalidator.InvalidateForUser(ctx, post.AuthorID)
		},
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicPostCreated, event)
		},
	)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, postID, changerID int64, input UpdatePostInput) (*model.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	oldSnapshot := postSnapshot(post)

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	var tags []*model.Tag
	if input.TagIDs != nil {
		if tags, err = s.store.TagsByIDs(ctx, *input.TagIDs); err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.store.UpdatePost(ctx, post, tags); err != nil {
		return nil, err
	}

	changes := auditlog.Diff(oldSnapshot, postSnapshot(post), postScalarFields, postRelationFields)
	event := relay.NewPostEvent(post)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			s.invalidator.InvalidateForAuthor(ctx, post.AuthorID)
			s.invalidator.InvalidateForUser(ctx, post.AuthorID)
		},
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicPostUpdated, event)
		},
		func(ctx context.Context) {
			_ = s.recorder.Record(ctx, model.PostRef{ID: post.Id}, changerID, changes, model.AuditActionUpdate)
		},
	)
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, changerID int64) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	snapshot := postSnapshot(post)

	// Invalidation happens strictly after the store delete: a failed delete
	// must never evict a still-valid cache entry.
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}

	changes := auditlog.Changes{Old: snapshot, New: map[string]interface{}{}}
	event := relay.NewPostEvent(post)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			s.invalidator.InvalidateForAuthor(ctx, post.AuthorID)
			s.invalidator.InvalidateForUser(ctx, post.AuthorID)
		},
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicPostDeleted, event)
		},
		func(ctx context.Context) {
			_ = s.recorder.Record(ctx, model.PostRef{ID: post.Id}, changerID, changes, model.AuditActionDelete)
		},
	)
	return nil
}

// Tracked audit fields for posts.
var (
	postScalarFields   = []string{"title", "content"}
	postRelationFields = []string{"tags"}
)

func postSnapshot(post *model.Post) auditlog.Snapshot {
	return auditlog.Snapshot{
		"title":   post.Title,
		"content": post.Content,
		"tags":    post.TagNames(),
	}
}
