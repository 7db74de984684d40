package server

import (
	"context"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/kabar-app/kabar/auditlog"
	"github.com/kabar-app/kabar/fanout"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/moderation"
	"github.com/kabar-app/kabar/notification"
	"github.com/kabar-app/kabar/relay"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
	"github.com/pkg/errors"
)

// CommentStore is the persistence surface CommentService needs. Satisfied by
// store.Store.
type CommentStore interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	GetPost(ctx context.Context, postID int64) (*model.Post, error)
	GetComment(ctx context.Context, commentID int64) (*model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	UpdateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, commentID int64) error
	SaveNotification(ctx context.Context, record *model.Notification) error
}

type CommentService struct {
	store             CommentStore
	invalidator       *fanout.Invalidator
	publisher         *relay.Publisher
	recorder          *auditlog.Recorder
	statsd            *statsd.Client
	sideEffectTimeout time.Duration
}

func NewCommentService(
	commentStore CommentStore,
	invalidator *fanout.Invalidator,
	publisher *relay.Publisher,
	recorder *auditlog.Recorder,
	statsdClient *statsd.Client,
	sideEffectTimeout time.Duration,
) *CommentService {
	return &CommentService{
		store:             commentStore,
		invalidator:       invalidator,
		publisher:         publisher,
		recorder:          recorder,
		statsd:            statsdClient,
		sideEffectTimeout: sideEffectTimeout,
	}
}

type CreateCommentInput struct {
	Content  string `json:"content" binding:"required"`
	PostID   int64  `json:"postId" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

type UpdateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment persists the comment and derives its notification
// synchronously: notification existence is part of the feature's correctness
// contract, unlike the relay publish which stays best-effort.
func (s *CommentService) CreateComment(ctx context.Context, authorID int64, input CreateCommentInput) (*model.Comment, error) {
	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(err, "author lookup failed")
	}
	post, err := s.store.GetPost(ctx, input.PostID)
	if err != nil {
		return nil, errors.Wrap(err, "post lookup failed")
	}
	var parent *model.Comment
	if input.ParentID != nil {
		if parent, err = s.store.GetComment(ctx, *input.ParentID); err != nil {
			return nil, errors.Wrap(err, "parent comment lookup failed")
		}
	}

	// Content containing a banned substring is held for review instead of
	// being published.
	status := model.CommentStatusApproved
	if moderation.IsSpam(input.Content) {
		status = model.CommentStatusPending
	}

	comment := &model.Comment{
		Content:  input.Content,
		Status:   status,
		AuthorID: author.Id,
		Author:   author,
		PostID:   post.Id,
		ParentID: input.ParentID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if record := notification.DeriveForComment(comment, post, parent); record != nil {
		if err := s.store.SaveNotification(ctx, record); err != nil {
			// Losing the notification is a user-visible regression but not a
			// failure of the comment itself. Surface it distinctly.
			Logger.Log.Errorln("fail to persist notification for comment", comment.Id, ":", err)
			utils.IncrCounter(s.statsd, utils.DDogNotificationWriteFailure)
		}
	}

	event := relay.NewCommentEvent(comment)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			// Comments do not appear in follower feeds, only the commenting
			// user's own cached view goes stale.
			s.invalidator.InvalidateForUser(ctx, comment.AuthorID)
		},
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicCommentCreated, event)
		},
	)
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID, changerID int64, input UpdateCommentInput) (*model.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	oldSnapshot := commentSnapshot(comment)

	comment.Content = input.Content
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	changes := auditlog.Diff(oldSnapshot, commentSnapshot(comment), commentScalarFields, nil)
	event := relay.NewCommentEvent(comment)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicCommentUpdated, event)
		},
		func(ctx context.Context) {
			_ = s.recorder.Record(ctx, model.CommentRef{ID: comment.Id}, changerID, changes, model.AuditActionUpdate)
		},
	)
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, changerID int64) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	snapshot := commentSnapshot(comment)

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	changes := auditlog.Changes{Old: snapshot, New: map[string]interface{}{}}
	event := relay.NewCommentEvent(comment)
	runSideEffects(ctx, s.sideEffectTimeout,
		func(ctx context.Context) {
			_ = s.publisher.TryPublish(relay.TopicCommentDeleted, event)
		},
		func(ctx context.Context) {
			_ = s.recorder.Record(ctx, model.CommentRef{ID: comment.Id}, changerID, changes, model.AuditActionDelete)
		},
	)
	return nil
}

var commentScalarFields = []string{"content", "status"}

func commentSnapshot(comment *model.Comment) auditlog.Snapshot {
	return auditlog.Snapshot{
		"content": comment.Content,
		"status":  string(comment.Status),
	}
}
