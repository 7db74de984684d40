package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kabar-app/kabar/feed"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/push"
	"github.com/kabar-app/kabar/server/middlewares"
	"github.com/kabar-app/kabar/store"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = 100
)

// ReadStore is the query surface the handlers consume directly, bypassing the
// write-path services. Satisfied by store.Store.
type ReadStore interface {
	CommentsForPost(ctx context.Context, postID int64) ([]*model.Comment, error)
	NotificationsForUser(ctx context.Context, recipientID int64, limit, offset int) ([]*model.Notification, error)
	LogHistoryForEntity(ctx context.Context, ref model.EntityRef) ([]*model.LogHistory, error)
	SaveFilterPreset(ctx context.Context, preset *model.FilterPreset) error
	FilterPresetsForUser(ctx context.Context, userID int64) ([]*model.FilterPreset, error)
	GetFilterPreset(ctx context.Context, presetID, userID int64) (*model.FilterPreset, error)
	DeleteFilterPreset(ctx context.Context, presetID, userID int64) error
	GetPost(ctx context.Context, postID int64) (*model.Post, error)
}

// Handlers binds the HTTP surface to the underlying services.
type Handlers struct {
	feed     *feed.Service
	posts    *PostService
	comments *CommentService
	follows  *FollowService
	reads    ReadStore
	hub      *push.Hub
}

func NewHandlers(
	feedService *feed.Service,
	postService *PostService,
	commentService *CommentService,
	followService *FollowService,
	reads ReadStore,
	hub *push.Hub,
) *Handlers {
	return &Handlers{
		feed:     feedService,
		posts:    postService,
		comments: commentService,
		follows:  followService,
		reads:    reads,
		hub:      hub,
	}
}

// RegisterRoutes wires every route onto the engine. All routes except the
// healthcheck sit behind the Identity middleware.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/", middlewares.Identity())
	{
		api.GET("/feed", h.getFeed)

		api.GET("/posts/:id", h.getPost)
		api.POST("/posts", h.createPost)
		api.PUT("/posts/:id", h.updatePost)
		api.DELETE("/posts/:id", h.deletePost)

		api.GET("/posts/:id/comments", h.listComments)
		api.POST("/comments", h.createComment)
		api.PUT("/comments/:id", h.updateComment)
		api.DELETE("/comments/:id", h.deleteComment)

		api.POST("/follow/:id", h.follow)
		api.DELETE("/follow/:id", h.unfollow)

		api.GET("/notifications", h.listNotifications)
		api.GET("/logs/:entityType/:entityId", h.listLogHistory)

		api.GET("/presets", h.listFilterPresets)
		api.POST("/presets", h.createFilterPreset)
		api.DELETE("/presets/:id", h.deleteFilterPreset)

		api.GET("/ws", push.Handler(h.hub))
	}
}

func (h *Handlers) getFeed(c *gin.Context) {
	viewerID := middlewares.UserID(c)

	expression := ""
	if raw := c.Query("presetId"); raw != "" {
		presetID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, errors.New("malformed presetId"))
			return
		}
		preset, err := h.reads.GetFilterPreset(c.Request.Context(), presetID, viewerID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		expression = string(preset.Expression)
	}

	posts, err := h.feed.GetFeedFiltered(c.Request.Context(), viewerID, expression)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": posts})
}

func (h *Handlers) getPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.reads.GetPost(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) createPost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	post, err := h.posts.CreatePost(c.Request.Context(), middlewares.UserID(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handlers) updatePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	post, err := h.posts.UpdatePost(c.Request.Context(), postID, middlewares.UserID(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) deletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), postID, middlewares.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) listComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.reads.CommentsForPost(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *Handlers) createComment(c *gin.Context) {
	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	comment, err := h.comments.CreateComment(c.Request.Context(), middlewares.UserID(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handlers) updateComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	comment, err := h.comments.UpdateComment(c.Request.Context(), commentID, middlewares.UserID(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *Handlers) deleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.comments.DeleteComment(c.Request.Context(), commentID, middlewares.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) follow(c *gin.Context) {
	followingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.follows.Follow(c.Request.Context(), middlewares.UserID(c), followingID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) unfollow(c *gin.Context) {
	followingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), middlewares.UserID(c), followingID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) listNotifications(c *gin.Context) {
	limit := queryInt(c, "limit", defaultNotificationPageSize)
	if limit > maxNotificationPageSize {
		limit = maxNotificationPageSize
	}
	offset := queryInt(c, "offset", 0)

	records, err := h.reads.NotificationsForUser(c.Request.Context(), middlewares.UserID(c), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": records})
}

func (h *Handlers) listLogHistory(c *gin.Context) {
	entityID, ok := pathID(c, "entityId")
	if !ok {
		return
	}
	ref, err := model.ParseEntityRef(c.Param("entityType"), entityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	entries, err := h.reads.LogHistoryForEntity(c.Request.Context(), ref)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

type createFilterPresetInput struct {
	Name       string          `json:"name" binding:"required"`
	Expression json.RawMessage `json:"expression" binding:"required"`
}

func (h *Handlers) createFilterPreset(c *gin.Context) {
	var input createFilterPresetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	// Reject expressions that would fail at feed read time.
	var wrap model.FilterExpressionWrap
	if err := json.Unmarshal(input.Expression, &wrap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid filter expression: " + err.Error()})
		return
	}

	preset := &model.FilterPreset{
		Name:       input.Name,
		UserID:     middlewares.UserID(c),
		Expression: datatypes.JSON(input.Expression),
	}
	if err := h.reads.SaveFilterPreset(c.Request.Context(), preset); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, preset)
}

func (h *Handlers) listFilterPresets(c *gin.Context) {
	presets, err := h.reads.FilterPresetsForUser(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

func (h *Handlers) deleteFilterPreset(c *gin.Context) {
	presetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reads.DeleteFilterPreset(c.Request.Context(), presetID, middlewares.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

// abortWithError maps service errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
	}
}
