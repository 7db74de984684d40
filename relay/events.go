package relay

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/kabar-app/kabar/model"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// PostEvent is the wire payload for all post topics. It carries the post's
// externally visible fields; subscribers treat it as immutable.
type PostEvent struct {
	Id        int64             `json:"id"`
	Title     string            `json:"title"`
	Excerpt   string            `json:"excerpt"`
	Author    model.UserSummary `json:"author"`
	Tags      []string          `json:"tags"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CommentEvent is the wire payload for all comment topics.
type CommentEvent struct {
	Id        int64             `json:"id"`
	Content   string            `json:"content"`
	Status    string            `json:"status"`
	Author    model.UserSummary `json:"author"`
	PostID    int64             `json:"postId"`
	ParentID  *int64            `json:"parentId,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewPostEvent projects a post (with Author and Tags preloaded) into its
// relay payload.
func NewPostEvent(post *model.Post) PostEvent {
	event := PostEvent{}
	summary := post.Summary()
	if err := copier.Copy(&event, &summary); err != nil {
		Logger.Log.Errorln("fail to copy post summary into relay event:", err)
	}
	event.UpdatedAt = post.UpdatedAt
	return event
}

func NewCommentEvent(comment *model.Comment) CommentEvent {
	event := CommentEvent{
		Id:        comment.Id,
		Content:   comment.Content,
		Status:    string(comment.Status),
		PostID:    comment.PostID,
		ParentID:  comment.ParentID,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		event.Author = comment.Author.Summary()
	}
	return event
}
