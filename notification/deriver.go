// Package notification derives persisted notification records from content
// writes.
package notification

import (
	"encoding/json"

	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// previewRuneLimit bounds the comment excerpt stored in notification
// metadata.
const previewRuneLimit = 50

// DeriveForComment computes the notification caused by a newly created
// comment, or nil when none should exist.
//
// A reply notifies the parent comment's author and points at the parent
// comment; a top-level comment notifies the post's author and points at the
// post. Self-notifications are suppressed: if the candidate recipient wrote
// the comment, nothing is created.
//
// parent must be non-nil iff comment.ParentID is set.
func DeriveForComment(comment *model.Comment, post *model.Post, parent *model.Comment) *model.Notification {
	var (
		recipientID int64
		ref         model.EntityRef
	)
	if parent != nil {
		recipientID = parent.AuthorID
		ref = model.CommentRef{ID: parent.Id}
	} else {
		recipientID = post.AuthorID
		ref = model.PostRef{ID: post.Id}
	}

	if recipientID == comment.AuthorID {
		return nil
	}

	record := &model.Notification{
		Type:        model.NotificationTypeComment,
		RecipientID: recipientID,
		TriggererID: utils.Int64Ptr(comment.AuthorID),
		Metadata:    commentMetadata(comment, post),
	}
	record.SetEntity(ref)
	return record
}

func commentMetadata(comment *model.Comment, post *model.Post) []byte {
	preview := []rune(comment.Content)
	if len(preview) > previewRuneLimit {
		preview = preview[:previewRuneLimit]
	}
	metadata, err := json.Marshal(map[string]string{
		"preview":   string(preview),
		"postTitle": post.Title,
	})
	if err != nil {
		// Marshaling a map of strings cannot realistically fail, but losing
		// metadata must never lose the notification itself.
		Logger.Log.Errorln("fail to marshal notification metadata:", err)
		return nil
	}
	return metadata
}
