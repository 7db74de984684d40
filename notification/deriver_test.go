package notification

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveForTopLevelComment(t *testing.T) {
	post := &model.Post{Id: 10, AuthorID: 1, Title: "my post"}
	comment := &model.Comment{Id: 100, AuthorID: 2, PostID: 10, Content: "nice one"}

	record := DeriveForComment(comment, post, nil)
	require.NotNil(t, record)

	assert.Equal(t, model.NotificationTypeComment, record.Type)
	assert.Equal(t, int64(1), record.RecipientID)
	assert.Equal(t, utils.Int64Ptr(2), record.TriggererID)

	ref, err := record.Entity()
	require.NoError(t, err)
	assert.Equal(t, model.PostRef{ID: 10}, ref)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(record.Metadata, &metadata))
	assert.Equal(t, "nice one", metadata["preview"])
	assert.Equal(t, "my post", metadata["postTitle"])
}

func TestDeriveForReply(t *testing.T) {
	post := &model.Post{Id: 10, AuthorID: 1, Title: "my post"}
	parent := &model.Comment{Id: 100, AuthorID: 3, PostID: 10}
	parentID := parent.Id
	reply := &model.Comment{Id: 101, AuthorID: 2, PostID: 10, ParentID: &parentID, Content: "agreed"}

	record := DeriveForComment(reply, post, parent)
	require.NotNil(t, record)

	// The reply targets the parent comment's author, not the post author.
	assert.Equal(t, int64(3), record.RecipientID)
	ref, err := record.Entity()
	require.NoError(t, err)
	assert.Equal(t, model.CommentRef{ID: 100}, ref)
}

func TestDeriveSuppressesSelfNotification(t *testing.T) {
	t.Run("commenting on own post", func(t *testing.T) {
		post := &model.Post{Id: 10, AuthorID: 2}
		comment := &model.Comment{Id: 100, AuthorID: 2, PostID: 10}
		assert.Nil(t, DeriveForComment(comment, post, nil))
	})

	t.Run("replying to own comment", func(t *testing.T) {
		post := &model.Post{Id: 10, AuthorID: 1}
		parent := &model.Comment{Id: 100, AuthorID: 2}
		parentID := parent.Id
		reply := &model.Comment{Id: 101, AuthorID: 2, ParentID: &parentID}
		assert.Nil(t, DeriveForComment(reply, post, parent))
	})

	t.Run("reply to someone else on own post still notifies parent author", func(t *testing.T) {
		post := &model.Post{Id: 10, AuthorID: 2}
		parent := &model.Comment{Id: 100, AuthorID: 1}
		parentID := parent.Id
		reply := &model.Comment{Id: 101, AuthorID: 2, ParentID: &parentID}

		record := DeriveForComment(reply, post, parent)
		require.NotNil(t, record)
		assert.Equal(t, int64(1), record.RecipientID)
	})
}

func TestDerivePreviewIsBounded(t *testing.T) {
	post := &model.Post{Id: 10, AuthorID: 1, Title: "long"}
	comment := &model.Comment{
		Id:       100,
		AuthorID: 2,
		Content:  strings.Repeat("x", 80),
	}

	record := DeriveForComment(comment, post, nil)
	require.NotNil(t, record)

	var metadata map[string]string
	require.NoError(t, json.Unmarshal(record.Metadata, &metadata))
	assert.Len(t, metadata["preview"], 50)
}
