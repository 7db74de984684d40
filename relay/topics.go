package relay

// One topic per (entity kind x operation) pair. The set is closed: the
// subscribing side registers all of them at startup.
const (
	TopicPostCreated    = "post.created"
	TopicPostUpdated    = "post.updated"
	TopicPostDeleted    = "post.deleted"
	TopicCommentCreated = "comment.created"
	TopicCommentUpdated = "comment.updated"
	TopicCommentDeleted = "comment.deleted"
)

// pushEventByTopic maps a relay topic to the client-facing push event name it
// is re-emitted under.
var pushEventByTopic = map[string]string{
	TopicPostCreated:    "post:new",
	TopicPostUpdated:    "post:update",
	TopicPostDeleted:    "post:delete",
	TopicCommentCreated: "comment:new",
	TopicCommentUpdated: "comment:update",
	TopicCommentDeleted: "comment:delete",
}

// AllTopics returns every known relay topic.
func AllTopics() []string {
	topics := make([]string, 0, len(pushEventByTopic))
	for topic := range pushEventByTopic {
		topics = append(topics, topic)
	}
	return topics
}
