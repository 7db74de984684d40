package relay

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/kabar-app/kabar/model"
	"github.com/kabar-app/kabar/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPublishDeliversSerializedEvent(t *testing.T) {
	bus := NewBus(100)
	ctx := context.Background()

	// Go channel receive and send cannot be in the same routine, otherwise it
	// will cause deadlock. Thus we need to asynchronously get back message.
	messages, err := bus.Subscribe(ctx, TopicPostCreated)
	require.NoError(t, err)

	var receivedMsg *message.Message
	done := make(chan int)
	go func() {
		for msg := range messages {
			receivedMsg = msg
			msg.Ack()
			done <- 1
			break
		}
	}()

	event := NewPostEvent(&model.Post{
		Id:      42,
		Title:   "hello",
		Content: "world",
		Author:  &model.User{Id: 7, FirstName: "Ada"},
		Tags:    []*model.Tag{{Name: "go"}},
	})
	go func() {
		publisher := NewPublisher(bus, nil)
		assert.True(t, publisher.TryPublish(TopicPostCreated, event))
	}()

	// Wait for message to be received.
	<-done

	require.NotNil(t, receivedMsg)
	var got PostEvent
	require.NoError(t, json.Unmarshal(receivedMsg.Payload, &got))
	assert.Equal(t, int64(42), got.Id)
	assert.Equal(t, "hello", got.Title)
	assert.Equal(t, "world", got.Excerpt)
	assert.Equal(t, int64(7), got.Author.Id)
	assert.Equal(t, []string{"go"}, got.Tags)
}

func TestTryPublishUnserializableEvent(t *testing.T) {
	bus := NewBus(10)
	publisher := NewPublisher(bus, nil)

	// Channels cannot be marshaled. The failure is reported via the status,
	// never as a panic or error to the caller.
	assert.False(t, publisher.TryPublish(TopicPostCreated, make(chan int)))
}

func TestRelayForwardsToPushHub(t *testing.T) {
	bus := newPersistentTestBus()
	hub := push.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect a client session before anything can be broadcast.
	session, _ := hub.AddSession(ctx)

	r := NewRelay(bus, hub, nil)
	go func() {
		assert.NoError(t, r.RunModule(ctx))
	}()

	// The persistent test bus replays the message even if the relay's
	// subscription lands after this publish.
	require.NoError(t, publishOn(bus, TopicPostCreated, `{"id":1,"title":"t"}`))

	select {
	case event := <-session:
		assert.Equal(t, "post:new", event.Name)
		assert.JSONEq(t, `{"id":1,"title":"t"}`, string(event.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("push session never observed the relayed event")
	}
}

func TestRelayDropsMalformedMessage(t *testing.T) {
	bus := newPersistentTestBus()
	hub := push.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, _ := hub.AddSession(ctx)

	r := NewRelay(bus, hub, nil)
	go func() {
		assert.NoError(t, r.RunModule(ctx))
	}()

	// A malformed payload is dropped, the next well-formed one still arrives.
	require.NoError(t, publishOn(bus, TopicCommentCreated, `{not json`))
	require.NoError(t, publishOn(bus, TopicCommentCreated, `{"id":2}`))

	select {
	case event := <-session:
		assert.Equal(t, "comment:new", event.Name)
		assert.JSONEq(t, `{"id":2}`, string(event.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("subscription loop did not survive the malformed message")
	}
}

func TestAllTopicsCoversEveryOperation(t *testing.T) {
	topics := AllTopics()
	assert.Len(t, topics, 6)
	for _, topic := range []string{
		TopicPostCreated, TopicPostUpdated, TopicPostDeleted,
		TopicCommentCreated, TopicCommentUpdated, TopicCommentDeleted,
	} {
		assert.Contains(t, topics, topic)
	}
}

func publishOn(bus interface {
	Publish(topic string, messages ...*message.Message) error
}, topic, payload string) error {
	return bus.Publish(topic, message.NewMessage(watermill.NewUUID(), []byte(payload)))
}

// newPersistentTestBus retains published messages and replays them to late
// subscribers, which removes any publish/subscribe ordering race in tests.
func newPersistentTestBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 100,
			Persistent:          true,
		},
		watermill.NewStdLogger(false, false),
	)
}
