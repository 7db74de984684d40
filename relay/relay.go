package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/kabar-app/kabar/push"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
	"github.com/pkg/errors"
)

// Relay is the read side of the event relay: it subscribes to every known
// topic and re-emits each message on the push hub under its client-facing
// event name. It runs as an engine module.
type Relay struct {
	bus    *gochannel.GoChannel
	hub    *push.Hub
	statsd *statsd.Client
}

func NewRelay(bus *gochannel.GoChannel, hub *push.Hub, statsdClient *statsd.Client) *Relay {
	return &Relay{
		bus:    bus,
		hub:    hub,
		statsd: statsdClient,
	}
}

func (r *Relay) Name() string {
	return "event_relay"
}

// RunModule subscribes to all relay topics and blocks until ctx is done. A
// subscription failure at startup is returned (and fatal to the relay), any
// malformed individual message is dropped without killing its topic loop.
func (r *Relay) RunModule(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, topic := range AllTopics() {
		messages, err := r.bus.Subscribe(ctx, topic)
		if err != nil {
			return errors.Wrap(err, "fail to subscribe to relay topic "+topic)
		}

		wg.Add(1)
		go func(topic string, messages <-chan *message.Message) {
			defer wg.Done()
			r.forward(topic, messages)
		}(topic, messages)
	}

	wg.Wait()
	return nil
}

// forward drains one topic's subscription until the bus closes it.
func (r *Relay) forward(topic string, messages <-chan *message.Message) {
	eventName := pushEventByTopic[topic]

	for msg := range messages {
		// At-most-once: ack before the push fans out, a missed push event is
		// resolved by the client's next full fetch.
		msg.Ack()

		if !json.Valid(msg.Payload) {
			Logger.Log.Errorln("drop malformed relay message on topic", topic, "uuid", msg.UUID)
			utils.IncrCounter(r.statsd, utils.DDogRelayMalformedMessage)
			continue
		}

		r.hub.Broadcast(push.Event{
			Name:    eventName,
			Payload: json.RawMessage(msg.Payload),
		})
	}
}
