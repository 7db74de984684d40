package relay

import (
	"encoding/json"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/kabar-app/kabar/utils"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// Publisher is the write side of the event relay. It is constructed once in
// main and injected into every service that emits domain events.
type Publisher struct {
	bus    *gochannel.GoChannel
	statsd *statsd.Client
}

func NewPublisher(bus *gochannel.GoChannel, statsdClient *statsd.Client) *Publisher {
	return &Publisher{
		bus:    bus,
		statsd: statsdClient,
	}
}

// TryPublish serializes the event and publishes it on the topic. It never
// blocks on subscriber availability and never fails the caller: the return
// value reports whether the event made it onto the bus, and callers are
// allowed to discard it. A content write must succeed even if real-time
// notification fails.
func (p *Publisher) TryPublish(topic string, event interface{}) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		Logger.Log.Errorln("fail to marshal relay event for topic", topic, ":", err)
		utils.IncrCounter(p.statsd, utils.DDogRelayPublishFailure)
		return false
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.bus.Publish(topic, msg); err != nil {
		Logger.Log.Errorln("fail to publish relay event on topic", topic, ":", err)
		utils.IncrCounter(p.statsd, utils.DDogRelayPublishFailure)
		return false
	}
	return true
}
