package relay

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewBus creates the in-process pub/sub transport shared by the publisher and
// the relay. Publishing never blocks on subscriber acks; messages queue in
// the output channel buffer up to its limit, which is the transport's own
// backpressure boundary.
func NewBus(outputChannelBuffer int64) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            outputChannelBuffer,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)
}
