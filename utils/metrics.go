package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// Counter names for side effect failures. Losing a notification or an audit
// row is invisible to the triggering request, so these counters are the only
// place the loss surfaces.
const (
	DDogCacheEvictionFailure     = "kabar.cache.eviction_failure"
	DDogRelayPublishFailure      = "kabar.relay.publish_failure"
	DDogRelayMalformedMessage    = "kabar.relay.malformed_message"
	DDogNotificationWriteFailure = "kabar.notification.write_failure"
	DDogAuditWriteFailure        = "kabar.audit.write_failure"
)

// NewStatsdClient creates a dogstatsd client against the local agent. Returns
// nil when no agent address is configured, callers must treat the client as
// optional.
func NewStatsdClient() *statsd.Client {
	addr := os.Getenv("STATSD_ADDR")
	if addr == "" {
		return nil
	}
	client, err := statsd.New(addr)
	if err != nil {
		Logger.Log.Errorln("fail to create statsd client:", err)
		return nil
	}
	return client
}

// IncrCounter bumps a counter if the client is present. Metric emission is
// best-effort and never surfaces an error to the caller.
func IncrCounter(client *statsd.Client, name string) {
	if client == nil {
		return
	}
	if err := client.Incr(name, nil, 1); err != nil {
		Logger.Log.Debugln("fail to emit counter", name, ":", err)
	}
}
