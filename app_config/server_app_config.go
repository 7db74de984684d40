package app_config

import (
	"io/ioutil"
	"log"
	"time"

	"gopkg.in/yaml.v2"
)

// ServerAppConfig customizes api server startup.
type ServerAppConfig struct {
	// Port the HTTP server binds to.
	HTTP_PORT int `yaml:"HTTP_PORT"`
	// Buffer size of the relay's per-subscriber output channel. Once full,
	// publishes queue in the transport, this is the relay's only backpressure
	// boundary.
	RELAY_OUTPUT_CHANNEL_BUFFER int64 `yaml:"RELAY_OUTPUT_CHANNEL_BUFFER"`
	// Upper bound, in milliseconds, on each write side effect (cache
	// invalidation, relay publish, audit write). A side effect that exceeds
	// it is abandoned and logged, never inflating the write's latency beyond
	// this bound.
	SIDE_EFFECT_TIMEOUT_MS int64 `yaml:"SIDE_EFFECT_TIMEOUT_MS"`
}

func (c ServerAppConfig) SideEffectTimeout() time.Duration {
	return time.Duration(c.SIDE_EFFECT_TIMEOUT_MS) * time.Millisecond
}

func ParseServerAppConfig(path string) ServerAppConfig {
	c := ServerAppConfig{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
