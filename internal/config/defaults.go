package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 30 * time.Second
	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultHeartbeatInterval  = 30 * time.Second
	DefaultPingTimeout        = 90 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultFrameBufferSize    = 1024
	DefaultCollectionCap      = 5
)

func (c *StreamConfig) applyDefaults() {
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Stream.HeartbeatInterval == 0 {
		c.Stream.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Stream.PingTimeout == 0 {
		c.Stream.PingTimeout = DefaultPingTimeout
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.FrameBufferSize == 0 {
		c.Stream.FrameBufferSize = DefaultFrameBufferSize
	}

	if c.Collections.MaxCorridors == 0 {
		c.Collections.MaxCorridors = DefaultCollectionCap
	}
	if c.Collections.MaxAnchors == 0 {
		c.Collections.MaxAnchors = DefaultCollectionCap
	}
	if c.Collections.MaxPayments == 0 {
		c.Collections.MaxPayments = DefaultCollectionCap
	}
}
