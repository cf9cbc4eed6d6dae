// Package config loads and validates the stream client configuration.
package config

import "time"

// StreamConfig is the root configuration for a feed client instance.
type StreamConfig struct {
	Stream      StreamSettings     `yaml:"stream"`
	Collections CollectionSettings `yaml:"collections"`
}

// StreamSettings holds WebSocket connection settings.
type StreamSettings struct {
	URL                string        `yaml:"url"`
	Channels           []string      `yaml:"channels"` // subscribed on start, e.g. "corridors", "payments", "corridor:USDC-XLM"
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"` // ws-level liveness check cadence
	PingInterval       time.Duration `yaml:"ping_interval"`      // application-level pings; 0 disables
	PingTimeout        time.Duration `yaml:"ping_timeout"`       // stale-connection threshold
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	FrameBufferSize    int           `yaml:"frame_buffer_size"`
}

// CollectionSettings holds the per-entity collection caps.
type CollectionSettings struct {
	MaxCorridors int `yaml:"max_corridors"`
	MaxAnchors   int `yaml:"max_anchors"`
	MaxPayments  int `yaml:"max_payments"`
}
