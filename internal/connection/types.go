package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// State is the lifecycle state of a Manager.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateErroring
	StateClosed
)

// String returns the state name as used in connection_status frames.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErroring:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RawFrame is one inbound text frame with its local receive timestamp.
// Synthetic connection_status frames carry the transition time instead.
type RawFrame struct {
	Data       []byte
	ReceivedAt time.Time
}

// ClientConfig configures a single WebSocket client.
type ClientConfig struct {
	URL               string        // WebSocket URL (e.g. wss://insights.example.com/ws)
	HandshakeTimeout  time.Duration // Dial handshake deadline
	HeartbeatInterval time.Duration // How often the client pings and checks liveness
	PingTimeout       time.Duration // Max time without ping/pong before the connection is stale
	WriteTimeout      time.Duration // Write deadline for sends
	BufferSize        int           // Frame channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PingTimeout:       90 * time.Second,
		WriteTimeout:      5 * time.Second,
		BufferSize:        256,
	}
}

// ManagerConfig configures the connection Manager.
type ManagerConfig struct {
	URL                string        // WebSocket URL
	ReconnectBaseDelay time.Duration // First retry delay; doubles per consecutive failure
	ReconnectMaxDelay  time.Duration // Delay cap
	HandshakeTimeout   time.Duration // Dial handshake deadline
	HeartbeatInterval  time.Duration // Liveness check cadence
	PingTimeout        time.Duration // Stale-connection threshold
	WriteTimeout       time.Duration // Write deadline for sends
	FrameBufferSize    int           // Output frame channel buffer size
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  30 * time.Second,
		HandshakeTimeout:   10 * time.Second,
		HeartbeatInterval:  30 * time.Second,
		PingTimeout:        90 * time.Second,
		WriteTimeout:       5 * time.Second,
		FrameBufferSize:    1024,
	}
}

func (c ManagerConfig) clientConfig() ClientConfig {
	cfg := ClientConfig{
		URL:               c.URL,
		HandshakeTimeout:  c.HandshakeTimeout,
		HeartbeatInterval: c.HeartbeatInterval,
		PingTimeout:       c.PingTimeout,
		WriteTimeout:      c.WriteTimeout,
		BufferSize:        c.FrameBufferSize,
	}
	def := DefaultClientConfig()
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = def.HeartbeatInterval
	}
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = def.BufferSize
	}
	return cfg
}
