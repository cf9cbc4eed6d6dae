package connection

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one physical WebSocket connection. It is single-use: after the
// socket fails or Close is called, a fresh Client must be dialed. The Manager
// owns that lifecycle.
type Client interface {
	// Connect dials the configured URL and starts the read and liveness loops.
	Connect(ctx context.Context) error

	// Close performs the close handshake and releases the client's goroutines.
	Close() error

	// Send writes one text frame. Returns ErrNotConnected before Connect or
	// after the socket drops.
	Send(data []byte) error

	// Frames is the inbound frame stream.
	Frames() <-chan RawFrame

	// Errors surfaces at most one fatal connection error.
	Errors() <-chan error

	IsConnected() bool
}

type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	conn *websocket.Conn

	frames chan RawFrame
	errors chan error
	done   chan struct{}

	writeMu sync.Mutex // serializes data frames; control frames are safe concurrently

	mu         sync.RWMutex
	connected  bool
	lastPingAt time.Time
	closed     bool
}

// NewClient creates a client. Nothing is dialed until Connect.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:    cfg,
		logger: logger,
		frames: make(chan RawFrame, cfg.BufferSize),
		errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
}

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Accept", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastPingAt = time.Now()
	c.mu.Unlock()

	c.trackLiveness(conn)

	go c.readLoop()
	go c.heartbeatLoop()

	c.logger.Debug("websocket connected", "url", c.cfg.URL)

	return nil
}

// trackLiveness installs ping/pong handlers so any control traffic from the
// peer counts as proof of life. Inbound pings also get the mandatory pong.
func (c *client) trackLiveness(conn *websocket.Conn) {
	alive := func() {
		c.mu.Lock()
		c.lastPingAt = time.Now()
		c.mu.Unlock()
	}

	conn.SetPingHandler(func(data string) error {
		alive()
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})
	conn.SetPongHandler(func(string) error {
		alive()
		return nil
	})
}

func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	c.mu.Unlock()

	close(c.done)

	if c.conn != nil {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return c.conn.Close()
	}

	return nil
}

func (c *client) Send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) Frames() <-chan RawFrame {
	return c.frames
}

func (c *client) Errors() <-chan error {
	return c.errors
}

func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// readLoop pumps inbound frames until the socket fails. Read errors after
// Close are the handshake's own teardown and stay silent; anything else is
// reported once on the errors channel.
func (c *client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			select {
			case c.errors <- err:
			default:
			}
			return
		}

		select {
		case c.frames <- RawFrame{Data: data, ReceivedAt: receivedAt}:
		case <-c.done:
			return
		default:
			c.logger.Warn("frame buffer full, dropping frame")
		}
	}
}

// heartbeatLoop pings the peer on the configured cadence and declares the
// connection stale once no ping or pong has arrived within PingTimeout.
func (c *client) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			lastPing := c.lastPingAt
			c.mu.RUnlock()

			if conn != nil {
				deadline := time.Now().Add(c.cfg.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
					c.logger.Debug("failed to send ping", "error", err)
				}
			}

			if time.Since(lastPing) > c.cfg.PingTimeout {
				c.logger.Warn("no ping received, connection stale",
					"last_ping", lastPing,
					"timeout", c.cfg.PingTimeout,
				)
				select {
				case c.errors <- ErrStaleConnection:
				default:
				}
				return
			}
		}
	}
}
