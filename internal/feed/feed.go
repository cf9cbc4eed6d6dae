package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adetumilara/stellar-insights/internal/connection"
	"github.com/adetumilara/stellar-insights/internal/model"
	"github.com/adetumilara/stellar-insights/internal/protocol"
	"github.com/adetumilara/stellar-insights/internal/store"
)

// Config configures a feed Client.
type Config struct {
	Connection connection.ManagerConfig

	// Channels subscribed on Start. More can be added later via Subscribe.
	Channels []string

	// PingInterval enables application-level pings when > 0.
	PingInterval time.Duration

	// Collection caps; values below 1 fall back to store.DefaultCap.
	MaxCorridors int
	MaxAnchors   int
	MaxPayments  int
}

// Stats contains running feed counters.
type Stats struct {
	FramesReceived  int64
	DecodeErrors    int64
	UnknownTypes    int64
	ProtocolErrors  int64
	CorridorUpserts int64
	AnchorUpserts   int64
	PaymentUpserts  int64
}

// Client is one logical subscription-multiplexed connection to the feed.
type Client struct {
	id      string
	logger  *slog.Logger
	cfg     Config
	manager *connection.Manager

	corridors *store.Collection[model.CorridorMetrics]
	anchors   *store.Collection[model.AnchorMetrics]
	payments  *store.Collection[model.PaymentRecord]

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu             sync.RWMutex
	last           *protocol.Envelope
	lastPong       time.Time
	framesReceived int64
	decodeErrors   int64
	unknownTypes   int64
	protocolErrors int64
}

// New creates a feed Client. Nothing connects until Start.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	logger = logger.With("client_id", id)

	return &Client{
		id:      id,
		logger:  logger,
		cfg:     cfg,
		manager: connection.NewManager(cfg.Connection, logger),
		corridors: store.NewCollection(cfg.MaxCorridors, func(c model.CorridorMetrics) string {
			return c.CorridorKey
		}),
		anchors: store.NewCollection(cfg.MaxAnchors, func(a model.AnchorMetrics) string {
			return a.AnchorID
		}),
		payments: store.NewCollection(cfg.MaxPayments, func(p model.PaymentRecord) string {
			return p.ID
		}),
	}
}

// ID returns this client instance's id, used in log correlation.
func (c *Client) ID() string {
	return c.id
}

// Start records the configured channels and begins connecting. The channels
// are recorded before the first dial, so the first successful open replays
// them even if it happens much later.
func (c *Client) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if len(c.cfg.Channels) > 0 {
		c.manager.Subscribe(c.cfg.Channels...)
	}

	if err := c.manager.Start(ctx); err != nil {
		cancel()
		return err
	}

	c.wg.Add(1)
	go c.dispatchLoop(ctx)

	if c.cfg.PingInterval > 0 {
		c.wg.Add(1)
		go c.pingLoop(ctx)
	}

	c.logger.Info("feed client started",
		"url", c.cfg.Connection.URL,
		"channels", c.cfg.Channels,
	)

	return nil
}

// Close shuts the client down and waits for its loops to stop.
func (c *Client) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.manager.Close()
	c.wg.Wait()
	return err
}

// Subscribe adds channels to the subscription set.
func (c *Client) Subscribe(channels ...string) {
	c.manager.Subscribe(channels...)
}

// Unsubscribe removes channels from the subscription set.
func (c *Client) Unsubscribe(channels ...string) {
	c.manager.Unsubscribe(channels...)
}

// Subscriptions returns the recorded channel set.
func (c *Client) Subscriptions() []string {
	return c.manager.Subscriptions()
}

// Send transmits a raw frame if connected; dropped otherwise.
func (c *Client) Send(data []byte) {
	c.manager.Send(data)
}

// State returns the current connection state.
func (c *Client) State() connection.State {
	return c.manager.State()
}

// LastEnvelope returns the most recently decoded envelope, nil before the
// first frame arrives.
func (c *Client) LastEnvelope() *protocol.Envelope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// LastPong returns when the last pong was received, zero if never.
func (c *Client) LastPong() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPong
}

// Corridors returns a snapshot of the corridor collection, newest first.
func (c *Client) Corridors() []model.CorridorMetrics {
	return c.corridors.Snapshot()
}

// Anchors returns a snapshot of the anchor collection, newest first.
func (c *Client) Anchors() []model.AnchorMetrics {
	return c.anchors.Snapshot()
}

// Payments returns a snapshot of the payment collection, newest first.
func (c *Client) Payments() []model.PaymentRecord {
	return c.payments.Snapshot()
}

// Stats returns running counters.
func (c *Client) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		FramesReceived:  c.framesReceived,
		DecodeErrors:    c.decodeErrors,
		UnknownTypes:    c.unknownTypes,
		ProtocolErrors:  c.protocolErrors,
		CorridorUpserts: c.corridors.Applied(),
		AnchorUpserts:   c.anchors.Applied(),
		PaymentUpserts:  c.payments.Applied(),
	}
}

// dispatchLoop decodes inbound frames and folds them into local state.
func (c *Client) dispatchLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.manager.Frames():
			if !ok {
				return
			}
			c.handleFrame(frame)
		}
	}
}

// handleFrame processes one frame to completion. A frame that fails to
// decode is logged and dropped; it never affects connection state or the
// collections.
func (c *Client) handleFrame(frame connection.RawFrame) {
	c.mu.Lock()
	c.framesReceived++
	c.mu.Unlock()

	env, err := protocol.Decode(frame.Data)
	if err != nil {
		c.logger.Warn("dropping undecodable frame", "error", err)
		c.mu.Lock()
		c.decodeErrors++
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.last = env
	switch env.Type {
	case protocol.TypePong:
		c.lastPong = frame.ReceivedAt
	case protocol.TypeUnknown:
		c.unknownTypes++
	case protocol.TypeError:
		// Server-sent protocol error: surfaced via LastEnvelope, not a
		// connection fault.
		c.protocolErrors++
	}
	c.mu.Unlock()

	switch env.Type {
	case protocol.TypePing:
		// Server heartbeat; answer with a pong echoing the timestamp.
		if data, err := protocol.EncodePong(env.Timestamp); err == nil {
			c.manager.Send(data)
		}
	case protocol.TypeSnapshotUpdate:
		c.logger.Debug("snapshot published",
			"snapshot_id", env.Snapshot.SnapshotID,
			"epoch", env.Snapshot.Epoch,
		)
	case protocol.TypeCorridorUpdate:
		if err := c.corridors.Apply(env.Raw); err != nil {
			c.logger.Warn("corridor update rejected", "error", err)
		}
	case protocol.TypeAnchorUpdate:
		if err := c.anchors.Apply(env.Raw); err != nil {
			c.logger.Warn("anchor update rejected", "error", err)
		}
	case protocol.TypeNewPayment:
		if err := c.payments.Apply(env.PaymentRaw); err != nil {
			c.logger.Warn("payment rejected", "error", err)
		}
	case protocol.TypeHealthAlert:
		c.logger.Info("health alert",
			"corridor_id", env.Alert.CorridorID,
			"severity", env.Alert.Severity,
			"message", env.Alert.Message,
		)
	case protocol.TypeError:
		c.logger.Warn("server error", "message", env.Message)
	case protocol.TypeConnected:
		c.logger.Debug("feed session established", "connection_id", env.ConnectionID)
	}
}

// pingLoop sends application-level pings while connected. Pings during a
// reconnect window are dropped by the manager's send policy.
func (c *Client) pingLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, err := protocol.EncodePing(time.Now().Unix())
			if err != nil {
				continue
			}
			c.manager.Send(data)
		}
	}
}
