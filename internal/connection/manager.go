package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adetumilara/stellar-insights/internal/protocol"
)

// Manager owns one logical connection to the backend.
//
// It runs an explicit state machine over the physical socket: each external
// event (open, frame, error) and the reconnect timer firing is handled to
// completion under a single lock, so observers never see a half-applied
// transition. Send is fire-and-forget: frames sent while not Connected are
// dropped, not queued.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger
	subs   *Registry

	frames chan RawFrame
	done   chan struct{} // closed by Close; releases session and watcher goroutines

	mu       sync.Mutex
	state    State
	attempts int // consecutive failed sessions since the last successful open
	client   Client
	retry    *time.Timer // pending reconnect, nil when none
	ctx      context.Context
}

// NewManager creates a Manager for the given backend URL.
func NewManager(cfg ManagerConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = DefaultManagerConfig().ReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay == 0 {
		cfg.ReconnectMaxDelay = DefaultManagerConfig().ReconnectMaxDelay
	}
	if cfg.FrameBufferSize == 0 {
		cfg.FrameBufferSize = DefaultManagerConfig().FrameBufferSize
	}

	return &Manager{
		cfg:    cfg,
		logger: logger,
		subs:   NewRegistry(),
		frames: make(chan RawFrame, cfg.FrameBufferSize),
		done:   make(chan struct{}),
		state:  StateDisconnected,
		ctx:    context.Background(),
	}
}

// Start begins connecting. It is idempotent: calling it while already
// Connecting or Connected is a no-op, and calling it after Close returns
// ErrAlreadyClosed. Cancelling ctx is equivalent to calling Close.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateClosed:
		m.mu.Unlock()
		return ErrAlreadyClosed
	case StateConnecting, StateConnected:
		m.mu.Unlock()
		return nil
	}

	m.ctx = ctx
	m.transitionLocked(StateConnecting)
	m.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			m.Close()
		case <-m.done:
		}
	}()
	go m.dial()

	return nil
}

// Close shuts the manager down. Terminal: the pending reconnect timer is
// cancelled and no further attempts are made.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}

	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	cl := m.client
	m.client = nil
	m.transitionLocked(StateClosed)
	close(m.done)
	m.mu.Unlock()

	if cl != nil {
		return cl.Close()
	}
	return nil
}

// Send transmits one frame if currently Connected; otherwise the frame is
// dropped. There is no queueing, so a send during a reconnect window never
// blocks the caller.
func (m *Manager) Send(data []byte) {
	m.mu.Lock()
	cl := m.client
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || cl == nil {
		m.logger.Debug("dropping frame, not connected")
		return
	}
	if err := cl.Send(data); err != nil {
		// Non-fatal: the session loop will observe the failure and reconnect.
		m.logger.Debug("send failed", "error", err)
	}
}

// Subscribe records the given channels and, if currently Connected, sends a
// subscribe frame for them right away. The recorded set survives disconnects
// and Subscribe is idempotent on it, though re-sending a known channel is
// harmless (the server treats duplicate subscribes as idempotent).
func (m *Manager) Subscribe(channels ...string) {
	m.subs.Add(channels)
	m.sendControl(protocol.EncodeSubscribe, channels)
}

// Unsubscribe removes the given channels from the recorded set and, if
// currently Connected, sends an unsubscribe frame for them.
func (m *Manager) Unsubscribe(channels ...string) {
	m.subs.Remove(channels)
	m.sendControl(protocol.EncodeUnsubscribe, channels)
}

// Subscriptions returns the recorded channel set, sorted.
func (m *Manager) Subscriptions() []string {
	return m.subs.Snapshot()
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Frames returns the inbound frame stream. Synthetic connection_status
// frames for every state transition are interleaved with server frames.
func (m *Manager) Frames() <-chan RawFrame {
	return m.frames
}

func (m *Manager) sendControl(encode func([]string) ([]byte, error), channels []string) {
	if len(channels) == 0 {
		return
	}
	data, err := encode(channels)
	if err != nil {
		m.logger.Warn("encode control frame", "error", err)
		return
	}
	m.Send(data)
}

// dial attempts one connection. Runs outside the lock; the outcome is
// applied under it.
func (m *Manager) dial() {
	cl := NewClient(m.cfg.clientConfig(), m.logger)
	err := cl.Connect(m.ctx)

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		cl.Close()
		return
	}

	if err != nil {
		m.logger.Warn("connect failed", "url", m.cfg.URL, "error", err)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		return
	}

	m.client = cl
	m.attempts = 0
	m.transitionLocked(StateConnected)
	m.mu.Unlock()

	m.replaySubscriptions(cl)
	go m.session(cl)
}

// replaySubscriptions re-issues the entire recorded channel set as a single
// subscribe frame. Called on every successful open, so subscriptions are
// connection-session-independent from the caller's perspective.
func (m *Manager) replaySubscriptions(cl Client) {
	channels := m.subs.Snapshot()
	if len(channels) == 0 {
		return
	}

	data, err := protocol.EncodeSubscribe(channels)
	if err != nil {
		m.logger.Warn("encode subscribe replay", "error", err)
		return
	}
	if err := cl.Send(data); err != nil {
		m.logger.Warn("subscribe replay failed", "error", err)
		return
	}
	m.logger.Debug("replayed subscriptions", "channels", channels)
}

// session forwards frames from one physical connection until it fails or the
// manager is closed. Close tears the socket down without an error emission,
// so m.done is the only guaranteed exit on that path.
func (m *Manager) session(cl Client) {
	for {
		select {
		case <-m.done:
			return

		case err := <-cl.Errors():
			m.handleSessionError(cl, err)
			return

		case f, ok := <-cl.Frames():
			if !ok {
				return
			}
			m.emit(f)
		}
	}
}

// handleSessionError degrades a socket failure to a scheduled retry.
func (m *Manager) handleSessionError(cl Client, err error) {
	m.mu.Lock()
	if m.state == StateClosed || m.client != cl {
		// Close raced the error, or the session is stale.
		m.mu.Unlock()
		return
	}

	m.logger.Warn("connection error", "error", err)

	m.transitionLocked(StateErroring)
	m.client = nil
	m.scheduleReconnectLocked()
	m.mu.Unlock()

	cl.Close()
}

// scheduleReconnectLocked moves to Disconnected and arms the reconnect
// timer. Delay is min(max, base*2^attempts); the counter increments per
// unsuccessful session and resets to zero on a successful open.
func (m *Manager) scheduleReconnectLocked() {
	m.transitionLocked(StateDisconnected)

	delay := backoffDelay(m.cfg.ReconnectBaseDelay, m.cfg.ReconnectMaxDelay, m.attempts)
	m.attempts++

	m.logger.Info("scheduling reconnect", "delay", delay, "attempt", m.attempts)
	m.retry = time.AfterFunc(delay, m.onRetryTimer)
}

// onRetryTimer fires a scheduled reconnect. The state is checked at fire
// time, not schedule time: a timer that outraces its cancellation in Close
// must still be a no-op.
func (m *Manager) onRetryTimer() {
	m.mu.Lock()
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.retry = nil
	m.transitionLocked(StateConnecting)
	m.mu.Unlock()

	m.dial()
}

// transitionLocked applies a state change and emits the matching synthetic
// connection_status frame. Caller holds m.mu.
func (m *Manager) transitionLocked(s State) {
	if m.state == s {
		return
	}
	m.state = s

	data, err := protocol.EncodeStatus(s.String())
	if err != nil {
		return
	}
	m.emit(RawFrame{Data: data, ReceivedAt: time.Now()})
}

// emit delivers a frame to the consumer without blocking the state machine.
func (m *Manager) emit(f RawFrame) {
	select {
	case m.frames <- f:
	default:
		m.logger.Warn("frame buffer full, dropping frame")
	}
}

// backoffDelay computes the reconnect delay before attempt n+1 given n prior
// consecutive failures.
func backoffDelay(base, max time.Duration, failures int) time.Duration {
	if base <= 0 {
		return max
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= max || delay <= 0 {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
