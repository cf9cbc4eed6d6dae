package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *StreamConfig) Validate() error {
	if c.Stream.URL == "" {
		return errors.New("stream.url is required")
	}
	if !strings.HasPrefix(c.Stream.URL, "ws://") && !strings.HasPrefix(c.Stream.URL, "wss://") {
		return fmt.Errorf("stream.url must be a ws:// or wss:// URL, got %q", c.Stream.URL)
	}

	if c.Stream.ReconnectBaseDelay <= 0 {
		return errors.New("stream.reconnect_base_delay must be > 0")
	}
	if c.Stream.ReconnectMaxDelay < c.Stream.ReconnectBaseDelay {
		return errors.New("stream.reconnect_max_delay must be >= stream.reconnect_base_delay")
	}
	if c.Stream.FrameBufferSize < 1 {
		return errors.New("stream.frame_buffer_size must be >= 1")
	}

	if c.Collections.MaxCorridors < 1 {
		return errors.New("collections.max_corridors must be >= 1")
	}
	if c.Collections.MaxAnchors < 1 {
		return errors.New("collections.max_anchors must be >= 1")
	}
	if c.Collections.MaxPayments < 1 {
		return errors.New("collections.max_payments must be >= 1")
	}

	return nil
}
