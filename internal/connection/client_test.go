package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testClientConfig(url string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.URL = url
	cfg.BufferSize = 100
	return cfg
}

func TestClient_Connect(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Just keep the connection open
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
}

func TestClient_Send(t *testing.T) {
	var received []byte
	var mu sync.Mutex

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			received = msg
			mu.Unlock()
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	testFrame := []byte(`{"type":"ping","timestamp":1}`)
	if err := client.Send(testFrame); err != nil {
		t.Errorf("Send failed: %v", err)
	}

	// Wait for frame to be received
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if string(received) != string(testFrame) {
		t.Errorf("received %q, want %q", received, testFrame)
	}
}

func TestClient_Frames(t *testing.T) {
	testFrames := []string{
		`{"type":"corridor_update","corridor_key":"USDC-XLM"}`,
		`{"type":"anchor_update","anchor_id":"a1"}`,
		`{"type":"pong","timestamp":3}`,
	}

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for _, frame := range testFrames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		// Keep connection open
		time.Sleep(time.Second)
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	var received []string
	timeout := time.After(500 * time.Millisecond)

	for i := 0; i < len(testFrames); i++ {
		select {
		case frame := <-client.Frames():
			received = append(received, string(frame.Data))
			if frame.ReceivedAt.IsZero() {
				t.Error("ReceivedAt should not be zero")
			}
		case <-timeout:
			t.Fatalf("timeout waiting for frames, received %d of %d", len(received), len(testFrames))
		}
	}

	for i, want := range testFrames {
		if received[i] != want {
			t.Errorf("frame %d: got %q, want %q", i, received[i], want)
		}
	}
}

func TestClient_SendNotConnected(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:12345"), nil)

	if err := client.Send([]byte("test")); err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestClient_DoubleClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		time.Sleep(time.Second)
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	// First close should succeed
	if err := client.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}

	// Second close should be no-op
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestClient_ConnectAfterClose(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:12345"), nil)

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := client.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestClient_StaleConnectionDetected(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Never read: ws-level pings are never processed, so no pong comes back.
		time.Sleep(2 * time.Second)
	})
	defer server.Close()

	cfg := testClientConfig(wsURL(server))
	cfg.HeartbeatInterval = 20 * time.Millisecond
	cfg.PingTimeout = 60 * time.Millisecond

	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if err != ErrStaleConnection {
			t.Errorf("got %v, want ErrStaleConnection", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for stale-connection error")
	}
}

func TestClient_ReadErrorSurfaces(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Drop the connection without a close handshake.
		conn.Close()
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if err == nil {
			t.Error("expected non-nil connection error")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for connection error")
	}
}
