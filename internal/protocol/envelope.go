package protocol

import (
	"encoding/json"

	"github.com/adetumilara/stellar-insights/internal/model"
)

// MessageType is the value of the "type" discriminator field.
type MessageType string

// Inbound message types. Ping and pong flow both ways: the server heartbeats
// with ping every 30s and answers the client's pings with pong.
const (
	TypeConnected        MessageType = "connected"
	TypePing             MessageType = "ping"
	TypePong             MessageType = "pong"
	TypeSnapshotUpdate   MessageType = "snapshot_update"
	TypeCorridorUpdate   MessageType = "corridor_update"
	TypeAnchorUpdate     MessageType = "anchor_update"
	TypeNewPayment       MessageType = "new_payment"
	TypeHealthAlert      MessageType = "health_alert"
	TypeConnectionStatus MessageType = "connection_status"
	TypeError            MessageType = "error"

	// TypeUnknown is the catch-all for recognized frames whose type value
	// this client does not know about.
	TypeUnknown MessageType = "unknown"
)

// Outbound-only message types.
const (
	TypeSubscribe   MessageType = "subscribe"
	TypeUnsubscribe MessageType = "unsubscribe"
)

// Connection status values carried by connection_status envelopes.
const (
	StatusConnecting   = "connecting"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusError        = "error"
	StatusClosed       = "closed"
)

// SnapshotUpdate announces a newly published metrics snapshot.
type SnapshotUpdate struct {
	SnapshotID string `json:"snapshot_id"`
	Epoch      int64  `json:"epoch"`
	Timestamp  string `json:"timestamp"`
	Hash       string `json:"hash"`
}

// Envelope is one decoded inbound frame. Type selects which of the variant
// fields is populated; Raw always holds the original frame bytes.
type Envelope struct {
	Type MessageType
	Raw  json.RawMessage

	// connected
	ConnectionID string

	// connection_status
	Status string

	// ping, pong
	Timestamp int64

	// snapshot_update
	Snapshot *SnapshotUpdate

	// corridor_update
	Corridor *model.CorridorMetrics

	// anchor_update
	Anchor *model.AnchorMetrics

	// new_payment
	Payment *model.PaymentRecord
	// PaymentRaw is the inner payment object, kept for field-level merges.
	PaymentRaw json.RawMessage

	// health_alert
	Alert *model.HealthAlert

	// error
	Message string
}

// subscribeFrame is the outbound subscribe/unsubscribe shape.
type subscribeFrame struct {
	Type     MessageType `json:"type"`
	Channels []string    `json:"channels"`
}

// pingFrame is the ping/pong shape, identical in both directions.
type pingFrame struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

// statusFrame is the connection_status shape, also used for the synthetic
// status envelopes the connection manager injects into the frame stream.
type statusFrame struct {
	Type   MessageType `json:"type"`
	Status string      `json:"status"`
}

// EncodeSubscribe builds a subscribe frame for the given channels.
func EncodeSubscribe(channels []string) ([]byte, error) {
	return json.Marshal(subscribeFrame{Type: TypeSubscribe, Channels: channels})
}

// EncodeUnsubscribe builds an unsubscribe frame for the given channels.
func EncodeUnsubscribe(channels []string) ([]byte, error) {
	return json.Marshal(subscribeFrame{Type: TypeUnsubscribe, Channels: channels})
}

// EncodePing builds a ping frame with a unix-seconds timestamp.
func EncodePing(timestamp int64) ([]byte, error) {
	return json.Marshal(pingFrame{Type: TypePing, Timestamp: timestamp})
}

// EncodePong builds a pong frame echoing a server ping timestamp.
func EncodePong(timestamp int64) ([]byte, error) {
	return json.Marshal(pingFrame{Type: TypePong, Timestamp: timestamp})
}

// EncodeStatus builds a connection_status frame.
func EncodeStatus(status string) ([]byte, error) {
	return json.Marshal(statusFrame{Type: TypeConnectionStatus, Status: status})
}
