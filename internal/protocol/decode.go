package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adetumilara/stellar-insights/internal/model"
)

// Decode errors. Callers log and drop the frame; a bad frame is never a
// reason to tear down the connection.
var (
	ErrInvalidFrame = errors.New("invalid frame")
	ErrMissingType  = errors.New("frame missing type field")
)

// frameProbe extracts just the discriminator.
type frameProbe struct {
	Type MessageType `json:"type"`
}

// Decode parses one inbound frame into an Envelope.
//
// Every input yields exactly one variant or an error: known types decode
// their variant fields, unknown type values yield TypeUnknown, and anything
// that is not a JSON object with a string "type" field yields an error.
func Decode(data []byte) (*Envelope, error) {
	var probe frameProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	if probe.Type == "" {
		return nil, ErrMissingType
	}

	env := &Envelope{Type: probe.Type, Raw: data}

	switch probe.Type {
	case TypeConnected:
		var body struct {
			ConnectionID string `json:"connection_id"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: connected: %v", ErrInvalidFrame, err)
		}
		env.ConnectionID = body.ConnectionID

	case TypePing, TypePong:
		var body struct {
			Timestamp int64 `json:"timestamp"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFrame, probe.Type, err)
		}
		env.Timestamp = body.Timestamp

	case TypeSnapshotUpdate:
		var s SnapshotUpdate
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: snapshot_update: %v", ErrInvalidFrame, err)
		}
		env.Snapshot = &s

	case TypeConnectionStatus:
		var body struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: connection_status: %v", ErrInvalidFrame, err)
		}
		env.Status = body.Status

	case TypeCorridorUpdate:
		// Variant fields are inline at the top level of the frame.
		var c model.CorridorMetrics
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: corridor_update: %v", ErrInvalidFrame, err)
		}
		env.Corridor = &c

	case TypeAnchorUpdate:
		var a model.AnchorMetrics
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: anchor_update: %v", ErrInvalidFrame, err)
		}
		env.Anchor = &a

	case TypeNewPayment:
		var body struct {
			Payment json.RawMessage `json:"payment"`
		}
		if err := json.Unmarshal(data, &body); err != nil || len(body.Payment) == 0 {
			return nil, fmt.Errorf("%w: new_payment missing payment object", ErrInvalidFrame)
		}
		var p model.PaymentRecord
		if err := json.Unmarshal(body.Payment, &p); err != nil {
			return nil, fmt.Errorf("%w: new_payment: %v", ErrInvalidFrame, err)
		}
		env.Payment = &p
		env.PaymentRaw = body.Payment

	case TypeHealthAlert:
		var a model.HealthAlert
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: health_alert: %v", ErrInvalidFrame, err)
		}
		env.Alert = &a

	case TypeError:
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: error: %v", ErrInvalidFrame, err)
		}
		env.Message = body.Message

	default:
		env.Type = TypeUnknown
	}

	return env, nil
}
