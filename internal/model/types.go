package model

// Anchor status values as sent by the backend.
const (
	AnchorStatusGreen  = "green"
	AnchorStatusYellow = "yellow"
	AnchorStatusRed    = "red"
)

// Health alert severities, in increasing order of urgency.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// CorridorMetrics describes one payment corridor between two assets.
type CorridorMetrics struct {
	CorridorKey  string `json:"corridor_key"` // e.g. "USDC-XLM"
	AssetACode   string `json:"asset_a_code"`
	AssetAIssuer string `json:"asset_a_issuer"`
	AssetBCode   string `json:"asset_b_code"`
	AssetBIssuer string `json:"asset_b_issuer"`
}

// AnchorMetrics describes the health of a single anchor.
type AnchorMetrics struct {
	AnchorID         string  `json:"anchor_id"`
	Name             string  `json:"name"`
	ReliabilityScore float64 `json:"reliability_score"` // 0-100
	Status           string  `json:"status"`            // green, yellow, red
}

// PaymentRecord is one observed payment operation.
type PaymentRecord struct {
	ID                 string `json:"id"`
	TransactionHash    string `json:"transaction_hash"`
	SourceAccount      string `json:"source_account"`
	DestinationAccount string `json:"destination_account"`
	AssetType          string `json:"asset_type"` // "native" or "credit_alphanum4" etc.
	AssetCode          string `json:"asset_code,omitempty"`
	AssetIssuer        string `json:"asset_issuer,omitempty"`
	Amount             string `json:"amount"`     // decimal string as received
	CreatedAt          string `json:"created_at"` // RFC 3339
}

// HealthAlert flags a corridor whose metrics crossed an alert threshold.
type HealthAlert struct {
	CorridorID string `json:"corridor_id"`
	Severity   string `json:"severity"` // info, warning, critical
	Message    string `json:"message"`
}
