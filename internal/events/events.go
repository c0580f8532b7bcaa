package events

import (
	"encoding/json"
	"time"
)

const (
	TopicStockReserved      = "stock.reserved"
	TopicStockReleased      = "stock.released"
	TopicCompensationFailed = "stock.compensation_failed"
)

const (
	EventStockReserved      = "stock.reserved"
	EventStockReleased      = "stock.released"
	EventCompensationFailed = "stock.compensation_failed"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type ReservedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type StockReservedPayload struct {
	OrderID string         `json:"order_id"`
	Items   []ReservedItem `json:"items"`
}

type StockReleasedPayload struct {
	OrderID  string `json:"order_id"`
	Released int    `json:"released"`
}

// CompensationFailedPayload is the operator-visibility record for a rollback
// whose restore or journal deletion did not land. The ledger and journal have
// diverged for this order until someone reconciles them by hand.
type CompensationFailedPayload struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
}
