package domain

import "time"

// Stock is the per-product ledger record. Reserved never exceeds Quantity and
// neither goes negative; both counters move only through the ledger's
// reserve/restore operations.
type Stock struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reserved  int       `json:"reserved"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Stock) Available() int {
	return s.Quantity - s.Reserved
}

// Reservation is one journal entry per (order, product, quantity) grant.
// The live entries for a product always sum to that product's Reserved
// counter.
type Reservation struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationItem is the request unit of a multi-item reserve.
type ReservationItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
