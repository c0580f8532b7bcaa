package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
)

type ReservationRepository struct {
	mu      sync.Mutex
	entries []domain.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(_ context.Context, orderID, productID string, quantity int) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := domain.Reservation{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
	r.entries = append(r.entries, entry)

	return entry, nil
}

func (r *ReservationRepository) FindByOrderID(_ context.Context, orderID string) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Reservation, 0)
	for _, e := range r.entries {
		if e.OrderID == orderID {
			result = append(result, e)
		}
	}

	return result, nil
}

func (r *ReservationRepository) DeleteByIDs(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	r.entries = kept

	return nil
}

func (r *ReservationRepository) DeleteByOrderID(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.OrderID != orderID {
			kept = append(kept, e)
		}
	}
	r.entries = kept

	return nil
}
