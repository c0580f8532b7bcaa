// Package memory holds in-memory implementations of the stock ledger and
// reservation journal. They back local runs without postgres and keep the
// same contracts as the gorm repositories, including per-product
// serialization of reserve/restore.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository"
)

type stockRecord struct {
	mu       sync.Mutex
	quantity int
	reserved int
	updated  time.Time
}

type StockRepository struct {
	mu      sync.RWMutex
	records map[string]*stockRecord
}

func NewStockRepository() *StockRepository {
	return &StockRepository{
		records: make(map[string]*stockRecord),
	}
}

func (r *StockRepository) get(productID string) (*stockRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[productID]

	return rec, ok
}

func (r *StockRepository) Upsert(_ context.Context, productID string, quantity int) (domain.Stock, error) {
	r.mu.Lock()
	rec, ok := r.records[productID]
	if !ok {
		rec = &stockRecord{}
		r.records[productID] = rec
	}
	r.mu.Unlock()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.quantity = quantity
	rec.updated = time.Now()

	return domain.Stock{
		ProductID: productID,
		Quantity:  rec.quantity,
		Reserved:  rec.reserved,
		UpdatedAt: rec.updated,
	}, nil
}

// TryReserve holds the record's own mutex across the check and the
// increment, which is the whole linearizability contract: no two concurrent
// calls on one product can both observe enough availability.
func (r *StockRepository) TryReserve(_ context.Context, productID string, quantity int) error {
	rec, ok := r.get(productID)
	if !ok {
		return repository.ErrProductNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.quantity-rec.reserved < quantity {
		return repository.ErrInsufficientStock
	}

	rec.reserved += quantity
	rec.updated = time.Now()

	return nil
}

func (r *StockRepository) Restore(_ context.Context, productID string, quantity int) error {
	rec, ok := r.get(productID)
	if !ok {
		return repository.ErrProductNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.reserved -= quantity
	if rec.reserved < 0 {
		rec.reserved = 0
	}
	rec.updated = time.Now()

	return nil
}

func (r *StockRepository) FindByProductID(_ context.Context, productID string) (domain.Stock, error) {
	rec, ok := r.get(productID)
	if !ok {
		return domain.Stock{}, repository.ErrProductNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return domain.Stock{
		ProductID: productID,
		Quantity:  rec.quantity,
		Reserved:  rec.reserved,
		UpdatedAt: rec.updated,
	}, nil
}

func (r *StockRepository) FindAll(ctx context.Context) ([]domain.Stock, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)

	stocks := make([]domain.Stock, 0, len(ids))
	for _, id := range ids {
		stock, err := r.FindByProductID(ctx, id)
		if err != nil {
			continue
		}
		stocks = append(stocks, stock)
	}

	return stocks, nil
}
