package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository"
)

var (
	ErrProductNotFound   = repository.ErrProductNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// StockRepository is the ledger contract. TryReserve and Restore are atomic
// per product; implementations serialize them with a row lock (postgres) or
// a per-product mutex (memory).
type StockRepository interface {
	Upsert(ctx context.Context, productID string, quantity int) (domain.Stock, error)
	TryReserve(ctx context.Context, productID string, quantity int) error
	Restore(ctx context.Context, productID string, quantity int) error
	FindByProductID(ctx context.Context, productID string) (domain.Stock, error)
	FindAll(ctx context.Context) ([]domain.Stock, error)
}

type StockService struct {
	repo StockRepository
}

func NewStockService(repo StockRepository) *StockService {
	return &StockService{
		repo: repo,
	}
}

func (s *StockService) UpsertStock(ctx context.Context, productID string, quantity int) (domain.Stock, error) {
	stock, err := s.repo.Upsert(ctx, productID, quantity)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return stock, nil
}

func (s *StockService) GetStock(ctx context.Context, productID string) (domain.Stock, error) {
	stock, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return domain.Stock{}, err
	}

	return stock, nil
}

func (s *StockService) ListStock(ctx context.Context) ([]domain.Stock, error) {
	stocks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return stocks, nil
}
