package repository

import (
	"context"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/dao"
)

var (
	ErrProductNotFound   = dao.ErrProductNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

type StockDAO interface {
	Upsert(ctx context.Context, productID string, quantity int) (dao.Stock, error)
	TryReserve(ctx context.Context, productID string, quantity int) error
	Restore(ctx context.Context, productID string, quantity int) error
	FindByProductID(ctx context.Context, productID string) (dao.Stock, error)
	FindAll(ctx context.Context) ([]dao.Stock, error)
}

type StockRepository struct {
	dao StockDAO
}

func NewStockRepository(dao StockDAO) *StockRepository {
	return &StockRepository{
		dao: dao,
	}
}

func (r *StockRepository) daoToDomain(s dao.Stock) domain.Stock {
	return domain.Stock{
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Reserved:  s.Reserved,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *StockRepository) Upsert(ctx context.Context, productID string, quantity int) (domain.Stock, error) {
	stock, err := r.dao.Upsert(ctx, productID, quantity)
	if err != nil {
		return domain.Stock{}, err
	}

	return r.daoToDomain(stock), nil
}

func (r *StockRepository) TryReserve(ctx context.Context, productID string, quantity int) error {
	return r.dao.TryReserve(ctx, productID, quantity)
}

func (r *StockRepository) Restore(ctx context.Context, productID string, quantity int) error {
	return r.dao.Restore(ctx, productID, quantity)
}

func (r *StockRepository) FindByProductID(ctx context.Context, productID string) (domain.Stock, error) {
	stock, err := r.dao.FindByProductID(ctx, productID)
	if err != nil {
		return domain.Stock{}, err
	}

	return r.daoToDomain(stock), nil
}

func (r *StockRepository) FindAll(ctx context.Context) ([]domain.Stock, error) {
	stocks, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Stock, len(stocks))
	for i, s := range stocks {
		result[i] = r.daoToDomain(s)
	}

	return result, nil
}
