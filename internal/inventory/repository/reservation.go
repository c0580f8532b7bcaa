package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/dao"
)

type ReservationDAO interface {
	Insert(ctx context.Context, entry dao.Reservation) (dao.Reservation, error)
	FindByOrderID(ctx context.Context, orderID string) ([]dao.Reservation, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}

type ReservationRepository struct {
	dao ReservationDAO
}

func NewReservationRepository(dao ReservationDAO) *ReservationRepository {
	return &ReservationRepository{
		dao: dao,
	}
}

func (r *ReservationRepository) daoToDomain(e dao.Reservation) domain.Reservation {
	return domain.Reservation{
		ID:        e.ID,
		OrderID:   e.OrderID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		CreatedAt: e.CreatedAt,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, orderID, productID string, quantity int) (domain.Reservation, error) {
	entry, err := r.dao.Insert(ctx, dao.Reservation{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	return r.daoToDomain(entry), nil
}

func (r *ReservationRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.Reservation, error) {
	entries, err := r.dao.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Reservation, len(entries))
	for i, e := range entries {
		result[i] = r.daoToDomain(e)
	}

	return result, nil
}

func (r *ReservationRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	return r.dao.DeleteByIDs(ctx, ids)
}

func (r *ReservationRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	return r.dao.DeleteByOrderID(ctx, orderID)
}
