package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Reservation struct {
	ID string `gorm:"primaryKey"`

	OrderID   string `gorm:"index;not null"`
	ProductID string `gorm:"not null"`
	Quantity  int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type ReservationDAO struct {
	db *gorm.DB
}

func NewReservationDAO(db *gorm.DB) *ReservationDAO {
	return &ReservationDAO{
		db: db,
	}
}

func (d *ReservationDAO) Insert(ctx context.Context, entry Reservation) (Reservation, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		return Reservation{}, result.Error
	}

	return entry, nil
}

func (d *ReservationDAO) FindByOrderID(ctx context.Context, orderID string) ([]Reservation, error) {
	var entries []Reservation
	result := d.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

func (d *ReservationDAO) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Reservation{}).Error
}

// DeleteByOrderID is a no-op for an order with no entries.
func (d *ReservationDAO) DeleteByOrderID(ctx context.Context, orderID string) error {
	return d.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&Reservation{}).Error
}
