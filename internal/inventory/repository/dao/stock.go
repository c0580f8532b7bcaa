package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Stock struct {
	ID uint `gorm:"primaryKey"`

	ProductID string `gorm:"unique;not null"`
	Quantity  int    `gorm:"not null;default:0"`
	Reserved  int    `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null"`
}

type StockDAO struct {
	db *gorm.DB
}

func NewStockDAO(db *gorm.DB) *StockDAO {
	return &StockDAO{
		db: db,
	}
}

// Upsert creates the record on first upload or overwrites Quantity on an
// existing one. Reserved is never touched here.
func (d *StockDAO) Upsert(ctx context.Context, productID string, quantity int) (Stock, error) {
	var stock Stock

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).
			First(&stock)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return result.Error
			}

			stock = Stock{ProductID: productID, Quantity: quantity}
			if err := tx.Create(&stock).Error; err != nil {
				// Concurrent first upload for the same product: fall back to
				// overwriting the row the winner created.
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
					if err := tx.Model(&Stock{}).
						Where("product_id = ?", productID).
						Update("quantity", quantity).Error; err != nil {
						return err
					}

					return tx.Where("product_id = ?", productID).First(&stock).Error
				}

				return err
			}

			return nil
		}

		stock.Quantity = quantity

		return tx.Model(&Stock{}).
			Where("product_id = ?", productID).
			Update("quantity", quantity).Error
	})
	if err != nil {
		return Stock{}, err
	}

	return stock, nil
}

// TryReserve is the check-then-increment critical section. The row lock
// serializes concurrent reserves per product, so two calls whose combined
// quantity exceeds availability can never both succeed.
func (d *StockDAO) TryReserve(ctx context.Context, productID string, quantity int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock Stock
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).
			First(&stock)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}

			return result.Error
		}

		if stock.Quantity-stock.Reserved < quantity {
			return ErrInsufficientStock
		}

		return tx.Model(&Stock{}).
			Where("product_id = ?", productID).
			Update("reserved", gorm.Expr("reserved + ?", quantity)).Error
	})
}

// Restore decrements Reserved, floored at zero so a double-release or drift
// never drives the counter negative.
func (d *StockDAO) Restore(ctx context.Context, productID string, quantity int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock Stock
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).
			First(&stock)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}

			return result.Error
		}

		restored := stock.Reserved - quantity
		if restored < 0 {
			restored = 0
		}

		return tx.Model(&Stock{}).
			Where("product_id = ?", productID).
			Update("reserved", restored).Error
	})
}

func (d *StockDAO) FindByProductID(ctx context.Context, productID string) (Stock, error) {
	var stock Stock
	result := d.db.WithContext(ctx).Where("product_id = ?", productID).First(&stock)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stock{}, ErrProductNotFound
		}

		return Stock{}, result.Error
	}

	return stock, nil
}

func (d *StockDAO) FindAll(ctx context.Context) ([]Stock, error) {
	var stocks []Stock
	result := d.db.WithContext(ctx).Order("product_id asc").Find(&stocks)
	if result.Error != nil {
		return nil, result.Error
	}

	return stocks, nil
}
