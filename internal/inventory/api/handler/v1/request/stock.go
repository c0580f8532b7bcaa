package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errItemsOrProduct = errors.New("either product_id with quantity or a non-empty items list is required")

type UpsertStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (req UpsertStockRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type ReserveItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (item ReserveItem) Validate() error {
	return validation.ValidateStruct(&item,
		validation.Field(&item.ProductID, validation.Required),
		validation.Field(&item.Quantity, validation.Required, validation.Min(1)),
	)
}

// ReserveRequest carries either a single item (product_id + quantity, the
// original wire shape) or a multi-item list. Exactly one form must be used.
type ReserveRequest struct {
	OrderID   string        `json:"order_id"`
	ProductID string        `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Items     []ReserveItem `json:"items"`
}

func (req ReserveRequest) Validate() error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.OrderID, validation.Required),
	); err != nil {
		return err
	}

	if len(req.Items) > 0 {
		for _, item := range req.Items {
			if err := item.Validate(); err != nil {
				return err
			}
		}

		return nil
	}

	if req.ProductID == "" || req.Quantity < 1 {
		return errItemsOrProduct
	}

	return nil
}
