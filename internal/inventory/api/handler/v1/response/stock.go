package response

import "github.com/vietanh2810/fulfillment/internal/inventory/domain"

type Stock struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
}

func NewStock(s domain.Stock) Stock {
	return Stock{
		ProductID: s.ProductID,
		Quantity:  s.Quantity,
		Reserved:  s.Reserved,
		Available: s.Available(),
	}
}

func NewStockList(stocks []domain.Stock) []Stock {
	result := make([]Stock, len(stocks))
	for i, s := range stocks {
		result[i] = NewStock(s)
	}

	return result
}

// Reserve keeps the original envelope: HTTP 200 with a success flag, the
// failure reason in Message and, for multi-item requests, the item that
// failed.
type Reserve struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	FailedProductID string `json:"failed_product_id,omitempty"`
}

type Release struct {
	Success  bool `json:"success"`
	Released int  `json:"released"`
}
