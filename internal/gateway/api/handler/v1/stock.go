package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/fulfillment/internal/api/response"
	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
)

// StockHandler forwards stock and reservation traffic to the inventory
// service. Reservation semantics live entirely on the inventory side; the
// gateway only authenticates and relays.
type StockHandler struct {
	fwd          *proxy.Forwarder
	inventoryURL string
}

func NewStockHandler(fwd *proxy.Forwarder, inventoryURL string) *StockHandler {
	return &StockHandler{
		fwd:          fwd,
		inventoryURL: inventoryURL,
	}
}

// HandleListStock godoc
// @Summary      List stock records
// @Tags         stock
// @Produce      json
// @Router       /stock [get]
func (h *StockHandler) HandleListStock(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodGet, h.inventoryURL, "/stock",
		ctx.Request.URL.Query(), nil, ctx.Request.Header)
	relay(ctx, "inventory", up, err)
}

// HandleGetStock godoc
// @Summary      Get one product's stock record
// @Tags         stock
// @Produce      json
// @Param        productID   path      string true "product ID"
// @Router       /stock/{productID} [get]
func (h *StockHandler) HandleGetStock(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodGet, h.inventoryURL,
		"/stock/"+ctx.Param("productID"), nil, nil, ctx.Request.Header)
	relay(ctx, "inventory", up, err)
}

// HandleUpsertStock godoc
// @Summary      Create or overwrite stock for a product
// @Tags         stock
// @Produce      json
// @Router       /stock [post]
func (h *StockHandler) HandleUpsertStock(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPost, h.inventoryURL, "/stock",
		nil, readBody(ctx), ctx.Request.Header)
	relay(ctx, "inventory", up, err)
}

// HandleReserve godoc
// @Summary      Reserve stock for an order
// @Tags         reservation
// @Produce      json
// @Router       /reserve [post]
func (h *StockHandler) HandleReserve(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPost, h.inventoryURL, "/reserve",
		nil, readBody(ctx), ctx.Request.Header)
	relay(ctx, "inventory", up, err)
}

// HandleRelease godoc
// @Summary      Release every reservation held by an order
// @Tags         reservation
// @Produce      json
// @Router       /release [post]
func (h *StockHandler) HandleRelease(ctx *gin.Context) {
	var payload struct {
		OrderID string `json:"order_id"`
	}
	if body := readBody(ctx); len(body) > 0 {
		_ = json.Unmarshal(body, &payload)
	}
	if payload.OrderID == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("order_id required")))

		return
	}

	query := url.Values{}
	query.Set("order_id", payload.OrderID)

	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPost, h.inventoryURL, "/release",
		query, nil, ctx.Request.Header)
	relay(ctx, "inventory", up, err)
}
