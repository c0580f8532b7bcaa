package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apiresponse "github.com/vietanh2810/fulfillment/internal/api/response"
	"github.com/vietanh2810/fulfillment/internal/inventory/api/handler/v1/request"
	"github.com/vietanh2810/fulfillment/internal/inventory/api/handler/v1/response"
	"github.com/vietanh2810/fulfillment/internal/inventory/domain"
	"github.com/vietanh2810/fulfillment/internal/inventory/service"
)

type StockService interface {
	UpsertStock(ctx context.Context, productID string, quantity int) (domain.Stock, error)
	GetStock(ctx context.Context, productID string) (domain.Stock, error)
	ListStock(ctx context.Context) ([]domain.Stock, error)
}

type StockHandler struct {
	svc StockService
}

func NewStockHandler(svc StockService) *StockHandler {
	return &StockHandler{
		svc: svc,
	}
}

// HandleListStock godoc
// @Summary      List all stock records
// @Tags         stock
// @Produce      json
// @Success      200      {array}    response.Stock
// @Failure      500      {object}   response.Err
// @Router       /stock [get]
func (h *StockHandler) HandleListStock(ctx *gin.Context) {
	stocks, err := h.svc.ListStock(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListStock -> h.svc.ListStock -> %w", err)
		apiresponse.RenderErr(ctx, apiresponse.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewStockList(stocks))
}

// HandleGetStock godoc
// @Summary      Get one product's quantity, reserved and available counters
// @Tags         stock
// @Produce      json
// @Param        productID   path      string true "product ID"
// @Success      200      {object}   response.Stock
// @Failure      404      {object}   response.Err
// @Router       /stock/{productID} [get]
func (h *StockHandler) HandleGetStock(ctx *gin.Context) {
	productID := ctx.Param("productID")

	stock, err := h.svc.GetStock(ctx.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apiresponse.RenderErr(ctx, apiresponse.ErrNotFound(service.ErrProductNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetStock -> h.svc.GetStock -> %w", err)
		apiresponse.RenderErr(ctx, apiresponse.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewStock(stock))
}

// HandleUpsertStock godoc
// @Summary      Create or overwrite the total quantity for a product
// @Tags         stock
// @Produce      json
// @Param        request   body      request.UpsertStockRequest true "request body"
// @Success      200      {object}   response.Stock
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stock [post]
func (h *StockHandler) HandleUpsertStock(ctx *gin.Context) {
	var req request.UpsertStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apiresponse.RenderErr(ctx, apiresponse.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		apiresponse.RenderErr(ctx, apiresponse.ErrBadRequest(err))

		return
	}

	stock, err := h.svc.UpsertStock(ctx.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		err = fmt.Errorf("v1.HandleUpsertStock -> h.svc.UpsertStock -> %w", err)
		apiresponse.RenderErr(ctx, apiresponse.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewStock(stock))
}
