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

type ReservationService interface {
	ReserveOne(ctx context.Context, orderID, productID string, quantity int) (domain.Reservation, error)
	ReserveAll(ctx context.Context, orderID string, items []domain.ReservationItem) error
	ReleaseOrder(ctx context.Context, orderID string) (int, error)
}

type ReservationHandler struct {
	svc ReservationService
}

func NewReservationHandler(svc ReservationService) *ReservationHandler {
	return &ReservationHandler{
		svc: svc,
	}
}

// HandleReserve godoc
// @Summary      Reserve stock for an order, single item or all-or-nothing multi-item
// @Tags         reservation
// @Produce      json
// @Param        request   body      request.ReserveRequest true "request body"
// @Success      200      {object}   response.Reserve
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reserve [post]
func (h *ReservationHandler) HandleReserve(ctx *gin.Context) {
	var req request.ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apiresponse.RenderErr(ctx, apiresponse.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		apiresponse.RenderErr(ctx, apiresponse.ErrBadRequest(err))

		return
	}

	var err error
	if len(req.Items) > 0 {
		items := make([]domain.ReservationItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = domain.ReservationItem{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		err = h.svc.ReserveAll(ctx.Request.Context(), req.OrderID, items)
	} else {
		_, err = h.svc.ReserveOne(ctx.Request.Context(), req.OrderID, req.ProductID, req.Quantity)
	}

	if err != nil {
		var reserveErr *service.ReserveError
		failedProductID := ""
		if errors.As(err, &reserveErr) {
			failedProductID = reserveErr.ProductID
		}

		switch {
		case errors.Is(err, service.ErrProductNotFound):
			ctx.JSON(http.StatusOK, response.Reserve{
				Success:         false,
				Message:         "product not found",
				FailedProductID: failedProductID,
			})
		case errors.Is(err, service.ErrInsufficientStock):
			ctx.JSON(http.StatusOK, response.Reserve{
				Success:         false,
				Message:         "insufficient stock",
				FailedProductID: failedProductID,
			})
		default:
			err = fmt.Errorf("v1.HandleReserve -> h.svc -> %w", err)
			apiresponse.RenderErr(ctx, apiresponse.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Reserve{Success: true})
}

// HandleRelease godoc
// @Summary      Release every reservation held by an order
// @Tags         reservation
// @Produce      json
// @Param        order_id   query      string true "order ID"
// @Success      200      {object}   response.Release
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /release [post]
func (h *ReservationHandler) HandleRelease(ctx *gin.Context) {
	orderID := ctx.Query("order_id")
	if orderID == "" {
		apiresponse.RenderErr(ctx, apiresponse.ErrBadRequest(errors.New("order_id required")))

		return
	}

	released, err := h.svc.ReleaseOrder(ctx.Request.Context(), orderID)
	if err != nil {
		err = fmt.Errorf("v1.HandleRelease -> h.svc.ReleaseOrder -> %w", err)
		apiresponse.RenderErr(ctx, apiresponse.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Release{Success: true, Released: released})
}
