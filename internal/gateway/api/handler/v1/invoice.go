package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/fulfillment/internal/api/response"
	"github.com/vietanh2810/fulfillment/internal/gateway/compute"
	"github.com/vietanh2810/fulfillment/internal/metrics"
)

type InvoiceInvoker interface {
	Invoke(ctx context.Context, payload any) (*compute.Result, error)
}

// InvoiceHandler bridges to the asynchronous invoice-generation collaborator
// and blocks for its result up to the invoker's bounded deadline.
type InvoiceHandler struct {
	invoker InvoiceInvoker
}

func NewInvoiceHandler(invoker InvoiceInvoker) *InvoiceHandler {
	return &InvoiceHandler{
		invoker: invoker,
	}
}

type invoicePayload struct {
	OrderID string `json:"order_id"`
}

// HandleGenerateInvoice godoc
// @Summary      Generate an invoice document for an order
// @Tags         orders
// @Produce      json
// @Param        orderID   path      string true "order ID"
// @Router       /orders/{orderID}/invoice [post]
func (h *InvoiceHandler) HandleGenerateInvoice(ctx *gin.Context) {
	orderID := ctx.Param("orderID")

	result, err := h.invoker.Invoke(ctx.Request.Context(), invoicePayload{OrderID: orderID})
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues("invoice").Inc()
		zap.L().Warn("invoice invocation failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		response.RenderErr(ctx, response.ErrUpstreamUnavailable(err))

		return
	}

	// The envelope's own status is authoritative, success or failure alike.
	ctx.Data(result.StatusCode, "application/json", result.Body)
}
