package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/fulfillment/internal/api/response"
	"github.com/vietanh2810/fulfillment/internal/gateway/api/middleware"
	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
)

var errMissingIdentity = errors.New("no authenticated user on request")

// OrdersHandler forwards order CRUD to the orders collaborator, substituting
// the authenticated user id where the route contract requires it. The id is
// the value the verifier asserted, threaded through the request context, not
// whatever the client claims.
type OrdersHandler struct {
	fwd       *proxy.Forwarder
	ordersURL string
}

func NewOrdersHandler(fwd *proxy.Forwarder, ordersURL string) *OrdersHandler {
	return &OrdersHandler{
		fwd:       fwd,
		ordersURL: ordersURL,
	}
}

// HandleListOrders godoc
// @Summary      List the authenticated user's orders
// @Tags         orders
// @Produce      json
// @Router       /orders [get]
func (h *OrdersHandler) HandleListOrders(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrInternalServerError(errMissingIdentity))

		return
	}

	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))

	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodGet, h.ordersURL, "/orders",
		query, nil, ctx.Request.Header)
	relay(ctx, "orders", up, err)
}

// HandleCreateOrder godoc
// @Summary      Create an order for the authenticated user
// @Tags         orders
// @Produce      json
// @Router       /orders [post]
func (h *OrdersHandler) HandleCreateOrder(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrInternalServerError(errMissingIdentity))

		return
	}

	payload := map[string]any{}
	if body := readBody(ctx); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
	}
	payload["user_id"] = userID

	body, err := json.Marshal(payload)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPost, h.ordersURL, "/orders",
		nil, body, ctx.Request.Header)
	relay(ctx, "orders", up, err)
}

// HandleGetOrder godoc
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Param        orderID   path      string true "order ID"
// @Router       /orders/{orderID} [get]
func (h *OrdersHandler) HandleGetOrder(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodGet, h.ordersURL,
		"/orders/"+ctx.Param("orderID"), nil, nil, ctx.Request.Header)
	relay(ctx, "orders", up, err)
}

// HandleUpdateOrder godoc
// @Summary      Update an order's status
// @Tags         orders
// @Produce      json
// @Param        orderID   path      string true "order ID"
// @Router       /orders/{orderID} [patch]
func (h *OrdersHandler) HandleUpdateOrder(ctx *gin.Context) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPatch, h.ordersURL,
		"/orders/"+ctx.Param("orderID"), nil, readBody(ctx), ctx.Request.Header)
	relay(ctx, "orders", up, err)
}
