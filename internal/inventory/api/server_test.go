package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/fulfillment/internal/config"
	"github.com/vietanh2810/fulfillment/internal/inventory/api"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/memory"
)

func newTestServer(t *testing.T) (*api.Server, *memory.StockRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			Port:               "8003",
			AllowedCORSDomains: []string{"http://localhost:3000"},
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
	}

	stockRepo := memory.NewStockRepository()
	journalRepo := memory.NewReservationRepository()

	return api.NewServer(conf, stockRepo, journalRepo, nil), stockRepo
}

func doJSON(s *api.Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func TestStockEndpoints(t *testing.T) {
	t.Run("upsert then get", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-1","quantity":10}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(s, http.MethodGet, "/api/v1/stock/sku-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "sku-1", got["product_id"])
		assert.Equal(t, float64(10), got["quantity"])
		assert.Equal(t, float64(0), got["reserved"])
		assert.Equal(t, float64(10), got["available"])
	})

	t.Run("get unknown product", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodGet, "/api/v1/stock/missing", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"product not found"}`, w.Body.String())
	})

	t.Run("upsert rejects missing product id", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodPost, "/api/v1/stock", `{"quantity":10}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list is sorted by product id", func(t *testing.T) {
		s, _ := newTestServer(t)

		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-b","quantity":1}`)
		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-a","quantity":2}`)

		w := doJSON(s, http.MethodGet, "/api/v1/stock", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "sku-a", got[0]["product_id"])
		assert.Equal(t, "sku-b", got[1]["product_id"])
	})
}

func TestReserveEndpoint(t *testing.T) {
	t.Run("single item grant", func(t *testing.T) {
		s, stockRepo := newTestServer(t)
		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-1","quantity":10}`)

		w := doJSON(s, http.MethodPost, "/api/v1/reserve",
			`{"order_id":"order-1","product_id":"sku-1","quantity":4}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())

		stock, err := stockRepo.FindByProductID(context.Background(), "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 4, stock.Reserved)
	})

	t.Run("insufficient stock keeps the success envelope", func(t *testing.T) {
		s, _ := newTestServer(t)
		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-1","quantity":3}`)

		w := doJSON(s, http.MethodPost, "/api/v1/reserve",
			`{"order_id":"order-1","product_id":"sku-1","quantity":4}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, false, got["success"])
		assert.Equal(t, "insufficient stock", got["message"])
	})

	t.Run("multi item failure names the item and rolls back", func(t *testing.T) {
		s, stockRepo := newTestServer(t)
		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-1","quantity":5}`)

		w := doJSON(s, http.MethodPost, "/api/v1/reserve",
			`{"order_id":"order-9","items":[{"product_id":"sku-1","quantity":3},{"product_id":"sku-2","quantity":1}]}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, false, got["success"])
		assert.Equal(t, "product not found", got["message"])
		assert.Equal(t, "sku-2", got["failed_product_id"])

		stock, err := stockRepo.FindByProductID(context.Background(), "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved)
	})

	t.Run("rejects request without order id", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodPost, "/api/v1/reserve", `{"product_id":"sku-1","quantity":4}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects request with neither item form", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodPost, "/api/v1/reserve", `{"order_id":"order-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReleaseEndpoint(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s, stockRepo := newTestServer(t)
		doJSON(s, http.MethodPost, "/api/v1/stock", `{"product_id":"sku-1","quantity":10}`)
		doJSON(s, http.MethodPost, "/api/v1/reserve",
			`{"order_id":"order-1","product_id":"sku-1","quantity":4}`)

		w := doJSON(s, http.MethodPost, "/api/v1/release?order_id=order-1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"released":1}`, w.Body.String())

		stock, err := stockRepo.FindByProductID(context.Background(), "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved)

		// Releasing again restores nothing.
		w = doJSON(s, http.MethodPost, "/api/v1/release?order_id=order-1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"released":0}`, w.Body.String())
	})

	t.Run("missing order id", func(t *testing.T) {
		s, _ := newTestServer(t)

		w := doJSON(s, http.MethodPost, "/api/v1/release", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
