package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microshop/internal/config"
	"microshop/internal/model"
	"microshop/internal/registry"
	"microshop/internal/service"
	"microshop/internal/storage/memory"
)

func newOrderRouter(t *testing.T, productHandler, userHandler http.HandlerFunc) (*chi.Mux, *memory.OrderStore) {
	t.Helper()

	products := httptest.NewServer(productHandler)
	t.Cleanup(products.Close)
	users := httptest.NewServer(userHandler)
	t.Cleanup(users.Close)

	resolver := registry.Static{
		registry.ServiceProducts: products.URL,
		registry.ServiceUsers:    users.URL,
	}
	store := memory.NewOrderStore()
	svc := service.NewOrderService(
		store,
		service.NewProductClient(resolver, registry.ServiceProducts),
		service.NewUserClient(resolver, registry.ServiceUsers),
		service.NewPricingBreaker(config.BreakerConfig{
			WindowSize: 100, FailureRate: 0.99, OpenTimeout: time.Minute, HalfOpenCalls: 1,
		}, nil),
		200*time.Millisecond,
		nil,
	)

	r := chi.NewRouter()
	r.Post("/api/orders", CreateOrderHandler(svc))
	r.Get("/api/orders", ListOrdersHandler(svc))
	r.Get("/api/orders/{id}", GetOrderHandler(svc))
	r.Delete("/api/orders/{id}", DeleteOrderHandler(svc))
	return r, store
}

func serveJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func serveStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

const productBody = `{"id":"p7","name":"Widget","price":19.99,"stock":5}`

func TestCreateOrderEndpoint(t *testing.T) {
	r, _ := newOrderRouter(t, serveJSON(productBody), serveJSON(`{"name":"Alice"}`))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"userId":"u1","productId":"p7","quantity":3}`))
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 59.97, body["totalAmount"], "money goes over the wire as a decimal")
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, "u1", body["userId"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, rec.Body.String(), "totalCents")
}

func TestCreateOrderValidation(t *testing.T) {
	r, _ := newOrderRouter(t, serveJSON(productBody), serveJSON(`{}`))

	cases := map[string]string{
		"invalid json":      `{`,
		"missing userId":    `{"productId":"p7","quantity":1}`,
		"missing productId": `{"userId":"u1","quantity":1}`,
		"zero quantity":     `{"userId":"u1","productId":"p7","quantity":0}`,
		"negative quantity": `{"userId":"u1","productId":"p7","quantity":-2}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateOrderDownstreamStatusMapping(t *testing.T) {
	cases := []struct {
		name           string
		productHandler http.HandlerFunc
		wantStatus     int
	}{
		{"product missing", serveStatus(http.StatusNotFound), http.StatusUnprocessableEntity},
		{"malformed payload", serveJSON(`{"price":"19.99"}`), http.StatusBadGateway},
		{"product service down", serveStatus(http.StatusInternalServerError), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newOrderRouter(t, tc.productHandler, serveJSON(`{}`))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/orders",
				strings.NewReader(`{"userId":"u1","productId":"p7","quantity":1}`))
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	r, store := newOrderRouter(t, serveJSON(productBody), serveJSON(`{"name":"Alice"}`))

	order, err := store.Save(context.Background(), model.Order{
		UserID: "u1", ProductID: "p7", Quantity: 3, TotalCents: 5997, Status: model.OrderStatusPending,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["userName"])
	assert.Equal(t, "Widget", body["productName"])
	assert.Equal(t, 59.97, body["totalAmount"])
}

func TestGetOrderNotFound(t *testing.T) {
	r, _ := newOrderRouter(t, serveJSON(productBody), serveJSON(`{}`))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	r, store := newOrderRouter(t, serveJSON(productBody), serveJSON(`{"name":"Alice"}`))

	for i := 0; i < 3; i++ {
		_, err := store.Save(context.Background(), model.Order{
			UserID: "u1", ProductID: "p7", Quantity: 1, TotalCents: 1999, Status: model.OrderStatusPending,
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders?page=0&size=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Content       []map[string]any `json:"content"`
		Page          int              `json:"page"`
		Size          int              `json:"size"`
		TotalElements int64            `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Content, 2)
	assert.Equal(t, int64(3), body.TotalElements)
	assert.Equal(t, 2, body.Size)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	r, store := newOrderRouter(t, serveJSON(productBody), serveJSON(`{}`))

	order, err := store.Save(context.Background(), model.Order{
		UserID: "u1", ProductID: "p7", Quantity: 1, TotalCents: 1999, Status: model.OrderStatusPending,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/"+order.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again keeps the same answer.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders/"+order.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", 0, 20},
		{"?page=2&size=50", 2, 50},
		{"?page=-1&size=0", 0, 20},
		{"?page=abc&size=xyz", 0, 20},
		{"?size=500", 0, 20},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/orders"+tc.query, nil)
		page, size := parsePage(req)
		assert.Equal(t, tc.wantPage, page, tc.query)
		assert.Equal(t, tc.wantSize, size, tc.query)
	}
}
