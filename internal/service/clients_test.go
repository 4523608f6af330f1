package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microshop/internal/model"
	"microshop/internal/registry"
)

func TestProductClientFetchClassification(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{"server error", statusResponse(http.StatusInternalServerError), ErrProductUnavailable},
		{"bad gateway", statusResponse(http.StatusBadGateway), ErrProductUnavailable},
		{"not found", statusResponse(http.StatusNotFound), model.ErrProductNotFound},
		{"not json", jsonResponse(`<html>oops</html>`), ErrInvalidProductPayload},
		{"price missing", jsonResponse(`{"name":"Widget"}`), ErrInvalidProductPayload},
		{"price not numeric", jsonResponse(`{"name":"Widget","price":"19.99"}`), ErrInvalidProductPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newCountingServer(t, tc.handler)
			client := NewProductClient(registry.Static{registry.ServiceProducts: srv.URL}, registry.ServiceProducts)

			_, err := client.Fetch(context.Background(), "p7")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProductClientFetchParsesPrice(t *testing.T) {
	srv := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p7", r.URL.Path)
		jsonResponse(widgetJSON)(w, r)
	})
	client := NewProductClient(registry.Static{registry.ServiceProducts: srv.URL}, registry.ServiceProducts)

	info, err := client.Fetch(context.Background(), "p7")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), info.PriceCents)
	assert.Equal(t, "Widget", info.Name)
}

func TestProductClientFetchResolveFailure(t *testing.T) {
	client := NewProductClient(registry.Static{}, registry.ServiceProducts)

	_, err := client.Fetch(context.Background(), "p7")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestLookupNameStrictness(t *testing.T) {
	cases := []struct {
		name     string
		handler  http.HandlerFunc
		wantName string
		wantErr  bool
	}{
		{"ok", jsonResponse(`{"id":"u1","name":"Alice"}`), "Alice", false},
		{"not found", statusResponse(http.StatusNotFound), "", true},
		{"server error", statusResponse(http.StatusInternalServerError), "", true},
		{"name missing", jsonResponse(`{"id":"u1"}`), "", true},
		{"name not a string", jsonResponse(`{"name":[1,2]}`), "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newCountingServer(t, tc.handler)
			client := NewUserClient(registry.Static{registry.ServiceUsers: srv.URL}, registry.ServiceUsers)

			name, err := client.LookupName(context.Background(), "u1")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, name)
		})
	}
}
