package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microshop/internal/service"
	"microshop/internal/storage/memory"
)

func newUserRouter() *chi.Mux {
	svc := service.NewUserService(memory.NewUserStore())

	r := chi.NewRouter()
	r.Post("/api/users", CreateUserHandler(svc))
	r.Get("/api/users", ListUsersHandler(svc))
	r.Get("/api/users/{id}", GetUserHandler(svc))
	r.Put("/api/users/{id}", ReplaceUserHandler(svc))
	r.Patch("/api/users/{id}", PatchUserHandler(svc))
	r.Delete("/api/users/{id}", DeleteUserHandler(svc))
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestUserCRUDEndpoints(t *testing.T) {
	r := newUserRouter()

	rec := doRequest(t, r, http.MethodPost, "/api/users",
		`{"name":"Alice","email":"alice@example.com","phone":"555-0101"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = doRequest(t, r, http.MethodGet, "/api/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	rec = doRequest(t, r, http.MethodPut, "/api/users/"+id,
		`{"name":"Alice B","email":"alice.b@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var replaced map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &replaced))
	assert.Equal(t, "Alice B", replaced["name"])
	assert.NotContains(t, replaced, "phone", "replace drops fields absent from the request")

	rec = doRequest(t, r, http.MethodPatch, "/api/users/"+id, `{"phone":"555-0202"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var patched map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, "Alice B", patched["name"], "patch leaves other fields alone")
	assert.Equal(t, "555-0202", patched["phone"])

	rec = doRequest(t, r, http.MethodDelete, "/api/users/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/users/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpointErrors(t *testing.T) {
	r := newUserRouter()

	rec := doRequest(t, r, http.MethodPost, "/api/users", `{"email":"no-name@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/users", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/users", `{"name":"Alice","email":"dup@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, r, http.MethodPost, "/api/users", `{"name":"Clone","email":"dup@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func newProductRouter() *chi.Mux {
	svc := service.NewProductService(memory.NewProductStore())

	r := chi.NewRouter()
	r.Post("/api/products", CreateProductHandler(svc))
	r.Get("/api/products", ListProductsHandler(svc))
	r.Get("/api/products/{id}", GetProductHandler(svc))
	r.Put("/api/products/{id}", ReplaceProductHandler(svc))
	r.Patch("/api/products/{id}", PatchProductHandler(svc))
	r.Delete("/api/products/{id}", DeleteProductHandler(svc))
	return r
}

func TestProductEndpointsPriceHandling(t *testing.T) {
	r := newProductRouter()

	rec := doRequest(t, r, http.MethodPost, "/api/products",
		`{"name":"Widget","description":"A widget","price":19.99,"stock":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, 19.99, created["price"], "price survives the cents roundtrip")

	rec = doRequest(t, r, http.MethodPatch, "/api/products/"+id, `{"price":14.99}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var patched map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, 14.99, patched["price"])
	assert.Equal(t, "Widget", patched["name"])

	rec = doRequest(t, r, http.MethodPost, "/api/products", `{"name":"Bad","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/products/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
