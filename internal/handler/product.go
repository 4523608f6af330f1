package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"microshop/internal/model"
	"microshop/internal/service"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type patchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func CreateProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		product, err := productSvc.Create(r.Context(), model.Product{
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  model.CentsFromDecimal(req.Price),
			Stock:       req.Stock,
		})
		if err != nil {
			writeProductError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, product)
	}
}

func GetProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeProductError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func ListProductsHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := parsePage(r)
		result, err := productSvc.List(r.Context(), page, size)
		if err != nil {
			slog.Error("product list failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func ReplaceProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		product, err := productSvc.Replace(r.Context(), chi.URLParam(r, "id"), model.Product{
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  model.CentsFromDecimal(req.Price),
			Stock:       req.Stock,
		})
		if err != nil {
			writeProductError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func PatchProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var priceCents *int64
		if req.Price != nil {
			cents := model.CentsFromDecimal(*req.Price)
			priceCents = &cents
		}

		product, err := productSvc.Patch(r.Context(), chi.URLParam(r, "id"),
			req.Name, req.Description, priceCents, req.Stock)
		if err != nil {
			writeProductError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func DeleteProductHandler(productSvc *service.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := productSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			slog.Error("product delete failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, service.ErrProductInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("product operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
