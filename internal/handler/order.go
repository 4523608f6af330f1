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

type createOrderRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.ProductID == "" {
			http.Error(w, "userId and productId are required", http.StatusBadRequest)
			return
		}
		if req.Quantity < 1 {
			http.Error(w, "quantity must be at least 1", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Create(r.Context(), req.UserID, req.ProductID, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrProductNotFound):
				http.Error(w, "product not found", http.StatusUnprocessableEntity)
			case errors.Is(err, service.ErrInvalidProductPayload):
				http.Error(w, "product service returned an invalid response", http.StatusBadGateway)
			case errors.Is(err, service.ErrProductUnavailable):
				http.Error(w, "product service is temporarily unavailable, please try again later", http.StatusServiceUnavailable)
			default:
				slog.Error("order create failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

func GetOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := orderSvc.GetEnriched(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, model.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			slog.Error("order read failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := parsePage(r)
		result, err := orderSvc.ListEnriched(r.Context(), page, size)
		if err != nil {
			slog.Error("order list failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func DeleteOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orderSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			slog.Error("order delete failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
