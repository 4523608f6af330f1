package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"microshop/internal/breaker"
	"microshop/internal/config"
	"microshop/internal/metrics"
	"microshop/internal/model"
)

// PricingBreakerName keys the breaker guarding the product lookup on
// the order write path.
const PricingBreakerName = "productService"

// NewPricingBreaker builds the breaker for the pricing call. Transport
// failures and malformed payloads count against the window; a clean 404
// proves the dependency healthy and does not.
func NewPricingBreaker(cfg config.BreakerConfig, m *metrics.Metrics) *breaker.Breaker {
	return breaker.New(PricingBreakerName, breaker.Config{
		WindowSize:    cfg.WindowSize,
		FailureRate:   cfg.FailureRate,
		OpenTimeout:   cfg.OpenTimeout,
		HalfOpenCalls: cfg.HalfOpenCalls,
		IsFailure: func(err error) bool {
			return errors.Is(err, ErrProductUnavailable) ||
				errors.Is(err, ErrInvalidProductPayload)
		},
		OnStateChange: func(name string, from, to breaker.State) {
			m.BreakerState(name, int(to))
			m.BreakerTransition(name, to.String())
		},
	})
}

type OrderService struct {
	store         OrderStore
	products      *ProductClient
	users         *UserClient
	breaker       *breaker.Breaker
	lookupTimeout time.Duration
	metrics       *metrics.Metrics
}

func NewOrderService(store OrderStore, products *ProductClient, users *UserClient, b *breaker.Breaker, lookupTimeout time.Duration, m *metrics.Metrics) *OrderService {
	if lookupTimeout <= 0 {
		lookupTimeout = 2 * time.Second
	}
	return &OrderService{
		store:         store,
		products:      products,
		users:         users,
		breaker:       b,
		lookupTimeout: lookupTimeout,
		metrics:       m,
	}
}

// Create prices the order against a live product lookup and persists
// it. The lookup must succeed before anything is written: every failure
// path leaves zero rows behind and is never retried here.
func (s *OrderService) Create(ctx context.Context, userID, productID string, quantity int) (model.Order, error) {
	var info ProductInfo
	err := s.breaker.Do(func() error {
		lctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()

		var ferr error
		info, ferr = s.products.Fetch(lctx, productID)
		return ferr
	})
	if err != nil {
		if errors.Is(err, breaker.ErrOpen) {
			err = fmt.Errorf("%w: %w", ErrProductUnavailable, err)
		}
		s.metrics.OrderFailed(failureReason(err))
		slog.Warn("order creation failed on product lookup",
			"product_id", productID, "error", err)
		return model.Order{}, err
	}

	order := model.Order{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalCents: info.PriceCents * int64(quantity),
		Status:     model.OrderStatusPending,
	}

	saved, err := s.store.Save(ctx, order)
	if err != nil {
		s.metrics.OrderFailed("store")
		return model.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.metrics.OrderCreated()
	slog.Info("order created",
		"order_id", saved.ID, "user_id", userID, "product_id", productID,
		"quantity", quantity, "total_cents", saved.TotalCents)
	return saved, nil
}

// GetEnriched returns the order decorated with display names. A missing
// order is the only failure; downstream health can only degrade the
// names to the Unknown sentinel, never the read itself.
func (s *OrderService) GetEnriched(ctx context.Context, id string) (model.EnrichedOrder, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.EnrichedOrder{}, err
	}
	return s.enrich(ctx, order), nil
}

// ListEnriched pages through orders, enriching each row with the same
// policy as single reads.
func (s *OrderService) ListEnriched(ctx context.Context, page, size int) (model.Page[model.EnrichedOrder], error) {
	orders, total, err := s.store.List(ctx, size, page*size)
	if err != nil {
		return model.Page[model.EnrichedOrder]{}, fmt.Errorf("list orders: %w", err)
	}

	views := make([]model.EnrichedOrder, 0, len(orders))
	for _, order := range orders {
		views = append(views, s.enrich(ctx, order))
	}

	return model.Page[model.EnrichedOrder]{
		Content:       views,
		Page:          page,
		Size:          size,
		TotalElements: total,
	}, nil
}

// Delete removes the order unconditionally; deleting an unknown id is
// not an error.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	slog.Info("order deleted", "order_id", id)
	return nil
}

// enrich issues the two name lookups concurrently, each on its own
// timeout budget, so one slow dependency cannot eat the other's. Either
// failure is absorbed into the Unknown sentinel.
func (s *OrderService) enrich(ctx context.Context, order model.Order) model.EnrichedOrder {
	userName := model.UnknownName
	productName := model.UnknownName

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		lctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()

		name, err := s.users.LookupName(lctx, order.UserID)
		if err != nil {
			s.metrics.LookupDegraded("userName")
			slog.Debug("user name lookup degraded",
				"order_id", order.ID, "user_id", order.UserID, "error", err)
			return
		}
		userName = name
	}()

	go func() {
		defer wg.Done()
		lctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()

		name, err := s.products.LookupName(lctx, order.ProductID)
		if err != nil {
			s.metrics.LookupDegraded("productName")
			slog.Debug("product name lookup degraded",
				"order_id", order.ID, "product_id", order.ProductID, "error", err)
			return
		}
		productName = name
	}()

	wg.Wait()

	return model.EnrichedOrder{
		ID:          order.ID,
		UserID:      order.UserID,
		UserName:    userName,
		ProductID:   order.ProductID,
		ProductName: productName,
		Quantity:    order.Quantity,
		TotalCents:  order.TotalCents,
		Status:      order.Status,
		OrderDate:   order.OrderDate,
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, breaker.ErrOpen):
		return "breaker_open"
	case errors.Is(err, model.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrInvalidProductPayload):
		return "invalid_payload"
	case errors.Is(err, ErrProductUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
