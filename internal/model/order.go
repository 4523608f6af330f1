package model

import (
	"encoding/json"
	"time"
)

const (
	OrderStatusPending = "PENDING"

	// UnknownName is substituted for a display name when the owning
	// service cannot be reached or returns an unusable payload.
	UnknownName = "Unknown"
)

type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Quantity   int       `json:"quantity"`
	TotalCents int64     `json:"-"`
	Status     string    `json:"status"`
	OrderDate  time.Time `json:"orderDate"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		TotalAmount float64 `json:"totalAmount"`
		Alias
	}{
		TotalAmount: DecimalFromCents(o.TotalCents),
		Alias:       (Alias)(o),
	})
}

// EnrichedOrder is the read-path response shape: the persisted order
// decorated with best-effort display names. It is never written back.
type EnrichedOrder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	TotalCents  int64     `json:"-"`
	Status      string    `json:"status"`
	OrderDate   time.Time `json:"orderDate"`
}

func (e EnrichedOrder) MarshalJSON() ([]byte, error) {
	type Alias EnrichedOrder
	return json.Marshal(&struct {
		TotalAmount float64 `json:"totalAmount"`
		Alias
	}{
		TotalAmount: DecimalFromCents(e.TotalCents),
		Alias:       (Alias)(e),
	})
}

// Page mirrors the page envelope the clients already consume.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
}
