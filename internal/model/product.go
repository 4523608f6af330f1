package model

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"-"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Price float64 `json:"price"`
		Alias
	}{
		Price: DecimalFromCents(p.PriceCents),
		Alias: (Alias)(p),
	})
}
