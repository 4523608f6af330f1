package model

import "math"

// Money is handled in integer cents everywhere; decimal amounts exist
// only on the JSON wire.

func CentsFromDecimal(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func DecimalFromCents(cents int64) float64 {
	return float64(cents) / 100
}
