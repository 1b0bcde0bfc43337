package domain

import (
	"context"
	"time"
)

// DailySales aggregates non-cancelled orders placed on one UTC day.
type DailySales struct {
	Day     time.Time `json:"day"`
	Orders  int64     `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// PaymentSummary groups orders by method and payment status.
type PaymentSummary struct {
	Method PaymentMethod `json:"paymentMethod"`
	Status PaymentStatus `json:"paymentStatus"`
	Orders int64         `json:"orders"`
	Amount float64       `json:"amount"`
}

type TopProduct struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// StatsRange is a half-open window [Start, End).
type StatsRange struct {
	Start time.Time
	End   time.Time
}

type StatsRepository interface {
	DailySales(ctx context.Context, window StatsRange) ([]DailySales, error)
	PaymentSummary(ctx context.Context, window StatsRange) ([]PaymentSummary, error)
	TopSellingProducts(ctx context.Context, window StatsRange, limit int) ([]TopProduct, error)
}
