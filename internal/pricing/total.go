package pricing

import (
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Subtotal is Σ price × quantity over lines, rounded to cents.
func Subtotal(lines []domain.CartLine) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

// SameAmount compares two money values at cent precision.
func SameAmount(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
