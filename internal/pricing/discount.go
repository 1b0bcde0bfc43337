package pricing

import (
	"math"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// ApplyDiscount prices p at pct percent off. The basis is always the undiscounted price,
// so reapplying a different percentage never compounds. The sale price is rounded half
// away from zero to whole cents, matching the NUMERIC(12,2) price column.
func ApplyDiscount(p *domain.Product, pct float64) error {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return domain.ValidationError("apply discount", "percentage must be between 0 and 100, got %v", pct)
	}

	basis := p.Price
	if p.Discount.Active && p.OriginalPrice != nil {
		basis = *p.OriginalPrice
	}

	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
	discounted := decimal.NewFromFloat(basis).Mul(factor).Round(2)

	p.OriginalPrice = &basis
	p.Price = discounted.InexactFloat64()
	p.Discount = domain.Discount{Active: true, Percentage: pct}
	return nil
}

// RemoveDiscount restores the undiscounted price and clears the discount fields.
func RemoveDiscount(p *domain.Product) error {
	if !p.Discount.Active {
		return domain.TransitionError("remove discount", "product %d has no active discount", p.ID)
	}
	if p.OriginalPrice != nil {
		p.Price = *p.OriginalPrice
	}
	p.OriginalPrice = nil
	p.Discount = domain.Discount{}
	return nil
}

// Normalize repairs a product record before it is written: missing sizes get the
// placeholder, duplicate or blank labels are dropped, an unknown currency falls back
// to base, and OriginalPrice is kept only while a discount is active.
func (c *Converter) Normalize(p *domain.Product, base string) {
	seen := make(map[string]bool, len(p.Sizes))
	sizes := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		sizes = append(sizes, s)
	}
	if len(sizes) == 0 {
		sizes = []string{domain.DefaultSize}
	}
	p.Sizes = sizes

	if cur, err := c.Lookup(p.Currency); err == nil {
		p.Currency = cur.Code
	} else {
		p.Currency = base
	}

	if !p.Discount.Active {
		p.OriginalPrice = nil
		p.Discount.Percentage = 0
	}
}
