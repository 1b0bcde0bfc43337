package postgres

import (
	"context"
	"fmt"

	"storefront-backend/internal/domain"
)

// staticCatalog is the shipped catalog. Ids fall inside domain.StaticRanges.
var staticCatalog = []domain.Product{
	{ID: 1, Name: "Classic Cotton Kurta", Category: "men", Price: 4500, Sizes: []string{"S", "M", "L", "XL"}, Images: []string{"/images/men/kurta-classic.jpg"}, Rating: 4.6},
	{ID: 2, Name: "Embroidered Waistcoat", Category: "men", Price: 6800, Sizes: []string{"M", "L", "XL"}, Images: []string{"/images/men/waistcoat.jpg"}, Rating: 4.4},
	{ID: 3, Name: "Linen Shalwar Kameez", Category: "men", Price: 7200, Sizes: []string{"S", "M", "L"}, Images: []string{"/images/men/linen-sk.jpg"}, Rating: 4.7},
	{ID: 100, Name: "Lawn Three Piece", Category: "women", Price: 8900, Sizes: []string{"S", "M", "L"}, Images: []string{"/images/women/lawn-3pc.jpg"}, Rating: 4.8},
	{ID: 101, Name: "Chiffon Dupatta", Category: "women", Price: 2500, Images: []string{"/images/women/dupatta.jpg"}, Rating: 4.3},
	{ID: 102, Name: "Silk Kurti", Category: "women", Price: 5400, Sizes: []string{"XS", "S", "M", "L"}, Images: []string{"/images/women/silk-kurti.jpg"}, Rating: 4.5},
	{ID: 200, Name: "Kids Festive Kurta", Category: "kids", Price: 3200, Sizes: []string{"2-3Y", "4-5Y", "6-7Y"}, Images: []string{"/images/kids/festive-kurta.jpg"}, Rating: 4.6},
	{ID: 201, Name: "Girls Frock", Category: "kids", Price: 3900, Sizes: []string{"2-3Y", "4-5Y"}, Images: []string{"/images/kids/frock.jpg"}, Rating: 4.2},
	{ID: 300, Name: "Leather Khussa", Category: "accessories", Price: 3500, Sizes: []string{"7", "8", "9", "10"}, Images: []string{"/images/accessories/khussa.jpg"}, Rating: 4.4},
	{ID: 301, Name: "Pashmina Shawl", Category: "accessories", Price: 12500, Images: []string{"/images/accessories/pashmina.jpg"}, Rating: 4.9},
}

// SeedStaticCatalog inserts the shipped products priced in baseCurrency. Existing rows
// are left alone so admin discounts survive restarts.
func SeedStaticCatalog(ctx context.Context, db DBTX, baseCurrency string) (int64, error) {
	var inserted int64
	for _, p := range staticCatalog {
		if !domain.IsStaticProduct(p.ID) {
			return inserted, fmt.Errorf("seed product %d is outside the static ranges", p.ID)
		}
		sizes := p.Sizes
		if len(sizes) == 0 {
			sizes = []string{domain.DefaultSize}
		}
		tag, err := db.Exec(ctx, `
			INSERT INTO products (id, name, category, description, price, currency, sizes, images, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Category, p.Description, float64ToNumeric(p.Price), baseCurrency, sizes, p.Images, float64ToNumeric(p.Rating),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
