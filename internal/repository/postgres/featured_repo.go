package postgres

import (
	"context"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type featuredRepository struct {
	db *pgxpool.Pool
}

func NewFeaturedRepository(db *pgxpool.Pool) domain.FeaturedRepository {
	return &featuredRepository{db: db}
}

func (r *featuredRepository) List(ctx context.Context) ([]domain.FeaturedProduct, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT f.position, f.created_at, p.id, p.name, p.category, p.description, p.price, p.original_price,
			p.discount_active, p.discount_percentage, p.currency, p.sizes, p.images, p.rating,
			p.created_at, p.updated_at
		FROM featured_products f
		JOIN products p ON p.id = f.product_id
		ORDER BY f.position`)
	if err != nil {
		return nil, domain.UpstreamError("list featured", err)
	}
	defer rows.Close()

	featured := []domain.FeaturedProduct{}
	for rows.Next() {
		var f domain.FeaturedProduct
		var product productScanner
		if err := rows.Scan(append([]any{&f.Position, &f.CreatedAt}, product.dest()...)...); err != nil {
			return nil, domain.UpstreamError("list featured", err)
		}
		f.Product = product.product()
		f.ProductID = f.Product.ID
		featured = append(featured, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("list featured", err)
	}
	return featured, nil
}

// Add appends productID to the end of the list. Adding a featured product again is a no-op.
func (r *featuredRepository) Add(ctx context.Context, productID int64) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO featured_products (product_id, position)
		SELECT $1, COALESCE(MAX(position), 0) + 1 FROM featured_products
		ON CONFLICT (product_id) DO NOTHING`, productID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return domain.NotFoundError("add featured", "product %d not found", productID)
		}
		return domain.UpstreamError("add featured", err)
	}
	return nil
}

func (r *featuredRepository) Remove(ctx context.Context, productID int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, "DELETE FROM featured_products WHERE product_id = $1", productID)
	if err != nil {
		return domain.UpstreamError("remove featured", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("remove featured", "product %d is not featured", productID)
	}
	return nil
}
