package postgres

import (
	"context"
	"fmt"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, category, description, price, original_price, discount_active,
	discount_percentage, currency, sizes, images, rating, created_at, updated_at`

// --- Mappers ---

// productScanner holds the pgtype intermediates for one product row.
type productScanner struct {
	p                            domain.Product
	price, original, pct, rating pgtype.Numeric
}

func (s *productScanner) dest() []any {
	return []any{&s.p.ID, &s.p.Name, &s.p.Category, &s.p.Description, &s.price, &s.original,
		&s.p.Discount.Active, &s.pct, &s.p.Currency, &s.p.Sizes, &s.p.Images, &s.rating,
		&s.p.CreatedAt, &s.p.UpdatedAt}
}

func (s *productScanner) product() domain.Product {
	p := s.p
	p.Price = numericToFloat64(s.price)
	p.OriginalPrice = numericToFloat64Ptr(s.original)
	p.Discount.Percentage = numericToFloat64(s.pct)
	p.Rating = numericToFloat64(s.rating)
	p.IsStatic = domain.IsStaticProduct(p.ID)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var s productScanner
	if err := row.Scan(s.dest()...); err != nil {
		return domain.Product{}, err
	}
	return s.product(), nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// productWhere builds the WHERE clause for a listing filter.
func productWhere(filter domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.OnSale != nil {
		args = append(args, *filter.OnSale)
		conds = append(conds, fmt.Sprintf("discount_active = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *productRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	db := conn(ctx, r.db)
	where, args := productWhere(filter)

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.UpstreamError("count products", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY id LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)-1, len(args))

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.UpstreamError("list products", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, domain.UpstreamError("list products", err)
	}
	return products, total, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := conn(ctx, r.db).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapErr("get product", err, "product %d not found", id)
	}
	return &p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO products (name, category, description, price, original_price, discount_active,
			discount_percentage, currency, sizes, images, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Category, p.Description, float64ToNumeric(p.Price), float64PtrToNumeric(p.OriginalPrice),
		p.Discount.Active, float64ToNumeric(p.Discount.Percentage), p.Currency, p.Sizes, p.Images,
		float64ToNumeric(p.Rating),
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.UpstreamError("create product", err)
	}
	p.IsStatic = domain.IsStaticProduct(p.ID)
	return nil
}

// UpdateProduct rewrites every mutable column of p.
func (r *productRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE products SET
			name = $2, category = $3, description = $4, price = $5, original_price = $6,
			discount_active = $7, discount_percentage = $8, currency = $9, sizes = $10,
			images = $11, rating = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Category, p.Description, float64ToNumeric(p.Price), float64PtrToNumeric(p.OriginalPrice),
		p.Discount.Active, float64ToNumeric(p.Discount.Percentage), p.Currency, p.Sizes, p.Images,
		float64ToNumeric(p.Rating),
	).Scan(&p.UpdatedAt)
	return mapErr("update product", err, "product %d not found", p.ID)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return domain.UpstreamError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("delete product", "product %d not found", id)
	}
	return nil
}

func (r *productRepository) GetDiscountedProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := conn(ctx, r.db).Query(ctx, "SELECT "+productColumns+" FROM products WHERE discount_active ORDER BY id")
	if err != nil {
		return nil, domain.UpstreamError("list discounted products", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, domain.UpstreamError("list discounted products", err)
	}
	return products, nil
}
