package postgres

import (
	"context"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) domain.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DailySales(ctx context.Context, window domain.StatsRange) ([]domain.DailySales, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND fulfillment_status <> 'cancelled'
		GROUP BY day
		ORDER BY day`, window.Start, window.End)
	if err != nil {
		return nil, domain.UpstreamError("daily sales", err)
	}
	defer rows.Close()

	out := []domain.DailySales{}
	for rows.Next() {
		var d domain.DailySales
		var revenue pgtype.Numeric
		if err := rows.Scan(&d.Day, &d.Orders, &revenue); err != nil {
			return nil, domain.UpstreamError("daily sales", err)
		}
		d.Revenue = numericToFloat64(revenue)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("daily sales", err)
	}
	return out, nil
}

func (r *statsRepository) PaymentSummary(ctx context.Context, window domain.StatsRange) ([]domain.PaymentSummary, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT payment_method, payment_status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY payment_method, payment_status
		ORDER BY payment_method, payment_status`, window.Start, window.End)
	if err != nil {
		return nil, domain.UpstreamError("payment summary", err)
	}
	defer rows.Close()

	out := []domain.PaymentSummary{}
	for rows.Next() {
		var s domain.PaymentSummary
		var method, status string
		var amount pgtype.Numeric
		if err := rows.Scan(&method, &status, &s.Orders, &amount); err != nil {
			return nil, domain.UpstreamError("payment summary", err)
		}
		s.Method = domain.PaymentMethod(method)
		s.Status = domain.PaymentStatus(status)
		s.Amount = numericToFloat64(amount)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("payment summary", err)
	}
	return out, nil
}

// TopSellingProducts unnests the item snapshots stored with each order, so renamed or
// deleted products still report under the name they were sold with.
func (r *statsRepository) TopSellingProducts(ctx context.Context, window domain.StatsRange, limit int) ([]domain.TopProduct, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT (item->>'productId')::BIGINT AS product_id,
			MAX(item->>'name') AS name,
			SUM((item->>'quantity')::BIGINT) AS quantity,
			SUM((item->>'quantity')::NUMERIC * (item->>'price')::NUMERIC) AS revenue
		FROM orders o, jsonb_array_elements(o.items) AS item
		WHERE o.created_at >= $1 AND o.created_at < $2 AND o.fulfillment_status <> 'cancelled'
		GROUP BY product_id
		ORDER BY quantity DESC, product_id
		LIMIT $3`, window.Start, window.End, limit)
	if err != nil {
		return nil, domain.UpstreamError("top selling products", err)
	}
	defer rows.Close()

	out := []domain.TopProduct{}
	for rows.Next() {
		var p domain.TopProduct
		var revenue pgtype.Numeric
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &revenue); err != nil {
			return nil, domain.UpstreamError("top selling products", err)
		}
		p.Revenue = numericToFloat64(revenue)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("top selling products", err)
	}
	return out, nil
}
