package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

// orderSelect joins the current receipt, if any.
const orderSelect = `
	SELECT o.id, o.user_id, o.items, o.address_data, o.payment_method, o.total_amount,
		o.fulfillment_status, o.payment_status, o.transaction_id, o.payment_date, o.created_at, o.updated_at,
		r.id, r.image_url, r.payment_method, r.upload_date, r.verification_status, r.admin_notes,
		r.reviewed_by, r.reviewed_at
	FROM orders o
	LEFT JOIN receipts r ON r.order_id = o.id AND r.is_current`

// --- Mappers ---

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                            domain.Order
		id, rID                      pgtype.UUID
		items, address               []byte
		method, fulfillment, payment string
		total                        pgtype.Numeric
		txID                         pgtype.Text
		paidAt                       pgtype.Timestamptz
		rURL, rMethod, rStatus       pgtype.Text
		rNotes, rReviewer            pgtype.Text
		rUploaded, rReviewedAt       pgtype.Timestamptz
	)
	err := row.Scan(&id, &o.UserID, &items, &address, &method, &total, &fulfillment, &payment, &txID, &paidAt,
		&o.CreatedAt, &o.UpdatedAt, &rID, &rURL, &rMethod, &rUploaded, &rStatus, &rNotes, &rReviewer, &rReviewedAt)
	if err != nil {
		return nil, err
	}

	o.ID = uuidToString(id)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(address, &o.AddressData); err != nil {
		return nil, fmt.Errorf("decode address of order %s: %w", o.ID, err)
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	o.TotalAmount = numericToFloat64(total)
	o.FulfillmentStatus = domain.FulfillmentStatus(fulfillment)
	o.PaymentStatus = domain.PaymentStatus(payment)
	o.TransactionID = textPtr(txID)
	o.PaymentDate = timePtr(paidAt)

	if rID.Valid {
		o.Receipt = &domain.Receipt{
			ID:                 uuidToString(rID),
			OrderID:            o.ID,
			ImageURL:           rURL.String,
			PaymentMethod:      domain.PaymentMethod(rMethod.String),
			UploadDate:         rUploaded.Time,
			VerificationStatus: domain.VerificationStatus(rStatus.String),
			AdminNotes:         textPtr(rNotes),
			ReviewedBy:         textPtr(rReviewer),
			ReviewedAt:         timePtr(rReviewedAt),
			IsCurrent:          true,
		}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// --- Queries ---

func (r *orderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	address, err := json.Marshal(o.AddressData)
	if err != nil {
		return fmt.Errorf("encode order address: %w", err)
	}

	err = conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO orders (id, user_id, items, address_data, payment_method, total_amount,
			fulfillment_status, payment_status, transaction_id, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		stringToUUID(o.ID), o.UserID, items, address, string(o.PaymentMethod), float64ToNumeric(o.TotalAmount),
		string(o.FulfillmentStatus), string(o.PaymentStatus), ptrToText(o.TransactionID), ptrToTimestamptz(o.PaymentDate),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return domain.ValidationError("create order", "order %s already exists", o.ID)
		}
		return domain.UpstreamError("create order", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	uid := stringToUUID(id)
	if !uid.Valid {
		return nil, domain.NotFoundError("get order", "order %s not found", id)
	}
	o, err := scanOrder(conn(ctx, r.db).QueryRow(ctx, orderSelect+" WHERE o.id = $1", uid))
	if err != nil {
		return nil, mapErr("get order", err, "order %s not found", id)
	}
	return o, nil
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := conn(ctx, r.db).Query(ctx, orderSelect+" WHERE o.user_id = $1 ORDER BY o.created_at DESC", userID)
	if err != nil {
		return nil, domain.UpstreamError("list user orders", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domain.UpstreamError("list user orders", err)
	}
	return orders, nil
}

func orderWhere(filter domain.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("o.%s = $%d", column, len(args)))
	}
	add("fulfillment_status", filter.FulfillmentStatus)
	add("payment_status", filter.PaymentStatus)
	add("payment_method", filter.PaymentMethod)
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	db := conn(ctx, r.db)
	where, args := orderWhere(filter)

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM orders o"+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.UpstreamError("count orders", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf("%s%s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", orderSelect, where, len(args)-1, len(args))

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, domain.UpstreamError("list orders", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, domain.UpstreamError("list orders", err)
	}
	return orders, total, nil
}

func (r *orderRepository) updateColumn(ctx context.Context, op, column, id, value string) error {
	uid := stringToUUID(id)
	if !uid.Valid {
		return domain.NotFoundError(op, "order %s not found", id)
	}
	tag, err := conn(ctx, r.db).Exec(ctx,
		fmt.Sprintf("UPDATE orders SET %s = $2, updated_at = NOW() WHERE id = $1", column), uid, value)
	if err != nil {
		return domain.UpstreamError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError(op, "order %s not found", id)
	}
	return nil
}

func (r *orderRepository) UpdateFulfillmentStatus(ctx context.Context, id string, status domain.FulfillmentStatus) error {
	return r.updateColumn(ctx, "update fulfillment status", "fulfillment_status", id, string(status))
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return r.updateColumn(ctx, "update payment status", "payment_status", id, string(status))
}

func (r *orderRepository) CreateOrderHistory(ctx context.Context, h *domain.OrderHistory) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO order_history (id, order_id, axis, previous_status, new_status, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		stringToUUID(h.ID), stringToUUID(h.OrderID), h.Axis, ptrToText(h.PreviousStatus), h.NewStatus,
		ptrToText(h.Reason), ptrToText(h.CreatedBy), h.CreatedAt,
	)
	if err != nil {
		return domain.UpstreamError("create order history", err)
	}
	return nil
}

func (r *orderRepository) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, order_id, axis, previous_status, new_status, reason, created_by, created_at
		FROM order_history WHERE order_id = $1 ORDER BY created_at, id`, stringToUUID(orderID))
	if err != nil {
		return nil, domain.UpstreamError("get order history", err)
	}
	defer rows.Close()

	history := []domain.OrderHistory{}
	for rows.Next() {
		var (
			h                       domain.OrderHistory
			id, oid                 pgtype.UUID
			prev, reason, createdBy pgtype.Text
		)
		if err := rows.Scan(&id, &oid, &h.Axis, &prev, &h.NewStatus, &reason, &createdBy, &h.CreatedAt); err != nil {
			return nil, domain.UpstreamError("get order history", err)
		}
		h.ID = uuidToString(id)
		h.OrderID = uuidToString(oid)
		h.PreviousStatus = textPtr(prev)
		h.Reason = textPtr(reason)
		h.CreatedBy = textPtr(createdBy)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("get order history", err)
	}
	return history, nil
}
