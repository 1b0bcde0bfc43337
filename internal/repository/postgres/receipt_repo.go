package postgres

import (
	"context"
	"time"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type receiptRepository struct {
	db *pgxpool.Pool
}

func NewReceiptRepository(db *pgxpool.Pool) domain.ReceiptRepository {
	return &receiptRepository{db: db}
}

const receiptColumns = `id, order_id, image_url, payment_method, upload_date, verification_status,
	admin_notes, reviewed_by, reviewed_at, is_current`

func scanReceipt(row pgx.Row) (domain.Receipt, error) {
	var (
		rc              domain.Receipt
		id, orderID     pgtype.UUID
		method, status  string
		notes, reviewer pgtype.Text
		reviewedAt      pgtype.Timestamptz
	)
	err := row.Scan(&id, &orderID, &rc.ImageURL, &method, &rc.UploadDate, &status, &notes, &reviewer, &reviewedAt, &rc.IsCurrent)
	if err != nil {
		return rc, err
	}
	rc.ID = uuidToString(id)
	rc.OrderID = uuidToString(orderID)
	rc.PaymentMethod = domain.PaymentMethod(method)
	rc.VerificationStatus = domain.VerificationStatus(status)
	rc.AdminNotes = textPtr(notes)
	rc.ReviewedBy = textPtr(reviewer)
	rc.ReviewedAt = timePtr(reviewedAt)
	return rc, nil
}

// Create demotes the order's current receipt and inserts rc as the new current one.
// Callers run it inside a transaction.
func (r *receiptRepository) Create(ctx context.Context, rc *domain.Receipt) error {
	db := conn(ctx, r.db)
	orderID := stringToUUID(rc.OrderID)

	if _, err := db.Exec(ctx,
		"UPDATE receipts SET is_current = FALSE WHERE order_id = $1 AND is_current", orderID); err != nil {
		return domain.UpstreamError("create receipt", err)
	}

	if rc.UploadDate.IsZero() {
		rc.UploadDate = time.Now()
	}
	rc.IsCurrent = true
	_, err := db.Exec(ctx, `
		INSERT INTO receipts (id, order_id, image_url, payment_method, upload_date, verification_status, is_current)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		stringToUUID(rc.ID), orderID, rc.ImageURL, string(rc.PaymentMethod), rc.UploadDate, string(rc.VerificationStatus),
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return domain.NotFoundError("create receipt", "order %s not found", rc.OrderID)
		}
		return domain.UpstreamError("create receipt", err)
	}
	return nil
}

func (r *receiptRepository) GetCurrent(ctx context.Context, orderID string) (*domain.Receipt, error) {
	row := conn(ctx, r.db).QueryRow(ctx,
		"SELECT "+receiptColumns+" FROM receipts WHERE order_id = $1 AND is_current", stringToUUID(orderID))
	rc, err := scanReceipt(row)
	if err != nil {
		return nil, mapErr("get receipt", err, "order %s has no receipt", orderID)
	}
	return &rc, nil
}

func (r *receiptRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Receipt, error) {
	rows, err := conn(ctx, r.db).Query(ctx,
		"SELECT "+receiptColumns+" FROM receipts WHERE order_id = $1 ORDER BY upload_date DESC", stringToUUID(orderID))
	if err != nil {
		return nil, domain.UpstreamError("list receipts", err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, domain.UpstreamError("list receipts", err)
		}
		receipts = append(receipts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UpstreamError("list receipts", err)
	}
	return receipts, nil
}

// Review resolves a pending current receipt. The status guard is part of the UPDATE so
// two reviewers racing on one receipt cannot both succeed.
func (r *receiptRepository) Review(ctx context.Context, id string, status domain.VerificationStatus, notes *string, reviewer string) error {
	db := conn(ctx, r.db)
	uid := stringToUUID(id)

	tag, err := db.Exec(ctx, `
		UPDATE receipts
		SET verification_status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = NOW()
		WHERE id = $1 AND is_current AND verification_status = 'pending'`,
		uid, string(status), ptrToText(notes), reviewer,
	)
	if err != nil {
		return domain.UpstreamError("review receipt", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = db.QueryRow(ctx, "SELECT verification_status FROM receipts WHERE id = $1", uid).Scan(&current)
	if err != nil {
		return mapErr("review receipt", err, "receipt %s not found", id)
	}
	return domain.TransitionError("review receipt", "receipt is %s", current)
}
