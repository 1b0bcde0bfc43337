package domain

import (
	"context"
	"time"
)

// Receipt is an uploaded proof of a manual transfer. Only the current receipt of an
// order drives the payment workflow; superseded ones are kept for the audit trail.
type Receipt struct {
	ID                 string             `json:"id"`
	OrderID            string             `json:"orderId"`
	ImageURL           string             `json:"imageUrl"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod"`
	UploadDate         time.Time          `json:"uploadDate"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	AdminNotes         *string            `json:"adminNotes,omitempty"`
	ReviewedBy         *string            `json:"reviewedBy,omitempty"`
	ReviewedAt         *time.Time         `json:"reviewedAt,omitempty"`
	IsCurrent          bool               `json:"isCurrent"`
}

type ReceiptRepository interface {
	// Create stores r as the current receipt and demotes any previous current receipt.
	Create(ctx context.Context, r *Receipt) error
	GetCurrent(ctx context.Context, orderID string) (*Receipt, error)
	ListByOrder(ctx context.Context, orderID string) ([]Receipt, error)
	// Review moves a pending receipt to status. It fails with ErrInvalidTransition when the
	// receipt is no longer pending, which guards concurrent reviewers.
	Review(ctx context.Context, id string, status VerificationStatus, notes *string, reviewer string) error
}

// FileStore is the opaque object store: store bytes, get back a URL.
type FileStore interface {
	UploadBuffer(ctx context.Context, data []byte, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
