package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// PaymentUsecase runs the receipt review workflow of manual-transfer orders. It only
// touches the payment axis; fulfillment is left to OrderUsecase.
type PaymentUsecase struct {
	orderRepo   domain.OrderRepository
	receiptRepo domain.ReceiptRepository
	txManager   domain.TransactionManager
}

func NewPaymentUsecase(orderRepo domain.OrderRepository, receiptRepo domain.ReceiptRepository, txManager domain.TransactionManager) *PaymentUsecase {
	return &PaymentUsecase{
		orderRepo:   orderRepo,
		receiptRepo: receiptRepo,
		txManager:   txManager,
	}
}

type SubmitReceiptReq struct {
	OrderID       string `json:"orderId"`
	ReceiptImage  string `json:"receiptImage"`
	PaymentMethod string `json:"paymentMethod"`
}

// currentReceipt returns nil without error when the order has no receipt yet.
func (u *PaymentUsecase) currentReceipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	r, err := u.receiptRepo.GetCurrent(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

// SubmitReceipt attaches a new pending receipt to a manual-transfer order. A pending
// receipt is superseded; a rejected one sends the payment back to pending review.
// Once a receipt is verified the order accepts no further uploads.
func (u *PaymentUsecase) SubmitReceipt(ctx context.Context, user *domain.User, req SubmitReceiptReq) (*domain.Receipt, error) {
	const op = "submit receipt"

	imageRef := strings.TrimSpace(req.ReceiptImage)
	if imageRef == "" {
		return nil, domain.ValidationError(op, "receipt image is required")
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	order, err := u.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && order.UserID != user.ID {
		return nil, domain.ForbiddenError(op, "order %s belongs to another customer", order.ID)
	}
	if !order.PaymentMethod.IsManual() {
		return nil, domain.ValidationError(op, "order %s is paid by %s and takes no receipt", order.ID, order.PaymentMethod)
	}
	if method != order.PaymentMethod {
		return nil, domain.ValidationError(op, "order %s was placed with %s, not %s", order.ID, order.PaymentMethod, method)
	}

	current, err := u.currentReceipt(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentCompleted ||
		(current != nil && current.VerificationStatus == domain.VerificationVerified) {
		return nil, domain.TransitionError(op, "payment for order %s is already verified", order.ID)
	}

	receipt := &domain.Receipt{
		ID:                 utils.GenerateUUID(),
		OrderID:            order.ID,
		ImageURL:           imageRef,
		PaymentMethod:      method,
		UploadDate:         time.Now(),
		VerificationStatus: domain.VerificationPending,
		IsCurrent:          true,
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.receiptRepo.Create(txCtx, receipt); err != nil {
			return err
		}
		if order.PaymentStatus != domain.PaymentPending {
			if err := u.orderRepo.UpdatePaymentStatus(txCtx, order.ID, domain.PaymentPending); err != nil {
				return err
			}
		}
		reason := "Receipt submitted"
		if current != nil {
			reason = "Receipt resubmitted"
		}
		prev := string(order.PaymentStatus)
		return appendHistory(txCtx, u.orderRepo, order.ID, domain.HistoryAxisPayment, &prev, string(domain.PaymentPending), &reason, user.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("order_id", order.ID).
		Str("receipt_id", receipt.ID).
		Bool("resubmission", current != nil).
		Msg("Receipt submitted")
	return receipt, nil
}

// VerifyPayment accepts the order's pending receipt and completes the payment.
func (u *PaymentUsecase) VerifyPayment(ctx context.Context, orderID, note, actorID string) (*domain.Order, error) {
	var notes *string
	if n := strings.TrimSpace(note); n != "" {
		notes = &n
	}
	return u.review(ctx, "verify payment", orderID, domain.VerificationVerified, domain.PaymentCompleted, notes, actorID)
}

// RejectPayment refuses the order's pending receipt. The reason is mandatory and is
// stored as the receipt's admin notes. Fulfillment is not touched.
func (u *PaymentUsecase) RejectPayment(ctx context.Context, orderID, reason, actorID string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ValidationError("reject payment", "a rejection reason is required")
	}
	return u.review(ctx, "reject payment", orderID, domain.VerificationRejected, domain.PaymentRejected, &reason, actorID)
}

func (u *PaymentUsecase) review(ctx context.Context, op, orderID string, verdict domain.VerificationStatus, payment domain.PaymentStatus, notes *string, actorID string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	receipt, err := u.receiptRepo.GetCurrent(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if receipt.VerificationStatus != domain.VerificationPending {
		return nil, domain.TransitionError(op, "receipt is %s", receipt.VerificationStatus)
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.receiptRepo.Review(txCtx, receipt.ID, verdict, notes, actorID); err != nil {
			return err
		}
		if err := u.orderRepo.UpdatePaymentStatus(txCtx, orderID, payment); err != nil {
			return err
		}
		prev := string(order.PaymentStatus)
		return appendHistory(txCtx, u.orderRepo, orderID, domain.HistoryAxisPayment, &prev, string(payment), notes, actorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Transition(ctx, domain.HistoryAxisPayment, orderID, string(order.PaymentStatus), string(payment), actorID)
	return u.orderRepo.GetByID(ctx, orderID)
}

// ListReceipts returns every receipt ever uploaded for the order, newest first.
func (u *PaymentUsecase) ListReceipts(ctx context.Context, orderID string) ([]domain.Receipt, error) {
	if _, err := u.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return u.receiptRepo.ListByOrder(ctx, orderID)
}
