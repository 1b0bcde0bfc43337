package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

type OrderUsecase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	txManager   domain.TransactionManager
	cfg         *config.Config
}

func NewOrderUsecase(repo domain.OrderRepository, pRepo domain.ProductRepository, txManager domain.TransactionManager, cfg *config.Config) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   repo,
		productRepo: pRepo,
		txManager:   txManager,
		cfg:         cfg,
	}
}

type CreateOrderReq struct {
	AddressData   domain.AddressData `json:"addressData"`
	PaymentMethod string             `json:"paymentMethod"`
	CartItems     []domain.CartLine  `json:"cartItems"`
	TotalAmount   float64            `json:"totalAmount"`
	TransactionID *string            `json:"transactionId,omitempty"`
	PaymentDate   *time.Time         `json:"paymentDate,omitempty"`
}

func validateAddress(op string, a *domain.AddressData) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"name", &a.Name},
		{"email", &a.Email},
		{"address", &a.Address},
		{"city", &a.City},
		{"state", &a.State},
		{"postalCode", &a.PostalCode},
		{"phone", &a.Phone},
	}
	var missing []string
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.ValidationError(op, "missing address fields: %s", strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return domain.ValidationError(op, "invalid email %q", a.Email)
	}
	return nil
}

func validateLines(op string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return domain.ValidationError(op, "cart is empty")
	}
	for i, l := range lines {
		switch {
		case l.ProductID <= 0:
			return domain.ValidationError(op, "item %d has no product", i)
		case l.Quantity < 1:
			return domain.ValidationError(op, "item %d has quantity %d", i, l.Quantity)
		case l.Price < 0:
			return domain.ValidationError(op, "item %d has a negative price", i)
		}
		for j := 0; j < i; j++ {
			if lines[j].SameKey(l.ProductID, l.Size) {
				return domain.ValidationError(op, "item %d duplicates item %d", i, j)
			}
		}
	}
	return nil
}

// CreateOrder persists a cart snapshot as a new order. Both status axes start at pending;
// card orders must carry the result of the charge that preceded them.
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID string, req CreateOrderReq) (*domain.Order, error) {
	const op = "create order"

	if err := validateAddress(op, &req.AddressData); err != nil {
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := validateLines(op, req.CartItems); err != nil {
		return nil, err
	}
	subtotal := pricing.Subtotal(req.CartItems)
	if !pricing.SameAmount(subtotal, req.TotalAmount) {
		return nil, domain.ValidationError(op, "total %.2f does not match items %.2f", req.TotalAmount, subtotal)
	}

	order := &domain.Order{
		ID:                utils.GenerateUUID(),
		UserID:            userID,
		Items:             req.CartItems,
		AddressData:       req.AddressData,
		PaymentMethod:     method,
		TotalAmount:       subtotal,
		FulfillmentStatus: domain.FulfillmentPending,
		PaymentStatus:     domain.PaymentPending,
	}

	if method == domain.PaymentMethodCard {
		if req.TransactionID == nil || strings.TrimSpace(*req.TransactionID) == "" || req.PaymentDate == nil {
			return nil, domain.ValidationError(op, "card orders need a transaction id and payment date")
		}
		order.TransactionID = req.TransactionID
		order.PaymentDate = req.PaymentDate
		if u.cfg.CardAutoVerify {
			order.PaymentStatus = domain.PaymentCompleted
		}
	}

	seen := make(map[int64]bool, len(req.CartItems))
	for _, item := range req.CartItems {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if _, err := u.productRepo.GetProductByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		reason := "Order placed"
		if err := u.recordHistory(txCtx, order.ID, domain.HistoryAxisFulfillment, nil, string(order.FulfillmentStatus), &reason, userID); err != nil {
			return err
		}
		return u.recordHistory(txCtx, order.ID, domain.HistoryAxisPayment, nil, string(order.PaymentStatus), &reason, userID)
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("order_id", order.ID).
		Str("payment_method", string(method)).
		Float64("total", order.TotalAmount).
		Int("items", len(order.Items)).
		Msg("Order created")
	return order, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return u.orderRepo.GetByID(ctx, id)
}

// GetOrderForUser returns the order to its owner or to an admin.
func (u *OrderUsecase) GetOrderForUser(ctx context.Context, user *domain.User, id string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && order.UserID != user.ID {
		return nil, domain.ForbiddenError("get order", "order %s belongs to another customer", id)
	}
	return order, nil
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return u.orderRepo.GetByUserID(ctx, userID)
}

// --- Admin Usecase ---

func (u *OrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, domain.Pagination, error) {
	const op = "list orders"
	if filter.FulfillmentStatus != "" {
		if _, err := domain.ParseFulfillmentStatus(filter.FulfillmentStatus); err != nil {
			return nil, domain.Pagination{}, err
		}
	}
	if filter.PaymentStatus != "" && !validPaymentStatus(filter.PaymentStatus) {
		return nil, domain.Pagination{}, domain.ValidationError(op, "unknown payment status %q", filter.PaymentStatus)
	}
	if filter.PaymentMethod != "" {
		if _, err := domain.ParsePaymentMethod(filter.PaymentMethod); err != nil {
			return nil, domain.Pagination{}, err
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	orders, total, err := u.orderRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orders, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func validPaymentStatus(s string) bool {
	for _, st := range domain.PaymentStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// UpdateFulfillmentStatus moves the order to status. The machine is permissive, so any
// known status is accepted from any state; setting the current status again is a no-op.
// The returned order is always read back from the store.
func (u *OrderUsecase) UpdateFulfillmentStatus(ctx context.Context, orderID, status, note, actorID string) (*domain.Order, error) {
	target, err := domain.ParseFulfillmentStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	current := order.FulfillmentStatus
	next, err := current.Transition(target)
	if err != nil {
		return nil, err
	}
	if next == current {
		return order, nil
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.UpdateFulfillmentStatus(txCtx, orderID, next); err != nil {
			return err
		}
		reason := strings.TrimSpace(note)
		if reason == "" {
			reason = fmt.Sprintf("Status changed from %s to %s", current, next)
		}
		prev := string(current)
		return u.recordHistory(txCtx, orderID, domain.HistoryAxisFulfillment, &prev, string(next), &reason, actorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Transition(ctx, domain.HistoryAxisFulfillment, orderID, string(current), string(next), actorID)
	return u.orderRepo.GetByID(ctx, orderID)
}

// GetOrderHistory retrieves the history logs for an order
func (u *OrderUsecase) GetOrderHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	if _, err := u.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return u.orderRepo.GetOrderHistory(ctx, orderID)
}

func (u *OrderUsecase) recordHistory(ctx context.Context, orderID, axis string, prev *string, next string, reason *string, actorID string) error {
	return appendHistory(ctx, u.orderRepo, orderID, axis, prev, next, reason, actorID)
}

func appendHistory(ctx context.Context, repo domain.OrderRepository, orderID, axis string, prev *string, next string, reason *string, actorID string) error {
	var createdBy *string
	if actorID != "" {
		createdBy = &actorID
	}
	return repo.CreateOrderHistory(ctx, &domain.OrderHistory{
		ID:             utils.GenerateUUID(),
		OrderID:        orderID,
		Axis:           axis,
		PreviousStatus: prev,
		NewStatus:      next,
		Reason:         reason,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	})
}
