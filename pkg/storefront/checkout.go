package storefront

import (
	"context"
	"net/mail"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

type orderAPI interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error)
}

type CheckoutRequest struct {
	Address       domain.AddressData
	PaymentMethod domain.PaymentMethod
	Card          *CardDetails // card payments only
}

type CheckoutResult struct {
	Order *domain.Order
	// Declined is set when the card was refused. No order exists in that case.
	Declined      bool
	DeclineReason string
	// NeedsReceipt tells the caller to continue with a transfer receipt upload.
	NeedsReceipt bool
}

// Checkout turns the session's cart into an order.
type Checkout struct {
	cart   *Cart
	orders orderAPI
	cards  *CardProcessor
}

func NewCheckout(cart *Cart, orders orderAPI, cards *CardProcessor) *Checkout {
	return &Checkout{cart: cart, orders: orders, cards: cards}
}

func validateCheckoutAddress(a domain.AddressData) error {
	const op = "checkout"
	required := map[string]string{
		"name":       a.Name,
		"email":      a.Email,
		"address":    a.Address,
		"city":       a.City,
		"state":      a.State,
		"postalCode": a.PostalCode,
		"phone":      a.Phone,
	}
	var missing []string
	for _, field := range []string{"name", "email", "address", "city", "state", "postalCode", "phone"} {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
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

// Submit validates the request, charges the card when paying by card, creates the
// order and empties the cart. Nothing is written when validation fails or the card
// is declined.
func (c *Checkout) Submit(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	const op = "checkout"

	if err := validateCheckoutAddress(req.Address); err != nil {
		return nil, err
	}
	method, err := domain.ParsePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return nil, err
	}
	lines := c.cart.Lines()
	if len(lines) == 0 {
		return nil, domain.ValidationError(op, "cart is empty")
	}
	total := c.cart.Subtotal()

	order := OrderRequest{
		AddressData:   req.Address,
		PaymentMethod: string(method),
		CartItems:     lines,
		TotalAmount:   total,
	}

	if method == domain.PaymentMethodCard {
		if req.Card == nil {
			return nil, domain.ValidationError(op, "card details are required")
		}
		charge, err := c.cards.Charge(ctx, *req.Card, total)
		if err != nil {
			return nil, err
		}
		if !charge.Approved {
			return &CheckoutResult{Declined: true, DeclineReason: charge.DeclineReason}, nil
		}
		paidAt := charge.PaymentDate
		order.TransactionID = &charge.TransactionID
		order.PaymentDate = &paidAt
	}

	created, err := c.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := c.cart.Clear(); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("order_id", created.ID).Msg("Order placed but cart could not be cleared")
	}
	return &CheckoutResult{Order: created, NeedsReceipt: method.IsManual()}, nil
}
