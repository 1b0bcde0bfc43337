package domain

// FulfillmentStatus is the shipping/delivery axis of an order.
type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "pending"
	FulfillmentProcessing FulfillmentStatus = "processing"
	FulfillmentShipped    FulfillmentStatus = "shipped"
	FulfillmentInTransit  FulfillmentStatus = "in_transit"
	FulfillmentDelivered  FulfillmentStatus = "delivered"
	FulfillmentCompleted  FulfillmentStatus = "completed"
	FulfillmentCancelled  FulfillmentStatus = "cancelled"
)

var FulfillmentStatuses = []FulfillmentStatus{
	FulfillmentPending,
	FulfillmentProcessing,
	FulfillmentShipped,
	FulfillmentInTransit,
	FulfillmentDelivered,
	FulfillmentCompleted,
	FulfillmentCancelled,
}

func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	for _, st := range FulfillmentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ValidationError("parse fulfillment status", "unknown fulfillment status %q", s)
}

func (s FulfillmentStatus) IsTerminal() bool {
	return s == FulfillmentCompleted || s == FulfillmentCancelled
}

// Transition returns the status an order moves to when an admin targets next.
// Admins correct orders by hand, so every known target is accepted from every state,
// terminal ones included. Only unknown targets fail.
func (s FulfillmentStatus) Transition(next FulfillmentStatus) (FulfillmentStatus, error) {
	if _, err := ParseFulfillmentStatus(string(next)); err != nil {
		return s, err
	}
	return next, nil
}

// PaymentStatus is the payment axis of an order, independent of fulfillment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRejected  PaymentStatus = "rejected"
)

var PaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentCompleted,
	PaymentRejected,
}

type PaymentMethod string

const (
	PaymentMethodCard      PaymentMethod = "card"
	PaymentMethodJazzCash  PaymentMethod = "jazzcash"
	PaymentMethodEasyPaisa PaymentMethod = "easypaisa"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodJazzCash,
	PaymentMethodEasyPaisa,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ValidationError("parse payment method", "unknown payment method %q", s)
}

// IsManual reports whether the method needs an uploaded transfer receipt.
func (m PaymentMethod) IsManual() bool {
	return m == PaymentMethodJazzCash || m == PaymentMethodEasyPaisa
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ResetDiscountsConfirmToken must be echoed back to reset every discount in the catalog.
const ResetDiscountsConfirmToken = "RESET_ALL_DISCOUNTS"

const RoleAdmin = "admin"
