package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page              int
	Limit             int
	FulfillmentStatus string
	PaymentStatus     string
	PaymentMethod     string
}

// --- Cart Entities ---

// CartLine is a product snapshot taken when the line was added. Identity is (ProductID, Size).
type CartLine struct {
	ProductID int64   `json:"productId"`
	Size      *string `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category,omitempty"`
}

// SameKey reports whether the line is identified by productID and size.
func (l CartLine) SameKey(productID int64, size *string) bool {
	if l.ProductID != productID {
		return false
	}
	if l.Size == nil || size == nil {
		return l.Size == nil && size == nil
	}
	return *l.Size == *size
}

// --- Order Entities ---

type AddressData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	Items             []CartLine        `json:"items"`
	AddressData       AddressData       `json:"addressData"`
	PaymentMethod     PaymentMethod     `json:"paymentMethod"`
	TotalAmount       float64           `json:"totalAmount"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus"`
	TransactionID     *string           `json:"transactionId,omitempty"`
	PaymentDate       *time.Time        `json:"paymentDate,omitempty"`
	Receipt           *Receipt          `json:"receipt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type OrderHistory struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	Axis           string    `json:"axis"` // fulfillment or payment
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Reason         *string   `json:"reason"`
	CreatedBy      *string   `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

const (
	HistoryAxisFulfillment = "fulfillment"
	HistoryAxisPayment     = "payment"
)

// --- Interfaces ---

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	UpdateFulfillmentStatus(ctx context.Context, id string, status FulfillmentStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error

	CreateOrderHistory(ctx context.Context, history *OrderHistory) error
	GetOrderHistory(ctx context.Context, orderID string) ([]OrderHistory, error)
}
