package usecase

import (
	"context"
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	orders    *OrderUsecase
	payments  *PaymentUsecase
	orderRepo *fakeOrderRepo
	receipts  *fakeReceiptRepo
}

func newOrderFixture() *orderFixture {
	receipts := &fakeReceiptRepo{}
	orderRepo := newFakeOrderRepo(receipts)
	products := newFakeProductRepo(
		domain.Product{ID: 1, Name: "Classic Kurta", Category: "men", Price: 100, Currency: "PKR"},
		domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 50, Currency: "PKR"},
	)
	tx := &fakeTx{}
	return &orderFixture{
		orders:    NewOrderUsecase(orderRepo, products, tx, testConfig()),
		payments:  NewPaymentUsecase(orderRepo, receipts, tx),
		orderRepo: orderRepo,
		receipts:  receipts,
	}
}

func address() domain.AddressData {
	return domain.AddressData{
		Name:       "Ayesha Khan",
		Email:      "ayesha@example.com",
		Address:    "12 Mall Road",
		City:       "Lahore",
		State:      "Punjab",
		PostalCode: "54000",
		Phone:      "+923001234567",
	}
}

func size(s string) *string { return &s }

// Items totalling 300.00: 2 × 100 + 2 × 50.
func manualOrderReq(method domain.PaymentMethod) CreateOrderReq {
	return CreateOrderReq{
		AddressData:   address(),
		PaymentMethod: string(method),
		CartItems: []domain.CartLine{
			{ProductID: 1, Size: size("M"), Quantity: 2, Price: 100, Name: "Classic Kurta"},
			{ProductID: 1000, Size: size("L"), Quantity: 2, Price: 50, Name: "Printed Shirt"},
		},
		TotalAmount: 300,
	}
}

func TestCreateOrder_ManualTransfer(t *testing.T) {
	f := newOrderFixture()

	order, err := f.orders.CreateOrder(context.Background(), "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.FulfillmentPending, order.FulfillmentStatus)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 300.0, order.TotalAmount)
	assert.Nil(t, order.Receipt)
	assert.Nil(t, order.TransactionID)

	history, err := f.orders.GetOrderHistory(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCreateOrder_Card(t *testing.T) {
	f := newOrderFixture()
	req := manualOrderReq(domain.PaymentMethodCard)

	_, err := f.orders.CreateOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrValidation, "card order without a charge result")

	txID := "txn_123"
	paid := time.Now()
	req.TransactionID = &txID
	req.PaymentDate = &paid
	order, err := f.orders.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, &txID, order.TransactionID)

	f.orders.cfg.CardAutoVerify = true
	order, err = f.orders.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	cases := map[string]func(r *CreateOrderReq){
		"missing city":    func(r *CreateOrderReq) { r.AddressData.City = " " },
		"bad email":       func(r *CreateOrderReq) { r.AddressData.Email = "nope" },
		"unknown method":  func(r *CreateOrderReq) { r.PaymentMethod = "cash" },
		"empty cart":      func(r *CreateOrderReq) { r.CartItems = nil },
		"zero quantity":   func(r *CreateOrderReq) { r.CartItems[0].Quantity = 0 },
		"total mismatch":  func(r *CreateOrderReq) { r.TotalAmount = 299.99 },
		"duplicate lines": func(r *CreateOrderReq) { r.CartItems[1] = r.CartItems[0]; r.TotalAmount = 400 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := manualOrderReq(domain.PaymentMethodEasyPaisa)
			mutate(&req)
			_, err := f.orders.CreateOrder(ctx, "user-1", req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, f.orderRepo.orders, "no partial write")
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	f := newOrderFixture()
	req := manualOrderReq(domain.PaymentMethodJazzCash)
	req.CartItems[1].ProductID = 4242

	_, err := f.orders.CreateOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_StoreFailure(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.failNext = domain.UpstreamError("create order", errStoreDown)

	_, err := f.orders.CreateOrder(context.Background(), "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestUpdateFulfillmentStatus_Permissive(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	require.NoError(t, err)

	updated, err := f.orders.UpdateFulfillmentStatus(ctx, order.ID, "delivered", "", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FulfillmentDelivered, updated.FulfillmentStatus)
	assert.Equal(t, domain.PaymentPending, updated.PaymentStatus)

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FulfillmentDelivered, stored.FulfillmentStatus)

	// Terminal states can be corrected by hand.
	_, err = f.orders.UpdateFulfillmentStatus(ctx, order.ID, "cancelled", "customer called", "admin-1")
	require.NoError(t, err)
	updated, err = f.orders.UpdateFulfillmentStatus(ctx, order.ID, "processing", "", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FulfillmentProcessing, updated.FulfillmentStatus)
}

func TestUpdateFulfillmentStatus_IdempotentAndErrors(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	require.NoError(t, err)
	before := len(f.orderRepo.history)

	updated, err := f.orders.UpdateFulfillmentStatus(ctx, order.ID, "pending", "", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FulfillmentPending, updated.FulfillmentStatus)
	assert.Len(t, f.orderRepo.history, before, "same status writes no history")

	_, err = f.orders.UpdateFulfillmentStatus(ctx, order.ID, "lost", "", "admin-1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.orders.UpdateFulfillmentStatus(ctx, "missing", "shipped", "", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrderForUser(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	require.NoError(t, err)

	_, err = f.orders.GetOrderForUser(ctx, &domain.User{ID: "user-1"}, order.ID)
	assert.NoError(t, err)

	_, err = f.orders.GetOrderForUser(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin}, order.ID)
	assert.NoError(t, err)

	_, err = f.orders.GetOrderForUser(ctx, &domain.User{ID: "user-2"}, order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	_, err := f.orders.CreateOrder(ctx, "user-1", manualOrderReq(domain.PaymentMethodJazzCash))
	require.NoError(t, err)

	orders, page, err := f.orders.ListOrders(ctx, domain.OrderFilter{PaymentStatus: "pending"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 1, page.TotalPages)

	_, _, err = f.orders.ListOrders(ctx, domain.OrderFilter{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, _, err = f.orders.ListOrders(ctx, domain.OrderFilter{FulfillmentStatus: "lost"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
