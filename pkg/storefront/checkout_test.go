package storefront

import (
	"context"
	"net/http"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newTestCheckout(t *testing.T) (*fakeAPI, *Cart, *Checkout) {
	t.Helper()
	api, client := newFakeServer(t)
	cart := newTestCart(t, NewMemoryStore())
	require.NoError(t, cart.Add(scarf, 2, nil))
	return api, cart, NewCheckout(cart, client, fixedProcessor())
}

func TestCheckoutManualTransfer(t *testing.T) {
	api, cart, co := newTestCheckout(t)

	res, err := co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodJazzCash})
	require.NoError(t, err)
	assert.True(t, res.NeedsReceipt)
	assert.Equal(t, "order-1", res.Order.ID)
	assert.Equal(t, domain.PaymentPending, res.Order.PaymentStatus)
	assert.Nil(t, res.Order.Receipt)

	require.Len(t, api.orders, 1)
	assert.Equal(t, 3000.0, api.orders[0].TotalAmount)
	assert.Nil(t, api.orders[0].TransactionID)
	assert.Empty(t, cart.Lines())
}

func TestCheckoutCardApproved(t *testing.T) {
	api, cart, co := newTestCheckout(t)
	card := validCard()

	res, err := co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodCard, Card: &card})
	require.NoError(t, err)
	assert.False(t, res.NeedsReceipt)
	require.Len(t, api.orders, 1)
	require.NotNil(t, api.orders[0].TransactionID)
	require.NotNil(t, api.orders[0].PaymentDate)
	assert.Empty(t, cart.Lines())
}

func TestCheckoutCardDeclinedCreatesNoOrder(t *testing.T) {
	api, cart, co := newTestCheckout(t)
	card := validCard()
	card.Number = DeclineInsufficientCard

	res, err := co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodCard, Card: &card})
	require.NoError(t, err)
	assert.True(t, res.Declined)
	assert.Nil(t, res.Order)
	assert.Empty(t, api.orders)
	assert.Len(t, cart.Lines(), 1)
}

func TestCheckoutValidation(t *testing.T) {
	_, cart, co := newTestCheckout(t)

	missing := address()
	missing.City = ""
	_, err := co.Submit(context.Background(), CheckoutRequest{Address: missing, PaymentMethod: domain.PaymentMethodJazzCash})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "city")

	badEmail := address()
	badEmail.Email = "not-an-email"
	_, err = co.Submit(context.Background(), CheckoutRequest{Address: badEmail, PaymentMethod: domain.PaymentMethodJazzCash})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodCard})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, cart.Clear())
	_, err = co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodJazzCash})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckoutServerFailureKeepsCart(t *testing.T) {
	api, cart, co := newTestCheckout(t)
	api.failWith = http.StatusBadGateway

	_, err := co.Submit(context.Background(), CheckoutRequest{Address: address(), PaymentMethod: domain.PaymentMethodEasyPaisa})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Len(t, cart.Lines(), 1)
}

func TestSession(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSession(SessionOptions{BaseURL: "http://localhost:8080", StateDir: dir, Geo: &stubGeo{country: "PK"}})
	require.NoError(t, err)
	require.NoError(t, s.Cart.Add(kurta, 1, size("M")))
	_, err = s.Favorites.Toggle(kurta.ID)
	require.NoError(t, err)

	reopened, err := NewSession(SessionOptions{BaseURL: "http://localhost:8080", StateDir: dir})
	require.NoError(t, err)
	assert.Len(t, reopened.Cart.Lines(), 1)
	assert.Equal(t, []int64{kurta.ID}, reopened.Favorites.IDs())

	_, err = reopened.PayByTransfer(context.Background(), &domain.Order{ID: "o1", PaymentMethod: domain.PaymentMethodCard}, "r.png", "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
