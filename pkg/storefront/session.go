package storefront

import (
	"context"
	"path/filepath"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
)

type SessionOptions struct {
	BaseURL string
	Token   string
	// StateDir keeps cart, favorites and currency across runs. Empty keeps them in memory.
	StateDir  string
	Geo       GeoLookup
	Converter *pricing.Converter
	CardDelay time.Duration
}

// Session owns every shopper-side service. Build it once and pass it by reference.
type Session struct {
	Store     LocalStore
	Client    *Client
	Cart      *Cart
	Favorites *Favorites
	Currency  *CurrencyPreference
	Featured  *FeaturedList
	Cards     *CardProcessor
	Checkout  *Checkout
}

func NewSession(opts SessionOptions) (*Session, error) {
	var store LocalStore = NewMemoryStore()
	if opts.StateDir != "" {
		fs, err := NewFileStore(filepath.Join(opts.StateDir, "storefront.json"))
		if err != nil {
			return nil, domain.UpstreamError("open session store", err)
		}
		store = fs
	}
	converter := opts.Converter
	if converter == nil {
		converter = pricing.DefaultConverter()
	}

	cart, err := NewCart(NewRepository[[]domain.CartLine](store, KeyCart))
	if err != nil {
		return nil, err
	}
	favorites, err := NewFavorites(NewRepository[[]int64](store, KeyFavorites))
	if err != nil {
		return nil, err
	}
	currency, err := NewCurrencyPreference(NewRepository[string](store, KeyCurrency), opts.Geo, converter)
	if err != nil {
		return nil, err
	}

	client := NewClient(opts.BaseURL, opts.Token)
	cards := NewCardProcessor(opts.CardDelay)
	return &Session{
		Store:     store,
		Client:    client,
		Cart:      cart,
		Favorites: favorites,
		Currency:  currency,
		Featured:  NewFeaturedList(client),
		Cards:     cards,
		Checkout:  NewCheckout(cart, client, cards),
	}, nil
}

// PayByTransfer uploads a receipt image and attaches it to a manual-transfer order.
func (s *Session) PayByTransfer(ctx context.Context, order *domain.Order, filename, contentType string, image []byte) (*domain.Receipt, error) {
	if !order.PaymentMethod.IsManual() {
		return nil, domain.ValidationError("pay by transfer", "order %s is paid by %s", order.ID, order.PaymentMethod)
	}
	return s.Client.SubmitReceiptImage(ctx, order.ID, order.PaymentMethod, filename, contentType, image)
}
