package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	infracache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/cache"
)

var errStoreDown = errors.New("connection refused")

func testConfig() *config.Config {
	return &config.Config{
		BaseCurrency:    "PKR",
		FrontendURL:     "https://shop.example.com",
		CacheProductTTL: time.Minute,
		CacheStatsTTL:   time.Minute,
		CacheSitemapTTL: time.Minute,
	}
}

func newTestCache() cache.CacheService {
	return infracache.NewMemoryCache(time.Minute, time.Minute)
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- Products ---

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
	failOn   map[int64]bool // UpdateProduct fails for these ids
	reads    int
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int64]domain.Product{}, nextID: domain.FirstDynamicProductID, failOn: map[int64]bool{}}
	for _, p := range products {
		p.IsStatic = domain.IsStaticProduct(p.ID)
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeProductRepo) GetProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	var out []domain.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.OnSale != nil && p.Discount.Active != *filter.OnSale {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	p, ok := r.products[id]
	if !ok {
		return nil, domain.NotFoundError("get product", "product %d not found", id)
	}
	return &p, nil
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.IsStatic = domain.IsStaticProduct(p.ID)
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn[p.ID] {
		return domain.UpstreamError("update product", errStoreDown)
	}
	if _, ok := r.products[p.ID]; !ok {
		return domain.NotFoundError("update product", "product %d not found", p.ID)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.NotFoundError("delete product", "product %d not found", id)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetDiscountedProducts(ctx context.Context) ([]domain.Product, error) {
	onSale := true
	out, _, err := r.GetProducts(ctx, domain.ProductFilter{OnSale: &onSale})
	return out, err
}

// --- Featured ---

type fakeFeaturedRepo struct {
	products *fakeProductRepo
	ids      []int64
}

func (r *fakeFeaturedRepo) List(ctx context.Context) ([]domain.FeaturedProduct, error) {
	out := []domain.FeaturedProduct{}
	for i, id := range r.ids {
		p, err := r.products.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FeaturedProduct{ProductID: id, Product: *p, Position: i + 1})
	}
	return out, nil
}

func (r *fakeFeaturedRepo) Add(_ context.Context, productID int64) error {
	for _, id := range r.ids {
		if id == productID {
			return nil
		}
	}
	r.ids = append(r.ids, productID)
	return nil
}

func (r *fakeFeaturedRepo) Remove(_ context.Context, productID int64) error {
	for i, id := range r.ids {
		if id == productID {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError("remove featured", "product %d is not featured", productID)
}

// --- Orders ---

type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[string]domain.Order
	history  []domain.OrderHistory
	receipts *fakeReceiptRepo
	failNext error
}

func newFakeOrderRepo(receipts *fakeReceiptRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]domain.Order{}, receipts: receipts}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	o, ok := r.orders[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.NotFoundError("get order", "order %s not found", id)
	}
	if r.receipts != nil {
		if rc, err := r.receipts.GetCurrent(ctx, id); err == nil {
			o.Receipt = rc
		}
	}
	return &o, nil
}

func (r *fakeOrderRepo) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Order{}
	for _, o := range r.orders {
		if filter.PaymentStatus != "" && string(o.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateFulfillmentStatus(_ context.Context, id string, status domain.FulfillmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.NotFoundError("update fulfillment status", "order %s not found", id)
	}
	o.FulfillmentStatus = status
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.NotFoundError("update payment status", "order %s not found", id)
	}
	o.PaymentStatus = status
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) CreateOrderHistory(_ context.Context, h *domain.OrderHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, *h)
	return nil
}

func (r *fakeOrderRepo) GetOrderHistory(_ context.Context, orderID string) ([]domain.OrderHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.OrderHistory{}
	for _, h := range r.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

// --- Receipts ---

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts []domain.Receipt
}

func (r *fakeReceiptRepo) Create(_ context.Context, rc *domain.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.receipts {
		if r.receipts[i].OrderID == rc.OrderID {
			r.receipts[i].IsCurrent = false
		}
	}
	rc.IsCurrent = true
	r.receipts = append(r.receipts, *rc)
	return nil
}

func (r *fakeReceiptRepo) GetCurrent(_ context.Context, orderID string) (*domain.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rc := range r.receipts {
		if rc.OrderID == orderID && rc.IsCurrent {
			return &rc, nil
		}
	}
	return nil, domain.NotFoundError("get receipt", "order %s has no receipt", orderID)
}

func (r *fakeReceiptRepo) ListByOrder(_ context.Context, orderID string) ([]domain.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Receipt{}
	for i := len(r.receipts) - 1; i >= 0; i-- {
		if r.receipts[i].OrderID == orderID {
			out = append(out, r.receipts[i])
		}
	}
	return out, nil
}

func (r *fakeReceiptRepo) Review(_ context.Context, id string, status domain.VerificationStatus, notes *string, reviewer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.receipts {
		if r.receipts[i].ID != id {
			continue
		}
		if !r.receipts[i].IsCurrent || r.receipts[i].VerificationStatus != domain.VerificationPending {
			return domain.TransitionError("review receipt", "receipt is %s", r.receipts[i].VerificationStatus)
		}
		now := time.Now()
		r.receipts[i].VerificationStatus = status
		r.receipts[i].AdminNotes = notes
		r.receipts[i].ReviewedBy = &reviewer
		r.receipts[i].ReviewedAt = &now
		return nil
	}
	return domain.NotFoundError("review receipt", "receipt %s not found", id)
}

func newConverter() *pricing.Converter {
	return pricing.DefaultConverter()
}
