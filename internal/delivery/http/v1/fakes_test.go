package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/i18n"
	infracache "storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/usecase"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type memProducts struct {
	mu     sync.Mutex
	items  map[int64]domain.Product
	nextID int64
}

func (m *memProducts) GetProducts(_ context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.items {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.OnSale != nil && p.Discount.Active != *f.OnSale {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memProducts) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, domain.NotFoundError("get product", "product %d not found", id)
	}
	return &p, nil
}

func (m *memProducts) CreateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return domain.NotFoundError("update product", "product %d not found", p.ID)
	}
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.NotFoundError("delete product", "product %d not found", id)
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) GetDiscountedProducts(ctx context.Context) ([]domain.Product, error) {
	onSale := true
	out, _, err := m.GetProducts(ctx, domain.ProductFilter{OnSale: &onSale})
	return out, err
}

type memFeatured struct {
	products *memProducts
	ids      []int64
}

func (m *memFeatured) List(ctx context.Context) ([]domain.FeaturedProduct, error) {
	out := []domain.FeaturedProduct{}
	for i, id := range m.ids {
		p, err := m.products.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FeaturedProduct{ProductID: id, Product: *p, Position: i + 1})
	}
	return out, nil
}

func (m *memFeatured) Add(ctx context.Context, id int64) error {
	if _, err := m.products.GetProductByID(ctx, id); err != nil {
		return err
	}
	m.ids = append(m.ids, id)
	return nil
}

func (m *memFeatured) Remove(_ context.Context, id int64) error {
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError("remove featured", "product %d is not featured", id)
}

type memOrders struct {
	mu       sync.Mutex
	orders   map[string]domain.Order
	history  []domain.OrderHistory
	receipts *memReceipts
}

func (m *memOrders) CreateOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	m.mu.Unlock()
	if !ok {
		return nil, domain.NotFoundError("get order", "order %s not found", id)
	}
	if rc, err := m.receipts.GetCurrent(ctx, id); err == nil {
		o.Receipt = rc
	}
	return &o, nil
}

func (m *memOrders) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) GetAll(_ context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if f.PaymentMethod != "" && string(o.PaymentMethod) != f.PaymentMethod {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) update(id string, fn func(o *domain.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.NotFoundError("update order", "order %s not found", id)
	}
	fn(&o)
	m.orders[id] = o
	return nil
}

func (m *memOrders) UpdateFulfillmentStatus(_ context.Context, id string, s domain.FulfillmentStatus) error {
	return m.update(id, func(o *domain.Order) { o.FulfillmentStatus = s })
}

func (m *memOrders) UpdatePaymentStatus(_ context.Context, id string, s domain.PaymentStatus) error {
	return m.update(id, func(o *domain.Order) { o.PaymentStatus = s })
}

func (m *memOrders) CreateOrderHistory(_ context.Context, h *domain.OrderHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, *h)
	return nil
}

func (m *memOrders) GetOrderHistory(_ context.Context, orderID string) ([]domain.OrderHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.OrderHistory{}
	for _, h := range m.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

type memReceipts struct {
	mu    sync.Mutex
	items []domain.Receipt
}

func (m *memReceipts) Create(_ context.Context, rc *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].OrderID == rc.OrderID {
			m.items[i].IsCurrent = false
		}
	}
	m.items = append(m.items, *rc)
	return nil
}

func (m *memReceipts) GetCurrent(_ context.Context, orderID string) (*domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rc := range m.items {
		if rc.OrderID == orderID && rc.IsCurrent {
			return &rc, nil
		}
	}
	return nil, domain.NotFoundError("get receipt", "order %s has no receipt", orderID)
}

func (m *memReceipts) ListByOrder(_ context.Context, orderID string) ([]domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Receipt{}
	for _, rc := range m.items {
		if rc.OrderID == orderID {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (m *memReceipts) Review(_ context.Context, id string, status domain.VerificationStatus, notes *string, reviewer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].VerificationStatus = status
			m.items[i].AdminNotes = notes
			m.items[i].ReviewedBy = &reviewer
			return nil
		}
	}
	return domain.NotFoundError("review receipt", "receipt %s not found", id)
}

type memFileStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    error
}

func (s *memFileStore) UploadBuffer(_ context.Context, data []byte, _ string, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	url := fmt.Sprintf("https://cdn.example.com/%s/%d.webp", folder, len(s.objects)+1)
	s.objects[url] = data
	return url, nil
}

func (s *memFileStore) DeleteFile(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, url)
	s.deleted = append(s.deleted, url)
	return nil
}

// testServer wires every handler over in-memory repositories.
// memStats aggregates the in-memory orders; only daily sales is needed by the handlers' tests.
type memStats struct {
	orders *memOrders
}

func (m *memStats) DailySales(_ context.Context, window domain.StatsRange) ([]domain.DailySales, error) {
	m.orders.mu.Lock()
	defer m.orders.mu.Unlock()
	byDay := map[time.Time]*domain.DailySales{}
	for _, o := range m.orders.orders {
		if o.CreatedAt.Before(window.Start) || !o.CreatedAt.Before(window.End) {
			continue
		}
		day := o.CreatedAt.UTC().Truncate(24 * time.Hour)
		if byDay[day] == nil {
			byDay[day] = &domain.DailySales{Day: day}
		}
		byDay[day].Orders++
		byDay[day].Revenue += o.TotalAmount
	}
	out := []domain.DailySales{}
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memStats) PaymentSummary(context.Context, domain.StatsRange) ([]domain.PaymentSummary, error) {
	return []domain.PaymentSummary{}, nil
}

func (m *memStats) TopSellingProducts(context.Context, domain.StatsRange, int) ([]domain.TopProduct, error) {
	return []domain.TopProduct{}, nil
}

type testServer struct {
	mux      *http.ServeMux
	products *memProducts
	orders   *memOrders
	receipts *memReceipts
	files    *memFileStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	bundle, err := i18n.Default("en")
	require.NoError(t, err)

	cfg := &config.Config{
		BaseCurrency:    "PKR",
		FrontendURL:     "https://shop.example.com",
		CacheProductTTL: time.Minute,
		CacheStatsTTL:   time.Minute,
		CacheSitemapTTL: time.Minute,
		MaxUploadSizeMB: 5,
	}
	memCache := infracache.NewMemoryCache(time.Minute, time.Minute)
	converter := pricing.DefaultConverter()

	products := &memProducts{nextID: domain.FirstDynamicProductID + 1, items: map[int64]domain.Product{
		1:    {ID: 1, Name: "Classic Kurta", Category: "men", Price: 3000, Currency: "PKR", Sizes: []string{"M"}, IsStatic: true},
		1000: {ID: 1000, Name: "Silk Scarf", Category: "accessories", Price: 1500, Currency: "PKR", Sizes: []string{"One Size"}},
	}}
	receipts := &memReceipts{}
	orders := &memOrders{orders: map[string]domain.Order{}, receipts: receipts}
	files := &memFileStore{objects: map[string][]byte{}}

	catalogUC := usecase.NewCatalogUsecase(products, memCache, converter, passTx{}, cfg)
	featuredUC := usecase.NewFeaturedUsecase(&memFeatured{products: products}, products, memCache, cfg)
	orderUC := usecase.NewOrderUsecase(orders, products, passTx{}, cfg)
	paymentUC := usecase.NewPaymentUsecase(orders, receipts, passTx{})

	catalog := NewCatalogHandler(catalogUC, featuredUC, converter, cfg.BaseCurrency, bundle)
	adminCatalog := NewAdminCatalogHandler(catalogUC, featuredUC, bundle)
	orderH := NewOrderHandler(orderUC, bundle)
	adminOrders := NewAdminOrderHandler(orderUC, paymentUC, bundle)
	payment := NewPaymentHandler(paymentUC, files, cfg.MaxUploadSizeMB, bundle)
	upload := NewUploadHandler(files, cfg.MaxUploadSizeMB, bundle)
	configH := NewConfigHandler(memCache, converter, cfg.BaseCurrency)
	stats := NewAdminStatsHandler(usecase.NewStatsUsecase(&memStats{orders: orders}, memCache, cfg), bundle)
	sitemap := NewSitemapHandler(usecase.NewSitemapUsecase(products, memCache, cfg))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products", catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/featured-products", catalog.ListFeatured)
	mux.HandleFunc("GET /api/v1/config/enums", configH.GetEnums)
	mux.HandleFunc("POST /api/v1/products", adminCatalog.CreateProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", adminCatalog.UpdateProduct)
	mux.HandleFunc("DELETE /api/v1/products", adminCatalog.DeleteProduct)
	mux.HandleFunc("POST /api/v1/apply-discount", adminCatalog.ApplyDiscount)
	mux.HandleFunc("POST /api/v1/remove-discount", adminCatalog.RemoveDiscount)
	mux.HandleFunc("POST /api/v1/reset-discounts", adminCatalog.ResetDiscounts)
	mux.HandleFunc("POST /api/v1/featured-products", adminCatalog.AddFeatured)
	mux.HandleFunc("DELETE /api/v1/featured-products", adminCatalog.RemoveFeatured)
	mux.HandleFunc("POST /api/v1/orders/create", orderH.CreateOrder)
	mux.HandleFunc("GET /api/v1/orders/{id}", orderH.GetOrder)
	mux.HandleFunc("GET /api/v1/user/orders", orderH.GetMyOrders)
	mux.HandleFunc("GET /api/v1/admin/orders", adminOrders.ListOrders)
	mux.HandleFunc("GET /api/v1/admin/orders/{id}/history", adminOrders.GetOrderHistory)
	mux.HandleFunc("GET /api/v1/admin/orders/{id}/receipts", adminOrders.ListReceipts)
	mux.HandleFunc("POST /api/v1/admin/update-order-status", adminOrders.UpdateOrderStatus)
	mux.HandleFunc("POST /api/v1/payment/submit-receipt", payment.SubmitReceipt)
	mux.HandleFunc("POST /api/v1/admin/verify-payment", payment.VerifyPayment)
	mux.HandleFunc("POST /api/v1/admin/reject-payment", payment.RejectPayment)
	mux.HandleFunc("POST /api/v1/upload", upload.UploadFile)
	mux.HandleFunc("GET /api/v1/admin/stats/revenue", stats.GetDailySales)
	mux.HandleFunc("GET /api/v1/admin/stats/kpis", stats.GetKPIs)
	mux.HandleFunc("GET /api/v1/admin/stats/payments", stats.GetPaymentSummary)
	mux.HandleFunc("GET /api/v1/admin/stats/products/top-selling", stats.GetTopSellingProducts)
	mux.Handle("GET /sitemap.xml", sitemap)

	return &testServer{mux: mux, products: products, orders: orders, receipts: receipts, files: files}
}

// do sends a request as user (nil for anonymous) and decodes the envelope.
func (s *testServer) do(t *testing.T, user *domain.User, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var payload string
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = string(raw)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return s.serve(t, user, req)
}

func (s *testServer) serve(t *testing.T, user *domain.User, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), domain.UserContextKey, user))
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

var (
	customer = &domain.User{ID: "user-1", Email: "ayesha@example.com", Role: "customer"}
	stranger = &domain.User{ID: "user-2", Email: "bilal@example.com", Role: "customer"}
	admin    = &domain.User{ID: "admin-1", Email: "ops@example.com", Role: domain.RoleAdmin}
)
