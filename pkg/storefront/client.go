package storefront

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Client talks to the storefront REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	OrderID string          `json:"orderId"`
	File    string          `json:"filePath"`
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrInvalidTransition
	case http.StatusUnprocessableEntity:
		return domain.ErrUnsupportedCurrency
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrForbidden
	}
	return domain.ErrUpstream
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, domain.UpstreamError(op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.UpstreamError(op, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, domain.UpstreamError(op, fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Detail
		if msg == "" {
			msg = env.Error
		}
		kind := kindForStatus(resp.StatusCode)
		if kind == domain.ErrUpstream {
			return nil, domain.UpstreamError(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
		}
		return nil, &domain.Error{Kind: kind, Op: op, Message: msg}
	}
	return &env, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) (*envelope, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, domain.ValidationError(op, "encode request: %v", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	env, err := c.do(ctx, op, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, domain.UpstreamError(op, err)
		}
	}
	return env, nil
}

// --- Catalog ---

type ProductQuery struct {
	Category string
	Query    string
	OnSale   *bool
	Limit    int
	Offset   int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.OnSale != nil {
		v.Set("onSale", strconv.FormatBool(*q.OnSale))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, domain.Pagination, error) {
	var products []domain.Product
	var page domain.Pagination
	path := "/api/v1/products"
	if v := q.values().Encode(); v != "" {
		path += "?" + v
	}
	env, err := c.doJSON(ctx, "list products", http.MethodGet, path, nil, &products)
	if err != nil {
		return nil, page, err
	}
	if len(env.Meta) > 0 {
		if err := json.Unmarshal(env.Meta, &page); err != nil {
			return nil, page, domain.UpstreamError("list products", err)
		}
	}
	return products, page, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if _, err := c.doJSON(ctx, "get product", http.MethodGet, "/api/v1/products/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListFeatured(ctx context.Context) ([]domain.FeaturedProduct, error) {
	var list []domain.FeaturedProduct
	_, err := c.doJSON(ctx, "list featured", http.MethodGet, "/api/v1/featured-products", nil, &list)
	return list, err
}

func (c *Client) AddFeatured(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error) {
	var list []domain.FeaturedProduct
	_, err := c.doJSON(ctx, "add featured", http.MethodPost, "/api/v1/featured-products",
		map[string]int64{"productId": productID}, &list)
	return list, err
}

func (c *Client) RemoveFeatured(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error) {
	var list []domain.FeaturedProduct
	_, err := c.doJSON(ctx, "remove featured", http.MethodDelete,
		"/api/v1/featured-products?productId="+strconv.FormatInt(productID, 10), nil, &list)
	return list, err
}

// --- Orders ---

type OrderRequest struct {
	AddressData   domain.AddressData `json:"addressData"`
	PaymentMethod string             `json:"paymentMethod"`
	CartItems     []domain.CartLine  `json:"cartItems"`
	TotalAmount   float64            `json:"totalAmount"`
	TransactionID *string            `json:"transactionId,omitempty"`
	PaymentDate   *time.Time         `json:"paymentDate,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	var order domain.Order
	env, err := c.doJSON(ctx, "create order", http.MethodPost, "/api/v1/orders/create", req, &order)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = env.OrderID
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if _, err := c.doJSON(ctx, "get order", http.MethodGet, "/api/v1/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	_, err := c.doJSON(ctx, "list my orders", http.MethodGet, "/api/v1/user/orders", nil, &orders)
	return orders, err
}

func (c *Client) SubmitReceipt(ctx context.Context, orderID, imageURL string, method domain.PaymentMethod) (*domain.Receipt, error) {
	var receipt domain.Receipt
	_, err := c.doJSON(ctx, "submit receipt", http.MethodPost, "/api/v1/payment/submit-receipt", map[string]string{
		"orderId":       orderID,
		"receiptImage":  imageURL,
		"paymentMethod": string(method),
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// imageForm builds a multipart body holding the image in field plus plain fields.
func imageForm(field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

// Upload sends an image to the file store and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte, folder string) (string, error) {
	const op = "upload file"

	fields := map[string]string{}
	if folder != "" {
		fields["folder"] = folder
	}
	body, formType, err := imageForm("file", filename, contentType, data, fields)
	if err != nil {
		return "", domain.UpstreamError(op, err)
	}
	env, err := c.do(ctx, op, http.MethodPost, "/api/v1/upload", body, formType)
	if err != nil {
		return "", err
	}
	return env.File, nil
}

// SubmitReceiptImage uploads the receipt and attaches it in one request.
func (c *Client) SubmitReceiptImage(ctx context.Context, orderID string, method domain.PaymentMethod, filename, contentType string, data []byte) (*domain.Receipt, error) {
	const op = "submit receipt"

	body, formType, err := imageForm("receipt", filename, contentType, data, map[string]string{
		"orderId":       orderID,
		"paymentMethod": string(method),
	})
	if err != nil {
		return nil, domain.UpstreamError(op, err)
	}
	env, err := c.do(ctx, op, http.MethodPost, "/api/v1/payment/submit-receipt", body, formType)
	if err != nil {
		return nil, err
	}
	var receipt domain.Receipt
	if err := json.Unmarshal(env.Data, &receipt); err != nil {
		return nil, domain.UpstreamError(op, err)
	}
	return &receipt, nil
}
