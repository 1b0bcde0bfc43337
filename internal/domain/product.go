package domain

import (
	"context"
	"time"
)

// DefaultSize is assigned to products saved without any size labels.
const DefaultSize = "One Size"

// StaticRange is a reserved id block holding the shipped catalog for one category.
type StaticRange struct {
	Category string
	From     int64
	To       int64
}

// StaticRanges lists the reserved blocks. Admin-created products get ids above FirstDynamicProductID.
var StaticRanges = []StaticRange{
	{Category: "men", From: 1, To: 99},
	{Category: "women", From: 100, To: 199},
	{Category: "kids", From: 200, To: 299},
	{Category: "accessories", From: 300, To: 399},
}

const FirstDynamicProductID int64 = 1000

// IsStaticProduct reports whether id belongs to the shipped, immutable catalog.
func IsStaticProduct(id int64) bool {
	for _, r := range StaticRanges {
		if id >= r.From && id <= r.To {
			return true
		}
	}
	return false
}

type Discount struct {
	Active     bool    `json:"active"`
	Percentage float64 `json:"percentage"`
}

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"` // set only while Discount.Active
	Discount      Discount  `json:"discount"`
	Currency      string    `json:"currency"`
	Sizes         []string  `json:"sizes"`
	Images        []string  `json:"images"`
	Rating        float64   `json:"rating"`
	IsStatic      bool      `json:"isStatic"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Image returns the primary image or an empty string.
func (p *Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductFilter struct {
	Category string
	Query    string
	OnSale   *bool
	Limit    int
	Offset   int
}

type FeaturedProduct struct {
	ProductID int64     `json:"productId"`
	Product   Product   `json:"product"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Interfaces ---

type ProductRepository interface {
	GetProducts(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id int64) error
	GetDiscountedProducts(ctx context.Context) ([]Product, error)
}

type FeaturedRepository interface {
	List(ctx context.Context) ([]FeaturedProduct, error)
	Add(ctx context.Context, productID int64) error
	Remove(ctx context.Context, productID int64) error
}
