package storefront

import (
	"context"
	"sync"

	"storefront-backend/internal/domain"
)

type featuredAPI interface {
	ListFeatured(ctx context.Context) ([]domain.FeaturedProduct, error)
	AddFeatured(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error)
	RemoveFeatured(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error)
}

// FeaturedList is the admin's view of the featured products. Changes show up locally
// at once and are reconciled with the server afterwards.
type FeaturedList struct {
	mu    sync.Mutex
	api   featuredAPI
	items []domain.FeaturedProduct
}

func NewFeaturedList(api featuredAPI) *FeaturedList {
	return &FeaturedList{api: api}
}

func (f *FeaturedList) Refresh(ctx context.Context) error {
	items, err := f.api.ListFeatured(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

func (f *FeaturedList) Items() []domain.FeaturedProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FeaturedProduct(nil), f.items...)
}

func (f *FeaturedList) Add(ctx context.Context, p domain.Product) error {
	cmd := OptimisticCommand[[]domain.FeaturedProduct]{
		Name: "add featured",
		Apply: func(cur []domain.FeaturedProduct) []domain.FeaturedProduct {
			for _, fp := range cur {
				if fp.ProductID == p.ID {
					return cur
				}
			}
			next := append([]domain.FeaturedProduct(nil), cur...)
			return append(next, domain.FeaturedProduct{ProductID: p.ID, Product: p, Position: len(cur) + 1})
		},
		Remote:  func(ctx context.Context) ([]domain.FeaturedProduct, error) { return f.api.AddFeatured(ctx, p.ID) },
		Refetch: f.api.ListFeatured,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cmd.Execute(ctx, &f.items)
}

func (f *FeaturedList) Remove(ctx context.Context, productID int64) error {
	cmd := OptimisticCommand[[]domain.FeaturedProduct]{
		Name: "remove featured",
		Apply: func(cur []domain.FeaturedProduct) []domain.FeaturedProduct {
			next := make([]domain.FeaturedProduct, 0, len(cur))
			for _, fp := range cur {
				if fp.ProductID != productID {
					next = append(next, fp)
				}
			}
			return next
		},
		Remote:  func(ctx context.Context) ([]domain.FeaturedProduct, error) { return f.api.RemoveFeatured(ctx, productID) },
		Refetch: f.api.ListFeatured,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cmd.Execute(ctx, &f.items)
}
