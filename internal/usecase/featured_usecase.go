package usecase

import (
	"context"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
)

// FeaturedUsecase manages the ordered featured-products list. Mutations return the
// fresh list so clients can replace their local copy.
type FeaturedUsecase struct {
	repo        domain.FeaturedRepository
	productRepo domain.ProductRepository
	cache       cache.CacheService
	cfg         *config.Config
}

func NewFeaturedUsecase(repo domain.FeaturedRepository, productRepo domain.ProductRepository, cache cache.CacheService, cfg *config.Config) *FeaturedUsecase {
	return &FeaturedUsecase{
		repo:        repo,
		productRepo: productRepo,
		cache:       cache,
		cfg:         cfg,
	}
}

func (uc *FeaturedUsecase) List(ctx context.Context) ([]domain.FeaturedProduct, error) {
	if cached, found := uc.cache.Get(cache.FeaturedProductKey); found {
		return cached.([]domain.FeaturedProduct), nil
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(cache.FeaturedProductKey, list, uc.cfg.CacheProductTTL)
	return list, nil
}

func (uc *FeaturedUsecase) Add(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error) {
	if _, err := uc.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := uc.repo.Add(ctx, productID); err != nil {
		return nil, err
	}
	uc.cache.Delete(cache.FeaturedProductKey)
	return uc.List(ctx)
}

func (uc *FeaturedUsecase) Remove(ctx context.Context, productID int64) ([]domain.FeaturedProduct, error) {
	if err := uc.repo.Remove(ctx, productID); err != nil {
		return nil, err
	}
	uc.cache.Delete(cache.FeaturedProductKey)
	return uc.List(ctx)
}
