package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
)

const sitemapPageSize = 500

type SitemapItem struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   float32
}

// SitemapUsecase lists the storefront's public pages for crawlers. Catalog writes drop the
// cached copy through cache.SitemapKey.
type SitemapUsecase struct {
	productRepo domain.ProductRepository
	baseURL     string
	cache       cache.CacheService
	cfg         *config.Config
	now         func() time.Time
}

func NewSitemapUsecase(repo domain.ProductRepository, cache cache.CacheService, cfg *config.Config) *SitemapUsecase {
	return &SitemapUsecase{
		productRepo: repo,
		baseURL:     cfg.FrontendURL,
		cache:       cache,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (u *SitemapUsecase) GenerateSitemap(ctx context.Context) ([]SitemapItem, error) {
	if val, found := u.cache.Get(cache.SitemapKey); found {
		return val.([]SitemapItem), nil
	}

	today := u.now().Format(statsDateLayout)
	items := []SitemapItem{{Loc: u.baseURL, LastMod: today, ChangeFreq: "daily", Priority: 1.0}}
	for _, page := range []string{"/shop", "/featured"} {
		items = append(items, SitemapItem{Loc: u.baseURL + page, LastMod: today, ChangeFreq: "daily", Priority: 0.8})
	}
	for _, r := range domain.StaticRanges {
		items = append(items, SitemapItem{
			Loc:        fmt.Sprintf("%s/category/%s", u.baseURL, r.Category),
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	for offset := 0; ; offset += sitemapPageSize {
		products, total, err := u.productRepo.GetProducts(ctx, domain.ProductFilter{Limit: sitemapPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			items = append(items, SitemapItem{
				Loc:        fmt.Sprintf("%s/product/%d", u.baseURL, p.ID),
				LastMod:    p.UpdatedAt.Format(statsDateLayout),
				ChangeFreq: "weekly",
				Priority:   0.9,
			})
		}
		if len(products) == 0 || int64(offset+len(products)) >= total {
			break
		}
	}

	u.cache.Set(cache.SitemapKey, items, u.cfg.CacheSitemapTTL)
	return items, nil
}
