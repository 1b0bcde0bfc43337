package usecase

import (
	"context"
	"strings"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

type CatalogUsecase struct {
	repo      domain.ProductRepository
	cache     cache.CacheService
	converter *pricing.Converter
	txManager domain.TransactionManager
	cfg       *config.Config
}

func NewCatalogUsecase(repo domain.ProductRepository, cache cache.CacheService, converter *pricing.Converter, txManager domain.TransactionManager, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:      repo,
		cache:     cache,
		converter: converter,
		txManager: txManager,
		cfg:       cfg,
	}
}

type productPage struct {
	items []domain.Product
	total int64
}

// ResetFailure names one product the bulk reset could not restore.
type ResetFailure struct {
	ProductID int64  `json:"productId"`
	Error     string `json:"error"`
}

// ResetReport is the outcome of ResetDiscounts. Every discounted product appears in
// exactly one of Reset or Failed.
type ResetReport struct {
	Total  int            `json:"total"`
	Reset  []int64        `json:"reset"`
	Failed []ResetFailure `json:"failed"`
}

// --- Reads ---

func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	key := cache.ProductListKey(filter.Category, strings.ToLower(strings.TrimSpace(filter.Query)), filter.OnSale, filter.Limit, filter.Offset)
	if cached, found := uc.cache.Get(key); found {
		page := cached.(productPage)
		return page.items, page.total, nil
	}

	items, total, err := uc.repo.GetProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	uc.cache.Set(key, productPage{items: items, total: total}, uc.cfg.CacheProductTTL)
	return items, total, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := cache.ProductKey(id)
	if cached, found := uc.cache.Get(key); found {
		p := cached.(domain.Product)
		return &p, nil
	}

	p, err := uc.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, *p, uc.cfg.CacheProductTTL)
	return p, nil
}

// --- Writes ---

func validateProduct(op string, p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	switch {
	case p.Name == "":
		return domain.ValidationError(op, "name is required")
	case p.Category == "":
		return domain.ValidationError(op, "category is required")
	case p.Price < 0:
		return domain.ValidationError(op, "price must not be negative")
	case p.Rating < 0 || p.Rating > 5:
		return domain.ValidationError(op, "rating must be between 0 and 5")
	}
	return nil
}

// guardStatic rejects edit, delete and discount removal on the shipped catalog.
// All three report the same error kind.
func guardStatic(op string, id int64) error {
	if domain.IsStaticProduct(id) {
		return domain.TransitionError(op, "product %d belongs to the static catalog", id)
	}
	return nil
}

// CreateProduct stores a new dynamic product. Price is the list price; an active
// discount in the input is applied on top of it.
func (uc *CatalogUsecase) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := validateProduct("create product", p); err != nil {
		return err
	}

	discount := p.Discount
	p.ID = 0
	p.OriginalPrice = nil
	p.Discount = domain.Discount{}
	if discount.Active {
		if err := pricing.ApplyDiscount(p, discount.Percentage); err != nil {
			return err
		}
	}
	uc.converter.Normalize(p, uc.cfg.BaseCurrency)

	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	uc.invalidate(p.ID)
	logger.WithContext(ctx).Info().Int64("product_id", p.ID).Str("category", p.Category).Msg("Product created")
	return nil
}

// UpdateProduct rewrites the descriptive fields and list price of a dynamic product.
// While a discount runs, Price is the derived sale price: the list price comes from
// OriginalPrice (the stored one when omitted) and the sale price is derived from it again,
// so saving a fetched product unchanged leaves both prices as they were.
func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, in *domain.Product) (*domain.Product, error) {
	const op = "update product"
	if err := guardStatic(op, in.ID); err != nil {
		return nil, err
	}
	if err := validateProduct(op, in); err != nil {
		return nil, err
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < 0 {
		return nil, domain.ValidationError(op, "original price must not be negative")
	}

	p, err := uc.repo.GetProductByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	discount := p.Discount
	listPrice := in.Price
	if discount.Active {
		listPrice = p.Price
		if p.OriginalPrice != nil {
			listPrice = *p.OriginalPrice
		}
		if in.OriginalPrice != nil {
			listPrice = *in.OriginalPrice
		}
	}
	p.Name = in.Name
	p.Category = in.Category
	p.Description = in.Description
	p.Sizes = in.Sizes
	p.Images = in.Images
	p.Rating = in.Rating
	p.Currency = in.Currency
	p.Price = listPrice
	p.OriginalPrice = nil
	p.Discount = domain.Discount{}
	if discount.Active {
		if err := pricing.ApplyDiscount(p, discount.Percentage); err != nil {
			return nil, err
		}
	}

	if err := uc.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if err := guardStatic("delete product", id); err != nil {
		return err
	}
	if err := uc.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	uc.invalidate(id)
	logger.WithContext(ctx).Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// --- Discounts ---

func (uc *CatalogUsecase) ApplyDiscount(ctx context.Context, id int64, percentage float64) (*domain.Product, error) {
	p, err := uc.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pricing.ApplyDiscount(p, percentage); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, p); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info().Int64("product_id", id).Float64("percentage", percentage).Msg("Discount applied")
	return p, nil
}

func (uc *CatalogUsecase) RemoveDiscount(ctx context.Context, id int64) (*domain.Product, error) {
	if err := guardStatic("remove discount", id); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pricing.RemoveDiscount(p); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResetDiscounts removes every active discount. Each product is restored in its own
// transaction; failures are collected in the report instead of aborting the run.
func (uc *CatalogUsecase) ResetDiscounts(ctx context.Context, confirm string) (*ResetReport, error) {
	if confirm != domain.ResetDiscountsConfirmToken {
		return nil, domain.ValidationError("reset discounts", "confirmation token does not match")
	}

	discounted, err := uc.repo.GetDiscountedProducts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ResetReport{Total: len(discounted), Reset: []int64{}, Failed: []ResetFailure{}}
	for _, candidate := range discounted {
		id := candidate.ID
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := guardStatic("reset discount", id); err != nil {
				return err
			}
			p, err := uc.repo.GetProductByID(txCtx, id)
			if err != nil {
				return err
			}
			if err := pricing.RemoveDiscount(p); err != nil {
				return err
			}
			uc.converter.Normalize(p, uc.cfg.BaseCurrency)
			return uc.repo.UpdateProduct(txCtx, p)
		})
		if err != nil {
			report.Failed = append(report.Failed, ResetFailure{ProductID: id, Error: err.Error()})
			continue
		}
		report.Reset = append(report.Reset, id)
		uc.invalidate(id)
	}

	logger.WithContext(ctx).Info().
		Int("total", report.Total).
		Int("reset", len(report.Reset)).
		Int("failed", len(report.Failed)).
		Msg("Discounts reset")
	return report, nil
}

// save normalizes p, writes it and drops the cached copies.
func (uc *CatalogUsecase) save(ctx context.Context, p *domain.Product) error {
	uc.converter.Normalize(p, uc.cfg.BaseCurrency)
	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	uc.invalidate(p.ID)
	return nil
}

func (uc *CatalogUsecase) invalidate(id int64) {
	uc.cache.Delete(cache.ProductKey(id))
	uc.cache.DeletePrefix(cache.ProductListPrefix)
	uc.cache.Delete(cache.FeaturedProductKey)
	uc.cache.Delete(cache.SitemapKey)
}
