package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"

	"github.com/shopspring/decimal"
)

const (
	maxStatsRange   = 366 * 24 * time.Hour
	defaultTopLimit = 10
	maxTopLimit     = 100
	statsDateLayout = "2006-01-02"
)

// StatsKPIs summarises a window of daily sales.
type StatsKPIs struct {
	Orders            int64   `json:"orders"`
	Revenue           float64 `json:"revenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	Currency          string  `json:"currency"`
}

// StatsUsecase serves read-only order analytics for the back office. Results are cached
// per window since admins tend to reload the same range.
type StatsUsecase struct {
	repo  domain.StatsRepository
	cache cache.CacheService
	cfg   *config.Config
}

func NewStatsUsecase(repo domain.StatsRepository, cache cache.CacheService, cfg *config.Config) *StatsUsecase {
	return &StatsUsecase{repo: repo, cache: cache, cfg: cfg}
}

func validateWindow(op string, window domain.StatsRange) error {
	if !window.End.After(window.Start) {
		return domain.ValidationError(op, "end date must be after start date")
	}
	if window.End.Sub(window.Start) > maxStatsRange {
		return domain.ValidationError(op, "date range cannot exceed one year")
	}
	return nil
}

func windowKey(name string, window domain.StatsRange) string {
	return fmt.Sprintf("%s%s:%s:%s", cache.StatsPrefix, name, window.Start.Format(statsDateLayout), window.End.Format(statsDateLayout))
}

func (uc *StatsUsecase) GetDailySales(ctx context.Context, window domain.StatsRange) ([]domain.DailySales, error) {
	if err := validateWindow("daily sales", window); err != nil {
		return nil, err
	}
	key := windowKey("daily", window)
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.DailySales), nil
	}
	rows, err := uc.repo.DailySales(ctx, window)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, rows, uc.cfg.CacheStatsTTL)
	return rows, nil
}

// GetKPIs folds the daily rows, so it shares their cache entry.
func (uc *StatsUsecase) GetKPIs(ctx context.Context, window domain.StatsRange) (*StatsKPIs, error) {
	days, err := uc.GetDailySales(ctx, window)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	kpis := &StatsKPIs{Currency: uc.cfg.BaseCurrency}
	for _, d := range days {
		kpis.Orders += d.Orders
		revenue = revenue.Add(decimal.NewFromFloat(d.Revenue))
	}
	kpis.Revenue = revenue.Round(2).InexactFloat64()
	if kpis.Orders > 0 {
		kpis.AverageOrderValue = revenue.Div(decimal.NewFromInt(kpis.Orders)).Round(2).InexactFloat64()
	}
	return kpis, nil
}

func (uc *StatsUsecase) GetPaymentSummary(ctx context.Context, window domain.StatsRange) ([]domain.PaymentSummary, error) {
	if err := validateWindow("payment summary", window); err != nil {
		return nil, err
	}
	key := windowKey("payments", window)
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.PaymentSummary), nil
	}
	rows, err := uc.repo.PaymentSummary(ctx, window)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, rows, uc.cfg.CacheStatsTTL)
	return rows, nil
}

// GetTopSellingProducts treats limit 0 as the default.
func (uc *StatsUsecase) GetTopSellingProducts(ctx context.Context, window domain.StatsRange, limit int) ([]domain.TopProduct, error) {
	if err := validateWindow("top selling products", window); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultTopLimit
	}
	if limit < 1 || limit > maxTopLimit {
		return nil, domain.ValidationError("top selling products", "limit must be between 1 and %d", maxTopLimit)
	}
	key := fmt.Sprintf("%s:%d", windowKey("top", window), limit)
	if val, found := uc.cache.Get(key); found {
		return val.([]domain.TopProduct), nil
	}
	rows, err := uc.repo.TopSellingProducts(ctx, window, limit)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, rows, uc.cfg.CacheStatsTTL)
	return rows, nil
}
