package storefront

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"

	"github.com/goccy/go-json"
)

// GeoLookup resolves the caller's ISO 3166 alpha-2 country code.
type GeoLookup interface {
	Country(ctx context.Context) (string, error)
}

// HTTPGeoLookup asks a geo-IP endpoint that answers {"country_code": "PK"}.
type HTTPGeoLookup struct {
	URL    string
	Client *http.Client
}

func NewHTTPGeoLookup(url string) *HTTPGeoLookup {
	return &HTTPGeoLookup{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (g *HTTPGeoLookup) Country(ctx context.Context) (string, error) {
	const op = "geo lookup"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return "", domain.UpstreamError(op, err)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return "", domain.UpstreamError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.UpstreamError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	var body struct {
		CountryCode string `json:"country_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", domain.UpstreamError(op, err)
	}
	return strings.ToUpper(strings.TrimSpace(body.CountryCode)), nil
}

// CurrencyPreference is the shopper's display currency. It is detected from the
// shopper's country once; after that the stored choice always wins.
type CurrencyPreference struct {
	mu        sync.Mutex
	code      string
	repo      *Repository[string]
	geo       GeoLookup
	converter *pricing.Converter
}

func NewCurrencyPreference(repo *Repository[string], geo GeoLookup, converter *pricing.Converter) (*CurrencyPreference, error) {
	code, _, err := repo.Load()
	if err != nil {
		return nil, err
	}
	if code != "" && !converter.Supported(code) {
		code = ""
	}
	return &CurrencyPreference{code: code, repo: repo, geo: geo, converter: converter}, nil
}

// Current returns the stored currency, detecting and storing one on first use.
// A failed lookup falls back without being stored, so a later call may retry it.
func (c *CurrencyPreference) Current(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.code != "" {
		return c.code
	}

	log := logger.WithContext(ctx)
	if c.geo == nil {
		return pricing.FallbackCurrency
	}
	country, err := c.geo.Country(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Currency detection failed, using fallback")
		return pricing.FallbackCurrency
	}

	code := pricing.CurrencyForCountry(country)
	if !c.converter.Supported(code) {
		code = pricing.FallbackCurrency
	}
	if err := c.repo.Save(code); err != nil {
		log.Warn().Err(err).Msg("Failed to store detected currency")
	}
	c.code = code
	log.Debug().Str("country", country).Str("currency", code).Msg("Currency detected")
	return code
}

// Set stores an explicit choice.
func (c *CurrencyPreference) Set(code string) error {
	cur, err := c.converter.Lookup(code)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Save(cur.Code); err != nil {
		return err
	}
	c.code = cur.Code
	return nil
}

// Clear forgets the choice; the next Current call detects again.
func (c *CurrencyPreference) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Clear(); err != nil {
		return err
	}
	c.code = ""
	return nil
}

// Display renders an amount held in base in the shopper's currency.
func (c *CurrencyPreference) Display(ctx context.Context, amount float64, base string) (string, error) {
	return c.converter.Display(amount, base, c.Current(ctx))
}
