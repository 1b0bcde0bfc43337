package pricing

import (
	"sort"
	"strings"

	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// PivotCurrency is the reference every rate is expressed against.
const PivotCurrency = "USD"

// FallbackCurrency is shown to visitors whose country has no mapped currency.
const FallbackCurrency = "USD"

type Currency struct {
	Code     string  `json:"code"`
	Symbol   string  `json:"symbol"`
	Rate     float64 `json:"rate"` // units of this currency per one unit of the pivot
	Decimals int     `json:"decimals"`
}

// Rates are static configuration; only the visitor's currency choice is ever looked up.
var DefaultCurrencies = []Currency{
	{Code: "USD", Symbol: "$", Rate: 1, Decimals: 2},
	{Code: "PKR", Symbol: "Rs ", Rate: 278.5, Decimals: 0},
	{Code: "EUR", Symbol: "€", Rate: 0.92, Decimals: 2},
	{Code: "GBP", Symbol: "£", Rate: 0.79, Decimals: 2},
	{Code: "AED", Symbol: "AED ", Rate: 3.6725, Decimals: 2},
	{Code: "SAR", Symbol: "SAR ", Rate: 3.75, Decimals: 2},
	{Code: "CAD", Symbol: "CA$", Rate: 1.36, Decimals: 2},
}

var countryCurrency = map[string]string{
	"PK": "PKR",
	"US": "USD",
	"GB": "GBP",
	"AE": "AED",
	"SA": "SAR",
	"CA": "CAD",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"IE": "EUR",
	"BE": "EUR",
	"AT": "EUR",
}

// CurrencyForCountry maps an ISO 3166 alpha-2 code to a display currency.
func CurrencyForCountry(country string) string {
	if code, ok := countryCurrency[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return code
	}
	return FallbackCurrency
}

type Converter struct {
	currencies map[string]Currency
}

func NewConverter(currencies []Currency) *Converter {
	c := &Converter{currencies: make(map[string]Currency, len(currencies))}
	for _, cur := range currencies {
		c.currencies[cur.Code] = cur
	}
	return c
}

// DefaultConverter uses DefaultCurrencies.
func DefaultConverter() *Converter {
	return NewConverter(DefaultCurrencies)
}

func (c *Converter) Lookup(code string) (Currency, error) {
	cur, ok := c.currencies[strings.ToUpper(code)]
	if !ok {
		return Currency{}, domain.UnsupportedCurrencyError("lookup currency", code)
	}
	return cur, nil
}

func (c *Converter) Supported(code string) bool {
	_, err := c.Lookup(code)
	return err == nil
}

// Currencies returns the table sorted by code.
func (c *Converter) Currencies() []Currency {
	out := make([]Currency, 0, len(c.currencies))
	for _, cur := range c.currencies {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Convert moves amount from one currency to another through the pivot. Codes equal
// ignoring case return amount untouched.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	src, err := c.Lookup(from)
	if err != nil {
		return 0, err
	}
	dst, err := c.Lookup(to)
	if err != nil {
		return 0, err
	}
	pivot := decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(src.Rate))
	return pivot.Mul(decimal.NewFromFloat(dst.Rate)).InexactFloat64(), nil
}
