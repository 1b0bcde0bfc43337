// Package i18n holds the user-facing message catalogs. Every locale must define every
// key; Validate is run at startup so a missing translation stops the server instead of
// leaking a raw key to a shopper.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

type Key int

const (
	MsgInvalidRequest Key = iota
	MsgUnauthorized
	MsgForbidden
	MsgNotFound
	MsgValidationFailed
	MsgInvalidTransition
	MsgUnsupportedCurrency
	MsgUpstreamFailure
	MsgInternalError
	MsgOrderCreated
	MsgReceiptSubmitted
	MsgPaymentVerified
	MsgPaymentRejected
	MsgStatusUpdated
	MsgDiscountApplied
	MsgDiscountRemoved
	MsgDiscountsReset
	MsgProductSaved
	MsgProductDeleted
	MsgFeaturedUpdated
	MsgFileUploaded
	MsgTooManyRequests

	keyCount
)

var keyNames = [...]string{
	MsgInvalidRequest:      "invalid_request",
	MsgUnauthorized:        "unauthorized",
	MsgForbidden:           "forbidden",
	MsgNotFound:            "not_found",
	MsgValidationFailed:    "validation_failed",
	MsgInvalidTransition:   "invalid_transition",
	MsgUnsupportedCurrency: "unsupported_currency",
	MsgUpstreamFailure:     "upstream_failure",
	MsgInternalError:       "internal_error",
	MsgOrderCreated:        "order_created",
	MsgReceiptSubmitted:    "receipt_submitted",
	MsgPaymentVerified:     "payment_verified",
	MsgPaymentRejected:     "payment_rejected",
	MsgStatusUpdated:       "status_updated",
	MsgDiscountApplied:     "discount_applied",
	MsgDiscountRemoved:     "discount_removed",
	MsgDiscountsReset:      "discounts_reset",
	MsgProductSaved:        "product_saved",
	MsgProductDeleted:      "product_deleted",
	MsgFeaturedUpdated:     "featured_updated",
	MsgFileUploaded:        "file_uploaded",
	MsgTooManyRequests:     "too_many_requests",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Catalog maps every Key of one locale to its text.
type Catalog map[Key]string

type Bundle struct {
	fallback language.Tag
	tags     []language.Tag
	catalogs map[language.Tag]Catalog
	matcher  language.Matcher
}

// NewBundle validates catalogs and builds a matcher. fallback must be one of the locales.
func NewBundle(fallback language.Tag, catalogs map[language.Tag]Catalog) (*Bundle, error) {
	if err := Validate(catalogs); err != nil {
		return nil, err
	}
	if _, ok := catalogs[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s has no catalog", fallback)
	}

	tags := []language.Tag{fallback}
	for tag := range catalogs {
		if tag != fallback {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags[1:], func(i, j int) bool { return tags[i+1].String() < tags[j+1].String() })

	return &Bundle{
		fallback: fallback,
		tags:     tags,
		catalogs: catalogs,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Default builds the bundle of the shipped catalogs with fallback as the default locale.
func Default(fallback string) (*Bundle, error) {
	tag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid default locale %q: %w", fallback, err)
	}
	return NewBundle(tag, map[language.Tag]Catalog{
		language.English: english,
		language.Urdu:    urdu,
	})
}

// Validate reports every missing or empty key in every catalog.
func Validate(catalogs map[language.Tag]Catalog) error {
	var problems []string
	for tag, cat := range catalogs {
		for k := Key(0); k < keyCount; k++ {
			if strings.TrimSpace(cat[k]) == "" {
				problems = append(problems, fmt.Sprintf("%s: missing %s", tag, k))
			}
		}
		for k := range cat {
			if k < 0 || k >= keyCount {
				problems = append(problems, fmt.Sprintf("%s: unknown key %d", tag, int(k)))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("i18n: invalid catalogs: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Match picks the catalog locale for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.fallback
	}
	return b.tags[idx]
}

// Text returns the message for key in locale, using the fallback locale for unknown tags.
func (b *Bundle) Text(locale language.Tag, key Key) string {
	cat, ok := b.catalogs[locale]
	if !ok {
		cat = b.catalogs[b.fallback]
	}
	return cat[key]
}

// Localize is Text with Accept-Language matching.
func (b *Bundle) Localize(acceptLanguage string, key Key) string {
	return b.Text(b.Match(acceptLanguage), key)
}
