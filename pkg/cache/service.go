package cache

import (
	"fmt"
	"time"
)

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get retrieves a value from the cache
	// Returns value, true if found
	// Returns nil, false if not found
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value from the cache
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)

	// Flush removes all items
	Flush()
}

// Cache keys. Any product write drops the product, list, featured and sitemap entries;
// stats entries only expire.
const (
	ProductPrefix      = "product:"
	ProductListPrefix  = "products:"
	FeaturedProductKey = "featured:all"
	EnumsKey           = "system:config:enums"
	SitemapKey         = "sitemap:items"
	StatsPrefix        = "stats:"
)

func ProductKey(id int64) string {
	return fmt.Sprintf("%s%d", ProductPrefix, id)
}

// ProductListKey builds a key for one page of a filtered listing.
func ProductListKey(category, query string, onSale *bool, limit, offset int) string {
	sale := "any"
	if onSale != nil {
		sale = fmt.Sprintf("%t", *onSale)
	}
	return fmt.Sprintf("%scat=%s:q=%s:sale=%s:l=%d:o=%d", ProductListPrefix, category, query, sale, limit, offset)
}
