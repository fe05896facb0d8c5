package cache

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Mizanur7464/home-depot/internal/domain"
)

const keyNamespace = "homedepot"

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// BuildKey assembles a namespaced cache key. Every part is sanitized so
// user-supplied filter values cannot inject key separators or glob
// metacharacters.
func BuildKey(prefix string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, keyNamespace, prefix)
	for _, part := range parts {
		segments = append(segments, unsafeKeyChars.ReplaceAllString(part, "_"))
	}
	return strings.Join(segments, ":")
}

// DealKey is the cache key for a single deal.
func DealKey(id string) string {
	return BuildKey("deal", id)
}

// DealListKey derives a deterministic key from the filter set. Fields are
// serialized in sorted order so two semantically equal filter sets always
// map to the same key.
func DealListKey(filters domain.DealFilters) string {
	fields := map[string]string{}

	if filters.SKU != "" {
		fields["sku"] = filters.SKU
	}
	if filters.PriceEnding != "" {
		fields["ending"] = filters.PriceEnding
	}
	if filters.CategoryID != "" {
		fields["category"] = filters.CategoryID
	}
	if filters.MinDiscount != nil {
		fields["min_discount"] = fmt.Sprintf("%g", *filters.MinDiscount)
	}
	if filters.MaxDiscount != nil {
		fields["max_discount"] = fmt.Sprintf("%g", *filters.MaxDiscount)
	}
	if filters.ZipCode != "" {
		fields["zip"] = filters.ZipCode
	}
	if filters.OnlineOnly {
		fields["online"] = "1"
	}
	if filters.InStoreOnly {
		fields["in_store"] = "1"
	}
	if filters.FeaturedOnly {
		fields["featured"] = "1"
	}
	if filters.ShowAll {
		fields["all"] = "1"
	}

	fields["page"] = fmt.Sprintf("%d", filters.Page)
	fields["limit"] = fmt.Sprintf("%d", filters.Limit)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"_"+fields[k])
	}

	return BuildKey("deals", parts...)
}
