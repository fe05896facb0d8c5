package normalize

import (
	"testing"

	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPriceEnding(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected string
	}{
		{name: "clearance ending .06", price: 89.06, expected: ".06"},
		{name: "clearance ending .04", price: 12.04, expected: ".04"},
		{name: "clearance ending .03", price: 150.03, expected: ".03"},
		{name: "clearance ending .02", price: 0.02, expected: ".02"},
		{name: "regular ending .05", price: 89.05, expected: ""},
		{name: "regular ending .99", price: 19.99, expected: ""},
		{name: "whole number", price: 100, expected: ""},
		{name: "single decimal digit", price: 5.1, expected: ""},
		{name: "zero price", price: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPriceEnding(tt.price))
		})
	}
}

func TestCalculateDiscount(t *testing.T) {
	float := func(f float64) *float64 { return &f }

	tests := []struct {
		name     string
		current  float64
		original *float64
		expected float64
		ok       bool
	}{
		// (149.99-89.06)/149.99*100 = 40.6227..., rounded half-up at two
		// decimals.
		{name: "real markdown", current: 89.06, original: float(149.99), expected: 40.62, ok: true},
		{name: "half price", current: 50, original: float(100), expected: 50, ok: true},
		{name: "no original price", current: 89.06, original: nil, ok: false},
		{name: "current equals original", current: 100, original: float(100), ok: false},
		{name: "current above original", current: 120, original: float(100), ok: false},
		{name: "zero original", current: 10, original: float(0), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, ok := CalculateDiscount(tt.current, tt.original)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, discount, 0.001)
			}
		})
	}
}

func TestNormalizePriorityChains(t *testing.T) {
	raw := map[string]any{
		"productId":       "100123456",
		"productLabel":    "DEWALT 20V Drill",
		"sskMax":          float64(89.06),
		"wasMaxPriceRange": float64(149.99),
		"media": map[string]any{
			"primaryImage": "https://images.example.com/p/<SIZE>/drill.jpg",
		},
	}

	deal := Normalize(raw)

	assert.Equal(t, "100123456", deal.SKU)
	assert.Equal(t, "DEWALT 20V Drill", deal.Title)
	assert.Equal(t, 89.06, deal.CurrentPrice)
	require.NotNil(t, deal.OriginalPrice)
	assert.Equal(t, 149.99, *deal.OriginalPrice)
	require.NotNil(t, deal.DiscountPercent)
	assert.InDelta(t, 40.62, *deal.DiscountPercent, 0.001)
	assert.Equal(t, ".06", deal.PriceEnding)
	assert.True(t, deal.IsClearance())
	assert.Equal(t, "https://images.example.com/p/600/drill.jpg", deal.ImageURL)
	assert.Equal(t, domain.DealSourceAPI, deal.Source)
}

func TestNormalizeSkipsZeroPrices(t *testing.T) {
	// A zero in a higher-priority path means unset; the real price lives
	// deeper in the record.
	raw := map[string]any{
		"sku":    "2002",
		"sskMax": float64(0),
		"pricing": map[string]any{
			"currentPrice": float64(25.03),
		},
	}

	deal := Normalize(raw)
	assert.Equal(t, 25.03, deal.CurrentPrice)
	assert.Equal(t, ".03", deal.PriceEnding)
}

func TestNormalizeNumericSKU(t *testing.T) {
	raw := map[string]any{
		"itemId": float64(317895423),
		"title":  "Shop Vac",
		"price":  float64(39.99),
	}

	deal := Normalize(raw)
	assert.Equal(t, "317895423", deal.SKU)
}

func TestNormalizeTitleFallbacks(t *testing.T) {
	t.Run("brand plus label", func(t *testing.T) {
		raw := map[string]any{
			"sku":       "555",
			"brandName": "Ryobi",
		}
		deal := Normalize(raw)
		assert.Equal(t, "Ryobi", deal.Title)
	})

	t.Run("placeholder from sku", func(t *testing.T) {
		raw := map[string]any{"sku": "555"}
		deal := Normalize(raw)
		assert.Equal(t, "Product 555", deal.Title)
	})
}

func TestNormalizeAvailabilityDefaults(t *testing.T) {
	t.Run("absent signals default to available", func(t *testing.T) {
		deal := Normalize(map[string]any{"sku": "1"})
		assert.True(t, deal.OnlineAvailable)
		assert.True(t, deal.InStoreAvailable)
		assert.True(t, deal.InStock())
	})

	t.Run("explicit false is honored", func(t *testing.T) {
		deal := Normalize(map[string]any{
			"sku":              "1",
			"onlineAvailable":  false,
			"inStoreAvailable": false,
		})
		assert.False(t, deal.OnlineAvailable)
		assert.False(t, deal.InStoreAvailable)
		assert.False(t, deal.InStock())
	})

	t.Run("store locations imply in-store stock", func(t *testing.T) {
		deal := Normalize(map[string]any{
			"sku":            "1",
			"storeLocations": []any{map[string]any{"zip": "30301"}},
		})
		assert.True(t, deal.InStoreAvailable)
		assert.Len(t, deal.StoreLocations, 1)
	})

	t.Run("availability stock count implies in-store stock", func(t *testing.T) {
		deal := Normalize(map[string]any{
			"sku":          "1",
			"availability": map[string]any{"stock": float64(4)},
		})
		assert.True(t, deal.InStoreAvailable)
	})
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{},
		{"sku": true, "price": "not a number"},
		{"pricing": "unexpected string"},
		{"media": []any{"odd", "shape"}},
		{"storeLocations": "not-a-list", "availability": []any{1, 2}},
		{"categoryHierarchy": []any{}},
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			Normalize(raw)
		})
	}
}

func TestNormalizeCategoryFromHierarchy(t *testing.T) {
	raw := map[string]any{
		"sku":               "9",
		"categoryHierarchy": []any{"Tools", "Power Tools", "Drills"},
	}

	deal := Normalize(raw)
	assert.Equal(t, "Drills", deal.CategoryName)
	assert.Equal(t, "drills", deal.CategorySlug)
}

func TestNormalizePriceFromString(t *testing.T) {
	raw := map[string]any{
		"sku":   "77",
		"price": "$1,299.02",
	}

	deal := Normalize(raw)
	assert.Equal(t, 1299.02, deal.CurrentPrice)
	assert.Equal(t, ".02", deal.PriceEnding)
}
