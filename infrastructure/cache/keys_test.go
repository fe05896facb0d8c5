package cache

import (
	"testing"

	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildKeySanitizesParts(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "plain parts",
			prefix:   "deal",
			parts:    []string{"abc123"},
			expected: "homedepot:deal:abc123",
		},
		{
			name:     "separator injection is neutralized",
			prefix:   "deal",
			parts:    []string{"a:b*c"},
			expected: "homedepot:deal:a_b_c",
		},
		{
			name:     "spaces and symbols",
			prefix:   "deals",
			parts:    []string{"power tool", "50%"},
			expected: "homedepot:deals:power_tool:50_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildKey(tt.prefix, tt.parts...))
		})
	}
}

func TestDealListKeyIsDeterministic(t *testing.T) {
	min := 20.0
	filters := domain.DealFilters{
		CategoryID:  "cat-1",
		MinDiscount: &min,
		OnlineOnly:  true,
		Page:        2,
		Limit:       30,
	}

	first := DealListKey(filters)
	second := DealListKey(filters)
	assert.Equal(t, first, second)

	// A differing filter set must map to a different key.
	filters.OnlineOnly = false
	assert.NotEqual(t, first, DealListKey(filters))
}

func TestDealListKeyDistinguishesPagination(t *testing.T) {
	base := domain.DealFilters{Page: 1, Limit: 30}
	next := domain.DealFilters{Page: 2, Limit: 30}

	assert.NotEqual(t, DealListKey(base), DealListKey(next))
}
