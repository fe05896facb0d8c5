package dealing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/cache"
	"github.com/Mizanur7464/home-depot/infrastructure/repository/mocks"
	"github.com/Mizanur7464/home-depot/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// memoryCache is an in-process stand-in for Redis with the same
// serialization behavior.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if !ok {
		return false
	}
	return jsoniter.Unmarshal(payload, dest) == nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, err := jsoniter.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = payload
}

func (c *memoryCache) DeletePattern(context.Context, string) {}
func (c *memoryCache) Available() bool                       { return true }

// downCache behaves like the redis cache with an open breaker: every read
// misses and every write is dropped.
type downCache struct{}

func (downCache) Get(context.Context, string, any) bool           { return false }
func (downCache) Set(context.Context, string, any, time.Duration) {}
func (downCache) DeletePattern(context.Context, string)           {}
func (downCache) Available() bool                                 { return false }

func deal(sku string) *domain.Deal {
	return &domain.Deal{ID: "id-" + sku, SKU: sku, Title: "Deal " + sku, CurrentPrice: 10.06}
}

func TestListDealsCachesResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	service := NewService(dealRepo, newMemoryCache())

	// Exactly one repository hit; the second call is served from cache.
	dealRepo.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Deal{deal("1001"), deal("1002")}, nil).
		Times(1)

	filters := domain.DealFilters{CategoryID: "cat-1"}

	first, err := service.ListDeals(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Count)

	second, err := service.ListDeals(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, first.Deals[0].SKU, second.Deals[0].SKU)
}

func TestListDealsUnchangedWhileCacheIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	service := NewService(dealRepo, downCache{})

	// Every call falls through to the repository while the backend is down,
	// and the response is identical to the cached one.
	dealRepo.EXPECT().
		List(gomock.Any()).
		Return([]*domain.Deal{deal("1001"), deal("1002")}, nil).
		Times(2)

	filters := domain.DealFilters{CategoryID: "cat-1"}

	first, err := service.ListDeals(context.Background(), filters)
	require.NoError(t, err)

	second, err := service.ListDeals(context.Background(), filters)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, "1001", first.Deals[0].SKU)
}

func TestListDealsDeduplicatesAndSlices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	service := NewService(dealRepo, cache.Noop{})

	dealRepo.EXPECT().
		List(gomock.Any()).
		DoAndReturn(func(filters domain.DealFilters) ([]*domain.Deal, error) {
			assert.Equal(t, 2, filters.Limit)
			return []*domain.Deal{deal("1001"), deal("1001"), deal("1002"), deal("1003")}, nil
		})

	result, err := service.ListDeals(context.Background(), domain.DealFilters{Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Deals, 2)
	assert.Equal(t, "1001", result.Deals[0].SKU)
	assert.Equal(t, "1002", result.Deals[1].SKU)
}

func TestListDealsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	service := NewService(dealRepo, cache.Noop{})

	dealRepo.EXPECT().
		List(gomock.Any()).
		DoAndReturn(func(filters domain.DealFilters) ([]*domain.Deal, error) {
			assert.Equal(t, 30, filters.Limit)
			assert.Equal(t, 1, filters.Page)
			return nil, nil
		})

	result, err := service.ListDeals(context.Background(), domain.DealFilters{})
	require.NoError(t, err)
	assert.Equal(t, 30, result.Limit)
	assert.Equal(t, 1, result.Page)
	assert.Empty(t, result.Deals)
}

func TestGetDealByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	cacheClient := newMemoryCache()
	service := NewService(dealRepo, cacheClient)

	dealRepo.EXPECT().
		GetByID("id-1001").
		Return(deal("1001"), nil).
		Times(1)

	found, err := service.GetDealByID(context.Background(), "id-1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", found.SKU)

	// Second lookup is a cache hit.
	again, err := service.GetDealByID(context.Background(), "id-1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", again.SKU)
}

func TestGetDealByIDNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dealRepo := mocks.NewMockDealRepository(ctrl)
	service := NewService(dealRepo, cache.Noop{})

	dealRepo.EXPECT().GetByID("missing").Return(nil, nil)

	_, err := service.GetDealByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDealNotFound)
}
