package dealing

import (
	"context"
	"errors"

	"github.com/Mizanur7464/home-depot/infrastructure/cache"
	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// ErrDealNotFound marks a lookup miss on the single-deal path.
var ErrDealNotFound = errors.New("deal not found")

// DealListResult is the read-path response envelope.
type DealListResult struct {
	Deals []*domain.Deal `json:"deals"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Count int            `json:"count"`
}

type Dealer interface {
	ListDeals(ctx context.Context, filters domain.DealFilters) (*DealListResult, error)
	GetDealByID(ctx context.Context, id string) (*domain.Deal, error)
}

type Service struct {
	dealRepo repository.DealRepository
	cache    cache.Cache
}

func NewService(dealRepo repository.DealRepository, cacheClient cache.Cache) Dealer {
	return &Service{
		dealRepo: dealRepo,
		cache:    cacheClient,
	}
}

// ListDeals serves the public deal feed. Results are cached per filter set;
// the repository overfetches so deduplication by SKU still fills the page.
func (s *Service) ListDeals(ctx context.Context, filters domain.DealFilters) (*DealListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = defaultPageSize
	}
	if filters.Limit > maxPageSize {
		filters.Limit = maxPageSize
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}

	key := cache.DealListKey(filters)

	cached := &DealListResult{}
	if s.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	deals, err := s.dealRepo.List(filters)
	if err != nil {
		return nil, err
	}

	// Upstream records occasionally repeat a SKU across shapes; the feed
	// must never show the same product twice.
	seen := make(map[string]struct{}, len(deals))
	unique := make([]*domain.Deal, 0, len(deals))
	for _, deal := range deals {
		if _, dup := seen[deal.SKU]; dup {
			continue
		}
		seen[deal.SKU] = struct{}{}
		unique = append(unique, deal)
		if len(unique) >= filters.Limit {
			break
		}
	}

	result := &DealListResult{
		Deals: unique,
		Page:  filters.Page,
		Limit: filters.Limit,
		Count: len(unique),
	}

	s.cache.Set(ctx, key, result, cache.TTLDealList)

	return result, nil
}

func (s *Service) GetDealByID(ctx context.Context, id string) (*domain.Deal, error) {
	key := cache.DealKey(id)

	cached := &domain.Deal{}
	if s.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	deal, err := s.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		logrus.WithField("deal_id", id).Debug("Deal not found")
		return nil, ErrDealNotFound
	}

	s.cache.Set(ctx, key, deal, cache.TTLDeal)

	return deal, nil
}
