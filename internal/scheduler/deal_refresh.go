package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/cache"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/scraper"
	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/pkg/utils"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=deal_refresh.go -destination=mocks/deal_refresh.go -package=mocks

// DealSource is any pipeline able to fetch deals for a search query.
type DealSource interface {
	Name() domain.DealSource
	FetchDeals(ctx context.Context, query string, limit int) ([]domain.Deal, error)
}

// ErrRefreshInProgress is returned when a manual trigger races an already
// running cycle. At most one cycle runs at a time.
var ErrRefreshInProgress = errors.New("a refresh cycle is already in progress")

// DealRefreshService schedules and executes refresh cycles: fetch from the
// primary source across the configured queries, fall back to the scraper when
// the primary yields nothing, persist, reconcile, invalidate caches.
type DealRefreshService struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config

	primary  DealSource
	fallback DealSource

	dealRepo repository.DealRepository
	logRepo  repository.ActivityLogRepository
	cache    cache.Cache

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *domain.RefreshResult
}

func NewDealRefreshService(
	primary DealSource,
	fallback DealSource,
	dealRepo repository.DealRepository,
	logRepo repository.ActivityLogRepository,
	cacheClient cache.Cache,
	cfg *config.Config,
) *DealRefreshService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":    cfg.Refresh.CronSchedule,
		"queries":          len(cfg.Refresh.Queries),
		"per_query_limit":  cfg.Refresh.PerQueryLimit,
		"clearance_target": cfg.Refresh.ClearanceTarget,
		"max_total_deals":  cfg.Refresh.MaxTotalDeals,
		"refresh_enabled":  cfg.Refresh.Enabled,
	}).Info("Deal refresh scheduler configuration loaded")

	return &DealRefreshService{
		scheduler: gocron.NewScheduler(time.Local),
		cfg:       cfg,
		primary:   primary,
		fallback:  fallback,
		dealRepo:  dealRepo,
		logRepo:   logRepo,
		cache:     cacheClient,
	}
}

// Start registers the cron job and runs the scheduler until ctx is canceled.
func (s *DealRefreshService) Start(ctx context.Context) error {
	if !s.cfg.Refresh.Enabled {
		logrus.Info("Deal refresh disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.cfg.Refresh.CronSchedule).Info("Starting deal refresh scheduler")

	_, err := s.scheduler.Cron(s.cfg.Refresh.CronSchedule).Do(func() {
		s.runRefreshCycle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule deal refresh: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping deal refresh scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync starts a cycle in the background. It reports a conflict
// instead of queuing: an admin hammering the button must not stack cycles.
func (s *DealRefreshService) TriggerManualSync() error {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Deal refresh already in progress, ignoring manual trigger")
		return ErrRefreshInProgress
	}

	logrus.Info("Starting manual deal refresh")
	go s.runRefreshCycle(context.Background())
	return nil
}

// GetStatus returns the scheduler state for the admin API.
func (s *DealRefreshService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"refresh_enabled":        s.cfg.Refresh.Enabled,
		"refresh_cron":           s.cfg.Refresh.CronSchedule,
		"refresh_running":        s.syncRunning,
		"queries":                len(s.cfg.Refresh.Queries),
		"clearance_target":       s.cfg.Refresh.ClearanceTarget,
		"max_total_deals":        s.cfg.Refresh.MaxTotalDeals,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if s.lastResult != nil {
		status["last_result"] = s.lastResult
	}
	return status
}

func (s *DealRefreshService) runRefreshCycle(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Deal refresh already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	cycleID, err := utils.GenerateID()
	if err != nil {
		cycleID = startTime.Format("20060102150405")
	}

	s.syncMutex.Lock()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	// Failure entries carry the same counts as the success summary, so a
	// partial cycle is still accounted for.
	fetched := 0
	clearance := 0

	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"cycle_id": cycleID,
				"panic":    r,
			}).Error("Deal refresh cycle panicked")
			s.appendLog(domain.ActivityTypeError, "Refresh cycle panicked", map[string]any{
				"cycle_id":  cycleID,
				"panic":     fmt.Sprint(r),
				"fetched":   fetched,
				"clearance": clearance,
				"duration":  time.Since(startTime).String(),
			})
		}

		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.WithField("cycle_id", cycleID).Info("Starting deal refresh cycle")

	deals, source := s.collectDeals(ctx, cycleID)

	fetched = len(deals)
	for i := range deals {
		if deals[i].IsClearance() {
			clearance++
		}
	}

	saved := 0
	var marked int64
	if len(deals) > 0 {
		var err error
		saved, err = s.dealRepo.SaveOrUpdate(deals)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"cycle_id": cycleID,
				"error":    err.Error(),
			}).Error("Failed to save deals")
			s.appendLog(domain.ActivityTypeError, "Failed to save refreshed deals", map[string]any{
				"cycle_id":  cycleID,
				"error":     err.Error(),
				"fetched":   fetched,
				"clearance": clearance,
				"duration":  time.Since(startTime).String(),
			})
			return
		}

		// The out-of-stock barrier only runs after a successful save. Marking
		// against a failed or empty cycle would blank the catalog.
		seen := make([]string, 0, len(deals))
		for _, deal := range deals {
			seen = append(seen, deal.SKU)
		}

		marked, err = s.dealRepo.MarkUnavailableExcept(seen)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"cycle_id": cycleID,
				"error":    err.Error(),
			}).Error("Failed to mark unseen deals as unavailable")
		}

		s.invalidateCaches(ctx)
	}

	duration := time.Since(startTime)
	result := &domain.RefreshResult{
		CycleID:         cycleID,
		Fetched:         fetched,
		Clearance:       clearance,
		Saved:           saved,
		MarkedOutOfSale: int(marked),
		Source:          source,
		Duration:        duration,
		StartedAt:       startTime,
	}

	s.syncMutex.Lock()
	s.lastResult = result
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"cycle_id":  cycleID,
		"fetched":   result.Fetched,
		"clearance": result.Clearance,
		"saved":     result.Saved,
		"marked":    result.MarkedOutOfSale,
		"source":    result.Source,
		"duration":  duration.String(),
	}).Info("Deal refresh cycle completed")

	logType := domain.ActivityTypeAPI
	if source == domain.DealSourceScraper {
		logType = domain.ActivityTypeScraper
	}
	s.appendLog(logType, "Refresh cycle completed", map[string]any{
		"cycle_id":  cycleID,
		"fetched":   result.Fetched,
		"clearance": result.Clearance,
		"saved":     result.Saved,
		"marked":    result.MarkedOutOfSale,
		"source":    string(result.Source),
		"duration":  duration.String(),
	})
}

// collectDeals walks the configured queries against the primary source,
// stopping early once enough clearance items are in hand. When the primary
// yields nothing at all it tries the fallback source once.
func (s *DealRefreshService) collectDeals(ctx context.Context, cycleID string) ([]*domain.Deal, domain.DealSource) {
	collected := make([]*domain.Deal, 0)
	seen := make(map[string]struct{})
	clearance := 0

	for _, query := range s.cfg.Refresh.Queries {
		if clearance >= s.cfg.Refresh.ClearanceTarget {
			logrus.WithFields(logrus.Fields{
				"cycle_id":  cycleID,
				"clearance": clearance,
			}).Info("Clearance target reached, stopping query walk")
			break
		}
		if len(collected) >= s.cfg.Refresh.MaxTotalDeals {
			logrus.WithFields(logrus.Fields{
				"cycle_id": cycleID,
				"total":    len(collected),
			}).Info("Total deal ceiling reached, stopping query walk")
			break
		}

		deals, err := s.primary.FetchDeals(ctx, query, s.cfg.Refresh.PerQueryLimit)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"cycle_id": cycleID,
				"query":    query,
				"error":    err.Error(),
			}).Error("Primary source fetch failed for query")
			continue
		}

		for i := range deals {
			deal := deals[i]
			if _, dup := seen[deal.SKU]; dup {
				continue
			}
			seen[deal.SKU] = struct{}{}
			collected = append(collected, &deal)
			if deal.IsClearance() {
				clearance++
			}
		}
	}

	if len(collected) > 0 || s.fallback == nil {
		return collected, s.primary.Name()
	}

	// Zero results across every query is either an upstream outage or a
	// credential problem. The scraper is a best-effort stopgap; its absence
	// or failure is logged and swallowed.
	logrus.WithField("cycle_id", cycleID).Warn("Primary source yielded no deals, trying fallback")

	for _, query := range s.cfg.Refresh.Queries {
		deals, err := s.fallback.FetchDeals(ctx, query, s.cfg.Refresh.PerQueryLimit)
		if err != nil {
			if errors.Is(err, scraper.ErrUnavailable) {
				logrus.Info("Fallback source unavailable in this deployment")
			} else {
				logrus.WithFields(logrus.Fields{
					"cycle_id": cycleID,
					"query":    query,
					"error":    err.Error(),
				}).Warn("Fallback source fetch failed for query")
				s.appendLog(domain.ActivityTypeScraper, "Fallback fetch failed", map[string]any{
					"cycle_id": cycleID,
					"query":    query,
					"error":    err.Error(),
				})
			}
			break
		}

		for i := range deals {
			deal := deals[i]
			if _, dup := seen[deal.SKU]; dup {
				continue
			}
			seen[deal.SKU] = struct{}{}
			collected = append(collected, &deal)
			if deal.IsClearance() {
				clearance++
			}
		}

		if clearance >= s.cfg.Refresh.ClearanceTarget || len(collected) >= s.cfg.Refresh.MaxTotalDeals {
			break
		}
	}

	return collected, s.fallback.Name()
}

func (s *DealRefreshService) invalidateCaches(ctx context.Context) {
	s.cache.DeletePattern(ctx, cache.BuildKey("deals")+":*")
	s.cache.DeletePattern(ctx, cache.BuildKey("deal")+":*")
}

func (s *DealRefreshService) appendLog(logType, message string, data map[string]any) {
	if s.logRepo == nil {
		return
	}
	entry := &domain.ActivityLogEntry{Type: logType, Message: message, Data: data}
	if err := s.logRepo.Append(entry); err != nil {
		logrus.WithError(err).Warn("Failed to append activity log entry")
	}
}
