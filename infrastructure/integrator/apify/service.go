package apify

import (
	"context"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/apifyclient"
	apifydomain "github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/domain"
	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/Mizanur7464/home-depot/internal/normalize"
	"github.com/Mizanur7464/home-depot/pkg/log"
	"github.com/pkg/errors"
)

// Service drives the three-phase actor protocol (submit, poll, collect) and
// normalizes the collected records. It is the primary deal source.
type Service struct {
	cfg     *config.Config
	client  apifyclient.Client
	logRepo repository.ActivityLogRepository

	sleep func(time.Duration)
	now   func() time.Time
}

func New(cfg *config.Config, client apifyclient.Client, logRepo repository.ActivityLogRepository) *Service {
	return &Service{
		cfg:     cfg,
		client:  client,
		logRepo: logRepo,
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// NewWithClock is used by tests to drive the polling loop deterministically.
func NewWithClock(cfg *config.Config, client apifyclient.Client, logRepo repository.ActivityLogRepository, sleep func(time.Duration), now func() time.Time) *Service {
	return &Service{cfg: cfg, client: client, logRepo: logRepo, sleep: sleep, now: now}
}

func (s *Service) Name() domain.DealSource {
	return domain.DealSourceAPI
}

// FetchDeals runs one actor job for the query and returns the normalized
// result set. A normalization failure on a single record is logged and
// skipped; it never aborts the batch.
func (s *Service) FetchDeals(ctx context.Context, query string, limit int) ([]domain.Deal, error) {
	if s.cfg.Apify.Token == "" {
		return nil, apifydomain.ErrMissingCredential
	}

	runID, err := s.client.StartRun(ctx, query, limit)
	if err != nil {
		s.logFetchFailure(query, err)
		return nil, err
	}

	datasetID, err := s.waitForRun(ctx, runID)
	if err != nil {
		s.logFetchFailure(query, err)
		return nil, err
	}

	items, err := s.client.GetDatasetItems(ctx, datasetID)
	if err != nil {
		s.logFetchFailure(query, err)
		return nil, err
	}

	deals := make([]domain.Deal, 0, len(items))
	skipped := 0
	for _, item := range items {
		deal, ok := s.normalizeRecord(item)
		if !ok || deal.SKU == "" {
			skipped++
			continue
		}
		deals = append(deals, deal)
	}

	log.L.WithFields(log.Fields{
		"query":   query,
		"items":   len(items),
		"deals":   len(deals),
		"skipped": skipped,
	}).Info("apify: fetch completed")

	return deals, nil
}

// waitForRun polls the run until it reaches a terminal state or the wall
// clock ceiling is exceeded. A timed-out run is surfaced as an error and
// never retried automatically: the upstream job already consumed resources.
func (s *Service) waitForRun(ctx context.Context, runID string) (string, error) {
	deadline := s.now().Add(s.cfg.Apify.MaxWait)

	for {
		run, err := s.client.GetRun(ctx, runID)
		if err != nil {
			// Transient status-check failures keep polling until the
			// overall ceiling kicks in.
			log.L.WithFields(log.Fields{
				"run_id": runID,
				"error":  err.Error(),
			}).Warn("apify: status check failed, will retry")
		} else {
			switch run.Status {
			case apifydomain.RunStatusSucceeded:
				return run.DatasetID, nil
			case apifydomain.RunStatusFailed, apifydomain.RunStatusAborted, apifydomain.RunStatusTimedOut:
				return "", &apifydomain.JobError{
					RunID:         runID,
					Status:        run.Status,
					StatusMessage: run.StatusMessage,
				}
			}
		}

		if !s.now().Add(s.cfg.Apify.PollEvery).Before(deadline) {
			return "", errors.Wrapf(apifydomain.ErrRunTimeout, "run %s", runID)
		}
		s.sleep(s.cfg.Apify.PollEvery)
	}
}

// normalizeRecord applies the normalizer, containing a panic on any single
// malformed record.
func (s *Service) normalizeRecord(item map[string]any) (deal domain.Deal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.L.WithField("panic", r).Warn("apify: failed to normalize record, skipping")
			ok = false
		}
	}()

	return normalize.Normalize(item), true
}

func (s *Service) logFetchFailure(query string, err error) {
	if s.logRepo == nil {
		return
	}

	entry := &domain.ActivityLogEntry{
		Type:    domain.ActivityTypeError,
		Message: "API fetch failed",
		Data: map[string]any{
			"query": query,
			"error": err.Error(),
		},
	}
	if logErr := s.logRepo.Append(entry); logErr != nil {
		log.L.WithError(logErr).Warn("apify: failed to append activity log entry")
	}
}
