package apifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apifydomain "github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/domain"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/pkg/log"
	"github.com/pkg/errors"
)

// The actor caps run size; larger limits cause run failures.
const maxRunLimit = 1000

const (
	backoffBase = time.Second
	backoffCap  = 10 * time.Second
)

type Client interface {
	StartRun(ctx context.Context, query string, limit int) (string, error)
	GetRun(ctx context.Context, runID string) (*apifydomain.Run, error)
	GetDatasetItems(ctx context.Context, datasetID string) ([]map[string]any, error)
}

type ApifyClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client

	// sleep is injectable so retry backoff is testable without wall-clock
	// waits.
	sleep func(time.Duration)
}

func NewClient(cfg *config.Config) Client {
	return &ApifyClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		sleep:      time.Sleep,
	}
}

// NewClientWithSleep is used by tests to observe backoff behavior.
func NewClientWithSleep(cfg *config.Config, sleep func(time.Duration)) *ApifyClient {
	return &ApifyClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		sleep:      sleep,
	}
}

type startRunResponse struct {
	Data apifydomain.Run `json:"data"`
}

type getRunResponse struct {
	Data apifydomain.Run `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// StartRun submits an actor run. Transient failures (network, 5xx) are
// retried with exponential backoff; client errors (4xx) are deterministic
// and surfaced immediately.
func (c *ApifyClient) StartRun(ctx context.Context, query string, limit int) (string, error) {
	if c.Cfg.Apify.Token == "" {
		return "", apifydomain.ErrMissingCredential
	}

	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	input := apifydomain.RunInput{
		DevProxyConfig: apifydomain.ProxyConfig{
			UseApifyProxy:     true,
			ApifyProxyGroups:  []string{"RESIDENTIAL"},
			ApifyProxyCountry: "US",
		},
		Limit: limit,
		Query: []string{query},
	}

	body, err := json.Marshal(input)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode run input")
	}

	url := fmt.Sprintf("%s/acts/%s/runs?token=%s", c.Cfg.Apify.BaseURL, c.Cfg.Apify.ActorID, c.Cfg.Apify.Token)

	maxAttempts := c.Cfg.Apify.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		run, err := c.postRun(ctx, url, body)
		if err == nil {
			log.L.WithFields(log.Fields{
				"run_id": run.ID,
				"query":  query,
				"limit":  limit,
			}).Info("apify: run started")
			return run.ID, nil
		}

		var apiErr *apifydomain.APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			// Deterministic failure; retrying only burns quota.
			return "", err
		}

		lastErr = err
		if attempt < maxAttempts {
			delay := backoffBase << (attempt - 1)
			if delay > backoffCap {
				delay = backoffCap
			}
			log.L.WithFields(log.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   err.Error(),
			}).Warn("apify: run submission failed, retrying")
			c.sleep(delay)
		}
	}

	return "", errors.Wrapf(lastErr, "failed to start run after %d attempts", maxAttempts)
}

func (c *ApifyClient) postRun(ctx context.Context, url string, body []byte) (*apifydomain.Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := c.handleResponse(resp)
	if err != nil {
		return nil, err
	}

	var response startRunResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, errors.Wrap(err, "failed to decode run response")
	}

	return &response.Data, nil
}

func (c *ApifyClient) GetRun(ctx context.Context, runID string) (*apifydomain.Run, error) {
	url := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.Cfg.Apify.BaseURL, runID, c.Cfg.Apify.Token)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var response getRunResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to decode run status response")
	}

	return &response.Data, nil
}

func (c *ApifyClient) GetDatasetItems(ctx context.Context, datasetID string) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/datasets/%s/items?token=%s", c.Cfg.Apify.BaseURL, datasetID, c.Cfg.Apify.Token)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0)
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset items")
	}

	return items, nil
}

func (c *ApifyClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

// handleResponse reads the body and converts non-2xx statuses into typed
// errors, so callers can branch on the status class.
func (c *ApifyClient) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	message := "request failed"
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error.Message != "" {
			message = errResp.Error.Message
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}

	return nil, &apifydomain.APIError{StatusCode: resp.StatusCode, Message: message}
}
