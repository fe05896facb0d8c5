package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any network call when no API token
// is configured.
var ErrMissingCredential = errors.New("apify: API token not configured")

// APIError carries the status class of an upstream response. The retry
// policy branches on the class, never on message text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apify: request failed (%d): %s", e.StatusCode, e.Message)
}

// IsClientError reports whether the error is deterministic (4xx) and must
// not be retried.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// JobError marks a run that reached a terminal failure state. A failed run
// already consumed upstream resources, so it is never retried within the
// same cycle.
type JobError struct {
	RunID         string
	Status        string
	StatusMessage string
}

func (e *JobError) Error() string {
	if e.StatusMessage == "" {
		return fmt.Sprintf("apify: run %s finished with status %s", e.RunID, e.Status)
	}
	return fmt.Sprintf("apify: run %s finished with status %s: %s", e.RunID, e.Status, e.StatusMessage)
}

// ErrRunTimeout is returned when a run does not reach a terminal state
// within the polling ceiling.
var ErrRunTimeout = errors.New("apify: run exceeded maximum wait time")
