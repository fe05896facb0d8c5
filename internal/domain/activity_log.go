package domain

import "time"

// Activity log entry types written by the pipeline.
const (
	ActivityTypeAPI     = "api"
	ActivityTypeScraper = "scraper"
	ActivityTypeError   = "error"
	ActivityTypeAuth    = "auth"
)

// ActivityLogEntry is an append-only audit record. Entries are never updated
// or deleted by the application; retention is an operational concern.
type ActivityLogEntry struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
