package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshResult summarizes one completed refresh cycle.
type RefreshResult struct {
	CycleID         string        `json:"cycle_id"`
	Fetched         int           `json:"fetched"`
	Clearance       int           `json:"clearance"`
	Saved           int           `json:"saved"`
	MarkedOutOfSale int           `json:"marked_out_of_stock"`
	Source          DealSource    `json:"source"`
	Duration        time.Duration `json:"duration"`
	StartedAt       time.Time     `json:"started_at"`
}

// Claims are the session claims carried by admin tokens after membership
// verification against the external provider.
type Claims struct {
	MemberID         string `json:"member_id"`
	Email            string `json:"email"`
	MembershipActive bool   `json:"membership_active"`
	jwt.RegisteredClaims
}
