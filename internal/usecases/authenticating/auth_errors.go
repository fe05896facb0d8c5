package authenticating

import "errors"

var (
	ErrMissingAccessToken = errors.New("access token is required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrMembershipInactive = errors.New("membership is not active")
	ErrMembershipLookup   = errors.New("failed to verify membership")
)

// IsAuthorizationError reports whether the error should map to a 401/403
// rather than a 5xx.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMembershipInactive)
}
