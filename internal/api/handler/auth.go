package handler

import (
	"errors"
	"net/http"

	"github.com/Mizanur7464/home-depot/internal/usecases/authenticating"
	"github.com/Mizanur7464/home-depot/pkg/apiErrors"
	"github.com/Mizanur7464/home-depot/pkg/log"
)

type createSessionRequest struct {
	AccessToken  string `json:"access_token"`
	MembershipID string `json:"membership_id"`
}

type createSessionResponse struct {
	Token            string `json:"token"`
	MemberID         string `json:"member_id"`
	Email            string `json:"email"`
	MembershipActive bool   `json:"membership_active"`
}

// CreateSession exchanges a membership provider access token for a local
// admin session token.
func CreateSession(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Invalid request body", nil)
			return
		}

		if req.AccessToken == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "access_token is required", nil)
			return
		}

		token, claims, err := service.CreateSession(r.Context(), req.AccessToken, req.MembershipID)
		if err != nil {
			switch {
			case errors.Is(err, authenticating.ErrMembershipInactive):
				apiErrors.WriteError(w, apiErrors.ErrMembershipInactive, "Membership is not active", nil)
			case errors.Is(err, authenticating.ErrMembershipLookup):
				logger.WithError(err).Warn("Membership verification failed")
				apiErrors.WriteError(w, apiErrors.ErrExternalService, "Could not verify membership", nil)
			default:
				logger.WithError(err).Error("Failed to create session")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to create session", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(createSessionResponse{
			Token:            token,
			MemberID:         claims.MemberID,
			Email:            claims.Email,
			MembershipActive: claims.MembershipActive,
		})
	}
}
