package authenticating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/integrator/whop/whopclient"
	"github.com/Mizanur7464/home-depot/infrastructure/repository"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

type Authenticator interface {
	CreateSession(ctx context.Context, accessToken, membershipID string) (string, *domain.Claims, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	membershipClient whopclient.Client
	logRepo          repository.ActivityLogRepository
	cfg              *config.Config
}

func NewService(membershipClient whopclient.Client, logRepo repository.ActivityLogRepository, cfg *config.Config) Authenticator {
	return &Service{
		membershipClient: membershipClient,
		logRepo:          logRepo,
		cfg:              cfg,
	}
}

// CreateSession verifies the caller against the membership provider and, if
// the membership is active, issues a short-lived local session token. The
// provider token is never stored; only our own claims travel in the session.
func (s *Service) CreateSession(ctx context.Context, accessToken, membershipID string) (string, *domain.Claims, error) {
	if accessToken == "" {
		return "", nil, ErrMissingAccessToken
	}

	me, err := s.membershipClient.GetMe(ctx, accessToken)
	if err != nil {
		logrus.WithError(err).Warn("Membership identity lookup failed")
		return "", nil, fmt.Errorf("%w: %v", ErrMembershipLookup, err)
	}

	active := false
	if membershipID != "" {
		membership, err := s.membershipClient.GetMembership(ctx, accessToken, membershipID)
		if err != nil {
			logrus.WithError(err).Warn("Membership status lookup failed")
			return "", nil, fmt.Errorf("%w: %v", ErrMembershipLookup, err)
		}
		active = membership.Active()
	}

	if !active {
		s.appendAuthLog("Login rejected, membership inactive", me.ID, me.Email)
		return "", nil, ErrMembershipInactive
	}

	claims := &domain.Claims{
		MemberID:         me.ID,
		Email:            me.Email,
		MembershipActive: active,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.Auth.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.Secret))
	if err != nil {
		return "", nil, err
	}

	s.appendAuthLog("Admin session created", me.ID, me.Email)

	return signed, claims, nil
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *Service) appendAuthLog(message, memberID, email string) {
	if s.logRepo == nil {
		return
	}
	entry := &domain.ActivityLogEntry{
		Type:    domain.ActivityTypeAuth,
		Message: message,
		Data: map[string]any{
			"member_id": memberID,
			"email":     email,
		},
	}
	if err := s.logRepo.Append(entry); err != nil {
		logrus.WithError(err).Warn("Failed to append auth activity log entry")
	}
}
