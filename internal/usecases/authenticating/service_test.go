package authenticating

import (
	"context"
	"testing"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/integrator/whop/whopclient"
	"github.com/Mizanur7464/home-depot/infrastructure/integrator/whop/whopclient/mocks"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func authConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			Secret:   "test-secret",
			TokenTTL: time.Hour,
		},
	}
}

func TestCreateSessionIssuesValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := NewService(mockClient, nil, authConfig())

	mockClient.EXPECT().
		GetMe(gomock.Any(), "provider-token").
		Return(&whopclient.Me{ID: "user_1", Email: "deals@example.com"}, nil)

	mockClient.EXPECT().
		GetMembership(gomock.Any(), "provider-token", "mem_1").
		Return(&whopclient.Membership{ID: "mem_1", Valid: true, Status: "active"}, nil)

	token, claims, err := service.CreateSession(context.Background(), "provider-token", "mem_1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "user_1", claims.MemberID)
	assert.True(t, claims.MembershipActive)

	// The issued token must round-trip through our own validation.
	parsed, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", parsed.MemberID)
	assert.Equal(t, "deals@example.com", parsed.Email)
	assert.True(t, parsed.MembershipActive)
}

func TestCreateSessionRejectsInactiveMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := NewService(mockClient, nil, authConfig())

	mockClient.EXPECT().
		GetMe(gomock.Any(), "provider-token").
		Return(&whopclient.Me{ID: "user_2", Email: "expired@example.com"}, nil)

	mockClient.EXPECT().
		GetMembership(gomock.Any(), "provider-token", "mem_2").
		Return(&whopclient.Membership{ID: "mem_2", Valid: false, Status: "expired"}, nil)

	_, _, err := service.CreateSession(context.Background(), "provider-token", "mem_2")
	assert.ErrorIs(t, err, ErrMembershipInactive)
}

func TestCreateSessionRejectsMissingMembershipID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := NewService(mockClient, nil, authConfig())

	mockClient.EXPECT().
		GetMe(gomock.Any(), "provider-token").
		Return(&whopclient.Me{ID: "user_3"}, nil)

	_, _, err := service.CreateSession(context.Background(), "provider-token", "")
	assert.ErrorIs(t, err, ErrMembershipInactive)
}

func TestCreateSessionMissingAccessToken(t *testing.T) {
	service := NewService(nil, nil, authConfig())

	_, _, err := service.CreateSession(context.Background(), "", "mem_1")
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestCreateSessionProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := NewService(mockClient, nil, authConfig())

	mockClient.EXPECT().
		GetMe(gomock.Any(), "provider-token").
		Return(nil, assert.AnError)

	_, _, err := service.CreateSession(context.Background(), "provider-token", "mem_1")
	assert.ErrorIs(t, err, ErrMembershipLookup)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := NewService(nil, nil, authConfig())

	_, err := service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	cfg := authConfig()
	cfg.Auth.TokenTTL = -time.Minute

	service := NewService(mockClient, nil, cfg)

	mockClient.EXPECT().
		GetMe(gomock.Any(), "provider-token").
		Return(&whopclient.Me{ID: "user_4"}, nil)
	mockClient.EXPECT().
		GetMembership(gomock.Any(), "provider-token", "mem_4").
		Return(&whopclient.Membership{ID: "mem_4", Valid: true}, nil)

	token, _, err := service.CreateSession(context.Background(), "provider-token", "mem_4")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestMembershipActiveStates(t *testing.T) {
	tests := []struct {
		name       string
		membership whopclient.Membership
		active     bool
	}{
		{name: "valid flag", membership: whopclient.Membership{Valid: true}, active: true},
		{name: "active status", membership: whopclient.Membership{Status: "active"}, active: true},
		{name: "trialing status", membership: whopclient.Membership{Status: "trialing"}, active: true},
		{name: "completed status", membership: whopclient.Membership{Status: "completed"}, active: true},
		{name: "past due", membership: whopclient.Membership{Status: "past_due"}, active: false},
		{name: "canceled", membership: whopclient.Membership{Status: "canceled"}, active: false},
		{name: "expired", membership: whopclient.Membership{Status: "expired"}, active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.membership.Active())
		})
	}
}
