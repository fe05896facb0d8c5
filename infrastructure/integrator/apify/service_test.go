package apify

import (
	"context"
	"testing"
	"time"

	"github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/apifyclient/mocks"
	apifydomain "github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/domain"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		Apify: config.Apify{
			BaseURL:     "https://api.example.com/v2",
			ActorID:     "test~actor",
			Token:       "test-token",
			PollEvery:   5 * time.Second,
			MaxWait:     5 * time.Minute,
			MaxAttempts: 3,
		},
	}
}

// fakeClock advances a virtual clock instead of sleeping so polling loops run
// instantly in tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) Now() time.Time        { return c.now }

func TestFetchDealsPollsUntilSucceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	clock := newFakeClock()
	service := NewWithClock(testConfig(), mockClient, nil, clock.Sleep, clock.Now)

	mockClient.EXPECT().
		StartRun(gomock.Any(), "drill", 500).
		Return("run-1", nil)

	gomock.InOrder(
		mockClient.EXPECT().
			GetRun(gomock.Any(), "run-1").
			Return(&apifydomain.Run{ID: "run-1", Status: apifydomain.RunStatusRunning}, nil),
		mockClient.EXPECT().
			GetRun(gomock.Any(), "run-1").
			Return(&apifydomain.Run{ID: "run-1", Status: apifydomain.RunStatusRunning}, nil),
		mockClient.EXPECT().
			GetRun(gomock.Any(), "run-1").
			Return(&apifydomain.Run{ID: "run-1", Status: apifydomain.RunStatusSucceeded, DatasetID: "ds-1"}, nil),
	)

	mockClient.EXPECT().
		GetDatasetItems(gomock.Any(), "ds-1").
		Return([]map[string]any{
			{"sku": "1001", "title": "Drill A", "price": float64(89.06)},
			{"sku": "1002", "title": "Drill B", "price": float64(49.99)},
			{"title": "No SKU, dropped", "price": float64(9.99)},
		}, nil)

	deals, err := service.FetchDeals(context.Background(), "drill", 500)
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "1001", deals[0].SKU)
	assert.Equal(t, ".06", deals[0].PriceEnding)
	assert.Equal(t, "1002", deals[1].SKU)
}

func TestFetchDealsFailedRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	clock := newFakeClock()
	service := NewWithClock(testConfig(), mockClient, nil, clock.Sleep, clock.Now)

	mockClient.EXPECT().
		StartRun(gomock.Any(), "drill", 500).
		Return("run-2", nil)

	mockClient.EXPECT().
		GetRun(gomock.Any(), "run-2").
		Return(&apifydomain.Run{
			ID:            "run-2",
			Status:        apifydomain.RunStatusFailed,
			StatusMessage: "actor crashed",
		}, nil)

	_, err := service.FetchDeals(context.Background(), "drill", 500)
	require.Error(t, err)

	jobErr, ok := err.(*apifydomain.JobError)
	require.True(t, ok)
	assert.Equal(t, "run-2", jobErr.RunID)
	assert.Equal(t, apifydomain.RunStatusFailed, jobErr.Status)
	assert.Contains(t, jobErr.Error(), "actor crashed")
}

func TestFetchDealsTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	clock := newFakeClock()

	cfg := testConfig()
	cfg.Apify.MaxWait = 12 * time.Second // room for two polls at 5s

	service := NewWithClock(cfg, mockClient, nil, clock.Sleep, clock.Now)

	mockClient.EXPECT().
		StartRun(gomock.Any(), "drill", 500).
		Return("run-3", nil)

	mockClient.EXPECT().
		GetRun(gomock.Any(), "run-3").
		Return(&apifydomain.Run{ID: "run-3", Status: apifydomain.RunStatusRunning}, nil).
		Times(3)

	_, err := service.FetchDeals(context.Background(), "drill", 500)
	require.Error(t, err)
	assert.ErrorIs(t, err, apifydomain.ErrRunTimeout)
}

func TestFetchDealsMissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)

	cfg := testConfig()
	cfg.Apify.Token = ""

	clock := newFakeClock()
	service := NewWithClock(cfg, mockClient, nil, clock.Sleep, clock.Now)

	_, err := service.FetchDeals(context.Background(), "drill", 500)
	assert.ErrorIs(t, err, apifydomain.ErrMissingCredential)
}

func TestFetchDealsTransientPollErrorKeepsPolling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	clock := newFakeClock()
	service := NewWithClock(testConfig(), mockClient, nil, clock.Sleep, clock.Now)

	mockClient.EXPECT().
		StartRun(gomock.Any(), "saw", 100).
		Return("run-4", nil)

	gomock.InOrder(
		mockClient.EXPECT().
			GetRun(gomock.Any(), "run-4").
			Return(nil, assert.AnError),
		mockClient.EXPECT().
			GetRun(gomock.Any(), "run-4").
			Return(&apifydomain.Run{ID: "run-4", Status: apifydomain.RunStatusSucceeded, DatasetID: "ds-4"}, nil),
	)

	mockClient.EXPECT().
		GetDatasetItems(gomock.Any(), "ds-4").
		Return([]map[string]any{}, nil)

	deals, err := service.FetchDeals(context.Background(), "saw", 100)
	require.NoError(t, err)
	assert.Empty(t, deals)
}
