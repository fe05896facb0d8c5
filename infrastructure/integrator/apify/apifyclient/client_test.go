package apifyclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apifydomain "github.com/Mizanur7464/home-depot/infrastructure/integrator/apify/domain"
	"github.com/Mizanur7464/home-depot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientConfig(baseURL string) *config.Config {
	return &config.Config{
		Apify: config.Apify{
			BaseURL:     baseURL,
			ActorID:     "test~actor",
			Token:       "test-token",
			PollEvery:   time.Second,
			MaxWait:     time.Minute,
			MaxAttempts: 3,
		},
	}
}

func TestStartRunRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream hiccup"}}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run-ok","status":"READY"}}`))
	}))
	defer server.Close()

	var delays []time.Duration
	client := NewClientWithSleep(clientConfig(server.URL), func(d time.Duration) {
		delays = append(delays, d)
	})

	runID, err := client.StartRun(context.Background(), "drill", 100)
	require.NoError(t, err)
	assert.Equal(t, "run-ok", runID)
	assert.Equal(t, 3, attempts)

	// Exponential backoff: 1s then 2s.
	require.Len(t, delays, 2)
	assert.Equal(t, time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
}

func TestStartRunDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer server.Close()

	client := NewClientWithSleep(clientConfig(server.URL), func(time.Duration) {
		t.Fatal("must not back off on a 4xx")
	})

	_, err := client.StartRun(context.Background(), "drill", 100)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	apiErr, ok := err.(*apifydomain.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, apiErr.IsClientError())
	assert.Contains(t, apiErr.Message, "invalid token")
}

func TestStartRunCapsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var input apifydomain.RunInput
		require.NoError(t, decodeBody(r, &input))
		assert.Equal(t, 1000, input.Limit)
		assert.Equal(t, []string{"drill"}, input.Query)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"run-cap","status":"READY"}}`))
	}))
	defer server.Close()

	client := NewClientWithSleep(clientConfig(server.URL), func(time.Duration) {})

	runID, err := client.StartRun(context.Background(), "drill", 5000)
	require.NoError(t, err)
	assert.Equal(t, "run-cap", runID)
}

func TestStartRunMissingToken(t *testing.T) {
	cfg := clientConfig("http://localhost")
	cfg.Apify.Token = ""

	client := NewClientWithSleep(cfg, func(time.Duration) {})

	_, err := client.StartRun(context.Background(), "drill", 100)
	assert.ErrorIs(t, err, apifydomain.ErrMissingCredential)
}

func TestGetRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actor-runs/run-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"run-9","status":"SUCCEEDED","defaultDatasetId":"ds-9"}}`))
	}))
	defer server.Close()

	client := NewClientWithSleep(clientConfig(server.URL), func(time.Duration) {})

	run, err := client.GetRun(context.Background(), "run-9")
	require.NoError(t, err)
	assert.Equal(t, apifydomain.RunStatusSucceeded, run.Status)
	assert.Equal(t, "ds-9", run.DatasetID)
	assert.True(t, run.IsTerminal())
}

func TestGetDatasetItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/ds-9/items", r.URL.Path)
		_, _ = w.Write([]byte(`[{"sku":"1001","price":89.06},{"sku":"1002"}]`))
	}))
	defer server.Close()

	client := NewClientWithSleep(clientConfig(server.URL), func(time.Duration) {})

	items, err := client.GetDatasetItems(context.Background(), "ds-9")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1001", items[0]["sku"])
}

func decodeBody(r *http.Request, dest any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}
