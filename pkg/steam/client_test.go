package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akinalp/gamevault/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Endpoints(t *testing.T) {
	var lastURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL, StoreURL: srv.URL})
	ctx := context.Background()

	body, err := c.MostPlayedGames(ctx, "french")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "/ISteamChartsService/GetMostPlayedGames/v1/?l=french", lastURL)

	_, err = c.AppDetails(ctx, "570", "english")
	require.NoError(t, err)
	assert.Equal(t, "/api/appdetails?appids=570&l=english", lastURL)

	_, err = c.AppReviews(ctx, "570", "french")
	require.NoError(t, err)
	assert.Equal(t, "/appreviews/570?json=1&l=french", lastURL)
}

func TestClient_Failures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(Config{APIURL: srv.URL}).MostPlayedGames(context.Background(), "french")
		assert.ErrorIs(t, err, pkg.ErrUpstream)
	})

	t.Run("invalid json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := NewClient(Config{StoreURL: srv.URL}).AppDetails(context.Background(), "570", "french")
		assert.ErrorIs(t, err, pkg.ErrUpstream)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := NewClient(Config{APIURL: addr}).MostPlayedGames(context.Background(), "french")
		assert.ErrorIs(t, err, pkg.ErrUpstream)
	})

	t.Run("breaker opens after repeated failures", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(Config{APIURL: srv.URL})
		for i := 0; i < 10; i++ {
			_, err := c.MostPlayedGames(context.Background(), "french")
			assert.ErrorIs(t, err, pkg.ErrUpstream)
		}
		assert.Equal(t, int32(5), hits.Load())
	})
}

func TestClient_CallerCancellationKeepsBreakerClosed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := c.MostPlayedGames(ctx, "french")
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, pkg.ErrUpstream)
	}

	body, err := c.MostPlayedGames(context.Background(), "french")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Positive(t, hits.Load())
}
