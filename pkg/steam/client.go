// Package steam is a minimal client for the public Steam catalog endpoints.
//
// Responses are returned as raw JSON; their schema is Steam's business. Every
// failure (transport error, non-2xx status, invalid JSON, open circuit breaker)
// is reported as pkg.ErrUpstream. A request cut short by the caller's own
// context returns the context error and does not count toward the breaker.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akinalp/gamevault/pkg"
	"github.com/sony/gobreaker"
)

// Default endpoints.
const (
	DefaultAPIURL   = "https://api.steampowered.com"
	DefaultStoreURL = "https://store.steampowered.com"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 8 << 20

// errCallerGone marks a request abandoned by its own caller. The breaker does
// not count it against Steam.
var errCallerGone = errors.New("request abandoned by caller")

// Fetcher is what the catalog service needs from the upstream API.
type Fetcher interface {
	MostPlayedGames(ctx context.Context, locale string) (json.RawMessage, error)
	AppDetails(ctx context.Context, appID, locale string) (json.RawMessage, error)
	AppReviews(ctx context.Context, appID, locale string) (json.RawMessage, error)
}

// Config configures a Client.
type Config struct {
	APIURL   string
	StoreURL string
	Timeout  time.Duration
}

// Client talks to Steam over HTTP behind a circuit breaker.
type Client struct {
	http     *http.Client
	apiURL   string
	storeURL string
	breaker  *gobreaker.CircuitBreaker
}

// NewClient builds a Client. Empty URLs fall back to the public endpoints.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = DefaultStoreURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		apiURL:   cfg.APIURL,
		storeURL: cfg.StoreURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "steam",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errCallerGone)
			},
		}),
	}
}

// MostPlayedGames calls ISteamChartsService/GetMostPlayedGames.
func (c *Client) MostPlayedGames(ctx context.Context, locale string) (json.RawMessage, error) {
	q := url.Values{"l": {locale}}
	return c.get(ctx, c.apiURL+"/ISteamChartsService/GetMostPlayedGames/v1/?"+q.Encode())
}

// AppDetails calls the store appdetails endpoint for a single app.
func (c *Client) AppDetails(ctx context.Context, appID, locale string) (json.RawMessage, error) {
	q := url.Values{"appids": {appID}, "l": {locale}}
	return c.get(ctx, c.storeURL+"/api/appdetails?"+q.Encode())
}

// AppReviews calls the store appreviews endpoint.
func (c *Client) AppReviews(ctx context.Context, appID, locale string) (json.RawMessage, error) {
	q := url.Values{"json": {"1"}, "l": {locale}}
	return c.get(ctx, c.storeURL+"/appreviews/"+url.PathEscape(appID)+"?"+q.Encode())
}

func (c *Client) get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
			}
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
			}
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("response is not valid JSON")
		}
		return json.RawMessage(body), nil
	})
	if err != nil {
		if errors.Is(err, errCallerGone) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", pkg.ErrUpstream, err)
	}

	return res.(json.RawMessage), nil
}
