package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/akinalp/gamevault/pkg"
	"github.com/akinalp/gamevault/pkg/cache"
	"github.com/akinalp/gamevault/pkg/logger"
	"github.com/akinalp/gamevault/pkg/metrics"
	"github.com/akinalp/gamevault/pkg/steam"
)

// Catalog operation names, used in cache keys and metric labels.
const (
	opMostPlayed = "most_played"
	opDetails    = "details"
	opReviews    = "reviews"
)

// DefaultCatalogLocale is the Steam language used when none is given.
const DefaultCatalogLocale = "french"

// DefaultCatalogTTL is how long an upstream response is served from cache.
const DefaultCatalogTTL = time.Hour

var (
	appIDPattern  = regexp.MustCompile(`^[0-9]{1,10}$`)
	localePattern = regexp.MustCompile(`^[a-z_]{2,32}$`)
)

// CatalogService proxies the Steam catalog through a TTL cache.
// Payloads are passed through as raw JSON.
type CatalogService interface {
	MostPlayedGames(ctx context.Context, locale string) (json.RawMessage, error)
	GameDetails(ctx context.Context, appID, locale string) (json.RawMessage, error)
	GameReviews(ctx context.Context, appID, locale string) (json.RawMessage, error)
}

// CatalogConfig holds the catalog settings.
type CatalogConfig struct {
	DefaultLocale string
	TTL           time.Duration
}

type catalogService struct {
	fetcher       steam.Fetcher
	cache         *cache.TTLCache[string, json.RawMessage]
	defaultLocale string
	ttl           time.Duration
}

var catalogLog = logger.For("catalog")

// NewCatalogService, constructor. The cache is owned by the caller, which
// closes it on shutdown.
func NewCatalogService(
	fetcher steam.Fetcher,
	c *cache.TTLCache[string, json.RawMessage],
	cfg CatalogConfig,
) CatalogService {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultCatalogLocale
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCatalogTTL
	}
	return &catalogService{
		fetcher:       fetcher,
		cache:         c,
		defaultLocale: cfg.DefaultLocale,
		ttl:           cfg.TTL,
	}
}

func (s *catalogService) MostPlayedGames(ctx context.Context, locale string) (json.RawMessage, error) {
	locale, err := s.locale(locale)
	if err != nil {
		return nil, err
	}

	return s.cached(ctx, opMostPlayed, locale, "", func(ctx context.Context) (json.RawMessage, error) {
		return s.fetcher.MostPlayedGames(ctx, locale)
	})
}

func (s *catalogService) GameDetails(ctx context.Context, appID, locale string) (json.RawMessage, error) {
	locale, err := s.locale(locale)
	if err != nil {
		return nil, err
	}
	if err := checkAppID(appID); err != nil {
		return nil, err
	}

	return s.cached(ctx, opDetails, locale, appID, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetcher.AppDetails(ctx, appID, locale)
	})
}

func (s *catalogService) GameReviews(ctx context.Context, appID, locale string) (json.RawMessage, error) {
	locale, err := s.locale(locale)
	if err != nil {
		return nil, err
	}
	if err := checkAppID(appID); err != nil {
		return nil, err
	}

	return s.cached(ctx, opReviews, locale, appID, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetcher.AppReviews(ctx, appID, locale)
	})
}

// cached serves op from the cache, calling fetch on a miss. Failed fetches
// are not cached.
func (s *catalogService) cached(
	ctx context.Context,
	op, locale, appID string,
	fetch func(ctx context.Context) (json.RawMessage, error),
) (json.RawMessage, error) {
	key := catalogCacheKey(op, locale, appID)

	fetched := false
	payload, err := s.cache.GetOrCompute(ctx, key, s.ttl, func(ctx context.Context) (json.RawMessage, error) {
		fetched = true
		body, err := fetch(ctx)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeError).Inc()
			return nil, err
		}
		metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
		return body, nil
	})

	if fetched {
		metrics.CacheRequests.WithLabelValues(metrics.ResultMiss).Inc()
	} else {
		metrics.CacheRequests.WithLabelValues(metrics.ResultHit).Inc()
	}

	if err != nil {
		catalogLog.WithError(err).WithField("key", key).Warn("upstream fetch failed")
		return nil, err
	}
	return payload, nil
}

func (s *catalogService) locale(locale string) (string, error) {
	if locale == "" {
		return s.defaultLocale, nil
	}
	locale = strings.ToLower(locale)
	if !localePattern.MatchString(locale) {
		return "", fmt.Errorf("%w: invalid locale %q", pkg.ErrValidation, locale)
	}
	return locale, nil
}

func checkAppID(appID string) error {
	if !appIDPattern.MatchString(appID) {
		return fmt.Errorf("%w: app id must be numeric", pkg.ErrValidation)
	}
	return nil
}

// catalogCacheKey joins the escaped parts with ':', so distinct parameter sets
// never produce the same key.
func catalogCacheKey(op, locale, appID string) string {
	return url.QueryEscape(op) + ":" + url.QueryEscape(locale) + ":" + url.QueryEscape(appID)
}
