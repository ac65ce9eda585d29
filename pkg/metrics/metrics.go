// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache results.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Upstream outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// CacheRequests counts catalog cache lookups by result.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_cache_requests_total",
		Help: "Total number of catalog cache lookups",
	}, []string{"result"})

	// UpstreamRequests counts calls to the Steam API by operation and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_upstream_requests_total",
		Help: "Total number of upstream catalog API requests",
	}, []string{"operation", "outcome"})

	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamevault_sessions_issued_total",
		Help: "Total number of sessions created by successful logins",
	})

	LoginsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamevault_logins_failed_total",
		Help: "Total number of rejected login attempts",
	})

	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamevault_sessions_purged_total",
		Help: "Total number of expired sessions removed by the sweeper",
	})
)
