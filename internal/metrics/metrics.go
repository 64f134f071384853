// Package metrics provides Prometheus metrics for the arkhambot service.
// Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arkhambot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arkhambot_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Lookup Metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arkhambot_lookups_total",
			Help: "Message lookups processed, by outcome",
		},
		[]string{"outcome"}, // "ok", "no_results", "too_many", "ignored"
	)

	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arkhambot_matches_total",
			Help: "Card matches produced, by resolution stage",
		},
		[]string{"stage"}, // "exact", "substring", "fuzzy"
	)

	ResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arkhambot_resolve_duration_seconds",
			Help:    "Time taken to resolve one token list",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	ResolveMemoHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arkhambot_resolve_memo_hits_total",
			Help: "Token resolutions served from the memo cache",
		},
	)

	// Catalog Metrics
	CatalogCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arkhambot_catalog_cards",
			Help: "Number of cards in the current catalog snapshot",
		},
	)

	CatalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arkhambot_catalog_reloads_total",
			Help: "Catalog reload attempts, by result",
		},
		[]string{"result"}, // "success" or "failure"
	)

	CatalogLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arkhambot_catalog_last_success_timestamp_seconds",
			Help: "Unix time of the last successful catalog reload",
		},
	)

	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arkhambot_catalog_refresh_duration_seconds",
			Help:    "Time taken to fetch and rebuild the catalog",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Deck Metrics
	DeckFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arkhambot_deck_fetches_total",
			Help: "Deck fetches, by result",
		},
		[]string{"result"}, // "success" or "failure"
	)

	DeckSections = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arkhambot_deck_sections",
			Help:    "Display sections produced per composed deck",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 15, 20, 30},
		},
	)
)
