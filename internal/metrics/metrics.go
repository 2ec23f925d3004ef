// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TableLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_table_loads_total",
		Help: "Embeddings table loads by outcome",
	}, []string{"status"})

	TableLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kotoba_table_load_duration_seconds",
		Help:    "Time spent loading and parsing an embeddings file",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	TableWords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kotoba_table_words",
		Help: "Rows in the published embeddings table",
	})

	TableFeatures = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kotoba_table_features",
		Help: "Features per row in the published embeddings table",
	})
)

var (
	RankQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_rank_queries_total",
		Help: "Ranking queries by metric and direction",
	}, []string{"metric", "direction"})

	RankErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_rank_errors_total",
		Help: "Failed ranking queries by error kind",
	}, []string{"kind"})

	RankDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kotoba_rank_duration_seconds",
		Help:    "Full-scan ranking latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"metric"})

	ResultCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kotoba_result_cache_hits_total",
		Help: "Ranking requests served from the result cache",
	})

	ResultCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kotoba_result_cache_misses_total",
		Help: "Ranking requests that had to scan the table",
	})
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kotoba_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	WatcherReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kotoba_watcher_reloads_total",
		Help: "Reloads triggered by file change notifications",
	})
)
