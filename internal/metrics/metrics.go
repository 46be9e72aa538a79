// Package metrics exposes Prometheus instrumentation for refresh cycles,
// source fetches and snapshot persistence.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refresh Metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentradar_refreshes_total",
			Help: "Total number of refresh cycles by reason and result",
		},
		[]string{"reason", "result"}, // result: success, error, in_progress
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contentradar_refresh_duration_seconds",
			Help:    "Duration of full refresh cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ScoredPosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contentradar_scored_posts",
			Help: "Number of posts scored in the last refresh",
		},
	)

	// Source Metrics
	SourcePosts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contentradar_source_posts",
			Help: "Number of posts fetched per source in the last refresh",
		},
		[]string{"source"},
	)

	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentradar_source_errors_total",
			Help: "Total number of failed or timed out source fetches",
		},
		[]string{"source"},
	)

	// Snapshot Metrics
	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentradar_snapshot_saves_total",
			Help: "Total number of snapshot saves by result",
		},
		[]string{"result"},
	)

	SnapshotSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contentradar_snapshot_save_duration_seconds",
			Help:    "Duration of queued snapshot saves in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contentradar_snapshot_entries",
			Help: "Number of retained snapshot entries",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contentradar_cache_hits_total",
			Help: "Total number of cached result hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contentradar_cache_misses_total",
			Help: "Total number of cached result misses",
		},
	)
)
