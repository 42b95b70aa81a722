package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_fetcher_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_fetcher_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Engine metrics
var (
	EngineInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_engine_invocations_total",
			Help: "Total number of extraction engine runs",
		},
		[]string{"operation", "outcome"}, // operation: extract, download
	)

	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_fetcher_engine_duration_seconds",
			Help:    "Extraction engine run duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"operation"},
	)

	RateLimitRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_rate_limit_retries_total",
			Help: "Total number of backoff retries after an upstream rate limit",
		},
		[]string{"operation"},
	)

	MirrorAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_mirror_attempts_total",
			Help: "Total number of attempts against alternate front-end instances",
		},
		[]string{"operation", "outcome"},
	)

	InstanceDirectoryLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_instance_directory_lookups_total",
			Help: "Total number of instance directory lookups by source of the returned list",
		},
		[]string{"source"}, // remote, fallback
	)
)

// Download metrics
var (
	DownloadsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_fetcher_downloads_in_progress",
			Help: "Number of downloads currently being materialized",
		},
	)

	DeliveredBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetcher_delivered_bytes_total",
			Help: "Total number of attachment bytes sent to clients",
		},
		[]string{"kind"}, // audio, video
	)

	ScratchCleanupErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_fetcher_scratch_cleanup_errors_total",
			Help: "Total number of scratch directories that could not be removed",
		},
	)

	ScratchDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_fetcher_scratch_directories",
			Help: "Number of scratch directories currently on disk",
		},
	)

	ScratchBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_fetcher_scratch_bytes",
			Help: "Total size of the files in scratch directories",
		},
	)
)
