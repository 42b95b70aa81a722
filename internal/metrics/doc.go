// Package metrics provides Prometheus instrumentation for media-fetcher.
//
// All metrics are prefixed with "media_fetcher_" and registered on the
// default registry through promauto, so /metrics (promhttp.Handler) exposes
// them without further wiring.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: requests by method, path and status
//   - HTTPRequestDuration: request duration by method and path
//   - HTTPRequestsInFlight: requests currently being served
//
// ## Engine Metrics
//
//   - EngineInvocationsTotal: engine runs by operation and outcome
//     (success, rate_limited, error)
//   - EngineDuration: engine run duration by operation
//   - RateLimitRetriesTotal: backoff sleeps taken after a rate limit
//   - MirrorAttemptsTotal: per-instance attempts by operation and outcome
//   - InstanceDirectoryLookupsTotal: directory lookups by source (remote, fallback)
//
// ## Download Metrics
//
//   - DownloadsInProgress: orchestrated downloads currently running
//   - DeliveredBytesTotal: attachment bytes sent by kind (audio, video)
//   - ScratchCleanupErrorsTotal: scratch directories that could not be removed
package metrics
