package metrics

// Label values shared by the instrumented packages.
const (
	OpExtract  = "extract"
	OpDownload = "download"

	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"

	SourceRemote   = "remote"
	SourceFallback = "fallback"

	KindAudio = "audio"
	KindVideo = "video"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, op := range []string{OpExtract, OpDownload} {
		for _, outcome := range []string{OutcomeSuccess, OutcomeRateLimited, OutcomeError} {
			EngineInvocationsTotal.WithLabelValues(op, outcome)
			MirrorAttemptsTotal.WithLabelValues(op, outcome)
		}
		EngineDuration.WithLabelValues(op)
		RateLimitRetriesTotal.WithLabelValues(op)
	}

	for _, source := range []string{SourceRemote, SourceFallback} {
		InstanceDirectoryLookupsTotal.WithLabelValues(source)
	}

	for _, kind := range []string{KindAudio, KindVideo} {
		DeliveredBytesTotal.WithLabelValues(kind)
	}
}
