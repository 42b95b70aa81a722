package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"EngineInvocationsTotal", EngineInvocationsTotal},
		{"EngineDuration", EngineDuration},
		{"RateLimitRetriesTotal", RateLimitRetriesTotal},
		{"MirrorAttemptsTotal", MirrorAttemptsTotal},
		{"InstanceDirectoryLookupsTotal", InstanceDirectoryLookupsTotal},
		{"DownloadsInProgress", DownloadsInProgress},
		{"DeliveredBytesTotal", DeliveredBytesTotal},
		{"ScratchCleanupErrorsTotal", ScratchCleanupErrorsTotal},
		{"ScratchDirectories", ScratchDirectories},
		{"ScratchBytes", ScratchBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func gatheredSeries(t *testing.T, name string) int {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return len(mf.GetMetric())
		}
	}
	return 0
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	tests := []struct {
		name string
		min  int
	}{
		{"media_fetcher_engine_invocations_total", 6},
		{"media_fetcher_mirror_attempts_total", 6},
		{"media_fetcher_instance_directory_lookups_total", 2},
		{"media_fetcher_delivered_bytes_total", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gatheredSeries(t, tt.name); got < tt.min {
				t.Errorf("%s series = %d, want at least %d", tt.name, got, tt.min)
			}
		})
	}
}
