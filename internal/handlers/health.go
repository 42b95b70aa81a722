package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"media-fetcher/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

const (
	// engineProbeTimeout bounds one `yt-dlp --version` run.
	engineProbeTimeout = 5 * time.Second
	// engineProbeTTL is how long a probe result is reused across checks.
	engineProbeTTL = 30 * time.Second
)

// engineStatus caches the last engine probe.
type engineStatus struct {
	mu      sync.Mutex
	checked time.Time
	version string
	err     error
}

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Ready         bool   `json:"ready"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	EngineVersion string `json:"engineVersion,omitempty"`
	EngineError   string `json:"engineError,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service health including the engine probe. A missing
// engine degrades the service but the check still answers 200.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	version, err := h.probeEngine(r.Context())

	response := HealthResponse{
		Status:        statusHealthy,
		Ready:         err == nil,
		Version:       startup.Version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		EngineVersion: version,
		GoVersion:     runtime.Version(),
		NumCPU:        runtime.NumCPU(),
		NumGoroutine:  runtime.NumGoroutine(),
	}
	if err != nil {
		response.Status = statusDegraded
		response.EngineError = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only when the extraction engine can be run.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, err := h.probeEngine(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not_ready", "error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{"status": "ready"})
}

func (h *Handlers) probeEngine(ctx context.Context) (string, error) {
	h.status.mu.Lock()
	defer h.status.mu.Unlock()

	if !h.status.checked.IsZero() && time.Since(h.status.checked) < engineProbeTTL {
		return h.status.version, h.status.err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), engineProbeTimeout)
	defer cancel()

	h.status.version, h.status.err = h.engine.Version(ctx)
	h.status.checked = time.Now()
	return h.status.version, h.status.err
}
