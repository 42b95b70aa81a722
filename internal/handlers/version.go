package handlers

import (
	"net/http"

	"media-fetcher/internal/startup"
)

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, r *http.Request) {
	buildInfo := startup.GetBuildInfo()
	if v, err := h.probeEngine(r.Context()); err == nil {
		buildInfo.Engine = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, buildInfo)
}
