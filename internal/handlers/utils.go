package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/middleware"
)

// maxRequestBody bounds JSON and form request bodies.
const maxRequestBody = 64 << 10

// writeJSON encodes v as JSON and writes it to the response writer.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it as a JSON error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := requestID(r)
	if status >= http.StatusInternalServerError {
		logging.Error("Request %s failed: %v", id, err)
	} else {
		logging.Warn("Request %s rejected: %v", id, err)
	}
	writeJSONError(w, err.Error(), status)
}

// requestID returns the logging middleware's request ID, or "-".
func requestID(r *http.Request) string {
	if id := middleware.RequestID(r.Context()); id != "" {
		return id
	}
	return "-"
}

// statusFor returns the HTTP status for an orchestration error. Delivery
// failures and anything unclassified are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, downloader.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, downloader.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, downloader.ErrMirrorExhausted),
		errors.Is(err, downloader.ErrEngineFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest reads the named string fields from a JSON object body or,
// for any other content type, from form values.
func decodeRequest(w http.ResponseWriter, r *http.Request, fields map[string]*string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return fmt.Errorf("%w: invalid request body: %v", downloader.ErrInvalidInput, err)
		}
		for key, dst := range fields {
			switch v := body[key].(type) {
			case nil:
			case string:
				*dst = v
			default:
				return fmt.Errorf("%w: %s must be a string", downloader.ErrInvalidInput, key)
			}
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: invalid form: %v", downloader.ErrInvalidInput, err)
	}
	for key, dst := range fields {
		*dst = r.PostFormValue(key)
	}
	return nil
}
