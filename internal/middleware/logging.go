package middleware

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-supplied request IDs.
const maxRequestIDLength = 64

type requestIDKey struct{}

// RequestID returns the ID the logging middleware assigned to the request,
// or "" outside of it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestID keeps a sane client-supplied ID and otherwise mints a new one.
func requestID(r *http.Request) string {
	id := sanitizeLogField(strings.TrimSpace(r.Header.Get(RequestIDHeader)))
	if id == "" || len(id) > maxRequestIDLength || strings.ContainsAny(id, " \t\"") {
		return uuid.NewString()
	}
	return id
}

// ResponseWriter wrapper to capture status code and bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// SkipPaths are path prefixes that are never logged.
	SkipPaths       []string
	LogHealthChecks bool
}

// DefaultLoggingConfig returns the default configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: true,
	}
}

// W3CLogger handles W3C Extended Log Format logging
type W3CLogger struct {
	config LoggingConfig
}

// NewW3CLogger creates a new W3C format logger
func NewW3CLogger(config LoggingConfig) *W3CLogger {
	return &W3CLogger{config: config}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// sanitizeLogField removes control characters that could forge log lines or
// emit terminal escapes. Newlines become spaces; tabs are kept.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r == 0x7f || (r < 0x20 && r != '\t'):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger returns HTTP logging middleware using W3C Extended Log Format.
// Every request gets an ID, echoed in the X-Request-ID response header and
// available to handlers through RequestID, whether or not it is logged.
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r)
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			logger.logRequest(r, wrapped, id, time.Since(start))
		})
	}
}

// logRequest logs a request in W3C Extended Log Format
func (l *W3CLogger) logRequest(r *http.Request, rw *responseWriter, id string, duration time.Duration) {
	now := time.Now().UTC()

	clientIP := sanitizeLogField(getClientIP(r))
	method := sanitizeLogField(r.Method)
	uriStem := sanitizeLogField(r.URL.Path)

	uriQuery := sanitizeLogField(r.URL.RawQuery)
	if uriQuery == "" {
		uriQuery = "-"
	}

	status := rw.statusCode
	bytesWritten := rw.bytesWritten
	timeTaken := duration.Milliseconds()

	contentType := rw.Header().Get("Content-Type")
	if mediaType, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = mediaType
	}
	if contentType == "" {
		contentType = "-"
	}

	contentEncoding := rw.Header().Get("Content-Encoding")
	if contentEncoding == "" {
		contentEncoding = "-"
	}

	userAgent := sanitizeLogField(r.Header.Get("User-Agent"))
	if userAgent == "" {
		userAgent = "-"
	} else {
		userAgent = escapeW3CField(userAgent)
	}

	// date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken sc(Content-Type) sc(Content-Encoding) cs(User-Agent) x-request-id
	logLine := fmt.Sprintf("%s %s %s %s %s %s %d %d %d %s %s %s %s",
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		clientIP,
		method,
		uriStem,
		uriQuery,
		status,
		bytesWritten,
		timeTaken,
		contentType,
		contentEncoding,
		userAgent,
		id,
	)

	//nolint:gosec // user-controlled fields pass through sanitizeLogField
	log.Println(logLine)
}

func shouldSkip(path string, config LoggingConfig) bool {
	// Skip explicitly configured paths
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}

	// Skip health checks if disabled
	if !config.LogHealthChecks && healthCheckPaths[path] {
		return true
	}

	return false
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// escapeW3CField quotes values containing whitespace or quotes, doubling
// embedded quotes.
func escapeW3CField(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
