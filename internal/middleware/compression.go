package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes before compression is applied
	MinSize int
	// CompressibleTypes lists the media types that are compressed
	CompressibleTypes []string
}

// DefaultCompressionConfig returns the defaults used for API responses.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:           1024,
		CompressibleTypes: []string{"application/json", "text/plain"},
	}
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		return gzip.NewWriter(io.Discard)
	},
}

// gzipResponseWriter buffers up to MinSize bytes before deciding whether to
// compress.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz         *gzip.Writer
	config     CompressionConfig
	buffer     []byte
	statusCode int
	decided    bool
	compress   bool
}

func newGzipResponseWriter(w http.ResponseWriter, config CompressionConfig) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		config:         config,
		statusCode:     http.StatusOK,
		buffer:         make([]byte, 0, config.MinSize+1),
	}
}

func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if !g.decided {
		g.statusCode = statusCode
	}
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if g.decided {
		if g.compress {
			return g.gz.Write(data)
		}
		return g.ResponseWriter.Write(data)
	}

	g.buffer = append(g.buffer, data...)
	if len(g.buffer) > g.config.MinSize {
		if err := g.decide(); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

func (g *gzipResponseWriter) compressible() bool {
	mediaType, _, _ := strings.Cut(g.Header().Get("Content-Type"), ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType != "" && slices.Contains(g.config.CompressibleTypes, mediaType)
}

func (g *gzipResponseWriter) decide() error {
	if g.decided {
		return nil
	}
	g.decided = true
	g.compress = len(g.buffer) >= g.config.MinSize &&
		g.Header().Get("Content-Encoding") == "" &&
		g.compressible()

	buf := g.buffer
	g.buffer = nil

	if !g.compress {
		g.ResponseWriter.WriteHeader(g.statusCode)
		_, err := g.ResponseWriter.Write(buf)
		return err
	}

	g.Header().Del("Content-Length")
	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Add("Vary", "Accept-Encoding")

	g.gz = gzipWriterPool.Get().(*gzip.Writer)
	g.gz.Reset(g.ResponseWriter)

	g.ResponseWriter.WriteHeader(g.statusCode)
	_, err := g.gz.Write(buf)
	return err
}

// Close flushes any buffered data and returns the gzip writer to the pool.
func (g *gzipResponseWriter) Close() error {
	err := g.decide()

	if g.gz != nil {
		if cerr := g.gz.Close(); err == nil {
			err = cerr
		}
		gzipWriterPool.Put(g.gz)
		g.gz = nil
	}
	return err
}

func (g *gzipResponseWriter) Flush() {
	_ = g.decide()
	if g.gz != nil {
		_ = g.gz.Flush()
	}
	if flusher, ok := g.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Compression returns a middleware that gzips compressible responses for
// clients that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gzw := newGzipResponseWriter(w, config)
			defer gzw.Close()

			next.ServeHTTP(gzw, r)
		})
	}
}
