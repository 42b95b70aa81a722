package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"media-fetcher/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates a single write took longer than WriteTimeout,
	// or the stream outlived MaxDuration.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates the client disconnected before the stream completed.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates the writer was closed or its context ended
	// for a reason other than cancellation.
	ErrStreamCanceled = errors.New("stream canceled")
)

// Config configures a TimeoutWriter.
type Config struct {
	// WriteTimeout bounds a single chunk write.
	WriteTimeout time.Duration
	// IdleTimeout is the longest gap allowed between successful writes.
	IdleTimeout time.Duration
	// MaxDuration caps the whole stream (0 = unlimited).
	MaxDuration time.Duration
	// ChunkSize splits large writes (0 = write as received).
	ChunkSize int
	// OnProgress is called roughly every MiB written.
	OnProgress func(bytesWritten int64, duration time.Duration)
}

// DefaultConfig returns the delivery defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ChunkSize:    64 * 1024,
	}
}

// TimeoutWriter wraps an http.ResponseWriter with timeout protection.
type TimeoutWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
	cancel  context.CancelFunc
	config  Config

	mu           sync.Mutex
	startTime    time.Time
	lastWrite    time.Time
	bytesWritten int64
	closed       bool
}

// NewTimeoutWriter creates a timeout-protected writer. Close must be called
// to stop its idle checker.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, config Config) *TimeoutWriter {
	writerCtx, cancel := context.WithCancel(ctx)

	now := time.Now()
	tw := &TimeoutWriter{
		w:         w,
		ctx:       writerCtx,
		cancel:    cancel,
		config:    config,
		startTime: now,
		lastWrite: now,
	}
	if flusher, ok := w.(http.Flusher); ok {
		tw.flusher = flusher
	}

	go tw.idleChecker()

	return tw
}

// Write implements io.Writer.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if closed {
		return 0, ErrStreamCanceled
	}

	if err := tw.ctx.Err(); err != nil {
		return 0, tw.contextError()
	}

	if tw.config.MaxDuration > 0 && time.Since(tw.startTime) > tw.config.MaxDuration {
		return 0, ErrWriteTimeout
	}

	if tw.config.ChunkSize <= 0 || len(p) <= tw.config.ChunkSize {
		return tw.writeWithTimeout(p)
	}

	total := 0
	for len(p) > 0 {
		if err := tw.ctx.Err(); err != nil {
			return total, tw.contextError()
		}

		size := min(tw.config.ChunkSize, len(p))
		n, err := tw.writeWithTimeout(p[:size])
		total += n
		if err != nil {
			return total, err
		}
		p = p[size:]

		if tw.flusher != nil {
			tw.flusher.Flush()
		}
	}
	return total, nil
}

func (tw *TimeoutWriter) writeWithTimeout(p []byte) (int, error) {
	type writeResult struct {
		n   int
		err error
	}
	resultCh := make(chan writeResult, 1)

	go func() {
		n, err := tw.w.Write(p)
		resultCh <- writeResult{n, err}
	}()

	timer := time.NewTimer(tw.writeTimeout())
	defer timer.Stop()

	select {
	case result := <-resultCh:
		if result.err != nil {
			return result.n, result.err
		}

		tw.mu.Lock()
		before := tw.bytesWritten
		tw.lastWrite = time.Now()
		tw.bytesWritten += int64(result.n)
		after := tw.bytesWritten
		tw.mu.Unlock()

		if tw.config.OnProgress != nil && before>>20 != after>>20 {
			tw.config.OnProgress(after, time.Since(tw.startTime))
		}
		return result.n, nil

	case <-timer.C:
		tw.cancel()
		return 0, ErrWriteTimeout

	case <-tw.ctx.Done():
		return 0, tw.contextError()
	}
}

func (tw *TimeoutWriter) writeTimeout() time.Duration {
	if tw.config.WriteTimeout > 0 {
		return tw.config.WriteTimeout
	}
	return DefaultConfig().WriteTimeout
}

func (tw *TimeoutWriter) idleChecker() {
	if tw.config.IdleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(tw.config.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tw.mu.Lock()
			idle := time.Since(tw.lastWrite)
			closed := tw.closed
			tw.mu.Unlock()

			if closed {
				return
			}
			if idle > tw.config.IdleTimeout {
				logging.Warn("Stream idle timeout exceeded: %v", idle)
				tw.cancel()
				return
			}

		case <-tw.ctx.Done():
			return
		}
	}
}

func (tw *TimeoutWriter) contextError() error {
	if errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}

// Close stops the writer. Further writes fail with ErrStreamCanceled.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.closed {
		tw.closed = true
		tw.cancel()
	}
	return nil
}

// Stats returns the bytes written so far and the stream age.
func (tw *TimeoutWriter) Stats() (bytesWritten int64, duration time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten, time.Since(tw.startTime)
}

// StreamWithTimeout copies r to w through a TimeoutWriter and returns the
// number of bytes delivered.
func StreamWithTimeout(ctx context.Context, w http.ResponseWriter, r io.Reader, config Config) (int64, error) {
	tw := NewTimeoutWriter(ctx, w, config)
	defer tw.Close()

	_, err := io.Copy(tw, r)

	written, duration := tw.Stats()
	logging.Debug("Stream completed: %d bytes in %v", written, duration)

	return written, err
}
