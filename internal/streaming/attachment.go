package streaming

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

// ErrDeliveryFailure indicates the finished file could not be sent.
var ErrDeliveryFailure = errors.New("delivery failed")

// Attachment is a file to send as a download.
type Attachment struct {
	Path        string
	Name        string
	ContentType string
}

// InterruptedError reports a delivery that failed after the response
// headers were sent. It matches ErrDeliveryFailure and the cause.
type InterruptedError struct {
	Written int64
	Size    int64
	Err     error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("%v after %d of %d bytes: %v", ErrDeliveryFailure, e.Written, e.Size, e.Err)
}

func (e *InterruptedError) Unwrap() []error {
	return []error{ErrDeliveryFailure, e.Err}
}

// ServeAttachment sends the file at a.Path with a 200 status and a
// Content-Disposition that prompts the client to save it as a.Name.
func ServeAttachment(ctx context.Context, w http.ResponseWriter, a Attachment, cfg Config) error {
	file, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrDeliveryFailure, a.Path)
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	h.Set("Content-Disposition", ContentDisposition(a.Name, a.Path))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	start := time.Now()
	written, err := StreamWithTimeout(ctx, w, file, cfg)
	metrics.DeliveredBytesTotal.WithLabelValues(kindOf(contentType)).Add(float64(written))

	if err != nil {
		logging.Warn("Delivery of %s interrupted after %s of %s: %v",
			a.Name, humanize.Bytes(uint64(written)), humanize.Bytes(uint64(info.Size())), err)
		return &InterruptedError{Written: written, Size: info.Size(), Err: err}
	}

	logging.Info("Delivered %s (%s in %v)", a.Name, humanize.Bytes(uint64(written)), time.Since(start).Round(time.Millisecond))
	return nil
}

// ContentDisposition returns an attachment disposition for name. When name
// is empty the base name of fallback is used.
func ContentDisposition(name, fallback string) string {
	if name == "" {
		name = filepath.Base(fallback)
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}

	// FormatMediaType rejects some names; keep the extension at least.
	return mime.FormatMediaType("attachment", map[string]string{"filename": "download" + filepath.Ext(name)})
}

func kindOf(contentType string) string {
	if strings.HasPrefix(contentType, "audio/") {
		return metrics.KindAudio
	}
	return metrics.KindVideo
}
