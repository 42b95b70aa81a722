package handlers

import (
	"errors"
	"net/http"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/streaming"
)

// Download handles POST /api/download. The engine run is detached from the
// client connection; the scratch file is removed once the response ends.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	var rawURL, formatID string
	fields := map[string]*string{"url": &rawURL, "format_id": &formatID}
	if err := decodeRequest(w, r, fields); err != nil {
		writeError(w, r, err)
		return
	}

	sel, err := downloader.ParseSelection(formatID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.fetcher.Download(h.ctx, rawURL, sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer res.Scratch.Remove()

	err = streaming.ServeAttachment(r.Context(), w, streaming.Attachment{
		Path:        res.Path,
		Name:        res.Filename,
		ContentType: res.ContentType,
	}, h.streamConfig)
	if err == nil {
		return
	}

	var interrupted *streaming.InterruptedError
	if errors.As(err, &interrupted) {
		if errors.Is(err, streaming.ErrClientGone) {
			logging.Debug("Request %s: client went away during delivery of %s",
				requestID(r), res.Filename)
		}
		return
	}
	writeError(w, r, err)
}
