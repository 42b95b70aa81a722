package handlers

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/formats"
)

// InfoResponse is the body of a successful metadata lookup.
type InfoResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Instance  string           `json:"instance,omitempty"`
	Uploader  string           `json:"uploader,omitempty"`
	Duration  float64          `json:"duration,omitempty"`
	Thumbnail string           `json:"thumbnail,omitempty"`
	Formats   []FormatResponse `json:"formats"`
	Audio     AudioOption      `json:"audio"`
}

// FormatResponse describes one selectable video encoding.
type FormatResponse struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	Resolution string   `json:"resolution"`
	Height     *int     `json:"height,omitempty"`
	Width      *int     `json:"width,omitempty"`
	FPS        *float64 `json:"fps,omitempty"`
	VCodec     string   `json:"vcodec"`
	ACodec     string   `json:"acodec,omitempty"`
	Filesize   int64    `json:"filesize,omitempty"`
	Size       string   `json:"size,omitempty"`
	Note       string   `json:"format_note,omitempty"`
}

// AudioOption is the pseudo format offered alongside the video encodings.
type AudioOption struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
}

// GetInfo handles POST /api/info.
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	var rawURL string
	if err := decodeRequest(w, r, map[string]*string{"url": &rawURL}); err != nil {
		writeError(w, r, err)
		return
	}

	info, err := h.fetcher.FetchMetadata(h.ctx, rawURL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, newInfoResponse(info))
}

func newInfoResponse(info *downloader.Info) InfoResponse {
	md := info.Metadata
	selected := formats.Select(*md)

	resp := InfoResponse{
		ID:        md.ID,
		Title:     md.Title,
		URL:       info.URL,
		Instance:  info.Instance,
		Uploader:  md.Uploader,
		Duration:  md.Duration,
		Thumbnail: md.Thumbnail,
		Formats:   make([]FormatResponse, 0, len(selected)),
		Audio:     AudioOption{FormatID: downloader.AudioFormatID, Ext: downloader.AudioOnly().Ext()},
	}

	for _, enc := range selected {
		f := FormatResponse{
			FormatID:   enc.FormatID,
			Ext:        enc.Ext,
			Resolution: resolution(enc),
			Height:     enc.Height,
			Width:      enc.Width,
			FPS:        enc.FPS,
			VCodec:     enc.VCodec,
			ACodec:     enc.ACodec,
			Note:       enc.FormatNote,
		}
		if size := enc.Size(); size > 0 {
			f.Filesize = size
			f.Size = humanize.Bytes(uint64(size))
		}
		resp.Formats = append(resp.Formats, f)
	}
	return resp
}

func resolution(enc formats.Encoding) string {
	switch {
	case enc.Width != nil && enc.Height != nil:
		return fmt.Sprintf("%dx%d", *enc.Width, *enc.Height)
	case enc.Height != nil:
		return fmt.Sprintf("%dp", *enc.Height)
	default:
		return "unknown"
	}
}
