package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/engine"
	"media-fetcher/internal/formats"
	"media-fetcher/internal/streaming"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func sampleInfo() *downloader.Info {
	return &downloader.Info{
		URL:      "https://www.youtube.com/watch?v=abc",
		Instance: "https://yewtu.be",
		Metadata: &formats.Metadata{
			ID:    "abc",
			Title: "Sample",
			Formats: []formats.Encoding{
				{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2"},
				{FormatID: "136", Ext: "mp4", Height: intPtr(720), Width: intPtr(1280), VCodec: "avc1", Filesize: int64Ptr(5_000_000)},
				{FormatID: "248", Ext: "webm", Height: intPtr(1080), VCodec: "vp9"},
				{FormatID: "137", Ext: "mp4", Height: intPtr(1080), VCodec: "avc1", FilesizeApprox: int64Ptr(9_000_000)},
				{FormatID: "18", Ext: "mp4", Height: intPtr(360), VCodec: "avc1", ACodec: "mp4a", Filesize: int64Ptr(1_000_000)},
				{FormatID: "160", Ext: "mp4", Height: intPtr(144), VCodec: "avc1"},
			},
		},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/info", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestGetInfoJSON(t *testing.T) {
	f := &fakeFetcher{info: sampleInfo()}
	h, _ := newTestHandlers(f)

	rec := postJSON(t, h.GetInfo, `{"url":"youtube.com/watch?v=abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.lastURL != "youtube.com/watch?v=abc" {
		t.Errorf("fetcher URL = %q", f.lastURL)
	}

	var resp InfoResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Title != "Sample" || resp.ID != "abc" {
		t.Errorf("title/id = %q/%q", resp.Title, resp.ID)
	}
	if resp.Instance != "https://yewtu.be" {
		t.Errorf("instance = %q", resp.Instance)
	}
	if resp.Audio.FormatID != downloader.AudioFormatID || resp.Audio.Ext != "mp3" {
		t.Errorf("audio = %+v", resp.Audio)
	}

	var ids []string
	for _, f := range resp.Formats {
		ids = append(ids, f.FormatID)
	}
	if got := strings.Join(ids, ","); got != "137,136,18" {
		t.Errorf("format order = %s, want 137,136,18", got)
	}

	first := resp.Formats[0]
	if first.Filesize != 9_000_000 || first.Size != "9.0 MB" {
		t.Errorf("approximate size = %d %q", first.Filesize, first.Size)
	}
	if first.Resolution != "1080p" {
		t.Errorf("resolution = %q, want 1080p", first.Resolution)
	}
	if resp.Formats[1].Resolution != "1280x720" {
		t.Errorf("resolution = %q, want 1280x720", resp.Formats[1].Resolution)
	}
}

func TestGetInfoForm(t *testing.T) {
	f := &fakeFetcher{info: sampleInfo()}
	h, _ := newTestHandlers(f)

	form := url.Values{"url": {"https://vimeo.com/1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/info", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.GetInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.lastURL != "https://vimeo.com/1" {
		t.Errorf("fetcher URL = %q", f.lastURL)
	}
}

func TestGetInfoNoFormats(t *testing.T) {
	info := sampleInfo()
	info.Metadata.Formats = nil
	h, _ := newTestHandlers(&fakeFetcher{info: info})

	rec := postJSON(t, h.GetInfo, `{"url":"https://example.com/v"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"formats":[]`) {
		t.Errorf("body %s should carry an empty formats array", rec.Body.String())
	}
}

func TestGetInfoBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"url":`},
		{"not a string", `{"url": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{}
			h, _ := newTestHandlers(f)

			rec := postJSON(t, h.GetInfo, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if f.calls != 0 {
				t.Error("fetcher should not be called")
			}
		})
	}
}

func TestGetInfoErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: URL is required", downloader.ErrInvalidInput), http.StatusBadRequest},
		{"rate limited", fmt.Errorf("%w (3 attempts): %w", downloader.ErrRateLimited, engine.ErrRateLimited), http.StatusTooManyRequests},
		{"mirrors exhausted", &downloader.MirrorError{Op: "extract", Attempts: 3, Last: errBoom}, http.StatusBadGateway},
		{"engine failure", fmt.Errorf("%w: %w", downloader.ErrEngineFailure, errBoom), http.StatusBadGateway},
		{"unknown", errBoom, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers(&fakeFetcher{infoErr: tt.err})

			rec := postJSON(t, h.GetInfo, `{"url":"https://example.com/v"}`)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error = %q, want %q", body["error"], tt.err.Error())
			}
		})
	}
}

func TestStatusForDeliveryFailure(t *testing.T) {
	if got := statusFor(fmt.Errorf("%w: disk gone", streaming.ErrDeliveryFailure)); got != http.StatusInternalServerError {
		t.Errorf("statusFor() = %d, want 500", got)
	}
}
