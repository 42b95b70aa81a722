package engine

import (
	"testing"
	"time"
)

func TestOptionsWithReturnsCopies(t *testing.T) {
	base := Options{NoPlaylist: true}.WithHeader("User-Agent", "base")

	derived := base.
		WithURL("https://example.com/watch?v=1").
		WithFormat("137+bestaudio/best").
		WithOutput("/tmp/x/%(ext)s").
		WithMergeOutputFormat("mp4").
		WithAudioExtraction("mp3", "192K").
		WithBaseAddress("https://mirror.example").
		WithHeader("Referer", "https://example.com")

	if base.URL != "" || base.Format != "" || base.OutputTemplate != "" || base.BaseAddress != "" {
		t.Errorf("base options were modified: %+v", base)
	}
	if base.Audio.Enabled() {
		t.Error("base options gained audio extraction")
	}
	if _, ok := base.Headers()["Referer"]; ok {
		t.Error("header added to derived options leaked into base")
	}

	if derived.URL != "https://example.com/watch?v=1" || derived.Format != "137+bestaudio/best" {
		t.Errorf("derived options missing values: %+v", derived)
	}
	if !derived.NoPlaylist {
		t.Error("derived options lost NoPlaylist")
	}
	h := derived.Headers()
	if h["User-Agent"] != "base" || h["Referer"] != "https://example.com" {
		t.Errorf("derived headers = %v", h)
	}
}

func TestHeadersReturnsClone(t *testing.T) {
	o := Options{}.WithHeader("A", "1")
	h := o.Headers()
	h["A"] = "changed"
	if o.Headers()["A"] != "1" {
		t.Error("mutating Headers() result changed the options")
	}
}

func TestSleepRequestsArgument(t *testing.T) {
	o := Options{SleepRequests: 1500 * time.Millisecond}
	args := commonArgs(o)
	if len(args) != 2 || args[0] != "--sleep-requests" || args[1] != "1.5" {
		t.Errorf("commonArgs() = %v", args)
	}
}
