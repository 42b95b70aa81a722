package engine

import (
	"maps"
	"time"
)

// AudioExtraction asks the engine to post-process the download into an
// audio-only file. A zero value means no extraction.
type AudioExtraction struct {
	Codec   string
	Quality string
}

// Enabled reports whether audio extraction was requested.
func (a AudioExtraction) Enabled() bool {
	return a.Codec != ""
}

// Options configures one engine run. It is a value type: the With* methods
// return modified copies and never touch the receiver, so a base Options can
// be shared by concurrent requests.
type Options struct {
	URL               string
	Format            string
	OutputTemplate    string
	NoPlaylist        bool
	MergeOutputFormat string
	Audio             AudioExtraction
	// BaseAddress routes the request through an alternate front-end instance.
	BaseAddress   string
	SleepRequests time.Duration

	headers map[string]string
}

// WithURL returns a copy targeting url.
func (o Options) WithURL(url string) Options {
	o.URL = url
	return o
}

// WithFormat returns a copy using the given format selector.
func (o Options) WithFormat(format string) Options {
	o.Format = format
	return o
}

// WithOutput returns a copy writing to the given output template.
func (o Options) WithOutput(template string) Options {
	o.OutputTemplate = template
	return o
}

// WithMergeOutputFormat returns a copy muxing into the given container.
func (o Options) WithMergeOutputFormat(ext string) Options {
	o.MergeOutputFormat = ext
	return o
}

// WithAudioExtraction returns a copy that converts the result to codec at
// the given quality.
func (o Options) WithAudioExtraction(codec, quality string) Options {
	o.Audio = AudioExtraction{Codec: codec, Quality: quality}
	return o
}

// WithBaseAddress returns a copy routed through the given front-end.
func (o Options) WithBaseAddress(addr string) Options {
	o.BaseAddress = addr
	return o
}

// WithHeader returns a copy sending an extra HTTP header.
func (o Options) WithHeader(key, value string) Options {
	headers := make(map[string]string, len(o.headers)+1)
	maps.Copy(headers, o.headers)
	headers[key] = value
	o.headers = headers
	return o
}

// Headers returns a copy of the extra HTTP headers.
func (o Options) Headers() map[string]string {
	return maps.Clone(o.headers)
}
