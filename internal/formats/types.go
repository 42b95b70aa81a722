package formats

// TargetContainer is the only container offered for video downloads.
const TargetContainer = "mp4"

// Encoding is one selectable stream variant reported by the extraction engine.
// Field names follow the engine's JSON document.
type Encoding struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *int     `json:"height"`
	Width          *int     `json:"width,omitempty"`
	FPS            *float64 `json:"fps,omitempty"`
	VCodec         string   `json:"vcodec,omitempty"`
	ACodec         string   `json:"acodec,omitempty"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
	FormatNote     string   `json:"format_note,omitempty"`
}

// HasVideo reports whether the encoding carries a video stream.
func (e Encoding) HasVideo() bool {
	return e.VCodec != "" && e.VCodec != "none"
}

// HasAudio reports whether the encoding carries an audio stream.
func (e Encoding) HasAudio() bool {
	return e.ACodec != "" && e.ACodec != "none"
}

// Size returns the exact size when known, otherwise the approximate one.
// Zero means neither is known.
func (e Encoding) Size() int64 {
	if e.Filesize != nil && *e.Filesize > 0 {
		return *e.Filesize
	}
	if e.FilesizeApprox != nil && *e.FilesizeApprox > 0 {
		return *e.FilesizeApprox
	}
	return 0
}

// Metadata describes one media item and its available encodings.
type Metadata struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	WebpageURL string     `json:"webpage_url,omitempty"`
	Uploader   string     `json:"uploader,omitempty"`
	Duration   float64    `json:"duration,omitempty"`
	Thumbnail  string     `json:"thumbnail,omitempty"`
	Formats    []Encoding `json:"formats"`
}
