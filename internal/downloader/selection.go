package downloader

import (
	"fmt"
	"strings"
	"unicode"
)

// AudioFormatID is the pseudo format identifier that selects MP3 audio.
const AudioFormatID = "audio-mp3"

const maxFormatIDLength = 128

// Selection is the encoding a user asked to download: either audio only, or
// one video encoding from the metadata document. Video identifiers are not
// checked against the engine's current format list.
type Selection struct {
	formatID string
}

// AudioOnly selects the best audio stream converted to MP3.
func AudioOnly() Selection {
	return Selection{formatID: AudioFormatID}
}

// VideoEncoding selects the given video encoding muxed with the best audio.
func VideoEncoding(formatID string) Selection {
	return Selection{formatID: formatID}
}

// ParseSelection interprets a submitted format identifier.
func ParseSelection(formatID string) (Selection, error) {
	id := strings.TrimSpace(formatID)
	if id == "" {
		return Selection{}, fmt.Errorf("%w: format_id is required", ErrInvalidInput)
	}
	if len(id) > maxFormatIDLength {
		return Selection{}, fmt.Errorf("%w: format_id too long", ErrInvalidInput)
	}
	if strings.IndexFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return Selection{}, fmt.Errorf("%w: format_id contains whitespace", ErrInvalidInput)
	}
	return Selection{formatID: id}, nil
}

// FormatID returns the submitted identifier.
func (s Selection) FormatID() string {
	return s.formatID
}

// IsAudio reports whether this is the audio-only selection.
func (s Selection) IsAudio() bool {
	return s.formatID == AudioFormatID
}

// Ext returns the output file extension.
func (s Selection) Ext() string {
	if s.IsAudio() {
		return "mp3"
	}
	return "mp4"
}

// ContentType returns the MIME type of the output file.
func (s Selection) ContentType() string {
	if s.IsAudio() {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// engineFormat returns the engine format selector string.
func (s Selection) engineFormat() string {
	if s.IsAudio() {
		return "bestaudio"
	}
	return s.formatID + "+bestaudio/best"
}
