// Package engine wraps the external media-extraction engine (yt-dlp).
//
// Callers describe a run with an immutable Options value and receive either a
// metadata document or a downloaded file. Failures are classified once, here:
// an upstream rate limit is reported as ErrRateLimited, anything else as
// ErrEngine, so retry policy never has to inspect error text.
//
// The yt-dlp binary must be installed and on PATH (or configured through
// YTDLP_PATH). Muxing and audio extraction additionally need ffmpeg.
package engine
