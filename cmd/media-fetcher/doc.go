// Package main provides the entry point for the Media Fetcher server.
//
// Media Fetcher accepts a video page URL, lists the MP4 encodings the
// extraction engine (yt-dlp) can produce for it, and streams the selected
// encoding, or the audio track converted to MP3, back as a file download.
//
// # Application Lifecycle
//
//  1. Configuration Loading: defaults, optional TOML file, environment
//  2. Engine Check: runs `yt-dlp --version` and logs the result
//  3. Component Initialization: engine adapter, instance directory (mirror
//     mode), download service, handlers
//  4. HTTP Server Setup: routes, logging and metrics middleware
//  5. Graceful Shutdown: SIGINT/SIGTERM stop new requests, wait up to 30s
//     for in-flight downloads, then cancel any engine still running
//
// # HTTP API
//
//   - POST /api/info: {"url": "..."} returns title and selectable formats
//   - POST /api/download: {"url": "...", "format_id": "137"|"audio-mp3"}
//     returns the file as an attachment
//   - GET /health, /healthz, /livez, /readyz, /version, /metrics
//
// Both API endpoints also accept form-encoded bodies. Errors are JSON objects
// with an "error" field.
//
// # Fetch Modes
//
// FETCH_MODE=direct calls the engine against the submitted URL and retries
// rate-limited attempts with a linear backoff. FETCH_MODE=mirror instead walks
// the public instance directory and routes each attempt through the next
// front-end instance until one succeeds.
//
// See package startup for the full list of configuration keys.
package main
