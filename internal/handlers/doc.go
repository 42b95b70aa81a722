// Package handlers provides the HTTP handlers for the media fetcher API.
//
// It includes handlers for:
//   - Metadata lookup with the selectable encodings of a video URL
//   - Downloading a selected encoding, or MP3 audio, as an attachment
//   - Health, liveness and readiness probes
//   - Version information and Prometheus metrics
package handlers
