// Package middleware provides HTTP middleware for the media fetcher server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Gzip compression for JSON responses
package middleware
