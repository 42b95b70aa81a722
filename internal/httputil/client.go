// Package httputil provides the hardened HTTP client used for outbound
// lookups and small JSON fetch helpers.
package httputil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxJSONBody bounds the size of decoded JSON responses.
const maxJSONBody = 10 * 1024 * 1024

// UserAgent is sent with every outbound request.
const UserAgent = "media-fetcher/1.0 (+https://github.com/yt-dlp/yt-dlp)"

// NewClient creates an HTTP client with secure defaults and the given
// overall request timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// GetJSON fetches rawURL and decodes the JSON body into v. Non-200
// responses are errors.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	if err := ValidateURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBody)).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
