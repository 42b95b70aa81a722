// Package instances resolves the list of alternate front-end instances the
// extraction engine can be routed through.
package instances

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"media-fetcher/internal/httputil"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

const (
	// DefaultEndpoint is the public Invidious instance directory, most users first.
	DefaultEndpoint = "https://api.invidious.io/instances.json?sort_by=users"

	// DefaultTimeout bounds a single directory lookup.
	DefaultTimeout = 5 * time.Second
)

// fallbackInstances is used whenever the remote directory is unusable.
var fallbackInstances = [...]string{
	"https://yewtu.be",
	"https://invidious.nerdvpn.de",
	"https://inv.nadeko.net",
}

// Fallback returns a fresh copy of the built-in instance list.
func Fallback() []string {
	return slices.Clone(fallbackInstances[:])
}

// Directory looks up instances from a remote JSON directory.
type Directory struct {
	endpoint string
	client   *http.Client
}

// New creates a Directory for endpoint. Empty values select the defaults.
func New(endpoint string, timeout time.Duration) *Directory {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Directory{
		endpoint: endpoint,
		client:   httputil.NewClient(timeout),
	}
}

// Endpoint returns the directory URL.
func (d *Directory) Endpoint() string {
	return d.endpoint
}

// List returns the usable instance base addresses in directory order. It
// never fails: any lookup problem yields the built-in fallback list.
func (d *Directory) List(ctx context.Context) []string {
	addrs, err := d.fetch(ctx)
	if err != nil {
		logging.Warn("Instance directory unavailable, using %d fallback instances: %v", len(fallbackInstances), err)
		metrics.InstanceDirectoryLookupsTotal.WithLabelValues(metrics.SourceFallback).Inc()
		return Fallback()
	}

	logging.Debug("Instance directory returned %d usable instances", len(addrs))
	metrics.InstanceDirectoryLookupsTotal.WithLabelValues(metrics.SourceRemote).Inc()
	return addrs
}

func (d *Directory) fetch(ctx context.Context) ([]string, error) {
	var entries []entry
	if err := httputil.GetJSON(ctx, d.client, d.endpoint, &entries); err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.usable() {
			addrs = append(addrs, e.baseAddress)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("directory listed no usable instances (%d entries)", len(entries))
	}
	return addrs, nil
}

// entry is one directory record. Two shapes are understood: the Invidious
// tuple ["name", {"uri": ..., "api": true}] and a flat object carrying
// "api_url" (Piped style).
type entry struct {
	baseAddress string
	api         bool
}

type invidiousDetails struct {
	URI string `json:"uri"`
	API *bool  `json:"api"`
}

type pipedRecord struct {
	APIURL string `json:"api_url"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var tuple []json.RawMessage
		if err := json.Unmarshal(data, &tuple); err != nil {
			return err
		}
		if len(tuple) < 2 {
			return nil
		}
		var details invidiousDetails
		if err := json.Unmarshal(tuple[1], &details); err != nil {
			return err
		}
		e.baseAddress = details.URI
		e.api = details.API != nil && *details.API
	case '{':
		var rec pipedRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		e.baseAddress = rec.APIURL
		e.api = rec.APIURL != ""
	}
	return nil
}

func (e entry) usable() bool {
	if !e.api || e.baseAddress == "" {
		return false
	}
	u, err := url.Parse(e.baseAddress)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
