package downloader

import (
	"context"
	"errors"

	"media-fetcher/internal/engine"
	"media-fetcher/internal/formats"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

// Info is the result of a metadata fetch.
type Info struct {
	// URL is the canonical URL the engine was asked about.
	URL      string
	Metadata *formats.Metadata
	// Instance is the front-end that answered, empty in direct mode.
	Instance string
}

// FetchMetadata asks the engine for the metadata document of rawURL.
func (s *Service) FetchMetadata(ctx context.Context, rawURL string) (*Info, error) {
	target, err := Canonicalize(rawURL)
	if err != nil {
		return nil, err
	}

	var md *formats.Metadata
	instance, err := s.execute(ctx, metrics.OpExtract, s.base.WithURL(target),
		func(ctx context.Context, opts engine.Options) error {
			m, err := s.engine.Extract(ctx, opts)
			if err != nil {
				return err
			}
			md = m
			return nil
		})
	if err != nil {
		return nil, err
	}
	if md == nil {
		return nil, errors.Join(ErrEngineFailure, errors.New("engine returned no metadata"))
	}

	logging.Info("Fetched metadata for %s: %q (%d formats)", target, md.Title, len(md.Formats))
	return &Info{URL: target, Metadata: md, Instance: instance}, nil
}
