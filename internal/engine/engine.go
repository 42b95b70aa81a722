package engine

import (
	"context"

	"media-fetcher/internal/formats"
)

// Engine is the extraction engine contract used by the downloader.
type Engine interface {
	// Extract returns the metadata document for opts.URL without downloading.
	Extract(ctx context.Context, opts Options) (*formats.Metadata, error)

	// Download materializes the media at opts.OutputTemplate and returns the
	// metadata of the downloaded item.
	Download(ctx context.Context, opts Options) (*formats.Metadata, error)
}
