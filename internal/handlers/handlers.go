package handlers

import (
	"context"
	"time"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/startup"
	"media-fetcher/internal/streaming"
)

// Fetcher runs metadata lookups and downloads. *downloader.Service
// implements it.
type Fetcher interface {
	FetchMetadata(ctx context.Context, rawURL string) (*downloader.Info, error)
	Download(ctx context.Context, rawURL string, sel downloader.Selection) (*downloader.Result, error)
}

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	// ctx scopes engine runs. It outlives individual requests so a client
	// that disconnects does not abort a started download.
	ctx          context.Context
	fetcher      Fetcher
	engine       startup.VersionProber
	streamConfig streaming.Config
	startTime    time.Time
	status       engineStatus
}

// New creates the handler set. Engine runs are canceled only when ctx is;
// engine is probed by the readiness check.
func New(ctx context.Context, fetcher Fetcher, engine startup.VersionProber, streamConfig streaming.Config) *Handlers {
	return &Handlers{
		ctx:          ctx,
		fetcher:      fetcher,
		engine:       engine,
		streamConfig: streamConfig,
		startTime:    time.Now(),
	}
}
