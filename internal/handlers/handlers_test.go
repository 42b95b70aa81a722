package handlers

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/engine"
	"media-fetcher/internal/formats"
	"media-fetcher/internal/scratch"
	"media-fetcher/internal/streaming"
)

type fakeFetcher struct {
	mu sync.Mutex

	info    *downloader.Info
	infoErr error

	// scratchRoot, when set, makes Download produce a real scratch file.
	scratchRoot string
	content     string
	missingFile bool
	downloadErr error

	calls    int
	lastURL  string
	lastSel  downloader.Selection
	ctxErr   error
	produced *scratch.File
}

func (f *fakeFetcher) FetchMetadata(ctx context.Context, rawURL string) (*downloader.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastURL = rawURL
	f.ctxErr = ctx.Err()
	return f.info, f.infoErr
}

func (f *fakeFetcher) Download(ctx context.Context, rawURL string, sel downloader.Selection) (*downloader.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastURL = rawURL
	f.lastSel = sel
	f.ctxErr = ctx.Err()
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}

	file, err := scratch.New(f.scratchRoot, sel.Ext())
	if err != nil {
		return nil, err
	}
	f.produced = file
	if !f.missingFile {
		if err := os.WriteFile(file.Path(), []byte(f.content), 0o644); err != nil {
			return nil, err
		}
	}
	return &downloader.Result{
		Path:        file.Path(),
		Title:       "Clip",
		Filename:    "Clip." + sel.Ext(),
		ContentType: sel.ContentType(),
		Selection:   sel,
		Scratch:     file,
	}, nil
}

type fakeProber struct {
	mu      sync.Mutex
	version string
	err     error
	calls   int
}

func (p *fakeProber) Version(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.version, p.err
}

func newTestHandlers(f Fetcher) (*Handlers, *fakeProber) {
	p := &fakeProber{version: "2025.01.15"}
	return New(context.Background(), f, p, streaming.DefaultConfig()), p
}

// scriptedEngine writes the requested output file and returns md.
type scriptedEngine struct {
	md  *formats.Metadata
	err error
}

func (e *scriptedEngine) Extract(context.Context, engine.Options) (*formats.Metadata, error) {
	return e.md, e.err
}

func (e *scriptedEngine) Download(_ context.Context, opts engine.Options) (*formats.Metadata, error) {
	if e.err != nil {
		return nil, e.err
	}
	ext := opts.MergeOutputFormat
	if opts.Audio.Enabled() {
		ext = opts.Audio.Codec
	}
	path := strings.Replace(opts.OutputTemplate, "%(ext)s", ext, 1)
	if err := os.WriteFile(path, []byte("converted"), 0o644); err != nil {
		return nil, err
	}
	return e.md, nil
}

var errBoom = errors.New("boom")
