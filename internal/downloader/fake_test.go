package downloader

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"media-fetcher/internal/engine"
	"media-fetcher/internal/formats"
)

// fakeEngine returns scripted results, one per call, and records the
// options of every call.
type fakeEngine struct {
	mu      sync.Mutex
	results []error
	md      *formats.Metadata
	// write makes Download create the output file with this extension.
	write string
	calls []engine.Options
}

func (f *fakeEngine) next(opts engine.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, opts)
	if len(f.results) == 0 {
		return nil
	}
	err := f.results[0]
	f.results = f.results[1:]
	return err
}

func (f *fakeEngine) Extract(_ context.Context, opts engine.Options) (*formats.Metadata, error) {
	if err := f.next(opts); err != nil {
		return nil, err
	}
	return f.md, nil
}

func (f *fakeEngine) Download(_ context.Context, opts engine.Options) (*formats.Metadata, error) {
	if err := f.next(opts); err != nil {
		return nil, err
	}
	if f.write != "" {
		path := strings.Replace(opts.OutputTemplate, "%(ext)s", f.write, 1)
		if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
			return nil, err
		}
	}
	return f.md, nil
}

func (f *fakeEngine) Calls() []engine.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Options(nil), f.calls...)
}

type staticInstances []string

func (s staticInstances) List(context.Context) []string {
	return append([]string(nil), s...)
}

// sleepRecorder replaces Service.sleep and records requested delays.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func rateLimited(op string) error {
	return &engine.RunError{Op: op, Kind: engine.ErrRateLimited, Detail: "ERROR: HTTP Error 429: Too Many Requests"}
}

func engineFailure(op string) error {
	return &engine.RunError{Op: op, Kind: engine.ErrEngine, Detail: "ERROR: Video unavailable"}
}

func newTestService(t *testing.T, cfg Config, eng engine.Engine, inst InstanceLister) (*Service, *sleepRecorder) {
	if cfg.ScratchRoot == "" {
		cfg.ScratchRoot = t.TempDir()
	}
	svc := New(cfg, eng, inst)
	rec := &sleepRecorder{}
	svc.sleep = rec.sleep
	return svc, rec
}
