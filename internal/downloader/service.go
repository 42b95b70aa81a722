package downloader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"media-fetcher/internal/engine"
)

// Mode selects the retry policy family used for engine calls.
type Mode string

const (
	// ModeDirect calls the engine directly with rate-limit backoff.
	ModeDirect Mode = "direct"
	// ModeMirror walks the instance directory until one front-end succeeds.
	ModeMirror Mode = "mirror"
)

// ParseMode parses a mode name; empty selects ModeDirect.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDirect:
		return ModeDirect, nil
	case ModeMirror:
		return ModeMirror, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q (valid: direct, mirror)", s)
	}
}

// Config holds the immutable orchestration settings.
type Config struct {
	Mode        Mode
	MaxAttempts int
	BackoffUnit time.Duration
	MirrorDelay time.Duration
	// ScratchRoot is where per-request scratch directories are created.
	// Empty means os.TempDir().
	ScratchRoot string
	// SleepRequests paces the engine's own HTTP requests.
	SleepRequests time.Duration
	// AudioQuality is the MP3 target quality passed to the engine.
	AudioQuality string
}

// DefaultConfig returns the default orchestration settings.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeDirect,
		MaxAttempts:  3,
		BackoffUnit:  time.Second,
		MirrorDelay:  time.Second,
		AudioQuality: "192K",
	}
}

// InstanceLister supplies alternate front-end base addresses in trial order.
type InstanceLister interface {
	List(ctx context.Context) []string
}

// Service runs metadata fetches and downloads against an engine.
type Service struct {
	cfg       Config
	engine    engine.Engine
	instances InstanceLister
	base      engine.Options
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a Service. instances is only consulted in ModeMirror.
func New(cfg Config, eng engine.Engine, instances InstanceLister) *Service {
	if cfg.Mode == "" {
		cfg.Mode = ModeDirect
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.AudioQuality == "" {
		cfg.AudioQuality = DefaultConfig().AudioQuality
	}

	return &Service{
		cfg:       cfg,
		engine:    eng,
		instances: instances,
		base: engine.Options{
			NoPlaylist:    true,
			SleepRequests: cfg.SleepRequests,
		},
		sleep: sleepContext,
	}
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
