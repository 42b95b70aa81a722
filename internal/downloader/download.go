package downloader

import (
	"context"
	"fmt"

	"media-fetcher/internal/engine"
	"media-fetcher/internal/formats"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
	"media-fetcher/internal/scratch"
)

// Result describes a downloaded file ready for delivery. The caller owns
// Scratch and must call Scratch.Remove once the file has been delivered.
type Result struct {
	Path        string
	Title       string
	Filename    string
	ContentType string
	Selection   Selection
	Instance    string
	Scratch     *scratch.File
}

// Download materializes rawURL in the selected encoding as a scratch file.
// On failure the scratch directory has already been removed.
func (s *Service) Download(ctx context.Context, rawURL string, sel Selection) (*Result, error) {
	target, err := Canonicalize(rawURL)
	if err != nil {
		return nil, err
	}
	if sel.FormatID() == "" {
		return nil, fmt.Errorf("%w: format_id is required", ErrInvalidInput)
	}

	file, err := scratch.New(s.cfg.ScratchRoot, sel.Ext())
	if err != nil {
		return nil, err
	}

	metrics.DownloadsInProgress.Inc()
	defer metrics.DownloadsInProgress.Dec()

	var md *formats.Metadata
	instance, err := s.execute(ctx, metrics.OpDownload, s.downloadOptions(target, file, sel),
		func(ctx context.Context, opts engine.Options) error {
			m, err := s.engine.Download(ctx, opts)
			if err != nil {
				return err
			}
			md = m
			return nil
		})
	if err != nil {
		file.Remove()
		return nil, err
	}

	path, err := file.Resolve()
	if err != nil {
		file.Remove()
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}

	var rawTitle string
	if md != nil {
		rawTitle = md.Title
	}
	title := SanitizeTitle(rawTitle)

	logging.Info("Downloaded %s as %s (%s)", target, sel.Ext(), title)
	return &Result{
		Path:        path,
		Title:       title,
		Filename:    title + "." + sel.Ext(),
		ContentType: sel.ContentType(),
		Selection:   sel,
		Instance:    instance,
		Scratch:     file,
	}, nil
}

// downloadOptions derives the engine options for one download from the
// shared base options.
func (s *Service) downloadOptions(target string, file *scratch.File, sel Selection) engine.Options {
	opts := s.base.
		WithURL(target).
		WithOutput(file.Template()).
		WithFormat(sel.engineFormat())

	if sel.IsAudio() {
		return opts.WithAudioExtraction("mp3", s.cfg.AudioQuality)
	}
	return opts.WithMergeOutputFormat(formats.TargetContainer)
}
