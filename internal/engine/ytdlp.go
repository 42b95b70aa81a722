package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"media-fetcher/internal/formats"
	"media-fetcher/internal/logging"
)

// DefaultBinary is the yt-dlp executable looked up on PATH.
const DefaultBinary = "yt-dlp"

// Runner executes a command and returns its captured output.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// YtDlp drives the yt-dlp command line program.
type YtDlp struct {
	binary string
	run    Runner
}

// NewYtDlp creates an engine that runs the given yt-dlp binary.
func NewYtDlp(binary string) *YtDlp {
	if binary == "" {
		binary = DefaultBinary
	}
	return &YtDlp{binary: binary, run: execRunner}
}

// WithRunner returns a copy using run instead of executing processes.
func (y *YtDlp) WithRunner(run Runner) *YtDlp {
	return &YtDlp{binary: y.binary, run: run}
}

// Binary returns the configured executable.
func (y *YtDlp) Binary() string {
	return y.binary
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Version returns the first line of `yt-dlp --version`.
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := y.run(ctx, y.binary, "--version")
	if err != nil {
		return "", fmt.Errorf("%s --version: %w: %s", y.binary, err, strings.TrimSpace(string(stderr)))
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(stdout)), "\n")
	return line, nil
}

// Extract implements Engine.
func (y *YtDlp) Extract(ctx context.Context, opts Options) (*formats.Metadata, error) {
	args, err := extractArgs(opts)
	if err != nil {
		return nil, &RunError{Op: "extract", Kind: ErrEngine, Err: err}
	}

	stdout, err := y.invoke(ctx, "extract", args)
	if err != nil {
		return nil, err
	}

	var md formats.Metadata
	if err := json.Unmarshal(stdout, &md); err != nil {
		return nil, &RunError{Op: "extract", Kind: ErrEngine, Err: fmt.Errorf("decoding metadata: %w", err)}
	}
	return &md, nil
}

// Download implements Engine. The metadata is read from the JSON line yt-dlp
// prints once the item has been processed.
func (y *YtDlp) Download(ctx context.Context, opts Options) (*formats.Metadata, error) {
	if opts.OutputTemplate == "" {
		return nil, &RunError{Op: "download", Kind: ErrEngine, Err: fmt.Errorf("output template is required")}
	}

	args, err := downloadArgs(opts)
	if err != nil {
		return nil, &RunError{Op: "download", Kind: ErrEngine, Err: err}
	}

	stdout, err := y.invoke(ctx, "download", args)
	if err != nil {
		return nil, err
	}

	line := lastJSONLine(stdout)
	if line == nil {
		logging.Debug("yt-dlp download produced no metadata line")
		return &formats.Metadata{}, nil
	}

	var md formats.Metadata
	if err := json.Unmarshal(line, &md); err != nil {
		logging.Warn("Failed to decode download metadata: %v", err)
		return &formats.Metadata{}, nil
	}
	return &md, nil
}

func (y *YtDlp) invoke(ctx context.Context, op string, args []string) ([]byte, error) {
	logging.Debug("Running %s %s", y.binary, strings.Join(args, " "))

	stdout, stderr, err := y.run(ctx, y.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &RunError{Op: op, Kind: ErrEngine, Err: ctx.Err()}
		}
		return nil, classify(op, string(stderr), err)
	}
	return stdout, nil
}

func extractArgs(opts Options) ([]string, error) {
	target, err := targetURL(opts)
	if err != nil {
		return nil, err
	}

	args := []string{"--dump-single-json", "--no-warnings"}
	args = append(args, commonArgs(opts)...)
	if opts.Format != "" {
		args = append(args, "-f", opts.Format)
	}
	return append(args, "--", target), nil
}

func downloadArgs(opts Options) ([]string, error) {
	target, err := targetURL(opts)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--dump-json",
		"--no-simulate",
		"--no-progress",
		"--no-warnings",
		"-o", opts.OutputTemplate,
	}
	args = append(args, commonArgs(opts)...)
	if opts.Format != "" {
		args = append(args, "-f", opts.Format)
	}
	if opts.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", opts.MergeOutputFormat)
	}
	if opts.Audio.Enabled() {
		args = append(args, "-x", "--audio-format", opts.Audio.Codec)
		if opts.Audio.Quality != "" {
			args = append(args, "--audio-quality", opts.Audio.Quality)
		}
	}
	return append(args, "--", target), nil
}

func commonArgs(opts Options) []string {
	var args []string
	if opts.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if opts.SleepRequests > 0 {
		args = append(args, "--sleep-requests", strconv.FormatFloat(opts.SleepRequests.Seconds(), 'f', -1, 64))
	}

	headers := opts.Headers()
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, "--add-headers", k+":"+headers[k])
	}
	return args
}

// targetURL returns opts.URL, rebased onto opts.BaseAddress when set.
func targetURL(opts Options) (string, error) {
	if opts.URL == "" {
		return "", fmt.Errorf("target URL is required")
	}
	if opts.BaseAddress == "" {
		return opts.URL, nil
	}

	target, err := url.Parse(opts.URL)
	if err != nil {
		return "", fmt.Errorf("parsing target URL: %w", err)
	}
	base, err := url.Parse(opts.BaseAddress)
	if err != nil {
		return "", fmt.Errorf("parsing base address: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base address %q has no scheme or host", opts.BaseAddress)
	}

	target.Scheme = base.Scheme
	target.Host = base.Host
	return target.String(), nil
}

func lastJSONLine(out []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && line[0] == '{' {
			return line
		}
	}
	return nil
}
