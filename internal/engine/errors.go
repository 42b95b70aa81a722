package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRateLimited indicates the upstream host answered 429 Too Many Requests.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrEngine indicates any other extraction or download failure.
	ErrEngine = errors.New("extraction engine failure")
)

// RunError describes a failed engine run. It matches ErrRateLimited or
// ErrEngine through errors.Is, plus the underlying process error.
type RunError struct {
	Op     string
	Kind   error
	Detail string
	Err    error
}

func (e *RunError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *RunError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsRateLimited reports whether err is an upstream rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// classify turns a failed run into a RunError. detail is the engine's
// diagnostic output; only its last ERROR line is kept.
func classify(op string, detail string, err error) *RunError {
	kind := ErrEngine
	if isTooManyRequests(detail) {
		kind = ErrRateLimited
	}
	return &RunError{Op: op, Kind: kind, Detail: lastErrorLine(detail), Err: err}
}

func isTooManyRequests(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "http error 429")
}

func lastErrorLine(msg string) string {
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
