package downloader

import (
	"errors"
	"fmt"
)

// Error classes surfaced to callers. Use errors.Is to classify.
var (
	// ErrInvalidInput indicates an empty or unusable URL or format identifier.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the upstream kept rate limiting after every
	// allowed attempt.
	ErrRateLimited = errors.New("rate limited after retries")

	// ErrMirrorExhausted indicates every front-end instance failed.
	ErrMirrorExhausted = errors.New("all instances failed")

	// ErrEngineFailure indicates any other extraction or download failure.
	ErrEngineFailure = errors.New("extraction failed")
)

// MirrorError reports a failed walk over the instance list. It matches
// ErrMirrorExhausted and the last underlying error.
type MirrorError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *MirrorError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s: %v (%d tried)", e.Op, ErrMirrorExhausted, e.Attempts)
	}
	return fmt.Sprintf("%s: %v (%d tried): %v", e.Op, ErrMirrorExhausted, e.Attempts, e.Last)
}

func (e *MirrorError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrMirrorExhausted}
	}
	return []error{ErrMirrorExhausted, e.Last}
}
