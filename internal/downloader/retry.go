package downloader

import (
	"context"
	"fmt"
	"time"

	"media-fetcher/internal/engine"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
)

// attemptFunc performs one engine call with the given options.
type attemptFunc func(ctx context.Context, opts engine.Options) error

// execute runs attempt under the configured policy. In mirror mode it also
// returns the base address of the instance that succeeded.
func (s *Service) execute(ctx context.Context, op string, opts engine.Options, attempt attemptFunc) (string, error) {
	if s.cfg.Mode == ModeMirror {
		return s.acrossMirrors(ctx, op, opts, attempt)
	}
	return "", s.withBackoff(ctx, op, opts, attempt)
}

// withBackoff retries rate-limited attempts with a linear backoff. Any other
// failure is returned immediately.
func (s *Service) withBackoff(ctx context.Context, op string, opts engine.Options, attempt attemptFunc) error {
	for n := 1; ; n++ {
		err := s.observe(ctx, op, opts, attempt)
		if err == nil {
			if n > 1 {
				logging.Info("%s succeeded on attempt %d for %s", op, n, opts.URL)
			}
			return nil
		}

		if !engine.IsRateLimited(err) {
			return fmt.Errorf("%w: %w", ErrEngineFailure, err)
		}

		if n >= s.cfg.MaxAttempts {
			logging.Warn("%s still rate limited after %d attempts for %s", op, n, opts.URL)
			return fmt.Errorf("%w (%d attempts): %w", ErrRateLimited, n, err)
		}

		delay := time.Duration(n) * s.cfg.BackoffUnit
		metrics.RateLimitRetriesTotal.WithLabelValues(op).Inc()
		logging.Info("%s rate limited for %s, retrying in %v (attempt %d/%d)",
			op, opts.URL, delay, n, s.cfg.MaxAttempts)

		if err := s.sleep(ctx, delay); err != nil {
			return fmt.Errorf("%w: %w", ErrEngineFailure, err)
		}
	}
}

// acrossMirrors tries each instance in directory order and stops at the
// first success.
func (s *Service) acrossMirrors(ctx context.Context, op string, opts engine.Options, attempt attemptFunc) (string, error) {
	addrs := s.instances.List(ctx)

	var last error
	for i, addr := range addrs {
		err := s.observe(ctx, op, opts.WithBaseAddress(addr), attempt)
		if err == nil {
			metrics.MirrorAttemptsTotal.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
			logging.Debug("%s succeeded via instance %s (%d/%d)", op, addr, i+1, len(addrs))
			return addr, nil
		}

		last = err
		metrics.MirrorAttemptsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
		logging.Warn("%s failed via instance %s (%d/%d): %v", op, addr, i+1, len(addrs), err)

		if i < len(addrs)-1 {
			if err := s.sleep(ctx, s.cfg.MirrorDelay); err != nil {
				return "", &MirrorError{Op: op, Attempts: i + 1, Last: err}
			}
		}
	}

	return "", &MirrorError{Op: op, Attempts: len(addrs), Last: last}
}

// observe runs a single attempt and records engine metrics for it.
func (s *Service) observe(ctx context.Context, op string, opts engine.Options, attempt attemptFunc) error {
	start := time.Now()
	err := attempt(ctx, opts)

	metrics.EngineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.EngineInvocationsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case engine.IsRateLimited(err):
		return metrics.OutcomeRateLimited
	default:
		return metrics.OutcomeError
	}
}
