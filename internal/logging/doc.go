// Package logging provides the leveled logger used across media-fetcher.
//
// Levels, from most to least verbose:
//   - DEBUG: engine command lines, retry decisions, stream statistics
//   - INFO: request outcomes and startup configuration
//   - WARN: recoverable failures (fallback instance list, cleanup errors)
//   - ERROR: failures surfaced to a caller
//   - FATAL: startup failures that terminate the process
//
// The level comes from LOG_LEVEL, or DEBUG=true as a shortcut. The CLI
// overrides it with SetLevel.
package logging
