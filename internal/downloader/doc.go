// Package downloader orchestrates the extraction engine for the two
// user-facing operations: fetching a media item's metadata and materializing
// a chosen encoding as a local scratch file.
//
// Both operations share one retry policy family, selected by Config.Mode:
//
//   - direct: call the engine against the target URL and retry only upstream
//     rate limits, sleeping attempt × BackoffUnit before each retry.
//   - mirror: walk the instance directory in order, routing the engine
//     through each front-end until one succeeds, pausing MirrorDelay
//     between instances.
//
// A Service holds only immutable configuration and is safe for concurrent
// use; every request gets its own engine options and scratch directory.
package downloader
