// Command mediafetch is the command line front end of Media Fetcher. It runs
// the same metadata and download pipeline as the server without HTTP.
//
// Usage:
//
//	mediafetch info <url>
//	mediafetch download <url> --format <id|audio-mp3> [--out dir]
//	mediafetch version
//
// Configuration is read exactly like the server (defaults, CONFIG_FILE,
// environment); --mode and --debug override it for one invocation.
package main
