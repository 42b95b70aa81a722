// Package startup handles configuration loading and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] starts from built-in defaults, overlays the optional TOML file
// named by CONFIG_FILE, then applies environment variables:
//
//   - PORT: HTTP server port (default: 8080)
//   - SCRATCH_DIR: Parent of per-request scratch directories (default: os.TempDir())
//   - YTDLP_PATH: yt-dlp executable (default: yt-dlp)
//   - FETCH_MODE: direct or mirror (default: direct)
//   - MAX_ATTEMPTS: Engine attempts per request when rate limited (default: 3)
//   - BACKOFF_UNIT: Linear backoff step as Go duration (default: 1s)
//   - MIRROR_DELAY: Pause between instances in mirror mode (default: 1s)
//   - INSTANCE_DIRECTORY_URL: Public instance directory (default: api.invidious.io)
//   - INSTANCE_DIRECTORY_TIMEOUT: Directory fetch timeout (default: 5s)
//   - SLEEP_REQUESTS: Pause between the engine's own HTTP requests (default: 0)
//   - AUDIO_QUALITY: MP3 quality passed to the engine (default: 192K)
//   - METRICS_ENABLED: Serve /metrics (default: true)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// The TOML file uses the lower-case key names (port, scratch_dir, fetch_mode,
// max_attempts, backoff_unit, ...). Durations are Go duration strings.
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed through
// [GetBuildInfo].
package startup
