package startup

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"media-fetcher/internal/logging"
)

// VersionProber reports the version of an external program.
type VersionProber interface {
	Version(ctx context.Context) (string, error)
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	FetchMode       string
	StartupDuration time.Duration
}

// CheckEngine probes the extraction engine and logs its version. A missing
// engine is reported but does not stop startup; readiness reflects it.
func CheckEngine(ctx context.Context, binary string, prober VersionProber) (string, error) {
	logging.Info("------------------------------------------------------------")
	logging.Info("EXTRACTION ENGINE")
	logging.Info("------------------------------------------------------------")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	version, err := prober.Version(ctx)
	if err != nil {
		logging.Warn("  [WARN] %s is not usable: %v", binary, err)
		logging.Warn("  Metadata and download requests will fail until it is installed")
		logging.Info("")
		return "", err
	}

	logging.Info("  [OK] %s %s", binary, version)
	logging.Info("")
	return version, nil
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  Fetch mode:      %s", config.FetchMode)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
  m e d i a - f e t c h e r
  video URL in, converted file out
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}
