package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/engine"
	"media-fetcher/internal/httputil"
	"media-fetcher/internal/instances"
	"media-fetcher/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Port       string `toml:"port"`
	ScratchDir string `toml:"scratch_dir"`
	YtDlpPath  string `toml:"ytdlp_path"`

	FetchMode     string        `toml:"fetch_mode"`
	MaxAttempts   int           `toml:"max_attempts"`
	BackoffUnit   time.Duration `toml:"backoff_unit"`
	MirrorDelay   time.Duration `toml:"mirror_delay"`
	SleepRequests time.Duration `toml:"sleep_requests"`
	AudioQuality  string        `toml:"audio_quality"`

	InstanceDirectoryURL     string        `toml:"instance_directory_url"`
	InstanceDirectoryTimeout time.Duration `toml:"instance_directory_timeout"`

	MetricsEnabled  bool `toml:"metrics_enabled"`
	LogHealthChecks bool `toml:"log_health_checks"`

	// ConfigFile is the TOML file that was applied, if any.
	ConfigFile string `toml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	dl := downloader.DefaultConfig()
	return &Config{
		Port:                     "8080",
		ScratchDir:               os.TempDir(),
		YtDlpPath:                engine.DefaultBinary,
		FetchMode:                string(dl.Mode),
		MaxAttempts:              dl.MaxAttempts,
		BackoffUnit:              dl.BackoffUnit,
		MirrorDelay:              dl.MirrorDelay,
		AudioQuality:             dl.AudioQuality,
		InstanceDirectoryURL:     instances.DefaultEndpoint,
		InstanceDirectoryTimeout: instances.DefaultTimeout,
		MetricsEnabled:           true,
		LogHealthChecks:          true,
	}
}

// Load builds the configuration from defaults, the CONFIG_FILE TOML overlay
// and the environment, then validates it. It logs nothing.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load plus the startup banner, a configuration dump and a
// write check of the scratch directory.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.ConfigFile != "" {
		logging.Info("  CONFIG_FILE:                %s", cfg.ConfigFile)
	}
	logging.Info("  PORT:                       %s", cfg.Port)
	logging.Info("  SCRATCH_DIR:                %s", cfg.ScratchDir)
	logging.Info("  YTDLP_PATH:                 %s", cfg.YtDlpPath)
	logging.Info("  FETCH_MODE:                 %s", cfg.FetchMode)
	logging.Info("  MAX_ATTEMPTS:               %d", cfg.MaxAttempts)
	logging.Info("  BACKOFF_UNIT:               %v", cfg.BackoffUnit)
	logging.Info("  MIRROR_DELAY:               %v", cfg.MirrorDelay)
	logging.Info("  SLEEP_REQUESTS:             %v", cfg.SleepRequests)
	logging.Info("  AUDIO_QUALITY:              %s", cfg.AudioQuality)
	logging.Info("  INSTANCE_DIRECTORY_URL:     %s", cfg.InstanceDirectoryURL)
	logging.Info("  INSTANCE_DIRECTORY_TIMEOUT: %v", cfg.InstanceDirectoryTimeout)
	logging.Info("  METRICS_ENABLED:            %v", cfg.MetricsEnabled)
	logging.Info("  LOG_HEALTH_CHECKS:          %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:                  %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	cfg.ScratchDir, err = filepath.Abs(cfg.ScratchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scratch directory path: %w", err)
	}
	logging.Info("  Scratch directory (absolute): %s", cfg.ScratchDir)

	if err := ensureDirectory(cfg.ScratchDir); err != nil {
		return nil, fmt.Errorf("scratch directory error: %w", err)
	}
	if err := testWriteAccess(cfg.ScratchDir); err != nil {
		return nil, fmt.Errorf("scratch directory is not writable: %w", err)
	}
	logging.Info("  [OK] Scratch directory is writable")
	logging.Info("")

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.ConfigFile = path
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.ScratchDir = getEnv("SCRATCH_DIR", c.ScratchDir)
	c.YtDlpPath = getEnv("YTDLP_PATH", c.YtDlpPath)
	c.FetchMode = getEnv("FETCH_MODE", c.FetchMode)
	c.MaxAttempts = getEnvInt("MAX_ATTEMPTS", c.MaxAttempts)
	c.BackoffUnit = getEnvDuration("BACKOFF_UNIT", c.BackoffUnit)
	c.MirrorDelay = getEnvDuration("MIRROR_DELAY", c.MirrorDelay)
	c.SleepRequests = getEnvDuration("SLEEP_REQUESTS", c.SleepRequests)
	c.AudioQuality = getEnv("AUDIO_QUALITY", c.AudioQuality)
	c.InstanceDirectoryURL = getEnv("INSTANCE_DIRECTORY_URL", c.InstanceDirectoryURL)
	c.InstanceDirectoryTimeout = getEnvDuration("INSTANCE_DIRECTORY_TIMEOUT", c.InstanceDirectoryTimeout)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
	c.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.LogHealthChecks)
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := downloader.ParseMode(c.FetchMode); err != nil {
		return err
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BackoffUnit < 0 || c.MirrorDelay < 0 || c.SleepRequests < 0 {
		return errors.New("durations cannot be negative")
	}
	if c.InstanceDirectoryTimeout <= 0 {
		return fmt.Errorf("instance directory timeout must be positive, got %v", c.InstanceDirectoryTimeout)
	}
	if err := httputil.ValidateURL(c.InstanceDirectoryURL); err != nil {
		return fmt.Errorf("instance directory URL: %w", err)
	}
	if c.YtDlpPath == "" {
		return errors.New("ytdlp path cannot be empty")
	}
	return nil
}

// Downloader returns the orchestration settings. Call it on a validated Config.
func (c *Config) Downloader() downloader.Config {
	mode, _ := downloader.ParseMode(c.FetchMode)
	return downloader.Config{
		Mode:          mode,
		MaxAttempts:   c.MaxAttempts,
		BackoffUnit:   c.BackoffUnit,
		MirrorDelay:   c.MirrorDelay,
		ScratchRoot:   c.ScratchDir,
		SleepRequests: c.SleepRequests,
		AudioQuality:  c.AudioQuality,
	}
}

func ensureDirectory(path string) error {
	logging.Debug("  Checking scratch directory: %s", path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
