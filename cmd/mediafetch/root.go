package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/engine"
	"media-fetcher/internal/instances"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/startup"
)

// newEngine builds the extraction engine for a command run.
var newEngine = func(cfg *startup.Config) engine.Engine {
	return engine.NewYtDlp(cfg.YtDlpPath)
}

// newDirectory builds the instance directory used in mirror mode.
var newDirectory = func(cfg *startup.Config) downloader.InstanceLister {
	return instances.New(cfg.InstanceDirectoryURL, cfg.InstanceDirectoryTimeout)
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	flagMode  string
	flagDebug bool

	// cfg holds the loaded configuration (defaults < config file < env < flags).
	cfg *startup.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mediafetch",
		Short: "List and download the formats of a video page",
		Long: `mediafetch asks yt-dlp for the MP4 encodings of a video page and downloads
the one you pick, or the audio track converted to MP3.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVarP(&a.flagMode, "mode", "m", "", "Fetch mode: direct | mirror")
	root.PersistentFlags().BoolVarP(&a.flagDebug, "debug", "x", false, "Debug logging to stderr")

	root.AddCommand(a.newInfoCmd())
	root.AddCommand(a.newDownloadCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig loads configuration and applies the command line overrides.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := startup.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if a.flagMode != "" {
		cfg.FetchMode = a.flagMode
	}
	if a.flagDebug {
		logging.SetLevel(logging.LevelDebug)
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	return nil
}

// service wires the download service for the loaded configuration.
func (a *app) service() (*downloader.Service, error) {
	if a.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	dl := a.cfg.Downloader()
	var directory downloader.InstanceLister
	if dl.Mode == downloader.ModeMirror {
		directory = newDirectory(a.cfg)
	}
	return downloader.New(dl, newEngine(a.cfg), directory), nil
}
