package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/engine"
	"media-fetcher/internal/handlers"
	"media-fetcher/internal/instances"
	"media-fetcher/internal/logging"
	"media-fetcher/internal/metrics"
	"media-fetcher/internal/middleware"
	"media-fetcher/internal/scratch"
	"media-fetcher/internal/startup"
	"media-fetcher/internal/streaming"
)

const (
	shutdownTimeout        = 30 * time.Second
	staleScratchAge        = 6 * time.Hour
	scratchMetricsInterval = 30 * time.Second
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	ytdlp := engine.NewYtDlp(config.YtDlpPath)
	_, _ = startup.CheckEngine(context.Background(), ytdlp.Binary(), ytdlp)

	dlConfig := config.Downloader()
	var directory downloader.InstanceLister
	if dlConfig.Mode == downloader.ModeMirror {
		directory = instances.New(config.InstanceDirectoryURL, config.InstanceDirectoryTimeout)
	}
	svc := downloader.New(dlConfig, ytdlp, directory)

	space := scratch.NewSpace(config.ScratchDir)
	if _, err := space.Sweep(staleScratchAge); err != nil {
		logging.Warn("Failed to sweep stale scratch directories: %v", err)
	}

	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		collector = metrics.NewCollector(space, scratchMetricsInterval)
		collector.Start()
	}

	// Engine runs outlive their requests and are only canceled at shutdown.
	engineCtx, cancelEngines := context.WithCancel(context.Background())
	defer cancelEngines()

	h := handlers.New(engineCtx, svc, ytdlp, streaming.DefaultConfig())

	router := setupRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           buildHandler(router, config.LogHealthChecks),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Downloads stream for as long as the client keeps reading.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, cancelEngines, collector)
		close(done)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		FetchMode:       string(dlConfig.Mode),
		StartupDuration: time.Since(startTime),
	})

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/info", middleware.Compression(middleware.DefaultCompressionConfig())(http.HandlerFunc(h.GetInfo))).
		Methods("POST").Name("info")
	api.HandleFunc("/download", h.Download).Methods("POST").Name("download")

	if metricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}
	return r
}

func buildHandler(router http.Handler, logHealthChecks bool) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = logHealthChecks
	return middleware.Logger(loggingConfig)(router)
}

func handleShutdown(srv *http.Server, cancelEngines context.CancelFunc, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping extraction engine runs")
	cancelEngines()
	startup.LogShutdownStepComplete("Extraction engine runs stopped")

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownComplete()
}
