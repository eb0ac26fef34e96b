package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/ffebridge/internal/adapters/http/api"
	"github.com/okian/ffebridge/internal/adapters/platform"
	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/config"
	"github.com/okian/ffebridge/pkg/logger"
	"github.com/okian/ffebridge/pkg/metrics"
)

// HTTP server timeout constants. Writes cover the longest batch send.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 120 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logOpts []logger.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	if err := logger.Init(logOpts...); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	registerRuntimeCollectors()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newHandler wires the service and the API from the configuration.
func newHandler(cfg *config.Config, log logger.Logger) http.Handler {
	recorder := metrics.Default()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithRecorder(recorder),
		service.WithPoolObserver(recorder),
		service.WithCheckConcurrency(cfg.CheckConcurrency),
		service.WithDefaultLevel(cfg.Level()),
		service.WithSoftwareTags(cfg.SoftwareTag, cfg.GlobalSoftwareTag),
		service.WithPlatformOptions(
			platform.WithObserver(recorder),
			platform.WithBatchTimeout(cfg.BatchTimeout),
			platform.WithSettingsTimeout(cfg.SettingsTimeout),
			platform.WithReadTimeout(cfg.ReadTimeout),
			platform.WithCheckTimeout(cfg.CheckTimeout),
		),
	}
	if cfg.TokenSecret != "" {
		opts = append(opts, service.WithTokenDecoder(auth.NewDecoder(cfg.TokenSecret, auth.WithLeeway(cfg.TokenLeeway))))
	}

	return api.NewServer(service.New(opts...),
		api.WithLogger(log.Named("http")),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithMetricsHandler(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})),
	).Router()
}

// registerRuntimeCollectors exposes Go runtime and process metrics on the
// custom registry. Repeated calls are ignored.
func registerRuntimeCollectors() {
	reg := metrics.GetRegistry()
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
