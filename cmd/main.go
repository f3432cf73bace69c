package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/okian/territory/internal/adapters/http/api"
	"github.com/okian/territory/internal/adapters/http/swagger"
	"github.com/okian/territory/internal/adapters/publisher"
	"github.com/okian/territory/internal/adapters/source"
	app "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/config"
	"github.com/okian/territory/internal/sweep"
	"github.com/okian/territory/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Optional .env next to the binary; a missing file is fine
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	var pub publisher.Publisher = publisher.Nop{}
	if cfg.PublishingEnabled() {
		pub = publisher.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, publisher.WithLogger(log.Named("publisher")))
	}

	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithLoader(source.New(source.WithLogger(log.Named("source")))),
		app.WithSources(source.Sources{
			Accounts: cfg.AccountsSource,
			Reps:     cfg.RepsSource,
			Workbook: cfg.WorkbookPath,
		}),
		app.WithPublisher(pub),
		app.WithSweepPool(sweep.New(
			sweep.WithWorkers(cfg.SweepWorkers),
			sweep.WithLogger(log.Named("sweep")),
		)),
		app.WithCacheSize(cfg.CacheSize),
		app.WithThreshold(cfg.Threshold, cfg.ThresholdMin, cfg.ThresholdMax),
		app.WithWeights(cfg.Weights),
	)
}

// newHandler registers the docs and API routes and wraps them with CORS and
// access logging.
func newHandler(ctx context.Context, svc *app.Service, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	swagger.Register(ctx, r)
	api.NewServer(svc, api.WithSweepStep(cfg.ThresholdStep)).Register(ctx, r)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)
	return handlers.LoggingHandler(os.Stdout, cors(r))
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the cache gauges as a side effect
			_ = svc.GetStats()
		}
	}
}
