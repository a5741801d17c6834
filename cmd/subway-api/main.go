package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/subway/internal/api"
	"github.com/shaiso/subway/internal/config"
	"github.com/shaiso/subway/internal/mq"
	"github.com/shaiso/subway/internal/repo"
	"github.com/shaiso/subway/internal/repo/memstore"
	"github.com/shaiso/subway/internal/service"
	"github.com/shaiso/subway/internal/telemetry"
)

var startTime = time.Now()

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting subway-api", "store", cfg.Store)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("subway-api failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.SetupTracing("subway-api", cfg.Traces)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	// Хранилище
	svcCfg := service.Config{Logger: logger}
	switch cfg.Store {
	case config.StoreMemory:
		store := memstore.New()
		svcCfg.Stations = store.Stations()
		svcCfg.Lines = store.Lines()
		svcCfg.Sections = store.Sections()
		logger.Warn("using in-memory store, data is lost on restart")

	default:
		pool, err := repo.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to database")

		if err := repo.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		svcCfg.Stations = repo.NewStationRepo(pool)
		svcCfg.Lines = repo.NewLineRepo(pool)
		svcCfg.Sections = repo.NewSectionRepo(pool)
	}

	if cfg.StationCacheSize > 0 {
		svcCfg.Stations = repo.NewCachedStationRepo(svcCfg.Stations, cfg.StationCacheSize, cfg.StationCacheTTL)
	}

	// События линий
	var conn *mq.Connection
	if cfg.RabbitMQURL != "" {
		conn, err = mq.Dial(cfg.RabbitMQURL, "subway-api", logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			return fmt.Errorf("rabbitmq topology: %w", err)
		}
		svcCfg.Events = mq.NewPublisher(conn, logger)
		logger.Info("publishing line events", "exchange", mq.ExchangeLines)
	}

	handler := api.NewHandler(api.Config{
		Stations:       service.NewStationService(svcCfg),
		Lines:          service.NewLineService(svcCfg),
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if conn != nil && !conn.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "rabbitmq unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime).Round(time.Second))
	})
	mux.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
