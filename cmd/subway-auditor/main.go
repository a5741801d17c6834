package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/subway/internal/audit"
	"github.com/shaiso/subway/internal/config"
	"github.com/shaiso/subway/internal/mq"
	"github.com/shaiso/subway/internal/repo"
	"github.com/shaiso/subway/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting subway-auditor", "schedule", cfg.AuditCron)

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("subway-auditor failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("auditor requires SUBWAY_STORE=%s, got %q", config.StorePostgres, cfg.Store)
	}

	schedule, err := audit.ParseSchedule(cfg.AuditCron)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.SetupTracing("subway-auditor", cfg.Traces)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// DB pool
	pool, err := repo.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	auditor := audit.New(repo.NewLineRepo(pool), repo.NewSectionRepo(pool), logger)

	// Плановый аудит выполняет только держатель advisory lock.
	lock := repo.NewAdvisoryLock(pool, repo.AuditLockKey)
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			logger.Warn("release audit lock", "error", err)
		}
	}()
	runner := audit.NewRunner(auditor, schedule, lock, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("audit runner stopped", "error", err)
		}
	}()

	// Проверка линий по событиям
	var conn *mq.Connection
	if cfg.RabbitMQURL != "" {
		conn, err = mq.Dial(cfg.RabbitMQURL, "subway-auditor", logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			return fmt.Errorf("rabbitmq topology: %w", err)
		}

		consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
			Queue:    mq.QueueLinesAudit,
			Handler:  auditor.HandleMessage,
			Prefetch: 4,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("line event consumer stopped", "error", err)
			}
		}()
	}

	// HTTP: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if conn != nil && !conn.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("rabbitmq unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.AuditPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	wg.Wait()
	return nil
}
