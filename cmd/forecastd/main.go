package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwatcher/ndfd-forecast/internal/adapter/httpapi"
	kafkaadapter "github.com/cloudwatcher/ndfd-forecast/internal/adapter/kafka"
	"github.com/cloudwatcher/ndfd-forecast/internal/adapter/ndfd"
	"github.com/cloudwatcher/ndfd-forecast/internal/config"
	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
	"github.com/cloudwatcher/ndfd-forecast/internal/refresh"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := ndfd.NewClient(cfg.NDFDBaseURL, cfg.NDFDTimeout, cfg.NDFDMaxRetries, metrics, logger)
	source := ndfd.NewCachedSource(client, cfg.CacheSize, cfg.CacheTTL, metrics)
	generator := pipeline.NewGenerator(source, logger, metrics)

	// Publisher is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	// Scheduled refresh only runs when points are configured. Without it the
	// service is purely on-demand and ready as soon as it is listening.
	var refresher *refresh.Refresher
	ready := httpapi.ReadinessChecker(httpapi.ReadyFunc(func(context.Context) error { return nil }))
	if len(cfg.ForecastPoints) > 0 {
		refresher = refresh.NewRefresher(cfg, generator, publisher, metrics, logger)
		ready = refresher
		logger.Info("scheduled refresh enabled",
			"schedule", cfg.RefreshSchedule,
			"points", len(cfg.ForecastPoints),
		)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, generator, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if refresher != nil {
		if err := refresher.Start(); err != nil {
			logger.Error("refresher start error", "error", err)
			os.Exit(1)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if refresher != nil {
		refresher.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
