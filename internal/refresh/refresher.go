// Package refresh keeps forecasts for a fixed set of points warm by
// regenerating them on a cron schedule. On-demand requests still go through
// the cache, so a warm sweep makes the common request path a cache hit.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cloudwatcher/ndfd-forecast/internal/config"
	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
)

// Generator produces a forecast for a point.
type Generator interface {
	Generate(ctx context.Context, lat, lon float64) (pipeline.Result, error)
}

// Refresher runs periodic forecast sweeps over the configured points and
// optionally publishes each result.
type Refresher struct {
	cron      *cron.Cron
	schedule  string
	points    []config.Point
	generator Generator
	publisher pipeline.Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewRefresher creates a Refresher. publisher may be nil, in which case
// results only warm the cache.
func NewRefresher(cfg *config.Config, generator Generator, publisher pipeline.Publisher, metrics *observability.Metrics, logger *slog.Logger) *Refresher {
	return &Refresher{
		cron:      cron.New(),
		schedule:  cfg.RefreshSchedule,
		points:    cfg.ForecastPoints,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start registers the sweep on the cron schedule and kicks off an immediate
// first sweep so the service does not wait a full period to become ready.
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		r.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	r.cron.Start()

	go r.RunOnce(context.Background())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// CheckReadiness returns nil once at least one point in a sweep succeeded.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no refresh sweep completed yet")
	}
	return nil
}

// RunOnce sweeps all configured points. A failing point is logged and
// counted but does not stop the sweep.
func (r *Refresher) RunOnce(ctx context.Context) {
	start := time.Now()
	var failed int

	for _, point := range r.points {
		result, err := r.generator.Generate(ctx, point.Latitude, point.Longitude)
		if err != nil {
			failed++
			r.metrics.RefreshErrors.Inc()
			r.logger.Error("refresh point failed",
				"lat", point.Latitude,
				"lon", point.Longitude,
				"error", err,
			)
			continue
		}
		r.ready.Store(true)

		if r.publisher != nil {
			if err := r.publisher.Publish(ctx, result); err != nil {
				r.metrics.PublishErrors.Inc()
				r.logger.Error("publish forecast failed",
					"lat", point.Latitude,
					"lon", point.Longitude,
					"error", err,
				)
			}
		}
	}

	r.metrics.RefreshRuns.Inc()
	r.logger.Info("refresh sweep finished",
		"points", len(r.points),
		"failed", failed,
		"duration", time.Since(start),
	)
}
