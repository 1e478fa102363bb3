package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cloudwatcher/ndfd-forecast/internal/dwml"
	"github.com/cloudwatcher/ndfd-forecast/internal/forecast"
	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
)

// Source returns the raw DWML text for a point. Implementations own retry
// and caching policy; the generator treats the text as opaque until parse.
type Source interface {
	FetchXML(ctx context.Context, lat, lon float64) (string, error)
}

// Publisher receives every successfully generated forecast envelope.
type Publisher interface {
	Publish(ctx context.Context, result Result) error
}

// Result is the forecast envelope returned to callers and published to the
// sink: the two forecast projections plus provenance.
type Result struct {
	Location    string    `json:"location,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	GeneratedAt time.Time `json:"generated_at"`
	forecast.Forecast
}

// Generator orchestrates the fetch-parse-assemble cycle for one point.
// Each Generate call is independent and stateless between calls.
type Generator struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// NewGenerator creates a Generator with the given source and observability.
func NewGenerator(source Source, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one forecast has been generated.
func (g *Generator) CheckReadiness(_ context.Context) error {
	if !g.ready.Load() {
		return errors.New("no forecast generated yet")
	}
	return nil
}

// Generate fetches the DWML feed for the point, parses it, and assembles the
// forecast. Any stage failure aborts the whole generation; a partial feed
// yields no forecast rather than a silently incomplete one.
func (g *Generator) Generate(ctx context.Context, lat, lon float64) (Result, error) {
	start := time.Now()

	xmlText, err := g.source.FetchXML(ctx, lat, lon)
	if err != nil {
		g.metrics.FetchErrors.Inc()
		return Result{}, fmt.Errorf("fetch dwml: %w", err)
	}

	doc, err := dwml.Parse(xmlText)
	if err != nil {
		g.metrics.ParseErrors.Inc()
		return Result{}, fmt.Errorf("parse dwml: %w", err)
	}

	fc, err := forecast.Assemble(doc)
	if err != nil {
		g.metrics.AssembleErrors.Inc()
		return Result{}, fmt.Errorf("assemble forecast: %w", err)
	}

	result := Result{
		Latitude:    lat,
		Longitude:   lon,
		GeneratedAt: clock.Now().UTC(),
		Forecast:    fc,
	}
	if len(doc.Locations) > 0 {
		result.Location = doc.Locations[0].Name
	}

	g.metrics.ForecastsGenerated.Inc()
	g.metrics.GenerateDuration.Observe(time.Since(start).Seconds())
	g.ready.Store(true)

	g.logger.Info("forecast generated",
		"lat", lat,
		"lon", lon,
		"daily_dates", len(fc.Daily),
		"hourly_dates", len(fc.Hourly),
	)

	return result, nil
}
