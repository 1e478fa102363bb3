package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast pipeline.
type Metrics struct {
	ForecastsGenerated prometheus.Counter
	FetchErrors        prometheus.Counter
	ParseErrors        prometheus.Counter
	AssembleErrors     prometheus.Counter
	GenerateDuration   prometheus.Histogram

	// Upstream NDFD fetch metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,error,circuit_open}
	UpstreamDuration prometheus.Histogram
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}

	// Scheduled refresh and publishing metrics.
	RefreshRuns   prometheus.Counter
	RefreshErrors prometheus.Counter
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "forecasts_generated_total",
			Help:      "Total forecasts assembled successfully.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "fetch_errors_total",
			Help:      "Total failures fetching the DWML feed.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "parse_errors_total",
			Help:      "Total DWML documents that failed to parse.",
		}),
		AssembleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "assemble_errors_total",
			Help:      "Total parsed documents that failed to assemble, e.g. missing elements.",
		}),
		GenerateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndfd_forecast",
			Name:      "generate_duration_seconds",
			Help:      "Duration of a complete fetch-parse-assemble cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "upstream_requests_total",
			Help:      "NDFD web service requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndfd_forecast",
			Name:      "upstream_request_duration_seconds",
			Help:      "NDFD web service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "source_cache_total",
			Help:      "Feed cache lookups by result.",
		}, []string{"result"}),
		RefreshRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "refresh_runs_total",
			Help:      "Total scheduled refresh sweeps started.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "refresh_errors_total",
			Help:      "Total points that failed during a refresh sweep.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndfd_forecast",
			Name:      "publish_errors_total",
			Help:      "Total forecasts that failed to publish to the sink.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastsGenerated,
		m.FetchErrors,
		m.ParseErrors,
		m.AssembleErrors,
		m.GenerateDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.RefreshRuns,
		m.RefreshErrors,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastsGenerated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "forecasts_generated_total"}),
		FetchErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "fetch_errors_total"}),
		ParseErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "parse_errors_total"}),
		AssembleErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "assemble_errors_total"}),
		GenerateDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ndfd_forecast", Name: "generate_duration_seconds"}),
		UpstreamRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "upstream_requests_total"}, []string{"outcome"}),
		UpstreamDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ndfd_forecast", Name: "upstream_request_duration_seconds"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "source_cache_total"}, []string{"result"}),
		RefreshRuns:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "refresh_runs_total"}),
		RefreshErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "refresh_errors_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ndfd_forecast", Name: "publish_errors_total"}),
	}
}
