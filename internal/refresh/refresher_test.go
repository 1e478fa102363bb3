package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwatcher/ndfd-forecast/internal/config"
	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
)

type stubGenerator struct {
	failFor map[config.Point]error
	calls   []config.Point
}

func (g *stubGenerator) Generate(_ context.Context, lat, lon float64) (pipeline.Result, error) {
	point := config.Point{Latitude: lat, Longitude: lon}
	g.calls = append(g.calls, point)
	if err, ok := g.failFor[point]; ok {
		return pipeline.Result{}, err
	}
	return pipeline.Result{Latitude: lat, Longitude: lon}, nil
}

type stubPublisher struct {
	err       error
	published []pipeline.Result
}

func (p *stubPublisher) Publish(_ context.Context, result pipeline.Result) error {
	p.published = append(p.published, result)
	return p.err
}

func testConfig(points ...config.Point) *config.Config {
	return &config.Config{
		RefreshSchedule: "@hourly",
		ForecastPoints:  points,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceSweepsAllPoints(t *testing.T) {
	points := []config.Point{
		{Latitude: 38.99, Longitude: -77.01},
		{Latitude: 40.71, Longitude: -74.01},
	}
	gen := &stubGenerator{}
	pub := &stubPublisher{}
	r := NewRefresher(testConfig(points...), gen, pub, observability.NewMetricsForTesting(), discardLogger())

	r.RunOnce(context.Background())

	assert.Equal(t, points, gen.calls)
	require.Len(t, pub.published, 2)
	assert.Equal(t, 38.99, pub.published[0].Latitude)
}

func TestRunOnceContinuesPastFailures(t *testing.T) {
	bad := config.Point{Latitude: 38.99, Longitude: -77.01}
	good := config.Point{Latitude: 40.71, Longitude: -74.01}
	gen := &stubGenerator{failFor: map[config.Point]error{bad: errors.New("upstream down")}}
	pub := &stubPublisher{}
	r := NewRefresher(testConfig(bad, good), gen, pub, observability.NewMetricsForTesting(), discardLogger())

	r.RunOnce(context.Background())

	assert.Len(t, gen.calls, 2, "a failing point does not stop the sweep")
	require.Len(t, pub.published, 1)
	assert.Equal(t, 40.71, pub.published[0].Latitude)
}

func TestRunOnceWithoutPublisher(t *testing.T) {
	point := config.Point{Latitude: 38.99, Longitude: -77.01}
	gen := &stubGenerator{}
	r := NewRefresher(testConfig(point), gen, nil, observability.NewMetricsForTesting(), discardLogger())

	r.RunOnce(context.Background())
	assert.Len(t, gen.calls, 1)
}

func TestRunOncePublishFailureDoesNotAbort(t *testing.T) {
	points := []config.Point{
		{Latitude: 38.99, Longitude: -77.01},
		{Latitude: 40.71, Longitude: -74.01},
	}
	gen := &stubGenerator{}
	pub := &stubPublisher{err: errors.New("broker unreachable")}
	r := NewRefresher(testConfig(points...), gen, pub, observability.NewMetricsForTesting(), discardLogger())

	r.RunOnce(context.Background())

	assert.Len(t, gen.calls, 2)
	assert.Len(t, pub.published, 2, "publish is attempted for every generated forecast")
}

func TestReadiness(t *testing.T) {
	point := config.Point{Latitude: 38.99, Longitude: -77.01}

	t.Run("ready after a successful point", func(t *testing.T) {
		r := NewRefresher(testConfig(point), &stubGenerator{}, nil, observability.NewMetricsForTesting(), discardLogger())
		require.Error(t, r.CheckReadiness(context.Background()))

		r.RunOnce(context.Background())
		assert.NoError(t, r.CheckReadiness(context.Background()))
	})

	t.Run("still not ready when every point fails", func(t *testing.T) {
		gen := &stubGenerator{failFor: map[config.Point]error{point: errors.New("upstream down")}}
		r := NewRefresher(testConfig(point), gen, nil, observability.NewMetricsForTesting(), discardLogger())

		r.RunOnce(context.Background())
		assert.Error(t, r.CheckReadiness(context.Background()))
	})
}
