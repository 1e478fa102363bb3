package ndfd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
	"github.com/cloudwatcher/ndfd-forecast/internal/pipeline"
)

type countingSource struct {
	xml   string
	err   error
	calls int
}

func (s *countingSource) FetchXML(context.Context, float64, float64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.xml, nil
}

var _ pipeline.Source = (*CachedSource)(nil)

func TestCachedSourceHit(t *testing.T) {
	inner := &countingSource{xml: "<dwml/>"}
	cached := NewCachedSource(inner, 4, time.Hour, observability.NewMetricsForTesting())

	for i := 0; i < 3; i++ {
		body, err := cached.FetchXML(context.Background(), 38.99, -77.01)
		require.NoError(t, err)
		assert.Equal(t, "<dwml/>", body)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSourceKeysRoundToFourDecimals(t *testing.T) {
	inner := &countingSource{xml: "<dwml/>"}
	cached := NewCachedSource(inner, 4, time.Hour, observability.NewMetricsForTesting())

	_, err := cached.FetchXML(context.Background(), 38.990000001, -77.01)
	require.NoError(t, err)
	_, err = cached.FetchXML(context.Background(), 38.990000002, -77.01)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "coordinates within rounding share an entry")

	_, err = cached.FetchXML(context.Background(), 38.991, -77.01)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSourceExpiry(t *testing.T) {
	inner := &countingSource{xml: "<dwml/>"}
	cached := NewCachedSource(inner, 4, 30*time.Minute, observability.NewMetricsForTesting())

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	cached.cache.now = func() time.Time { return now }

	_, err := cached.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	_, err = cached.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "entry still fresh")

	now = now.Add(2 * time.Minute)
	_, err = cached.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "expired entry refetched")
}

func TestCachedSourceEvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingSource{xml: "<dwml/>"}
	cached := NewCachedSource(inner, 2, time.Hour, observability.NewMetricsForTesting())

	ctx := context.Background()
	_, _ = cached.FetchXML(ctx, 1, 1)
	_, _ = cached.FetchXML(ctx, 2, 2)
	assert.Equal(t, 2, inner.calls)

	// Touch the first entry so the second becomes least recently used.
	_, _ = cached.FetchXML(ctx, 1, 1)
	assert.Equal(t, 2, inner.calls)

	_, _ = cached.FetchXML(ctx, 3, 3)
	assert.Equal(t, 3, inner.calls)

	_, _ = cached.FetchXML(ctx, 1, 1)
	assert.Equal(t, 3, inner.calls, "first entry survived the eviction")

	_, _ = cached.FetchXML(ctx, 2, 2)
	assert.Equal(t, 4, inner.calls, "second entry was evicted")
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	inner := &countingSource{err: assert.AnError}
	cached := NewCachedSource(inner, 4, time.Hour, observability.NewMetricsForTesting())

	_, err := cached.FetchXML(context.Background(), 38.99, -77.01)
	require.ErrorIs(t, err, assert.AnError)

	inner.err = nil
	inner.xml = "<dwml/>"
	body, err := cached.FetchXML(context.Background(), 38.99, -77.01)
	require.NoError(t, err)
	assert.Equal(t, "<dwml/>", body)
	assert.Equal(t, 2, inner.calls)
}
