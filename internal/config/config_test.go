package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://graphical.weather.gov/xml/SOAP_server/ndfdXMLclient.php", cfg.NDFDBaseURL)
	assert.Equal(t, 30*time.Second, cfg.NDFDTimeout)
	assert.Equal(t, 5, cfg.NDFDMaxRetries)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "forecasts", cfg.KafkaTopic)
	assert.Equal(t, "@hourly", cfg.RefreshSchedule)
	assert.Empty(t, cfg.ForecastPoints)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NDFD_TIMEOUT", "45s")
	t.Setenv("NDFD_MAX_RETRIES", "2")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "weather")
	t.Setenv("FORECAST_POINTS", "38.99,-77.01; 40.71,-74.01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.NDFDTimeout)
	assert.Equal(t, 2, cfg.NDFDMaxRetries)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "weather", cfg.KafkaTopic)
	require.Len(t, cfg.ForecastPoints, 2)
	assert.Equal(t, Point{Latitude: 38.99, Longitude: -77.01}, cfg.ForecastPoints[0])
	assert.Equal(t, Point{Latitude: 40.71, Longitude: -74.01}, cfg.ForecastPoints[1])
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "NDFD_TIMEOUT", value: "soon"},
		{name: "negative duration", key: "CACHE_TTL", value: "-5m"},
		{name: "bad int", key: "CACHE_SIZE", value: "many"},
		{name: "zero cache size", key: "CACHE_SIZE", value: "0"},
		{name: "negative retries", key: "NDFD_MAX_RETRIES", value: "-1"},
		{name: "bad point", key: "FORECAST_POINTS", value: "38.99"},
		{name: "point out of range", key: "FORECAST_POINTS", value: "95,-77.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadKafkaRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestParsePoints(t *testing.T) {
	points, err := ParsePoints("38.99,-77.01;;  40.71 , -74.01 ;")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, Point{Latitude: 38.99, Longitude: -77.01}, points[0])
	assert.Equal(t, Point{Latitude: 40.71, Longitude: -74.01}, points[1])

	points, err = ParsePoints("   ")
	require.NoError(t, err)
	assert.Empty(t, points)
}
