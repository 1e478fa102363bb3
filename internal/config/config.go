package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Point is one latitude/longitude pair the refresher keeps warm.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NDFD upstream settings.
	NDFDBaseURL    string
	NDFDTimeout    time.Duration
	NDFDMaxRetries int

	// Source cache settings.
	CacheSize int
	CacheTTL  time.Duration

	// Optional Kafka forecast publisher.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Optional scheduled refresh of fixed points.
	RefreshSchedule string
	ForecastPoints  []Point
}

// Load reads configuration from environment variables, applying defaults
// where unset and failing fast on values that cannot work.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	ndfdTimeout, err := parseDuration("NDFD_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "30m")
	if err != nil {
		return nil, err
	}

	maxRetries, err := parseInt("NDFD_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("CACHE_SIZE", 128)
	if err != nil {
		return nil, err
	}

	points, err := ParsePoints(os.Getenv("FORECAST_POINTS"))
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NDFDBaseURL:    envOrDefault("NDFD_BASE_URL", "https://graphical.weather.gov/xml/SOAP_server/ndfdXMLclient.php"),
		NDFDTimeout:    ndfdTimeout,
		NDFDMaxRetries: maxRetries,

		CacheSize: cacheSize,
		CacheTTL:  cacheTTL,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "forecasts"),

		RefreshSchedule: envOrDefault("REFRESH_SCHEDULE", "@hourly"),
		ForecastPoints:  points,
	}

	if cfg.NDFDMaxRetries < 0 {
		return nil, errors.New("NDFD_MAX_RETRIES must not be negative")
	}
	if cfg.CacheSize <= 0 {
		return nil, errors.New("CACHE_SIZE must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// ParsePoints parses a "lat,lon;lat,lon" list.
func ParsePoints(s string) ([]Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var points []Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		latStr, lonStr, found := strings.Cut(pair, ",")
		if !found {
			return nil, fmt.Errorf("invalid forecast point %q: want lat,lon", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in forecast point %q", pair)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in forecast point %q", pair)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("forecast point %q out of range", pair)
		}
		points = append(points, Point{Latitude: lat, Longitude: lon})
	}
	return points, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
