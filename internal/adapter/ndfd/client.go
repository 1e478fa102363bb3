package ndfd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cloudwatcher/ndfd-forecast/internal/observability"
)

// errTransient marks failures worth retrying: transport errors and the
// gateway statuses the NDFD service throws when it is overloaded.
var errTransient = errors.New("transient upstream failure")

// Client fetches DWML documents from the NDFD web service. It implements
// pipeline.Source. Transient failures are retried with exponential backoff
// behind a circuit breaker; everything else fails immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an NDFD client for the time-series product.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ndfd",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		maxRetries: maxRetries,
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchXML requests the raw DWML text for a point, covering the full wired
// element union in one call.
func (c *Client) FetchXML(ctx context.Context, lat, lon float64) (string, error) {
	fullURL := c.requestURL(lat, lon)

	backoff := time.Second
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		start := time.Now()
		body, err := c.fetchOnce(ctx, fullURL)
		c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.UpstreamRequests.WithLabelValues("circuit_open").Inc()
			return "", fmt.Errorf("ndfd circuit open: %w", err)
		}

		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		lastErr = err

		if !errors.Is(err, errTransient) || attempt == c.maxRetries {
			break
		}

		c.logger.Warn("ndfd fetch failed, retrying",
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)
		if !sleepWithContext(ctx, backoff) {
			return "", ctx.Err()
		}
		backoff = nextBackoff(backoff, 30*time.Second)
	}

	return "", fmt.Errorf("ndfd fetch: %w", lastErr)
}

// fetchOnce performs a single request through the circuit breaker.
func (c *Client) fetchOnce(ctx context.Context, fullURL string) (string, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errTransient, err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, fmt.Errorf("%w: status %d", errTransient, resp.StatusCode)
		default:
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("ndfd API error: status %d: %s", resp.StatusCode, snippet)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", errTransient, err)
		}
		return string(body), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// requestURL builds the time-series query: one self-named parameter per
// requested element, plus the point and product selectors.
func (c *Client) requestURL(lat, lon float64) string {
	params := url.Values{
		"lat":     {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"product": {"time-series"},
		"Submit":  {"Submit"},
	}
	for _, element := range RequestElements {
		params.Set(element, element)
	}
	return c.baseURL + "?" + params.Encode()
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
