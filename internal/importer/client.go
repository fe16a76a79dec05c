package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"birdsong-quiz/internal/logger"
	"birdsong-quiz/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// breakerFailureThreshold is how many consecutive failures open the circuit.
	breakerFailureThreshold = 5
	breakerOpenTimeout      = time.Minute
	maxErrorBodyPreview     = 500
)

// APIError is a non-2xx response from an external API
type APIError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Source, e.StatusCode, e.Body)
}

// client performs throttled GET requests against one external API
type client struct {
	source     string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
}

func newClient(source, baseURL string, headers map[string]string, interval, timeout time.Duration, m *metrics.Metrics) *client {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    source,
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		// Client errors are the caller's fault, not an unhealthy upstream.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Get().Warn("Importer circuit breaker state changed",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &client{
		source:     source,
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    headers,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker,
		metrics:    m,
	}
}

// getJSON fetches path with query and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", c.source, err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, reqURL)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		logger.Get().Error("Failed to parse API response",
			zap.String("source", c.source),
			zap.String("path", path),
			zap.Int("response_size", len(body)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to parse %s response: %w", c.source, err)
	}
	return nil
}

func (c *client) do(ctx context.Context, reqURL string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", c.source, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveImportRequest(c.source, "error", time.Since(start))
		return nil, fmt.Errorf("%s request failed: %w", c.source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveImportRequest(c.source, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.source, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		preview := string(body)
		if len(preview) > maxErrorBodyPreview {
			preview = preview[:maxErrorBodyPreview] + "..."
		}
		logger.Get().Warn("External API returned an error",
			zap.String("source", c.source),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_preview", preview),
		)
		return nil, &APIError{Source: c.source, StatusCode: resp.StatusCode, Body: preview}
	}

	logger.Get().Debug("External API request successful",
		zap.String("source", c.source),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return body, nil
}
