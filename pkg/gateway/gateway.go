// Package gateway provides the authenticated HTTP gateway to the commerce
// backend with failure classification, request pacing, and circuit breaking.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/warehousekit/fulfillment-client/pkg/credentials"
)

// Prometheus metrics for gateway operations.
var (
	gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_gateway_requests_total",
		Help: "Total backend requests by endpoint and status",
	}, []string{"endpoint", "status"})

	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fulfillment_gateway_request_duration_seconds",
		Help:    "Backend request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	gatewayErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_gateway_errors_total",
		Help: "Total backend failures by kind",
	}, []string{"kind"})

	gatewayCredentialClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_gateway_credential_clears_total",
		Help: "Total credential clears triggered by 401 responses",
	})
)

// Gateway performs authenticated calls against the commerce backend.
type Gateway struct {
	httpClient *http.Client
	creds      credentials.Provider
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	config     Config
	logger     zerolog.Logger
}

// Config holds the gateway configuration.
type Config struct {
	// BaseURL of the commerce backend, e.g. "https://api.example.com".
	BaseURL string

	// Credentials supplies the bearer token attached to every request.
	Credentials credentials.Provider

	// UserAgent header sent with every request.
	UserAgent string

	// RequestTimeout bounds a single HTTP round trip.
	RequestTimeout time.Duration

	// Pacing
	RequestsPerSecond int
	Burst             int

	// Circuit breaker
	BreakerFailures uint32        // consecutive failures to trip
	BreakerCooldown time.Duration // open -> half-open delay
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string, creds credentials.Provider) Config {
	return Config{
		BaseURL:           baseURL,
		Credentials:       creds,
		UserAgent:         "fulfillment-client/0.1.0",
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
		BreakerFailures:   5,
		BreakerCooldown:   30 * time.Second,
	}
}

// New creates a new backend gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credential provider is required")
	}

	if cfg.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests_per_second must be > 0 (got %d)", cfg.RequestsPerSecond)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	logger := log.With().Str("component", "gateway").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "commerce-backend",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Gateway{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		creds:   cfg.Credentials,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Request describes one backend call.
type Request struct {
	// Method defaults to GET when empty.
	Method string

	// Path is the endpoint path relative to the base URL.
	Path string

	// Query parameters appended to the URL.
	Query url.Values

	// Body is JSON-encoded when non-nil.
	Body any

	// Header overrides merged into the outgoing request.
	Header http.Header
}

// Call performs a backend request and decodes the JSON response into out
// (when out is non-nil). Failures are returned as *APIError classified per
// the taxonomy in errors.go; a 401 additionally clears the stored
// credential before returning.
func (g *Gateway) Call(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := req.Path

	startTime := time.Now()
	defer func() {
		gatewayRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if err := g.limiter.Wait(ctx); err != nil {
		return g.fail(endpoint, &APIError{Kind: KindNetwork, Message: "request pacing interrupted", Err: err})
	}

	httpReq, err := g.buildRequest(ctx, method, req)
	if err != nil {
		return g.fail(endpoint, &APIError{Kind: KindNetwork, Message: "build request", Err: err})
	}

	g.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing backend request")

	resp, err := g.execute(httpReq)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return g.fail(endpoint, err.(*APIError))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return g.fail(endpoint, &APIError{Kind: KindNetwork, Message: "read response body", Err: err})
	}

	gatewayRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if apiErr := g.classifyStatus(ctx, resp.StatusCode, body); apiErr != nil {
		return g.fail(endpoint, apiErr)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return g.fail(endpoint, &APIError{
				StatusCode: resp.StatusCode,
				Kind:       KindNetwork,
				Message:    "malformed response body",
				Err:        err,
			})
		}
	}

	return nil
}

// Get performs a GET request against a backend endpoint.
func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.Call(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request with a JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body any, out any) error {
	return g.Call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put performs a PUT request with a JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body any, out any) error {
	return g.Call(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// buildRequest assembles the outgoing HTTP request including the bearer
// token, when one is stored.
func (g *Gateway) buildRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	u := g.config.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", g.config.UserAgent)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	token, err := g.creds.Token(ctx)
	switch {
	case err == nil:
		httpReq.Header.Set("Authorization", "Bearer "+token)
	case err == credentials.ErrNoToken:
		// Unauthenticated endpoints (e.g. health) are still reachable.
	default:
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	return httpReq, nil
}

// execute runs the HTTP round trip through the circuit breaker. Only
// transport failures count against the breaker; HTTP-level failures are
// classified by the caller.
func (g *Gateway) execute(req *http.Request) (*http.Response, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		resp, reqErr := g.httpClient.Do(req)
		if reqErr != nil {
			return nil, reqErr
		}
		return resp, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &APIError{Kind: KindNetwork, Message: "backend unavailable", Err: ErrCircuitOpen}
		}
		return nil, &APIError{Kind: KindNetwork, Message: "request failed", Err: err}
	}

	return result.(*http.Response), nil
}

// classifyStatus maps a non-2xx status to an APIError. A 401 clears the
// stored credential as a mandatory side effect.
func (g *Gateway) classifyStatus(ctx context.Context, status int, body []byte) *APIError {
	if status >= 200 && status < 300 {
		return nil
	}

	switch {
	case status == http.StatusUnauthorized:
		if err := g.creds.Clear(ctx); err != nil {
			g.logger.Error().Err(err).Msg("Failed to clear credentials after 401")
		}
		gatewayCredentialClearsTotal.Inc()
		return &APIError{
			StatusCode: status,
			Kind:       KindUnauthenticated,
			Message:    serverMessage(body, "authentication required"),
		}

	case status == http.StatusNotFound:
		return &APIError{
			StatusCode: status,
			Kind:       KindNotFound,
			Message:    serverMessage(body, "resource not found"),
		}

	default:
		return &APIError{
			StatusCode: status,
			Kind:       KindValidation,
			Message:    serverMessage(body, http.StatusText(status)),
		}
	}
}

// fail records failure metrics and logging, then returns err.
func (g *Gateway) fail(endpoint string, err *APIError) error {
	gatewayErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
	g.logger.Warn().
		Str("endpoint", endpoint).
		Int("status", err.StatusCode).
		Str("kind", string(err.Kind)).
		Msg("Backend request failed")
	return err
}

// serverMessage extracts the message field from an error body, trying the
// field names the backend is known to use in priority order.
func serverMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fallback
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (g *Gateway) SetHTTPClient(client *http.Client) {
	g.httpClient = client
}
