// Package transport performs single physical HTTP calls against the
// ballchasing API. It owns base URL resolution, authentication, and payload
// capture; it never retries and never interprets status codes beyond
// classifying them for the error taxonomy.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for physical requests.
var (
	bcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bc_requests_total",
		Help: "Total physical requests by method and status",
	}, []string{"method", "status"})

	bcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bc_request_duration_seconds",
		Help:    "Physical request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method"})
)

// Request describes one physical call. Path may be an endpoint path relative
// to the configured base URL or an absolute URL, which is how pagination
// cursors (absolute "next" URLs) are followed.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string

	// Body is kept as bytes so a request can be reissued after a
	// quota-exceeded response without a consumed reader.
	Body []byte
}

// WithCursor derives the request for the next page of a paginated endpoint.
// Ballchasing cursors are absolute URLs carrying their own query, so the
// template's path and query are replaced wholesale.
func (r Request) WithCursor(cursor string) Request {
	next := r
	next.Path = cursor
	next.Query = nil
	return next
}

// Outcome is the transient result of one physical call: consumed once by the
// quota governor (headers) and once by the caller (payload).
type Outcome struct {
	StatusCode int
	Header     http.Header
	Payload    []byte
}

// Caller is the "perform one HTTP call" capability injected into the
// rate-governed core.
type Caller interface {
	Call(ctx context.Context, req Request) (*Outcome, error)
}

// Config holds transport configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://ballchasing.com/api.
	BaseURL string

	// AuthKey is the ballchasing API token, sent as the Authorization
	// header on every call.
	AuthKey string

	// UserAgent identifies this client to the service.
	UserAgent string

	// HTTPClient overrides the underlying client (for testing). Defaults
	// to a client with a 30 second timeout.
	HTTPClient *http.Client
}

// HTTP is the production Caller backed by net/http.
type HTTP struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg Config, logger zerolog.Logger) *HTTP {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTP{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Call implements Caller. Network failures are returned as an Error of class
// network; HTTP responses of any status are returned as an Outcome, fully
// read, with the connection released.
func (t *HTTP) Call(ctx context.Context, req Request) (*Outcome, error) {
	target, err := t.resolve(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Authorization", t.cfg.AuthKey)
	if t.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.cfg.UserAgent)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	bcRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		bcRequestsTotal.WithLabelValues(req.Method, "network_error").Inc()
		t.logger.Error().Err(err).Str("method", req.Method).Str("url", target).Msg("HTTP request failed")
		return nil, &Error{Class: ClassNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		bcRequestsTotal.WithLabelValues(req.Method, "network_error").Inc()
		return nil, &Error{Class: ClassNetwork, Message: "read response body", Err: err}
	}

	bcRequestsTotal.WithLabelValues(req.Method, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	t.logger.Debug().
		Str("method", req.Method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Physical request complete")

	return &Outcome{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Payload:    payload,
	}, nil
}

// resolve builds the target URL from the request path and query.
func (t *HTTP) resolve(req Request) (string, error) {
	target := req.Path
	if !strings.Contains(target, "://") {
		target = t.cfg.BaseURL + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", target, err)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for key, values := range req.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
