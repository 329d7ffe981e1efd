// Package esi is the HTTP client for the EVE Swagger Interface. It implements
// the roster, name and corporation sources the reconciler depends on.
package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"corpstats/internal/corpstats/ports"
	"corpstats/internal/platform/config"
	id "corpstats/pkg/domain"
	"corpstats/pkg/platform/circuit"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corpstats_esi_requests_total",
		Help: "Total ESI requests by endpoint and result category",
	}, []string{"endpoint", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "corpstats_esi_request_duration_seconds",
		Help:    "Latency of ESI requests by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})
)

// TokenSource hands out a usable access token for a stored credential.
// Refreshing expired tokens is its responsibility; a token that can no longer
// be refreshed is reported with ports.ErrCredentialRevoked.
type TokenSource interface {
	AccessToken(ctx context.Context, tokenID id.TokenID) (string, error)
}

// Client talks to ESI. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *circuit.Breaker
	tokens    TokenSource
	logger    *slog.Logger
	tracer    trace.Tracer
}

var (
	_ ports.RosterSource      = (*Client)(nil)
	_ ports.NameResolver      = (*Client)(nil)
	_ ports.CorporationSource = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// New constructs an ESI client.
func New(cfg config.ESIConfig, tokens TokenSource, opts ...Option) *Client {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst),
		breaker:   circuit.New("esi"),
		tokens:    tokens,
		tracer:    otel.Tracer("corpstats/esi"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// request describes one ESI call. endpoint is the route template used for
// metrics and spans; path is the concrete path.
type request struct {
	method   string
	endpoint string
	path     string
	tokenID  id.TokenID // zero for public endpoints
	body     any
}

func (c *Client) do(ctx context.Context, r request, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "esi "+r.endpoint, trace.WithSpanKind(trace.SpanKindClient))
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			if category, ok := CategoryOf(err); ok {
				result = string(category)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
		}
		requestsTotal.WithLabelValues(r.endpoint, result).Inc()
		requestDuration.WithLabelValues(r.endpoint).Observe(time.Since(start).Seconds())
		span.End()
	}()

	if !c.breaker.Allow() {
		return &Error{Category: CategoryCircuitOpen, Endpoint: r.endpoint, Message: "esi unavailable, calls suspended"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Category: CategoryOutage, Endpoint: r.endpoint, Message: "rate limiter wait", Underlying: err}
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.recordOutage()
		return &Error{Category: CategoryOutage, Endpoint: r.endpoint, Underlying: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := classify(r.endpoint, resp.StatusCode, raw)
		switch apiErr.Category {
		case CategoryOutage:
			c.recordOutage()
		case CategoryRateLimited:
		default:
			// ESI answered; client-side errors say nothing against its health.
			c.recordSuccess()
		}
		return apiErr
	}
	c.recordSuccess()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Category: CategoryBadData, Endpoint: r.endpoint, Status: resp.StatusCode, Underlying: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.endpoint, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.tokenID != 0 {
		accessToken, err := c.tokens.AccessToken(ctx, r.tokenID)
		if err != nil {
			if errors.Is(err, ports.ErrCredentialRevoked) {
				return nil, &Error{Category: CategoryCredential, Endpoint: r.endpoint, Message: "token unavailable", Underlying: err}
			}
			return nil, fmt.Errorf("load access token %d: %w", r.tokenID, err)
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}

func (c *Client) recordOutage() {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.Warn("esi circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess() {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("esi circuit closed", "breaker", c.breaker.Name())
	}
}

// esiError is the error body ESI returns.
type esiError struct {
	Error     string `json:"error"`
	SSOStatus int    `json:"sso_status"`
}

// classify maps an ESI error response onto a Category. ESI reports dead
// tokens either as 401 or as 400/403 with an SSO token message.
func classify(endpoint string, status int, raw []byte) *Error {
	var body esiError
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	e := &Error{Endpoint: endpoint, Status: status, Message: msg}

	lower := strings.ToLower(msg)
	tokenDead := strings.Contains(lower, "token is expired") ||
		strings.Contains(lower, "invalid_token") ||
		strings.Contains(lower, "token not valid") ||
		body.SSOStatus == http.StatusUnauthorized

	switch {
	case status == http.StatusUnauthorized:
		e.Category = CategoryCredential
	case (status == http.StatusForbidden || status == http.StatusBadRequest) && tokenDead:
		e.Category = CategoryCredential
	case status == http.StatusForbidden:
		e.Category = CategoryForbidden
	case status == http.StatusNotFound:
		e.Category = CategoryNotFound
	case status == http.StatusTooManyRequests || status == 420:
		e.Category = CategoryRateLimited
	case status >= 500:
		e.Category = CategoryOutage
	default:
		e.Category = CategoryBadData
	}
	return e
}
