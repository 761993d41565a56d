// Package apiclient is the page tier's HTTP client for the JSON API. Every
// call carries the caller's session explicitly; the client holds no
// per-user state and is safe for concurrent use.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/infrastructure/telemetry"
	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// Session is the inbound caller's session token, forwarded as the session
// cookie. The zero Session makes an anonymous call.
type Session struct {
	Token string
}

// Anonymous reports whether the session carries no token
func (s Session) Anonymous() bool {
	return s.Token == ""
}

// BreakerConfig configures the circuit breaker guarding the API
type BreakerConfig struct {
	// MaxRequests allowed through while half-open
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears them
	Interval time.Duration
	// Timeout is how long the breaker stays open
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker
	FailureThreshold float64
	// MinRequests must be seen before the ratio is considered
	MinRequests uint32
}

// DefaultBreakerConfig returns breaker settings suited to a loopback API
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Config configures a Client
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8080/api
	BaseURL    string
	Timeout    time.Duration
	CookieName string
	Breaker    BreakerConfig
	// Metrics is optional
	Metrics *Metrics
	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// Client calls the JSON API over HTTP
type Client struct {
	base       *url.URL
	httpClient *http.Client
	cookieName string
	breaker    *gobreaker.CircuitBreaker
	metrics    *Metrics
	logger     *zap.Logger
}

// New creates a Client
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", cfg.BaseURL)
	}
	if cfg.CookieName == "" {
		return nil, errors.New("apiclient: cookie name is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		base: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			// redirects from the API are not expected; surface them as-is
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cookieName: cfg.CookieName,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
	c.breaker = newBreaker(cfg.Breaker, c)
	return c, nil
}

func newBreaker(cfg BreakerConfig, c *Client) *gobreaker.CircuitBreaker {
	const name = "community-api"
	c.metrics.setBreakerState(name, gobreaker.StateClosed)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			c.metrics.setBreakerState(name, to)
		},
	})
}

// Close releases idle connections held by the transport
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// BreakerState returns the breaker's current state
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// call is one API request. Endpoint is the route template used for span
// names and metric labels; Path is the concrete path below the base URL.
type call struct {
	Method   string
	Endpoint string
	Path     string
	Body     any
	Out      any
}

// rawResponse is what crosses the breaker
type rawResponse struct {
	status   int
	body     []byte
	location string
}

func (c *Client) do(ctx context.Context, sess Session, cl call) error {
	ctx, span := telemetry.StartSpan(ctx, "api "+cl.Endpoint,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttributes(
			attribute.String("http.request.method", cl.Method),
			attribute.String("http.route", cl.Endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, sess, cl)
	})

	var resp *rawResponse
	if result != nil {
		resp = result.(*rawResponse)
	}
	if err == nil && resp != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.status))
		err = c.interpret(resp, cl.Out)
	} else if err != nil {
		err = &upstreamError{op: cl.Method + " " + cl.Endpoint, err: err}
	}

	outcome := outcomeOf(err)
	c.metrics.observe(cl.Method, cl.Endpoint, outcome, time.Since(start).Seconds())
	if errors.Is(err, ErrUpstreamUnavailable) {
		// logged once by the page that made the call
		telemetry.RecordError(span, err)
	}
	return err
}

// roundTrip performs the HTTP exchange. Transport failures and 5xx
// responses count against the breaker; every other status is a success
// from the breaker's point of view.
func (c *Client) roundTrip(ctx context.Context, sess Session, cl call) (*rawResponse, error) {
	var body io.Reader
	if cl.Body != nil {
		data, err := json.Marshal(cl.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.Method, c.base.String()+cl.Path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !sess.Anonymous() {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: sess.Token})
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	raw := &rawResponse{status: res.StatusCode, body: data, location: res.Header.Get("Location")}
	if res.StatusCode >= http.StatusInternalServerError {
		return raw, fmt.Errorf("status %d", res.StatusCode)
	}
	return raw, nil
}

// interpret maps a non-5xx response to a result
func (c *Client) interpret(resp *rawResponse, out any) error {
	switch {
	case resp.status >= 200 && resp.status < 300:
		if out != nil && len(resp.body) > 0 {
			if err := json.Unmarshal(resp.body, out); err != nil {
				return &upstreamError{op: "decode response", err: err}
			}
		}
		return nil
	case resp.status == http.StatusNotFound:
		return ErrNotFound
	case resp.status == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.status == http.StatusBadRequest:
		return decodeValidation(resp.body)
	default:
		return &upstreamError{op: "unexpected response", err: fmt.Errorf("status %d", resp.status)}
	}
}

func decodeValidation(body []byte) error {
	var envelope dto.Response
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return &ValidationError{Code: dto.ErrCodeBadRequest, Message: "The request was rejected"}
	}
	v := &ValidationError{Code: envelope.Error.Code, Message: envelope.Error.Message}
	for _, d := range envelope.Error.Details {
		v.Fields = append(v.Fields, FieldError{Field: d.Field, Message: d.Message})
	}
	return v
}

func outcomeOf(err error) string {
	var validation *ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &validation):
		return "invalid"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "error"
	}
}
