package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every request when no other timeout is configured
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request id so server logs can be matched to ours
const RequestIDHeader = "X-Request-ID"

// ErrNetwork wraps failures that happened before the server answered
var ErrNetwork = errors.New("network error")

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() string
}

// Client handles communication with the gym API server
type Client struct {
	// Base URL of the API server
	BaseURL string

	// Source of the bearer token, usually a session
	tokens TokenSource

	// HTTP client with a timeout
	client *http.Client

	// Optional request pacing
	limiter *rate.Limiter

	logger *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit paces requests to limit per second with the given burst.
// A limit of 0 disables pacing.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.Named("api")
		}
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a non-2xx answer from the server
type Error struct {
	// Operation that failed, e.g. "update status"
	Op string

	StatusCode int

	// Message is the server's "message" field, when it sent one
	Message string

	// Raw response body
	Body string
}

func (e *Error) Error() string {
	detail := e.Message
	if detail == "" {
		detail = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, detail)
}

// IsStatus reports whether err is a server error with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// UserMessage returns the server's message for err, or fallback when there is none
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return c.newRequestURL(ctx, method, c.url(path), body)
}

func (c *Client) newRequestURL(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if c.tokens != nil && c.sameOrigin(req.URL) {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// sameOrigin reports whether u points at the API server itself.
// Credentials are never sent anywhere else.
func (c *Client) sameOrigin(u *url.URL) bool {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}

// sendJSON marshals payload (when not nil) and sends it
func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error marshalling request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, op)
}

// do sends req and returns the body of a 2xx response.
// Anything else comes back as *Error.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	requestID := req.Header.Get(RequestIDHeader)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, op, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(bodyBytes),
			Body:       string(bodyBytes),
		}
	}

	return bodyBytes, nil
}

// serverMessage pulls the human readable message out of an error body
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
