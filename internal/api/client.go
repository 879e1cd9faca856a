// Package api provides a client for the personal finance REST API.
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
	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 64 << 20 // 64 MiB
	userAgent      = "github.com/theirongolddev/pfm/1.0"
)

var (
	// ErrInvalidBaseURL indicates the configured server URL cannot be used.
	ErrInvalidBaseURL = errors.New("api: invalid base URL")
	// ErrResponseTooLarge is wrapped in a TransportError when a body exceeds the size cap.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError is a non-success HTTP response from the server.
type APIError struct { //nolint:revive // api.APIError reads fine at call sites
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError means the request never produced a usable response:
// the network failed, or the body could not be read or decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client performs JSON round trips against the finance API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	maxBody int64
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize caps how many response bytes are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = logging.For(l, logging.ComponentAPI) }
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: defaultTimeout,
		maxBody: maxBodySize,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call sends body (when non-nil) as JSON to endpoint and decodes the response
// into out (when non-nil). The bearer token is attached only when non-empty.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any, token string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().
			Str(logging.FieldRequestID, requestID).
			Str(logging.FieldMethod, method).
			Str(logging.FieldPath, endpoint).
			Err(err).
			Msg("request failed")
		return &TransportError{Op: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return &TransportError{Op: "reading response", Err: err}
	}
	if int64(len(data)) > c.maxBody {
		return &TransportError{Op: "reading response", Err: fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)}
	}

	c.log.Debug().
		Str(logging.FieldRequestID, requestID).
		Str(logging.FieldMethod, method).
		Str(logging.FieldPath, endpoint).
		Int(logging.FieldStatus, resp.StatusCode).
		Int64(logging.FieldDuration, time.Since(start).Milliseconds()).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: "decoding response", Err: err}
	}
	return nil
}

// newAPIError prefers the server's "message" field, falling back to the status.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{Status: status, Message: payload.Message}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("API Error: %d", status)}
}
