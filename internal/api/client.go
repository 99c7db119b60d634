package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smart-poll/poll-cli/internal"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string {
	return f()
}

// Client talks to the Smart Poll backend. All methods classify HTTP
// failures into the shared sentinel errors so callers never see raw
// status codes.
type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRateLimit throttles outgoing requests; the live stats view polls
// every 2 seconds per watched poll, and the limiter keeps a busy session
// from hammering the backend beyond that.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(client *Client) {
		client.limiter = rate.NewLimiter(limit, burst)
	}
}

func NewClient(logger *zap.Logger, baseURL string, tokens TokenSource, opts ...Option) *Client {
	client := &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// do issues one request and decodes the response into out (when out is
// non-nil). The bearer token is attached whenever the source has one.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", internal.ErrTransport, err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", internal.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
}

// classify maps a non-2xx response onto the error taxonomy: credentials,
// missing, conflict, caller fault, or transient server fault.
func classify(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return internal.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return internal.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return internal.ErrConflict
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if body.Message != "" {
			return fmt.Errorf("%w: %s", internal.ErrValidationFailed, body.Message)
		}
		return fmt.Errorf("%w: status %d", internal.ErrValidationFailed, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", internal.ErrServerFailure, resp.StatusCode)
	}
}
