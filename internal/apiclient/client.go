// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apiclient is the single choke point for every call to the admin backend.

It builds requests against the configured base URL, attaches the bearer token
when one is available, decodes JSON replies and normalizes every failure into
an [*apperr.AppError].

Guarantees:

  - One round trip per call. Nothing is retried or cached.
  - Cancellation and deadlines come from the caller's [context.Context].
  - A non-2xx reply surfaces the backend's "message" verbatim, or
    [constants.GenericRequestError] when the body carries none.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/eduadmin/internal/platform/apperr"
	"github.com/taibuivan/eduadmin/internal/platform/constants"
	"github.com/taibuivan/eduadmin/internal/platform/ctxutil"
	"github.com/taibuivan/eduadmin/pkg/uuid"
)

// maxBodyBytes caps how much of a reply is read into memory.
const maxBodyBytes = 10 << 20

// # Contracts

// TokenSource supplies the bearer token for outgoing requests.
//
// The session manager implements it; the client only ever reads through it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// UnauthorizedHook runs after the backend answers 401, before the error is returned.
type UnauthorizedHook func(ctx context.Context)

// # Client

// Client performs JSON round trips against the admin backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	tokens         TokenSource
	limiter        *rate.Limiter
	logger         *slog.Logger
	onUnauthorized UnauthorizedHook
	userAgent      string
}

// Option customizes a [Client].
type Option func(*Client)

// WithTimeout bounds each round trip. Zero leaves calls unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithRateLimit paces outgoing calls with a token bucket. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUnauthorizedHook registers a callback for 401 replies.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) { c.onUnauthorized = hook }
}

// WithTokenSource sets the bearer token provider at construction time.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

// New constructs a [Client] for baseURL, e.g. "http://localhost:3000/api".
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: constants.AppName + "/" + constants.AppVersion,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.httpClient = newHTTPClient(client.timeout)
	return client
}

// newHTTPClient returns a client with a tuned transport. A zero timeout leaves calls unbounded.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// SetTokenSource binds the bearer token provider.
//
// It exists because the session manager itself needs a client to log in.
// Call it during wiring, before the client is shared between goroutines.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// # Verbs

// Get issues a GET and decodes the reply into out (nil discards it).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON (nil sends no body).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with body encoded as JSON (nil sends no body).
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes the reply into out (nil discards it).
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// # Round Trip

// Do performs one request/response cycle.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	logger := c.loggerFor(ctx)

	// 1. Client-side pacing
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.Transport("request cancelled while rate limited", err)
		}
	}

	// 2. Build the request
	request, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	// 3. Send it
	startTime := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		logger.DebugContext(ctx, "api_request_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperr.Transport(transportMessage(err), err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return apperr.Transport("failed to read response body", err)
	}

	logger.DebugContext(ctx, "api_request_finished",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
		slog.String("request_id", request.Header.Get(constants.HeaderXRequestID)),
	)

	// 4. Normalize failures
	if response.StatusCode < 200 || response.StatusCode > 299 {
		if response.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apperr.FromStatus(response.StatusCode, errorMessage(payload))
	}

	// 5. Decode success
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		decodeErr := apperr.Unknown("invalid response body", err)
		decodeErr.HTTPStatus = response.StatusCode
		return decodeErr
	}

	return nil
}

// newRequest builds the outgoing request with headers and optional JSON body.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.ValidationError(fmt.Sprintf("request body cannot be encoded: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperr.Transport("invalid request URL", err)
	}

	header := request.Header
	header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	header.Set(constants.HeaderUserAgent, c.userAgent)

	requestID := ctxutil.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New()
	}
	header.Set(constants.HeaderXRequestID, requestID)

	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok && token != "" {
			header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
		}
	}

	return request, nil
}

// loggerFor prefers the context logger, then the configured one, then the default.
func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger := ctxutil.GetLogger(ctx); logger != slog.Default() || c.logger == nil {
		return logger
	}
	return c.logger
}

// # Error Normalization

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// errorMessage extracts "message" from an error reply, or the generic fallback.
func errorMessage(payload []byte) string {
	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil || body.Message == "" {
		return constants.GenericRequestError
	}
	return body.Message
}

// transportMessage turns a client error into a short human-readable message.
func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}

	return "cannot reach the admin API: " + err.Error()
}
