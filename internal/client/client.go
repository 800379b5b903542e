package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/mkosuda/gmapscan/internal/config"
)

// defaultMaxBodySize limits response body reads to prevent memory
// exhaustion from unexpectedly large responses.
const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Client is a connection-pooled HTTP client with bounded retry.
//
// Design decision: We wrap *http.Client rather than exposing it because:
//  1. The retry/backoff policy must be uniform across all probes
//  2. The soft-failure contract (no error returns) keeps probe code flat
//  3. Tests can inject a client pointed at an httptest server
type Client struct {
	hc          *http.Client
	maxRetries  int
	backoff     time.Duration
	maxBodySize int64
	logger      *slog.Logger
}

// Response holds the result of a single request after retries.
// A zero StatusCode means the request produced no usable response:
// transport failure, cancelled context, or (for JSON requests) a body
// that was not valid JSON.
type Response struct {
	// StatusCode is the HTTP status of the final response, or 0.
	StatusCode int

	// Body is the response body. For JSON requests it is either valid
	// JSON or nil.
	Body []byte

	// Header holds the final response headers.
	Header http.Header
}

// OK reports whether the response carries HTTP 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = timeout
	}
}

// WithMaxRetries sets the number of automatic retries on transient
// server errors. Zero disables retrying.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		c.maxRetries = retries
	}
}

// WithBackoff sets the base delay between retries.
// The delay doubles with each attempt.
func WithBackoff(backoff time.Duration) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// New creates a Client with pooled connections and default settings
// (10s timeout, 2 retries, 500ms base backoff).
func New(opts ...Option) *Client {
	// The public suffix list keeps cookies scoped correctly should any
	// endpoint set them across googleapis.com hosts.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}) //nolint:errcheck // only fails with invalid options

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	c := &Client{
		hc: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   config.DefaultTimeout,
		},
		maxRetries:  config.DefaultMaxRetries,
		backoff:     config.DefaultRetryBackoff,
		maxBodySize: defaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetJSON issues a GET expecting a JSON body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values) *Response {
	return c.do(ctx, http.MethodGet, rawURL, params, nil, "", true)
}

// Get issues a GET returning the raw body (binary endpoints).
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) *Response {
	return c.do(ctx, http.MethodGet, rawURL, params, nil, "", false)
}

// PostJSON issues a POST with a JSON body, expecting a JSON response.
func (c *Client) PostJSON(ctx context.Context, rawURL string, params url.Values, body any) *Response {
	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Debug("failed to encode request body", "url", rawURL, "error", err)
		return &Response{}
	}
	return c.do(ctx, http.MethodPost, rawURL, params, payload, "application/json", true)
}

// PostMultipart issues a POST with a single multipart file field,
// expecting a JSON response.
func (c *Client) PostMultipart(ctx context.Context, rawURL string, params url.Values, field, filename string, data []byte) *Response {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err == nil {
		_, err = fw.Write(data)
	}
	if cerr := mw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		c.logger.Debug("failed to encode multipart body", "url", rawURL, "error", err)
		return &Response{}
	}
	return c.do(ctx, http.MethodPost, rawURL, params, buf.Bytes(), mw.FormDataContentType(), true)
}

// retryableStatus reports whether the status code warrants a retry.
// The list matches typical transient server errors.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// do performs the request with the retry budget. The query string is
// rebuilt from params so callers never concatenate the key into URLs.
func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body []byte, contentType string, wantJSON bool) *Response {
	reqURL := rawURL
	if len(params) > 0 {
		reqURL = rawURL + "?" + params.Encode()
	}

	var resp *Response
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return &Response{}
		}

		var reqBody io.Reader = http.NoBody
		if body != nil {
			reqBody = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			c.logger.Debug("failed to build request", "method", method, "url", rawURL, "error", err)
			return &Response{}
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		httpResp, err := c.hc.Do(req)
		if err != nil {
			// Report only the inner error: url.Error's message embeds
			// the full request URL, including the key query parameter.
			var uerr *url.Error
			if errors.As(err, &uerr) {
				err = uerr.Err
			}
			c.logger.Debug("request failed", "method", method, "url", rawURL, "error", err)
			return &Response{}
		}

		data, readErr := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBodySize))
		_ = httpResp.Body.Close() //nolint:errcheck // Best effort cleanup
		if readErr != nil {
			c.logger.Debug("failed to read response body", "url", rawURL, "error", readErr)
			return &Response{}
		}

		resp = &Response{StatusCode: httpResp.StatusCode, Body: data, Header: httpResp.Header}

		if !retryableStatus(resp.StatusCode) || attempt >= c.maxRetries {
			break
		}

		delay := c.backoff << attempt
		c.logger.Debug("retrying request",
			"method", method,
			"url", rawURL,
			"status", resp.StatusCode,
			"attempt", attempt+1,
			"delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return resp
		}
	}

	if wantJSON && !json.Valid(resp.Body) {
		// Mirror the soft-failure contract for malformed bodies: the
		// caller sees no status and no body, not a parse error.
		c.logger.Debug("response body is not valid JSON", "url", rawURL, "status", resp.StatusCode)
		return &Response{}
	}

	return resp
}
