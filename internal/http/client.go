package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
)

// CredentialProvider supplies the Authorization header value.
type CredentialProvider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// Request represents an HTTP request.
type Request struct {
	Method string
	// Path is appended to the base URL; an absolute URL is used as is.
	Path    string
	Query   url.Values
	Body    []byte
	Headers map[string]string
}

// Response represents an HTTP response. Error statuses are returned as
// responses, not errors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is a pooled HTTP client that retries connection failures of
// idempotent requests.
type Client struct {
	baseURL         string
	credentials     CredentialProvider
	httpClient      *retryablehttp.Client
	transport       *http.Transport
	logger          b2bi.Logger
	debug           bool
	userAgent       string
	timeout         time.Duration
	connectTimeout  time.Duration
	idleTimeout     time.Duration
	maxConnLifetime time.Duration
	maxIdleConns    int
	retryMax        int
	retryWaitMin    time.Duration
	retryWaitMax    time.Duration

	poolMu      sync.Mutex
	poolCreated time.Time
	lastUsed    time.Time
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger b2bi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig sets retry configuration for connection failures.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = retryWaitMin
		c.retryWaitMax = retryWaitMax
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.connectTimeout = timeout
		}
	}
}

// WithIdleTimeout sets how long pooled connections may stay idle.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.idleTimeout = timeout
		}
	}
}

// WithMaxConnLifetime sets how long the pool serves connections before it
// is recycled.
func WithMaxConnLifetime(lifetime time.Duration) Option {
	return func(c *Client) {
		if lifetime > 0 {
			c.maxConnLifetime = lifetime
		}
	}
}

// WithMaxIdleConns bounds the connection pool.
func WithMaxIdleConns(maxIdleConns int) Option {
	return func(c *Client) {
		if maxIdleConns > 0 {
			c.maxIdleConns = maxIdleConns
		}
	}
}

// NewClient creates a new HTTP client for baseURL. credentials may be nil.
func NewClient(baseURL string, credentials CredentialProvider, opts ...Option) *Client {
	client := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		credentials:     credentials,
		userAgent:       constants.DefaultUserAgent,
		timeout:         constants.DefaultHTTPTimeout,
		connectTimeout:  constants.DefaultConnectTimeout,
		idleTimeout:     constants.DefaultIdleTimeout,
		maxConnLifetime: constants.DefaultMaxConnLifetime,
		maxIdleConns:    constants.DefaultMaxIdleConns,
		retryMax:        constants.DefaultRetryMax,
		retryWaitMin:    constants.DefaultRetryWaitMin,
		retryWaitMax:    constants.DefaultRetryWaitMax,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.transport = cleanhttp.DefaultPooledTransport()
	client.transport.MaxIdleConns = client.maxIdleConns
	client.transport.MaxIdleConnsPerHost = client.maxIdleConns
	client.transport.IdleConnTimeout = client.idleTimeout
	client.transport.DialContext = (&net.Dialer{
		Timeout:   client.connectTimeout,
		KeepAlive: constants.DefaultKeepAlive,
	}).DialContext

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Transport: client.transport,
		Timeout:   client.timeout,
	}
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.CheckRetry = connectionRetryPolicy
	retryClient.ErrorHandler = giveUpErrorHandler
	retryClient.Logger = nil

	if client.logger != nil && client.debug {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	client.httpClient = retryClient
	client.poolCreated = client.now()

	return client
}

type methodKey struct{}

// connectionRetryPolicy retries connection-level failures of idempotent
// requests. Any HTTP response, whatever its status, ends the attempt.
func connectionRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err == nil {
		return false, nil
	}

	method, _ := ctx.Value(methodKey{}).(string)
	if !isIdempotent(method) {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, nil, err)
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

func giveUpErrorHandler(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err == nil {
		return nil, fmt.Errorf("%w: giving up after %d attempt(s)", ErrRequestFailed, numTries)
	}

	return nil, fmt.Errorf("giving up after %d attempt(s): %w", numTries, err)
}

// Do performs an HTTP request. Connection failures that survive the retries
// are returned as b2bi transport errors; every HTTP status is a response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.resolveURL(req.Path, req.Query)
	if err != nil {
		return nil, b2bi.NewError(b2bi.KindFatal, 0, "invalid request URL", err)
	}

	ctx = context.WithValue(ctx, methodKey{}, req.Method)

	var body interface{}
	if len(req.Body) > 0 {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, b2bi.NewError(b2bi.KindFatal, 0, "building request", err)
	}

	err = c.setHeaders(ctx, httpReq, req)
	if err != nil {
		return nil, err
	}

	c.evictStaleConnections()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := c.now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, b2bi.TransportError(err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, b2bi.TransportError(fmt.Errorf("reading response body: %w", err))
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   resp.StatusCode,
			"duration": c.now().Sub(start).String(),
		})
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	var raw string

	switch {
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		raw = path
	case path == "":
		raw = c.baseURL
	default:
		raw = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", raw, err)
	}

	if len(query) > 0 {
		merged := parsed.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}

		parsed.RawQuery = merged.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request) error {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.credentials != nil {
		authorization, err := c.credentials.AuthorizationHeader(ctx)
		if err != nil {
			return b2bi.NewError(b2bi.KindFatal, 0, "obtaining credentials", err)
		}

		if authorization != "" {
			httpReq.Header.Set("Authorization", authorization)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

// evictStaleConnections closes pooled idle connections when the pool has
// sat unused longer than the idle timeout or outlived its lifetime.
func (c *Client) evictStaleConnections() {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()

	now := c.now()
	idle := !c.lastUsed.IsZero() && now.Sub(c.lastUsed) > c.idleTimeout
	expired := now.Sub(c.poolCreated) > c.maxConnLifetime

	if idle || expired {
		c.transport.CloseIdleConnections()
		c.poolCreated = now

		if c.debug && c.logger != nil {
			c.logger.Debug("Recycled idle connections", map[string]interface{}{
				"idle":    idle,
				"expired": expired,
			})
		}
	}

	c.lastUsed = now
}

func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 || !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return raw, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening gzip body: %w", err)
	}

	defer func() { _ = reader.Close() }()

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding gzip body: %w", err)
	}

	return decoded, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}
