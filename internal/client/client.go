package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/b2bi-client/internal/auth"
	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/internal/http"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// Static errors for err113 compliance.
var (
	ErrEndpointRequired = errors.New("a REST or WS endpoint is required")
)

var _ b2bi.Client = (*Client)(nil)

// Client implements the b2bi.Client interface. It is safe for concurrent
// use; each call returns its own response and error.
type Client struct {
	httpClient   *http.Client
	restEndpoint string
	wsEndpoint   string
	cache        b2bi.Cache
	logger       b2bi.Logger
	interceptors *b2bi.InterceptorChain
	pageSize     int
	dryRun       bool

	// Resource clients
	mailboxes       *ResourceClient[*b2bi.Mailbox]
	tradingPartners *ResourceClient[*b2bi.TradingPartner]
	certificates    *ResourceClient[*b2bi.Certificate]
	users           *ResourceClient[*b2bi.User]
}

// createCredentials picks the credential provider based on config.
func createCredentials(config *b2bi.Config) (http.CredentialProvider, error) {
	if config.Credentials != nil {
		return config.Credentials, nil
	}

	if config.AccessToken != "" {
		return auth.NewBearerToken(config.AccessToken), nil
	}

	if config.Username != "" {
		creds, err := auth.NewBasicCredentials(config.Username, config.Password)
		if err != nil {
			return nil, fmt.Errorf("creating basic credentials: %w", err)
		}

		return creds, nil
	}

	return nil, nil //nolint:nilnil // no authentication
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *b2bi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	httpOpts = append(httpOpts,
		http.WithTimeout(config.Timeout),
		http.WithConnectTimeout(config.ConnectTimeout),
		http.WithIdleTimeout(config.IdleTimeout),
		http.WithMaxConnLifetime(config.MaxConnLifetime),
		http.WithMaxIdleConns(config.MaxIdleConns),
	)

	retryMax := config.RetryMax
	retryWaitMin := constants.DefaultRetryWaitMin
	retryWaitMax := constants.DefaultRetryWaitMax

	switch {
	case retryMax < 0:
		retryMax = 0
	case retryMax == 0:
		retryMax = constants.DefaultRetryMax
	}

	if config.RetryWaitMin > 0 {
		retryWaitMin = config.RetryWaitMin
	}

	if config.RetryWaitMax > 0 {
		retryWaitMax = config.RetryWaitMax
	}

	httpOpts = append(httpOpts, http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax))

	return httpOpts
}

func createCache(config *b2bi.Config) (b2bi.Cache, error) {
	if config.CacheBackend != nil {
		return config.CacheBackend, nil
	}

	cache, err := b2bi.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return cache, nil
}

// New creates a new B2Bi API client.
func New(ctx context.Context, config *b2bi.Config) (*Client, error) {
	if config == nil {
		return nil, b2bi.ErrConfigRequired
	}

	credentials, err := createCredentials(config)
	if err != nil {
		return nil, err
	}

	return NewWithCredentials(ctx, config, credentials)
}

// NewWithCredentials creates a new B2Bi API client with a custom credential
// provider. A nil provider sends unauthenticated requests.
func NewWithCredentials(ctx context.Context, config *b2bi.Config, credentials http.CredentialProvider) (*Client, error) {
	if config == nil {
		return nil, b2bi.ErrConfigRequired
	}

	if config.RESTEndpoint == "" && config.WSEndpoint == "" {
		return nil, ErrEndpointRequired
	}

	pageSize := config.PageSize
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: %d", constants.ErrInvalidPageSize, pageSize)
	}

	if pageSize == 0 {
		pageSize = constants.DefaultPageSize
	}

	cache, err := createCache(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.RESTEndpoint, credentials, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		restEndpoint: strings.TrimRight(config.RESTEndpoint, "/"),
		wsEndpoint:   config.WSEndpoint,
		cache:        cache,
		logger:       config.Logger,
		interceptors: config.Interceptors,
		pageSize:     pageSize,
		dryRun:       config.DryRun,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.mailboxes = NewResourceClient(c, constants.ServiceMailboxes, func() *b2bi.Mailbox { return &b2bi.Mailbox{} })
	c.tradingPartners = NewResourceClient(c, constants.ServiceTradingPartners, func() *b2bi.TradingPartner { return &b2bi.TradingPartner{} })
	c.certificates = NewResourceClient(c, constants.ServiceCACertificates, func() *b2bi.Certificate { return &b2bi.Certificate{} })
	c.users = NewResourceClient(c, constants.ServiceUserAccounts, func() *b2bi.User { return &b2bi.User{} })
}

// PageSize returns the range size used by pagination.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Cache returns the response cache.
func (c *Client) Cache() b2bi.Cache {
	return c.cache
}

// InvalidateCache implements b2bi.ServiceClient.InvalidateCache.
func (c *Client) InvalidateCache(ctx context.Context, service string) error {
	err := c.cache.Invalidate(ctx, service)
	if err != nil {
		return fmt.Errorf("invalidating cache for %s: %w", service, err)
	}

	return nil
}

// ClearCache implements b2bi.ServiceClient.ClearCache.
func (c *Client) ClearCache(ctx context.Context) error {
	err := c.cache.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	return nil
}

// Resource client accessors

// Mailboxes implements b2bi.ResourceClients.Mailboxes.
func (c *Client) Mailboxes() b2bi.ResourceClient[*b2bi.Mailbox] {
	return c.mailboxes
}

// TradingPartners implements b2bi.ResourceClients.TradingPartners.
func (c *Client) TradingPartners() b2bi.ResourceClient[*b2bi.TradingPartner] {
	return c.tradingPartners
}

// Certificates implements b2bi.ResourceClients.Certificates.
func (c *Client) Certificates() b2bi.ResourceClient[*b2bi.Certificate] {
	return c.certificates
}

// Users implements b2bi.ResourceClients.Users.
func (c *Client) Users() b2bi.ResourceClient[*b2bi.User] {
	return c.users
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *Client) logWarn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
