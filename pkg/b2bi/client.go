package b2bi

import (
	"context"
	"encoding/json"
	"time"
)

// ResourceClient provides CRUD access to one entity type.
type ResourceClient[T Entity] interface {
	Get(ctx context.Context, key string) (T, error)
	Find(ctx context.Context, key string) (T, bool, error)
	List(ctx context.Context, params *QueryParams) ([]T, error)
	Create(ctx context.Context, entity T) (*ServiceResponse, error)
	Update(ctx context.Context, entity T) (*ServiceResponse, error)
	Delete(ctx context.Context, key string) (*ServiceResponse, error)
	Refresh(ctx context.Context, entity T) (T, bool, error)
}

// ResourceClients provides access to the typed resource clients.
type ResourceClients interface {
	Mailboxes() ResourceClient[*Mailbox]
	TradingPartners() ResourceClient[*TradingPartner]
	Certificates() ResourceClient[*Certificate]
	Users() ResourceClient[*User]
}

// ServiceClient is the generic request/response engine shared by every
// entity type.
type ServiceClient interface {
	// Execute runs one request through the dry-run check, cache, transport,
	// normalizer and classifier.
	Execute(ctx context.Context, req *ServiceRequest) (*ServiceResponse, error)
	// Get fetches one item by key; a missing item is a NotFound error.
	Get(ctx context.Context, service, key string) (json.RawMessage, error)
	// Find fetches one item by key; a missing item yields found == false.
	Find(ctx context.Context, service, key string) (json.RawMessage, bool, error)
	// FetchPage fetches a single page starting at params.Offset.
	FetchPage(ctx context.Context, service string, params *QueryParams) (*Page, error)
	// FetchAll fetches every page of a collection.
	FetchAll(ctx context.Context, service string, params *QueryParams) ([]json.RawMessage, error)
	Create(ctx context.Context, service string, body []byte) (*ServiceResponse, error)
	Update(ctx context.Context, service, key string, body []byte) (*ServiceResponse, error)
	Delete(ctx context.Context, service, key string) (*ServiceResponse, error)
	// CallWS calls an API on the WS gateway and normalizes its payload.
	CallWS(ctx context.Context, api string, params map[string]string, shape Shape) (json.RawMessage, error)
	// InvalidateCache drops every cached entry of a service.
	InvalidateCache(ctx context.Context, service string) error
	// ClearCache drops every cached entry.
	ClearCache(ctx context.Context) error
}

// Client is the full client surface.
type Client interface {
	ServiceClient
	ResourceClients
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// CredentialProvider supplies the Authorization header value for each
// request. Acquiring or refreshing the credential is up to the provider.
type CredentialProvider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// NoRetries disables retries when set as Config.RetryMax.
const NoRetries = -1

// Config represents client configuration. It is read once when the client
// is built; changing it afterwards has no effect.
//
// # Authentication
//
// Credentials supplies the Authorization header when set. Otherwise
// AccessToken is sent as a Bearer token, or Username/Password as Basic
// credentials. With none of these, requests are unauthenticated.
//
// # Timeouts and retries
//
// Every request carries Timeout; there is no cooperative cancellation inside
// a round trip beyond the context passed to each call. Connection failures
// of idempotent requests are retried RetryMax times; HTTP error statuses are
// never retried.
type Config struct {
	// RESTEndpoint: base URL of the REST API (e.g. "https://host:5074/B2BAPIs/svc").
	RESTEndpoint string
	// WSEndpoint: URL of the WS gateway (e.g. "https://host:5074/ws").
	WSEndpoint string

	// Username and Password: Basic credentials.
	Username string
	Password string
	// AccessToken: sent as a Bearer token when set.
	AccessToken string
	// Credentials overrides Username/Password/AccessToken.
	Credentials CredentialProvider

	// PageSize is the range size used by pagination.
	PageSize int

	// Timeout bounds a single round trip.
	Timeout time.Duration
	// ConnectTimeout bounds dialing.
	ConnectTimeout time.Duration
	// IdleTimeout: pooled connections idle longer than this are closed
	// before the next call.
	IdleTimeout time.Duration
	// MaxConnLifetime: the pool is recycled once it is older than this.
	MaxConnLifetime time.Duration
	// MaxIdleConns bounds the connection pool.
	MaxIdleConns int

	// RetryMax: retries for connection-level failures of idempotent requests.
	// Zero selects the default; NoRetries disables retrying.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Cache selects the response cache. Nil disables caching.
	Cache *CacheConfig
	// CacheBackend overrides Cache with a ready-made backend.
	CacheBackend Cache

	// DryRun short-circuits create/update/delete with a synthetic success.
	DryRun bool

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Interceptors run around every round trip.
	Interceptors *InterceptorChain
}
