package constants

import "time"

// File permissions.
const (
	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single round trip.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultConnectTimeout bounds dialing a new connection.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultIdleTimeout is how long a pooled connection may sit unused
	// before it is evicted ahead of the next call.
	DefaultIdleTimeout = 30 * time.Second

	// DefaultMaxConnLifetime is how long a pool may serve connections
	// before every idle connection is recycled.
	DefaultMaxConnLifetime = 5 * time.Minute

	// DefaultMaxIdleConns bounds the idle connection pool.
	DefaultMaxIdleConns = 10

	// DefaultKeepAlive is the TCP keep-alive period of dialed connections.
	DefaultKeepAlive = 30 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "b2bi-client-go/1.0"
)

// Retry limits.
const (
	// DefaultRetryMax is the default number of retries for connection failures.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 500 * time.Millisecond

	// DefaultRetryWaitMax is the maximum wait between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the default range size used when paginating.
	DefaultPageSize = 100
)

// WS gateway parameters.
const (
	// WSAPIParam selects the WS API to call.
	WSAPIParam = "api"

	// WSJSONParam asks the gateway for JSON instead of XML.
	WSJSONParam = "json"
)

// Cache defaults.
const (
	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheDirName is the cache directory created under the user cache dir.
	DefaultCacheDirName = "b2bi-client"

	// DefaultNATSBucket is the default NATS key/value bucket for cached responses.
	DefaultNATSBucket = "b2bi_cache"

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// CRUD operation constants.
const (
	// OperationCreate for create operations.
	OperationCreate = "create"

	// OperationUpdate for update operations.
	OperationUpdate = "update"

	// OperationDelete for delete operations.
	OperationDelete = "delete"
)

// Service names on the REST backend.
const (
	ServiceMailboxes       = "mailboxes"
	ServiceTradingPartners = "tradingpartners"
	ServiceCACertificates  = "cacertificates"
	ServiceUserAccounts    = "useraccounts"
)

// Display limits.
const (
	// StringTruncationLength is the default length for truncating table cells.
	StringTruncationLength = 80

	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)
