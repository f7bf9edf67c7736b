package constants

import "errors"

// Configuration errors.
var (
	ErrNoRESTEndpoint     = errors.New("no REST endpoint configured, set rest_url or use --rest-url")
	ErrNoWSEndpoint       = errors.New("no WS endpoint configured, set ws_url or use --ws-url")
	ErrInvalidPageSize    = errors.New("page size must be positive")
	ErrPasswordPrompt     = errors.New("password required but stdin is not a terminal")
	ErrUnknownOutput      = errors.New("unknown output format")
	ErrInvalidKeyValueArg = errors.New("invalid argument, expected key=value")
)

// Operation errors.
var (
	ErrKeyRequired  = errors.New("key is required")
	ErrBodyRequired = errors.New("request body is required, use --file")
)
