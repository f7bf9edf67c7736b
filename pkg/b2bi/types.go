package b2bi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Backend selects which of the two platform APIs serves a request.
type Backend int

const (
	// BackendREST is the paginated REST/JSON API.
	BackendREST Backend = iota
	// BackendWS is the legacy query-string WS gateway.
	BackendWS
)

// String returns the backend name.
func (b Backend) String() string {
	if b == BackendWS {
		return "ws"
	}

	return "rest"
}

// Shape is the payload shape a caller expects after normalization.
type Shape int

const (
	// ShapeObject expects a single JSON object.
	ShapeObject Shape = iota
	// ShapeArray expects a JSON array.
	ShapeArray
)

// ServiceRequest is one HTTP round trip against a named service. It is
// immutable once built.
type ServiceRequest struct {
	method  string
	backend Backend
	service string
	subPath string
	query   url.Values
	body    []byte
	shape   Shape
}

// RequestOption customizes a ServiceRequest at construction time.
type RequestOption func(*ServiceRequest)

// WithSubPath appends a sub-path (such as an item key) to the service path.
func WithSubPath(subPath string) RequestOption {
	return func(r *ServiceRequest) {
		r.subPath = subPath
	}
}

// WithQuery sets the query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(r *ServiceRequest) {
		r.query = cloneValues(query)
	}
}

// WithBackend selects the backend. REST is the default.
func WithBackend(backend Backend) RequestOption {
	return func(r *ServiceRequest) {
		r.backend = backend
	}
}

// WithShape sets the payload shape expected from a WS call.
func WithShape(shape Shape) RequestOption {
	return func(r *ServiceRequest) {
		r.shape = shape
	}
}

// NewServiceRequest builds a request for service (a service name, or an
// absolute URI). The body is only kept for POST and PUT and must be valid
// UTF-8.
func NewServiceRequest(method, service string, body []byte, opts ...RequestOption) (*ServiceRequest, error) {
	method = strings.ToUpper(method)

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	req := &ServiceRequest{
		method:  method,
		service: service,
	}

	for _, opt := range opts {
		opt(req)
	}

	if method == http.MethodPost || method == http.MethodPut {
		if len(body) > 0 && !utf8.Valid(body) {
			return nil, EncodingError(ErrInvalidUTF8Body)
		}

		req.body = append([]byte(nil), body...)
	}

	return req, nil
}

// Method returns the HTTP verb.
func (r *ServiceRequest) Method() string { return r.method }

// Backend returns the backend serving the request.
func (r *ServiceRequest) Backend() Backend { return r.backend }

// Service returns the service name or absolute URI.
func (r *ServiceRequest) Service() string { return r.service }

// SubPath returns the sub-path below the service.
func (r *ServiceRequest) SubPath() string { return r.subPath }

// Shape returns the payload shape expected from a WS call.
func (r *ServiceRequest) Shape() Shape { return r.shape }

// Query returns a copy of the query parameters.
func (r *ServiceRequest) Query() url.Values { return cloneValues(r.query) }

// Body returns a copy of the body.
func (r *ServiceRequest) Body() []byte {
	if r.body == nil {
		return nil
	}

	return append([]byte(nil), r.body...)
}

// IsMutating reports whether the request creates, updates or deletes.
func (r *ServiceRequest) IsMutating() bool {
	return r.method != http.MethodGet
}

// IsAbsolute reports whether the target is an absolute URI.
func (r *ServiceRequest) IsAbsolute() bool {
	return strings.HasPrefix(r.service, "http://") || strings.HasPrefix(r.service, "https://")
}

// CacheQuery is the cache key component for this request: backend,
// sub-path and encoded query. The backend keeps WS and REST bodies for the
// same name apart.
func (r *ServiceRequest) CacheQuery() string {
	key := r.backend.String() + ":" + r.subPath

	encoded := r.query.Encode()
	if encoded == "" {
		return key
	}

	return key + "?" + encoded
}

// ServiceResponse is the outcome of one round trip. It is not retained.
type ServiceResponse struct {
	StatusCode int
	Body       []byte
	// Payload is the normalized JSON value for successful responses.
	Payload json.RawMessage
	// Cached is true when the body came from the cache.
	Cached bool
	// DryRun is true when the request was short-circuited.
	DryRun bool
}

// IsError reports whether the status is outside 2xx.
func (r *ServiceResponse) IsError() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// ErrorCode returns the backend error code, if any.
func (r *ServiceResponse) ErrorCode() int {
	return r.errorBody().Code
}

// ErrorDescription returns the backend error description, if any.
func (r *ServiceResponse) ErrorDescription() string {
	return r.errorBody().Description
}

func (r *ServiceResponse) errorBody() *Error {
	parsed := &Error{}
	if !r.IsError() || len(r.Body) == 0 {
		return parsed
	}

	_ = json.Unmarshal(r.Body, parsed)

	return parsed
}

// Page is a bounded slice of a collection.
type Page struct {
	Items  []json.RawMessage
	Offset int
	// More is true iff the page was full, so another page may follow.
	More bool
}

func cloneValues(values url.Values) url.Values {
	if values == nil {
		return url.Values{}
	}

	out := make(url.Values, len(values))
	for key, vals := range values {
		out[key] = append([]string(nil), vals...)
	}

	return out
}
