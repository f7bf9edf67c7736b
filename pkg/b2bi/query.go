package b2bi

import (
	"net/url"
	"strconv"
	"strings"
)

// Wire names of the structured query parameters.
const (
	ParamIncludeFields = "includeFields"
	ParamExcludeFields = "excludeFields"
	ParamSort          = "sort"
	ParamOffset        = "offset"
	ParamLimit         = "limit"
)

// QueryParams holds the structured parameters of a collection query.
// Anything not covered by a dedicated field goes in Filters and is sent as
// a literal key/value pair.
type QueryParams struct {
	IncludeFields []string
	ExcludeFields []string
	Sort          []string
	Offset        int
	Limit         int
	Filters       map[string]string
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string]string),
	}
}

// WithIncludeFields restricts the returned fields.
func (q *QueryParams) WithIncludeFields(fields ...string) *QueryParams {
	q.IncludeFields = append(q.IncludeFields, fields...)

	return q
}

// WithExcludeFields removes fields from the response.
func (q *QueryParams) WithExcludeFields(fields ...string) *QueryParams {
	q.ExcludeFields = append(q.ExcludeFields, fields...)

	return q
}

// WithSort adds sort keys.
func (q *QueryParams) WithSort(keys ...string) *QueryParams {
	q.Sort = append(q.Sort, keys...)

	return q
}

// WithOffset sets the starting offset.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithLimit sets the page size sent to the server.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithFilter adds a literal key/value parameter.
func (q *QueryParams) WithFilter(key, value string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}

	q.Filters[key] = value

	return q
}

// Clone returns a deep copy.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := &QueryParams{
		IncludeFields: append([]string(nil), q.IncludeFields...),
		ExcludeFields: append([]string(nil), q.ExcludeFields...),
		Sort:          append([]string(nil), q.Sort...),
		Offset:        q.Offset,
		Limit:         q.Limit,
		Filters:       make(map[string]string, len(q.Filters)),
	}

	for key, value := range q.Filters {
		clone.Filters[key] = value
	}

	return clone
}

// ToValues converts the parameters to the wire query string values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if len(q.IncludeFields) > 0 {
		values.Set(ParamIncludeFields, strings.Join(q.IncludeFields, ","))
	}

	if len(q.ExcludeFields) > 0 {
		values.Set(ParamExcludeFields, strings.Join(q.ExcludeFields, ","))
	}

	if len(q.Sort) > 0 {
		values.Set(ParamSort, strings.Join(q.Sort, ","))
	}

	if q.Offset > 0 {
		values.Set(ParamOffset, strconv.Itoa(q.Offset))
	}

	if q.Limit > 0 {
		values.Set(ParamLimit, strconv.Itoa(q.Limit))
	}

	for key, value := range q.Filters {
		values.Set(key, value)
	}

	return values
}
