package b2bi_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/stretchr/testify/assert"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	params := b2bi.NewQueryParams().
		WithIncludeFields("path", "description").
		WithExcludeFields("permissionNames").
		WithSort("path").
		WithOffset(200).
		WithLimit(100).
		WithFilter("searchFor", "in*")

	values := params.ToValues()

	assert.Equal(t, "path,description", values.Get(b2bi.ParamIncludeFields))
	assert.Equal(t, "permissionNames", values.Get(b2bi.ParamExcludeFields))
	assert.Equal(t, "path", values.Get(b2bi.ParamSort))
	assert.Equal(t, "200", values.Get(b2bi.ParamOffset))
	assert.Equal(t, "100", values.Get(b2bi.ParamLimit))
	assert.Equal(t, "in*", values.Get("searchFor"))
}

func TestQueryParams_ToValuesOmitsZero(t *testing.T) {
	t.Parallel()

	values := b2bi.NewQueryParams().ToValues()
	assert.Empty(t, values)

	var nilParams *b2bi.QueryParams
	assert.Empty(t, nilParams.ToValues())
}

func TestQueryParams_Clone(t *testing.T) {
	t.Parallel()

	original := b2bi.NewQueryParams().WithSort("a").WithFilter("k", "v").WithOffset(5)
	clone := original.Clone()

	clone.WithSort("b").WithFilter("k", "changed").WithOffset(10)

	assert.Equal(t, []string{"a"}, original.Sort)
	assert.Equal(t, "v", original.Filters["k"])
	assert.Equal(t, 5, original.Offset)
	assert.Equal(t, []string{"a", "b"}, clone.Sort)
}

func TestServiceRequest(t *testing.T) {
	t.Parallel()

	t.Run("body dropped for GET", func(t *testing.T) {
		t.Parallel()

		req, err := b2bi.NewServiceRequest("get", "mailboxes", []byte(`{"a":1}`))
		assert.NoError(t, err)
		assert.Equal(t, "GET", req.Method())
		assert.Nil(t, req.Body())
		assert.False(t, req.IsMutating())
	})

	t.Run("body kept for POST", func(t *testing.T) {
		t.Parallel()

		req, err := b2bi.NewServiceRequest("POST", "mailboxes", []byte(`{"a":1}`))
		assert.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), req.Body())
		assert.True(t, req.IsMutating())
	})

	t.Run("invalid utf-8 is an encoding error", func(t *testing.T) {
		t.Parallel()

		_, err := b2bi.NewServiceRequest("PUT", "mailboxes", []byte{0xff, 0xfe})
		assert.True(t, b2bi.IsEncoding(err))
	})

	t.Run("unsupported method", func(t *testing.T) {
		t.Parallel()

		_, err := b2bi.NewServiceRequest("PATCH", "mailboxes", nil)
		assert.ErrorIs(t, err, b2bi.ErrUnsupportedMethod)
	})

	t.Run("cache query", func(t *testing.T) {
		t.Parallel()

		query := b2bi.NewQueryParams().WithOffset(100).WithLimit(100).ToValues()
		req, err := b2bi.NewServiceRequest("GET", "mailboxes", nil,
			b2bi.WithSubPath("inbox"), b2bi.WithQuery(query))
		assert.NoError(t, err)
		assert.Equal(t, "rest:inbox?limit=100&offset=100", req.CacheQuery())
		assert.Equal(t, b2bi.BackendREST, req.Backend())

		ws, err := b2bi.NewServiceRequest("GET", "mailboxes", nil,
			b2bi.WithBackend(b2bi.BackendWS), b2bi.WithQuery(url.Values{"k": {"v"}}))
		assert.NoError(t, err)
		assert.Equal(t, "ws:?k=v", ws.CacheQuery())

		rest, err := b2bi.NewServiceRequest("GET", "mailboxes", nil, b2bi.WithQuery(url.Values{"k": {"v"}}))
		assert.NoError(t, err)
		assert.NotEqual(t, ws.CacheQuery(), rest.CacheQuery())
	})

	t.Run("absolute uri", func(t *testing.T) {
		t.Parallel()

		req, err := b2bi.NewServiceRequest("GET", "https://host/B2BAPIs/svc/mailboxes", nil)
		assert.NoError(t, err)
		assert.True(t, req.IsAbsolute())
	})
}
