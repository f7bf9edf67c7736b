package b2bi_test

import (
	"errors"
	"testing"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen
func TestNormalizeWS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		shape    b2bi.Shape
		expected string
	}{
		{
			name:     "no envelope object",
			body:     `{"partnerName":"acme"}`,
			shape:    b2bi.ShapeObject,
			expected: `{"partnerName":"acme"}`,
		},
		{
			name:     "top-level array",
			body:     `[{"a":1},{"a":2}]`,
			shape:    b2bi.ShapeArray,
			expected: `[{"a":1},{"a":2}]`,
		},
		{
			name:     "single row object as array",
			body:     `{"result":{"row":{"a":1}}}`,
			shape:    b2bi.ShapeArray,
			expected: `[{"a":1}]`,
		},
		{
			name:     "single row object as object",
			body:     `{"result":{"row":{"a":1}}}`,
			shape:    b2bi.ShapeObject,
			expected: `{"a":1}`,
		},
		{
			name:     "row array",
			body:     `{"result":{"row":[{"a":1},{"a":2}]}}`,
			shape:    b2bi.ShapeArray,
			expected: `[{"a":1},{"a":2}]`,
		},
		{
			name:     "one-element row array as object",
			body:     `{"result":{"row":[{"a":1}]}}`,
			shape:    b2bi.ShapeObject,
			expected: `{"a":1}`,
		},
		{
			name:     "empty row string",
			body:     `{"result":{"row":""}}`,
			shape:    b2bi.ShapeArray,
			expected: `[]`,
		},
		{
			name:     "null row",
			body:     `{"result":{"row":null}}`,
			shape:    b2bi.ShapeArray,
			expected: `[]`,
		},
		{
			name:     "missing row",
			body:     `{"result":{}}`,
			shape:    b2bi.ShapeArray,
			expected: `[]`,
		},
		{
			name:     "empty result string",
			body:     `{"result":""}`,
			shape:    b2bi.ShapeArray,
			expected: `[]`,
		},
		{
			name:     "empty body",
			body:     "",
			shape:    b2bi.ShapeArray,
			expected: `[]`,
		},
		{
			name:     "string values containing brackets",
			body:     `{"result":{"row":{"note":"[not] {an} array"}}}`,
			shape:    b2bi.ShapeArray,
			expected: `[{"note":"[not] {an} array"}]`,
		},
		{
			name:     "object with result and other keys is not an envelope",
			body:     `{"result":"ok","count":2}`,
			shape:    b2bi.ShapeObject,
			expected: `{"result":"ok","count":2}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := b2bi.NormalizeWS([]byte(tt.body), tt.shape)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(got))
		})
	}
}

func TestNormalizeWS_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"result":{"row":{"a":1}}}`,
		`{"result":{"row":[{"a":1},{"a":2}]}}`,
		`[{"a":1}]`,
		`{"result":""}`,
	}

	for _, input := range inputs {
		once, err := b2bi.NormalizeWS([]byte(input), b2bi.ShapeArray)
		require.NoError(t, err)

		twice, err := b2bi.NormalizeWS(once, b2bi.ShapeArray)
		require.NoError(t, err)

		assert.JSONEq(t, string(once), string(twice), input)
	}
}

func TestNormalizeWS_EmptyResultAsObject(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"result":""}`, `{"result":{"row":null}}`, `[]`, ``} {
		_, err := b2bi.NormalizeWS([]byte(body), b2bi.ShapeObject)
		require.Error(t, err, body)
		assert.ErrorIs(t, err, b2bi.ErrNoRows, body)
	}
}

func TestNormalizeWS_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		shape b2bi.Shape
	}{
		{name: "xml body", body: `<result><row><a>1</a></row></result>`, shape: b2bi.ShapeArray},
		{name: "truncated json", body: `{"result":{"row":`, shape: b2bi.ShapeArray},
		{name: "scalar row", body: `{"result":{"row":42}}`, shape: b2bi.ShapeArray},
		{name: "scalar result", body: `{"result":true}`, shape: b2bi.ShapeArray},
		{name: "top-level string", body: `"hello"`, shape: b2bi.ShapeObject},
		{name: "several rows for object", body: `{"result":{"row":[{"a":1},{"a":2}]}}`, shape: b2bi.ShapeObject},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := b2bi.NormalizeWS([]byte(tt.body), tt.shape)
			require.Error(t, err)
			assert.True(t, b2bi.IsNormalization(err), "expected normalization error, got %v", err)
		})
	}
}

func TestNormalizeWS_MultipleRowsCause(t *testing.T) {
	t.Parallel()

	_, err := b2bi.NormalizeWS([]byte(`[{"a":1},{"a":2}]`), b2bi.ShapeObject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, b2bi.ErrMultipleRows))
	assert.ErrorIs(t, err, b2bi.ErrNormalization)
}

func TestNormalizeREST(t *testing.T) {
	t.Parallel()

	t.Run("json passes through", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"errorCode":404,"errorDescription":"Mailbox not found"}`)
		assert.Equal(t, body, []byte(b2bi.NormalizeREST(404, body)))
	})

	t.Run("success body untouched", func(t *testing.T) {
		t.Parallel()

		body := []byte(`not json`)
		assert.Equal(t, body, []byte(b2bi.NormalizeREST(200, body)))
	})

	t.Run("plain text 404 synthesized", func(t *testing.T) {
		t.Parallel()

		got := b2bi.NormalizeREST(404, []byte("no such mailbox"))
		assert.JSONEq(t, `{"errorCode":404,"errorDescription":"no such mailbox"}`, string(got))
	})

	t.Run("empty 400 uses status text", func(t *testing.T) {
		t.Parallel()

		got := b2bi.NormalizeREST(400, nil)
		assert.JSONEq(t, `{"errorCode":400,"errorDescription":"Bad Request"}`, string(got))
	})
}
