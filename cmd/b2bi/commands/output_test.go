package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
)

func TestRenderPayload(t *testing.T) { //nolint:funlen
	t.Parallel()

	t.Run("json is indented", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := renderPayload(&buf, constants.FormatJSON, json.RawMessage(`{"path":"/acme"}`))
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"path\": \"/acme\"\n}\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := renderPayload(&buf, constants.FormatYAML, json.RawMessage(`[{"path":"/acme"}]`))
		require.NoError(t, err)
		assert.Equal(t, "- path: /acme\n", buf.String())
	})

	t.Run("table of objects", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		payload := json.RawMessage(`[{"mailboxId":"1","path":"/acme"},{"mailboxId":"2","description":"inbox"}]`)

		err := renderPayload(&buf, constants.FormatTable, payload)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "/acme")
		assert.Contains(t, out, "inbox")
		assert.Contains(t, out, NotAvailable)
	})

	t.Run("table of one object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := renderPayload(&buf, constants.FormatTable, json.RawMessage(`{"partnerName":"ACME","doesRequireSignedData":true}`))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "PartnerName")
		assert.Contains(t, out, "ACME")
		assert.Contains(t, out, "true")
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := renderPayload(&buf, constants.FormatTable, json.RawMessage(`[]`))
		require.NoError(t, err)
		assert.Equal(t, "No items found.\n", buf.String())
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := renderPayload(&buf, constants.FormatJSON, nil)
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		err := renderPayload(&bytes.Buffer{}, "xml", json.RawMessage(`{}`))
		require.ErrorIs(t, err, constants.ErrUnknownOutput)
	})
}

func TestCollectColumns(t *testing.T) {
	t.Parallel()

	items := []interface{}{
		map[string]interface{}{"path": "/a", "mailboxId": "1"},
		map[string]interface{}{"description": "x", "path": "/b"},
	}

	assert.Equal(t, []string{"mailboxId", "path", "description"}, collectColumns(items))
	assert.Equal(t, []string{"Value"}, collectColumns([]interface{}{"a", "b"}))
}

func TestFormatCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{name: "nil", value: nil, expected: ""},
		{name: "string", value: "abc", expected: "abc"},
		{name: "number", value: json.Number("42"), expected: "42"},
		{name: "bool", value: false, expected: "false"},
		{name: "list", value: []interface{}{"a", "b"}, expected: `["a","b"]`},
		{
			name:     "truncated",
			value:    strings.Repeat("x", constants.StringTruncationLength+10),
			expected: strings.Repeat("x", constants.StringTruncationLength-3) + "...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, formatCell(tt.value))
		})
	}
}
