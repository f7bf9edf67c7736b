package b2bi_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/stretchr/testify/assert"
)

var errConnectionRefused = errors.New("connection refused")

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *b2bi.Error
		expected string
	}{
		{
			name:     "not found with description",
			err:      b2bi.NewError(b2bi.KindNotFound, 404, "Mailbox not found", nil),
			expected: "not found (status 404): Mailbox not found",
		},
		{
			name: "backend code differs from status",
			err: &b2bi.Error{
				Kind:        b2bi.KindValidation,
				HTTPStatus:  400,
				Code:        1001,
				Description: "bad partner",
			},
			expected: "validation error (status 400): bad partner (code: 1001)",
		},
		{
			name:     "transport with cause",
			err:      b2bi.TransportError(errConnectionRefused),
			expected: "transport error: connection refused",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_IsAndAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("getting mailbox: %w", b2bi.NewError(b2bi.KindNotFound, 404, "gone", nil))

	assert.ErrorIs(t, err, b2bi.ErrNotFound)
	assert.NotErrorIs(t, err, b2bi.ErrValidation)
	assert.True(t, b2bi.IsNotFound(err))
	assert.False(t, b2bi.IsValidation(err))
	assert.False(t, b2bi.IsNotFound(errConnectionRefused))
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	err := b2bi.TransportError(errConnectionRefused)

	assert.ErrorIs(t, err, errConnectionRefused)
	assert.ErrorIs(t, err, b2bi.ErrTransport)
	assert.True(t, b2bi.IsTransport(err))
}

func TestError_Retryable(t *testing.T) {
	t.Parallel()

	assert.True(t, b2bi.TransportError(errConnectionRefused).Retryable())
	assert.False(t, b2bi.NewError(b2bi.KindValidation, 400, "", nil).Retryable())
	assert.False(t, b2bi.NewError(b2bi.KindNotFound, 404, "", nil).Retryable())
	assert.False(t, b2bi.NewError(b2bi.KindFatal, 500, "", nil).Retryable())
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, b2bi.IsEncoding(b2bi.EncodingError(b2bi.ErrInvalidUTF8Body)))
	assert.True(t, b2bi.IsNormalization(b2bi.NormalizationError(b2bi.ErrMalformedJSON)))
	assert.True(t, b2bi.IsFatal(b2bi.NewError(b2bi.KindFatal, 503, "", nil)))
	assert.False(t, b2bi.IsFatal(errConnectionRefused))
}

func TestServiceResponse_ErrorAccessors(t *testing.T) {
	t.Parallel()

	resp := &b2bi.ServiceResponse{
		StatusCode: 400,
		Body:       []byte(`{"errorCode":1001,"errorDescription":"bad input"}`),
	}

	assert.True(t, resp.IsError())
	assert.Equal(t, 1001, resp.ErrorCode())
	assert.Equal(t, "bad input", resp.ErrorDescription())

	ok := &b2bi.ServiceResponse{StatusCode: 200, Body: []byte(`{"errorCode":1}`)}
	assert.False(t, ok.IsError())
	assert.Equal(t, 0, ok.ErrorCode())
}

func TestStatusDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Not Found", b2bi.StatusDescription(404))
	assert.Equal(t, "HTTP 599", b2bi.StatusDescription(599))
}
