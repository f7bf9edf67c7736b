package b2bi_test

import (
	"bytes"
	"testing"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestHCLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := b2bi.NewHCLogger(hclog.New(&hclog.LoggerOptions{
		Name:   "b2bi",
		Level:  hclog.Debug,
		Output: &buf,
	}))

	logger.Debug("HTTP Request", map[string]interface{}{"method": "GET", "url": "/mailboxes"})
	logger.Error("failed", nil)

	out := buf.String()
	assert.Contains(t, out, "HTTP Request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "url=/mailboxes")
	assert.Contains(t, out, "failed")
}

func TestHCLogger_NilLogger(t *testing.T) {
	t.Parallel()

	logger := b2bi.NewHCLogger(nil)

	assert.NotPanics(t, func() {
		logger.Info("ignored", map[string]interface{}{"a": 1})
	})
}
