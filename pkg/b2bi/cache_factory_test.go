package b2bi_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *b2bi.CacheConfig
		expected interface{}
		err      error
	}{
		{name: "nil config", config: nil, expected: &b2bi.NoOpCache{}},
		{name: "none", config: &b2bi.CacheConfig{Type: b2bi.CacheTypeNone}, expected: &b2bi.NoOpCache{}},
		{name: "empty type", config: &b2bi.CacheConfig{}, expected: &b2bi.NoOpCache{}},
		{name: "memory", config: &b2bi.CacheConfig{Type: b2bi.CacheTypeMemory}, expected: &b2bi.FileCache{}},
		{
			name:     "file on injected fs",
			config:   &b2bi.CacheConfig{Type: b2bi.CacheTypeFile, Dir: "/tmp/b2bi", Fs: afero.NewMemMapFs()},
			expected: &b2bi.FileCache{},
		},
		{name: "nats without config", config: &b2bi.CacheConfig{Type: b2bi.CacheTypeNATS}, err: b2bi.ErrNATSConfigRequired},
		{name: "unknown type", config: &b2bi.CacheConfig{Type: "redis"}, err: b2bi.ErrUnsupportedCacheType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache, err := b2bi.NewCacheFromConfig(tt.config)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.expected, cache)
		})
	}
}

func TestCacheBuilder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	builder := b2bi.NewCacheBuilder().
		WithType(b2bi.CacheTypeFile).
		WithDir("/var/cache/b2bi").
		WithTTL(time.Minute).
		WithFs(fs)

	config := builder.Config()
	assert.Equal(t, b2bi.CacheTypeFile, config.Type)
	assert.Equal(t, "/var/cache/b2bi", config.Dir)
	assert.Equal(t, time.Minute, config.TTL)

	cache, err := builder.Build()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "mailboxes", "", []byte(`[]`)))

	exists, err := afero.DirExists(fs, "/var/cache/b2bi")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDefaultCacheConfig(t *testing.T) {
	t.Parallel()

	config := b2bi.DefaultCacheConfig()
	assert.Equal(t, b2bi.CacheTypeNone, config.Type)
	assert.Equal(t, constants.DefaultCacheTTL, config.TTL)
	assert.Equal(t, constants.DefaultCacheTTL, b2bi.NewCacheBuilder().Config().TTL)
}
