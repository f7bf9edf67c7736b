package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

func TestSettings_ClientConfig(t *testing.T) {
	t.Parallel()

	t.Run("endpoint required", func(t *testing.T) {
		t.Parallel()

		_, err := (&Settings{}).ClientConfig()
		require.ErrorIs(t, err, constants.ErrNoRESTEndpoint)
	})

	t.Run("maps every field", func(t *testing.T) {
		t.Parallel()

		settings := &Settings{
			RESTURL:  "https://b2bi.example.com/B2BAPIs/svc",
			WSURL:    "https://b2bi.example.com/ws",
			Username: "admin",
			Password: "secret",
			PageSize: 50,
			Timeout:  time.Minute,
			DryRun:   true,
			Verbose:  true,
		}

		config, err := settings.ClientConfig()
		require.NoError(t, err)
		assert.Equal(t, settings.RESTURL, config.RESTEndpoint)
		assert.Equal(t, settings.WSURL, config.WSEndpoint)
		assert.Equal(t, "admin", config.Username)
		assert.Equal(t, "secret", config.Password)
		assert.Equal(t, 50, config.PageSize)
		assert.Equal(t, time.Minute, config.Timeout)
		assert.True(t, config.DryRun)
		assert.True(t, config.Debug)
		assert.Nil(t, config.Cache)
	})
}

func TestCacheSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings CacheSettings
		expected b2bi.CacheType
		wantErr  error
	}{
		{name: "empty disables caching", settings: CacheSettings{}},
		{name: "none disables caching", settings: CacheSettings{Type: "none"}},
		{name: "file", settings: CacheSettings{Type: "File", Dir: "/tmp/b2bi"}, expected: b2bi.CacheTypeFile},
		{name: "memory", settings: CacheSettings{Type: "memory"}, expected: b2bi.CacheTypeMemory},
		{name: "nats", settings: CacheSettings{Type: "nats", NATSURL: "nats://localhost:4222"}, expected: b2bi.CacheTypeNATS},
		{name: "unknown", settings: CacheSettings{Type: "redis"}, wantErr: b2bi.ErrUnsupportedCacheType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config, err := tt.settings.cacheConfig()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			if tt.expected == "" {
				assert.Nil(t, config)

				return
			}

			require.NotNil(t, config)
			assert.Equal(t, tt.expected, config.Type)

			if tt.expected == b2bi.CacheTypeNATS {
				require.NotNil(t, config.NATS)
				assert.Equal(t, "nats://localhost:4222", config.NATS.URL)
			}
		})
	}
}

func TestSettings_Masked(t *testing.T) {
	t.Parallel()

	settings := &Settings{Username: "admin", Password: "secret", Token: "abc"}
	masked := settings.Masked()

	assert.Equal(t, "admin", masked.Username)
	assert.Equal(t, constants.MaskedSecret, masked.Password)
	assert.Equal(t, constants.MaskedSecret, masked.Token)
	assert.Equal(t, "secret", settings.Password)

	assert.Empty(t, (&Settings{}).Masked().Password)
}
