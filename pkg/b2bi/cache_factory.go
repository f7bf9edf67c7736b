package b2bi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeFile represents the on-disk cache.
	CacheTypeFile CacheType = "file"

	// CacheTypeMemory represents an in-memory cache with file semantics.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// CacheConfig configures the cache backend.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// Dir is the cache directory for the file backend. Defaults to
	// <user cache dir>/b2bi-client.
	Dir string

	// TTL bounds the age of a returned entry.
	TTL time.Duration

	// Fs overrides the filesystem of the file backend.
	Fs afero.Fs

	// NATS KV cache configuration.
	NATS *NATSKVConfig
}

// DefaultCacheConfig returns the default (disabled) cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeNone,
		TTL:  constants.DefaultCacheTTL,
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	switch config.Type {
	case CacheTypeFile:
		fs := config.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}

		dir, err := cacheDir(config.Dir)
		if err != nil {
			return nil, err
		}

		return NewFileCache(fs, dir, ttl)

	case CacheTypeMemory:
		return NewFileCache(afero.NewMemMapFs(), "/cache", ttl)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		natsConfig := *config.NATS
		if natsConfig.TTL <= 0 {
			natsConfig.TTL = ttl
		}

		if natsConfig.Bucket == "" {
			natsConfig.Bucket = constants.DefaultNATSBucket
		}

		return NewNATSKVCache(&natsConfig)

	case CacheTypeNone, "":
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

func cacheDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache directory: %w", err)
	}

	return filepath.Join(base, constants.DefaultCacheDirName), nil
}

// CacheBuilder helps build cache configurations.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder creates a new cache builder.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{
			Type: CacheTypeFile,
			TTL:  constants.DefaultCacheTTL,
		},
	}
}

// WithType sets the cache type.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType

	return b
}

// WithDir sets the cache directory.
func (b *CacheBuilder) WithDir(dir string) *CacheBuilder {
	b.config.Dir = dir

	return b
}

// WithTTL sets the entry time-to-live.
func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.config.TTL = ttl

	return b
}

// WithFs sets the filesystem used by the file backend.
func (b *CacheBuilder) WithFs(fs afero.Fs) *CacheBuilder {
	b.config.Fs = fs

	return b
}

// WithNATSConfig sets NATS cache configuration.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config

	return b
}

// Config returns the configuration built so far.
func (b *CacheBuilder) Config() *CacheConfig {
	return b.config
}

// Build creates the cache from the configuration.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}
