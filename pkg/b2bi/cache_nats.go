package b2bi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL is required")
)

// NATSKVConfig configures the NATS JetStream key/value cache backend.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. "nats://localhost:4222".
	URL string
	// Bucket name; created on first use if absent.
	Bucket string
	// TTL applied to the bucket and checked on read.
	TTL time.Duration
	// Options passed to nats.Connect.
	Options []nats.Option
}

// KeyValueStore is the subset of nats.KeyValue used by the cache.
type KeyValueStore interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
	Keys(opts ...nats.WatchOpt) ([]string, error)
}

// NATSKVCache stores response bodies in a NATS key/value bucket so several
// processes can share one cache.
type NATSKVCache struct {
	kv   KeyValueStore
	ttl  time.Duration
	conn *nats.Conn
	now  func() time.Time
}

// NewNATSKVCache connects to NATS and opens (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil || config.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(config.URL, config.Options...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      config.Bucket,
			Description: "b2bi-client response cache",
			TTL:         config.TTL,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening key/value bucket %q: %w", config.Bucket, err)
	}

	cache := NewNATSKVCacheWithStore(kv, config.TTL)
	cache.conn = conn

	return cache, nil
}

// NewNATSKVCacheWithStore wraps an already opened key/value store.
func NewNATSKVCacheWithStore(kv KeyValueStore, ttl time.Duration) *NATSKVCache {
	return &NATSKVCache{
		kv:  kv,
		ttl: ttl,
		now: time.Now,
	}
}

// NATS keys allow only [-/_=.a-zA-Z0-9], so both halves are base64url encoded.
func natsServicePrefix(service string) string {
	return "s" + base64.RawURLEncoding.EncodeToString([]byte(service)) + "."
}

func natsKey(service, query string) string {
	return natsServicePrefix(service) + "q" + base64.RawURLEncoding.EncodeToString([]byte(query))
}

// Get returns the cached body if present and younger than the TTL.
func (c *NATSKVCache) Get(ctx context.Context, service, query string) ([]byte, error) {
	entry, err := c.kv.Get(natsKey(service, query))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}

	if c.ttl > 0 && c.now().Sub(entry.Created()) > c.ttl {
		return nil, fmt.Errorf("%w: entry expired", ErrCacheMiss)
	}

	value := entry.Value()
	if len(value) == 0 {
		return nil, ErrCacheMiss
	}

	return value, nil
}

// Put stores a body.
func (c *NATSKVCache) Put(ctx context.Context, service, query string, body []byte) error {
	_, err := c.kv.Put(natsKey(service, query), body)
	if err != nil {
		return fmt.Errorf("writing NATS cache entry: %w", err)
	}

	return nil
}

// Invalidate deletes every key belonging to the service. Keys are encoded,
// so only the exact service name matches.
func (c *NATSKVCache) Invalidate(ctx context.Context, service string) error {
	return c.deleteMatching(natsServicePrefix(service))
}

// Clear deletes every key in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	return c.deleteMatching("")
}

func (c *NATSKVCache) deleteMatching(prefix string) error {
	keys, err := c.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing NATS cache keys: %w", err)
	}

	var result *multierror.Error

	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		err := c.kv.Delete(key)
		if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Close drains the NATS connection when the cache owns it.
func (c *NATSKVCache) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}
