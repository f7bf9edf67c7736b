package b2bi_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	key     string
	value   []byte
	created time.Time
}

func (e *fakeEntry) Bucket() string { return "test" }
func (e *fakeEntry) Key() string { return e.key }
func (e *fakeEntry) Value() []byte { return e.value }
func (e *fakeEntry) Revision() uint64 { return 1 }
func (e *fakeEntry) Created() time.Time { return e.created }
func (e *fakeEntry) Delta() uint64 { return 0 }
func (e *fakeEntry) Operation() nats.KeyValueOp { return nats.KeyValuePut }

type fakeKeyValue struct {
	mu      sync.Mutex
	entries map[string]*fakeEntry
}

func newFakeKeyValue() *fakeKeyValue {
	return &fakeKeyValue{entries: make(map[string]*fakeEntry)}
}

func (f *fakeKeyValue) Get(key string) (nats.KeyValueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[key]
	if !ok {
		return nil, nats.ErrKeyNotFound
	}

	return entry, nil
}

func (f *fakeKeyValue) Put(key string, value []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[key] = &fakeEntry{key: key, value: value, created: time.Now()}

	return uint64(len(f.entries)), nil
}

func (f *fakeKeyValue) Delete(key string, _ ...nats.DeleteOpt) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[key]; !ok {
		return nats.ErrKeyNotFound
	}

	delete(f.entries, key)

	return nil
}

func (f *fakeKeyValue) Keys(_ ...nats.WatchOpt) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) == 0 {
		return nil, nats.ErrNoKeysFound
	}

	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

func (f *fakeKeyValue) age(by time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entry := range f.entries {
		entry.created = entry.created.Add(-by)
	}
}

func TestNATSKVCache_PutAndGet(t *testing.T) {
	t.Parallel()

	kv := newFakeKeyValue()
	cache := b2bi.NewNATSKVCacheWithStore(kv, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "offset=0&limit=100", []byte(`[1]`)))

	got, err := cache.Get(ctx, "mailboxes", "offset=0&limit=100")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	_, err = cache.Get(ctx, "mailboxes", "offset=100&limit=100")
	assert.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestNATSKVCache_KeysAreValidSubjects(t *testing.T) {
	t.Parallel()

	kv := newFakeKeyValue()
	cache := b2bi.NewNATSKVCacheWithStore(kv, time.Hour)

	require.NoError(t, cache.Put(context.Background(), "trading partners", "a=b&c=/d e", []byte(`1`)))

	keys, err := kv.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Regexp(t, `^[-/_=.a-zA-Z0-9]+$`, keys[0])
}

func TestNATSKVCache_Expired(t *testing.T) {
	t.Parallel()

	kv := newFakeKeyValue()
	cache := b2bi.NewNATSKVCacheWithStore(kv, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "q", []byte(`1`)))
	kv.age(time.Hour)

	_, err := cache.Get(ctx, "mailboxes", "q")
	assert.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestNATSKVCache_InvalidateAndClear(t *testing.T) {
	t.Parallel()

	kv := newFakeKeyValue()
	cache := b2bi.NewNATSKVCacheWithStore(kv, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "a", []byte(`1`)))
	require.NoError(t, cache.Put(ctx, "mailboxes", "b", []byte(`2`)))
	require.NoError(t, cache.Put(ctx, "useraccounts", "a", []byte(`3`)))

	require.NoError(t, cache.Invalidate(ctx, "mailboxes"))

	_, err := cache.Get(ctx, "mailboxes", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)

	got, err := cache.Get(ctx, "useraccounts", "a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))

	require.NoError(t, cache.Clear(ctx))
	require.NoError(t, cache.Clear(ctx))

	_, err = cache.Get(ctx, "useraccounts", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestNewNATSKVCache_RequiresURL(t *testing.T) {
	t.Parallel()

	_, err := b2bi.NewNATSKVCache(&b2bi.NATSKVConfig{Bucket: "b2bi_cache"})
	assert.ErrorIs(t, err, b2bi.ErrNATSURLRequired)

	_, err = b2bi.NewNATSKVCache(nil)
	assert.ErrorIs(t, err, b2bi.ErrNATSURLRequired)
}
