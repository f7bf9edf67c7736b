package b2bi_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCacheDir = "/cache"

func newTestFileCache(t *testing.T, ttl time.Duration) (*b2bi.FileCache, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()

	cache, err := b2bi.NewFileCache(fs, testCacheDir, ttl)
	require.NoError(t, err)

	return cache, fs
}

func TestFileCache_PutAndGet(t *testing.T) {
	t.Parallel()

	cache, fs := newTestFileCache(t, time.Hour)
	ctx := context.Background()

	err := cache.Put(ctx, "mailboxes", "offset=0&limit=100", []byte(`[{"path":"/inbox"}]`))
	require.NoError(t, err)

	got, err := cache.Get(ctx, "mailboxes", "offset=0&limit=100")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"path":"/inbox"}]`, string(got))

	// Plain body on disk, no header.
	raw, err := afero.ReadFile(fs, filepath.Join(testCacheDir, cache.FileName("mailboxes", "offset=0&limit=100")))
	require.NoError(t, err)
	assert.Equal(t, `[{"path":"/inbox"}]`, string(raw))
}

func TestFileCache_Miss(t *testing.T) {
	t.Parallel()

	cache, _ := newTestFileCache(t, time.Hour)

	_, err := cache.Get(context.Background(), "mailboxes", "")
	assert.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestFileCache_Expired(t *testing.T) {
	t.Parallel()

	cache, fs := newTestFileCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "q", []byte(`{}`)))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, fs.Chtimes(filepath.Join(testCacheDir, cache.FileName("mailboxes", "q")), old, old))

	_, err := cache.Get(ctx, "mailboxes", "q")
	assert.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestFileCache_EmptyFileIsMiss(t *testing.T) {
	t.Parallel()

	cache, fs := newTestFileCache(t, time.Hour)

	path := filepath.Join(testCacheDir, cache.FileName("mailboxes", "q"))
	require.NoError(t, afero.WriteFile(fs, path, nil, 0o600))

	_, err := cache.Get(context.Background(), "mailboxes", "q")
	assert.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestFileCache_FileNameEscapes(t *testing.T) {
	t.Parallel()

	cache, _ := newTestFileCache(t, time.Hour)

	name := cache.FileName("trading partners", "a=b&c=d/e")
	assert.Equal(t, "trading+partners@a%3Db%26c%3Dd%2Fe", name)
	assert.NotContains(t, name, "/")
}

func TestFileCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache, _ := newTestFileCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "a", []byte(`1`)))
	require.NoError(t, cache.Put(ctx, "mailboxes", "b", []byte(`2`)))
	require.NoError(t, cache.Put(ctx, "useraccounts", "a", []byte(`3`)))

	require.NoError(t, cache.Invalidate(ctx, "mailboxes"))

	_, err := cache.Get(ctx, "mailboxes", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)

	_, err = cache.Get(ctx, "mailboxes", "b")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)

	got, err := cache.Get(ctx, "useraccounts", "a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))
}

func TestFileCache_Clear(t *testing.T) {
	t.Parallel()

	cache, _ := newTestFileCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "a", []byte(`1`)))
	require.NoError(t, cache.Put(ctx, "useraccounts", "a", []byte(`2`)))

	require.NoError(t, cache.Clear(ctx))

	_, err := cache.Get(ctx, "mailboxes", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)

	_, err = cache.Get(ctx, "useraccounts", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)
}

func TestFileCache_PutReplacesEntry(t *testing.T) {
	t.Parallel()

	cache, fs := newTestFileCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "q", []byte(`{"path":"/old/and/longer"}`)))
	require.NoError(t, cache.Put(ctx, "mailboxes", "q", []byte(`{"path":"/new"}`)))

	got, err := cache.Get(ctx, "mailboxes", "q")
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/new"}`, string(got))

	entries, err := afero.ReadDir(fs, testCacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, cache.FileName("mailboxes", "q"), entries[0].Name())
}

func TestFileCache_InvalidateMatchesWholeServiceName(t *testing.T) {
	t.Parallel()

	cache, _ := newTestFileCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mail", "a", []byte(`1`)))
	require.NoError(t, cache.Put(ctx, "mailboxes", "a", []byte(`2`)))

	require.NoError(t, cache.Invalidate(ctx, "mail"))

	_, err := cache.Get(ctx, "mail", "a")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)

	got, err := cache.Get(ctx, "mailboxes", "a")
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := b2bi.NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "mailboxes", "", []byte(`1`)))

	_, err := cache.Get(ctx, "mailboxes", "")
	require.ErrorIs(t, err, b2bi.ErrCacheMiss)
	require.ErrorIs(t, err, b2bi.ErrCacheDisabled)

	assert.NoError(t, cache.Invalidate(ctx, "mailboxes"))
	assert.NoError(t, cache.Clear(ctx))
}
