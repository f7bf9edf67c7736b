package b2bi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Static errors for err113 compliance.
var (
	ErrCacheMiss     = errors.New("cache miss")
	ErrCacheDisabled = errors.New("cache disabled")
)

// Cache stores raw response bodies keyed by (service, query).
//
// Get returns ErrCacheMiss (possibly wrapped) for absent, stale or
// unreadable entries; it never fails for any other reason. Invalidate drops
// every entry whose key starts with the service name.
type Cache interface {
	Get(ctx context.Context, service, query string) ([]byte, error)
	Put(ctx context.Context, service, query string, body []byte) error
	Invalidate(ctx context.Context, service string) error
	Clear(ctx context.Context) error
}

// FileCache keeps one file per (service, query) pair in a directory. Files
// hold the plain response body; staleness is the file modification time
// compared against the TTL. Writers are not locked against each other; a
// torn or unreadable file reads as a miss.
type FileCache struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileCache creates a file cache rooted at dir on fs.
func NewFileCache(fs afero.Fs, dir string, ttl time.Duration) (*FileCache, error) {
	err := fs.MkdirAll(dir, cacheDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileCache{
		fs:  fs,
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

const (
	cacheDirPerm  os.FileMode = 0o750
	cacheFilePerm os.FileMode = 0o600
	// keySeparator is always escaped by url.QueryEscape, so it never
	// appears inside either half of the name.
	keySeparator = "@"
	// tempFilePattern names in-flight writes; it has no keySeparator, so
	// Get and Invalidate never match it.
	tempFilePattern = ".put-*"
)

// FileName returns the file name used for a (service, query) pair.
func (c *FileCache) FileName(service, query string) string {
	return url.QueryEscape(service) + keySeparator + url.QueryEscape(query)
}

func (c *FileCache) path(service, query string) string {
	return filepath.Join(c.dir, c.FileName(service, query))
}

// Get returns the cached body if it is younger than the TTL.
func (c *FileCache) Get(ctx context.Context, service, query string) ([]byte, error) {
	path := c.path(service, query)

	info, err := c.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrCacheMiss
	}

	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, fmt.Errorf("%w: entry expired", ErrCacheMiss)
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil || len(data) == 0 {
		return nil, ErrCacheMiss
	}

	return data, nil
}

// Put writes the body for a (service, query) pair. The body is written to a
// temporary file and renamed into place, so readers see either the old or
// the new entry.
func (c *FileCache) Put(ctx context.Context, service, query string, body []byte) error {
	tmp, err := afero.TempFile(c.fs, c.dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = c.fs.Chmod(tmpName, cacheFilePerm)
	}

	if err == nil {
		err = c.fs.Rename(tmpName, c.path(service, query))
	}

	if err != nil {
		_ = c.fs.Remove(tmpName)

		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Invalidate removes every entry of the service.
func (c *FileCache) Invalidate(ctx context.Context, service string) error {
	return c.removeMatching(url.QueryEscape(service) + keySeparator)
}

// Clear removes every entry.
func (c *FileCache) Clear(ctx context.Context) error {
	return c.removeMatching("")
}

func (c *FileCache) removeMatching(prefix string) error {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("reading cache directory: %w", err)
	}

	var result *multierror.Error

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		err := c.fs.Remove(filepath.Join(c.dir, entry.Name()))
		if err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// NoOpCache is a cache that does nothing (no caching).
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(ctx context.Context, service, query string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", ErrCacheMiss, ErrCacheDisabled)
}

// Put does nothing.
func (c *NoOpCache) Put(ctx context.Context, service, query string, body []byte) error {
	return nil
}

// Invalidate does nothing.
func (c *NoOpCache) Invalidate(ctx context.Context, service string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}
