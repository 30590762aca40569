package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type loadFunc func(ctx context.Context, path string, opts LoadOptions) (*Dataset, error)

// sourceKey identifies one version of a source file.
type sourceKey struct {
	modTime int64
	size    int64
}

type cacheEntry struct {
	key     sourceKey
	dataset *Dataset
}

// Cache memoises LoadRecords per source file. An entry is reused while the
// file's modification time and size are unchanged.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	opts    LoadOptions
	load    loadFunc
}

func NewCache(opts LoadOptions) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		opts:    opts.withDefaults(),
		load:    LoadRecords,
	}
}

// Load returns the cleaned dataset for path, reading the file only when it
// is not cached or has changed since it was cached.
func (c *Cache) Load(ctx context.Context, path string) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		c.Invalidate(abs)
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, path, err)
	}
	key := sourceKey{modTime: info.ModTime().UnixNano(), size: info.Size()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[abs]; ok && entry.key == key {
		return entry.dataset, nil
	}

	ds, err := c.load(ctx, abs, c.opts)
	if err != nil {
		return nil, err
	}
	c.entries[abs] = cacheEntry{key: key, dataset: ds}
	c.opts.Logger.Debug("sales cache refreshed", "source", abs, "records", len(ds.Records))
	return ds, nil
}

func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}
