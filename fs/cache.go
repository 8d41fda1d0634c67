package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/getdocsy/docsee"
	"github.com/google/uuid"
)

// Ensure CachedResource implements docsee.BundleProvider at compile time.
var _ docsee.BundleProvider = (*CachedResource)(nil)

// CachedResource is a short-lived on-disk cache for downloaded bundle
// artifacts. Every instance owns a fresh unique directory; Remove deletes
// it along with everything inside.
type CachedResource struct {
	dir string

	mu        sync.Mutex
	checksums map[string]uint64
}

// NewCachedResource creates an empty cache in a unique directory under the
// system temp dir.
func NewCachedResource() (*CachedResource, error) {
	dir := filepath.Join(os.TempDir(), "docsee-cache-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &CachedResource{
		dir:       dir,
		checksums: map[string]uint64{},
	}, nil
}

// Dir returns the cache's directory.
func (c *CachedResource) Dir() string {
	return c.dir
}

// Put stores data under a cache-relative path and records its checksum.
func (c *CachedResource) Put(path string, data []byte) error {
	full := filepath.Join(c.dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating cache subdirectory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("writing cached resource %q: %w", path, err)
	}

	c.mu.Lock()
	c.checksums[path] = xxhash.Sum64(data)
	c.mu.Unlock()
	return nil
}

// Data reads a cached resource back, verifying it against the checksum
// recorded at Put time.
func (c *CachedResource) Data(ctx context.Context, path string) ([]byte, error) {
	c.mu.Lock()
	sum, ok := c.checksums[path]
	c.mu.Unlock()
	if !ok {
		return nil, docsee.Errorf(docsee.ENOTFOUND, "cached resource %q not found", path)
	}

	full := filepath.Join(c.dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading cached resource %q: %w", path, err)
	}
	if xxhash.Sum64(data) != sum {
		return nil, docsee.Errorf(docsee.EINTERNAL, "cached resource %q failed integrity check", path)
	}
	return data, nil
}

// Remove deletes the cache directory and all of its contents.
func (c *CachedResource) Remove() error {
	c.mu.Lock()
	c.checksums = map[string]uint64{}
	c.mu.Unlock()
	return os.RemoveAll(c.dir)
}
