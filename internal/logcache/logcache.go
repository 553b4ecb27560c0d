// Package logcache is a content-addressed cache of build logs fetched via
// "nix log", keyed by the derivation path they belong to. It exists so a
// failing build's log isn't re-fetched from the daemon on every retry or
// every "ng os build --show-log"-style invocation against the same
// derivation.
package logcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Cache stores fetched build logs on disk, keyed by a SHA-256 hash of the
// derivation path that produced them.
type Cache struct {
	dir string
}

// New creates a Cache rooted at dir, creating it if necessary.
func New(dir string) (*Cache, error) {
	objDir := filepath.Join(dir, "objects")
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log cache directory %s: %w", objDir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns the default cache directory: $XDG_CACHE_HOME/ng or
// ~/.cache/ng, falling back to a temp directory if the home directory
// can't be resolved.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ng")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return filepath.Join(os.TempDir(), "ng-cache")
		}
		return filepath.Join("/tmp", "ng-cache")
	}
	return filepath.Join(home, ".cache", "ng")
}

// Key returns the cache key for a derivation path.
func Key(drvPath string) string {
	h := sha256.Sum256([]byte(drvPath))
	return hex.EncodeToString(h[:])
}

// Get returns the cached log for drvPath, and false if nothing is cached
// for it yet.
func (c *Cache) Get(drvPath string) (string, bool, error) {
	path := c.objectPath(Key(drvPath))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cached log for %s: %w", drvPath, err)
	}
	return string(data), true, nil
}

// Put stores log under drvPath's key, writing atomically via a temp file
// plus rename so a concurrent Get never observes a partial write.
func (c *Cache) Put(drvPath, log string) error {
	path := c.objectPath(Key(drvPath))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log cache subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating log cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(log); err != nil {
		return fmt.Errorf("writing log cache temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing log cache temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing log cache temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming log cache temp file: %w", err)
	}

	success = true
	return nil
}

// Has reports whether a log for drvPath is already cached.
func (c *Cache) Has(drvPath string) bool {
	_, err := os.Stat(c.objectPath(Key(drvPath)))
	return err == nil
}

// Path returns the cache's root directory.
func (c *Cache) Path() string { return c.dir }

func (c *Cache) objectPath(key string) string {
	if len(key) < 2 {
		return filepath.Join(c.dir, "objects", key)
	}
	return filepath.Join(c.dir, "objects", key[:2], key)
}
