package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ResponseCache stores raw provider results on disk keyed by a digest of the
// provider, model and prompt. It exists for repeated identical queries during
// development; grounded answers are time-sensitive, so the cache is off
// unless a directory is configured.
type ResponseCache struct {
	Dir string
}

// Key builds a cache key for one query. The system hint is part of the
// digest because it changes the answer (e.g. the response language).
func Key(provider, model, hint, prompt string) string {
	h := sha256.Sum256([]byte(provider + "\n" + model + "\n" + hint + "\n\n" + prompt))
	return hex.EncodeToString(h[:])
}

func (c *ResponseCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *ResponseCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns cached bytes if present. A missing entry is not an error.
func (c *ResponseCache) Get(_ context.Context, key string) ([]byte, bool) {
	if err := c.ensureDir(); err != nil {
		return nil, false
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	// Touch mtime on access so age-based purging behaves like LRU.
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return b, true
}

// Save writes bytes to the cache. Failures are returned but callers treat
// them as non-fatal; a broken cache must never break the query.
func (c *ResponseCache) Save(_ context.Context, key string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(key), data, 0o644)
}

// PurgeByAge removes cache entries whose modification time is older than
// maxAge, returning how many were removed. maxAge <= 0 disables purging.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 || strings.TrimSpace(dir) == "" {
		return 0, nil
	}
	now := time.Now()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) <= maxAge {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return removed, nil
	}
	return removed, err
}
