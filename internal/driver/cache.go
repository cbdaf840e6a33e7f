package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"basfmt/internal/indent"
)

// Increment when the payload layout changes.
const cacheSchemaVersion uint16 = 1

// Cache remembers which content digests are already formatted for a given
// option set, so repeated runs over an unchanged tree skip the pipeline.
// It is strictly an optimization: every hit was proven by a real formatting
// pass over the same bytes, and a missing or corrupt cache only costs time.
// A nil *Cache is valid and always misses.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema       uint16
	TabSize      int
	InsertSpaces bool
}

// OpenCache initializes the cache at the standard user cache location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "fmt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [sha256.Size]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// IsFormatted reports whether the digest was recorded as formatted under the
// same options.
func (c *Cache) IsFormatted(key [sha256.Size]byte, opt indent.Options) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false
	}
	return payload.Schema == cacheSchemaVersion &&
		payload.TabSize == opt.TabSize &&
		payload.InsertSpaces == opt.InsertSpaces
}

// MarkFormatted records that content with this digest is formatted under the
// given options. Failures are swallowed; the worst case is a redundant
// formatting pass next run.
func (c *Cache) MarkFormatted(key [sha256.Size]byte, opt indent.Options) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachePayload{
		Schema:       cacheSchemaVersion,
		TabSize:      opt.TabSize,
		InsertSpaces: opt.InsertSpaces,
	}

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return
	}
	name := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return
	}
	// atomic replace
	if err := os.Rename(name, c.pathFor(key)); err != nil {
		_ = os.Remove(name)
	}
}

// Clear drops every cache entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
