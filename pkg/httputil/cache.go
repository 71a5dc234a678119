package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live (TTL).
//
// The stale data is left on disk; callers should fetch fresh data from the
// source and refresh the entry with [Cache.Set].
//
// Use errors.Is to check for this error:
//
//	ok, err := cache.Get("key", &value)
//	if errors.Is(err, httputil.ErrExpired) {
//	    // Fetch fresh data and update cache
//	}
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of arbitrary JSON-marshalable data.
//
// Each entry is a JSON file in the cache directory named by the SHA-256
// hash of its key, so keys may contain any characters (URLs included)
// without escaping concerns.
//
// A Cache instance is not goroutine-safe; callers sharing one across
// goroutines must synchronize. Separate instances (and separate
// processes) can share a directory, since each operation is a single
// atomic filesystem call.
//
// Entry age is tracked through file modification time and compared
// against the TTL on every read. A TTL of 0 means entries never expire.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys, avoiding collisions between different data sources:
//
//	docs := cache.Namespace("doc:")
//	docs.Set("https://example.com/map.mm", data)  // key becomes "doc:https://example.com/map.mm"
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache that stores entries in dir with the given TTL.
//
// If dir is empty, NewCache uses the default directory ~/.cache/conetree/.
// The directory is created with mode 0755 if it doesn't exist; directory
// creation is the only possible source of failure.
//
// Parameters:
//   - dir: Cache directory path. Use "" for default (~/.cache/conetree/).
//   - ttl: Time-to-live for cache entries. Use 0 for no expiration.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "conetree")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, prefix: ""}, nil
}

// Dir returns the absolute path to the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the time-to-live duration for cache entries.
// A TTL of 0 means cache entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// The return values distinguish four outcomes:
//   - (true, nil): Cache hit. The value was found, is fresh, and unmarshaled into v.
//   - (false, nil): Cache miss. No entry exists for this key. v is unchanged.
//   - (false, ErrExpired): Entry exists but exceeded its TTL. v is unchanged.
//   - (false, other error): I/O error, JSON unmarshal error, etc. v may be partially modified.
//
// The value v must be a pointer to a type compatible with json.Unmarshal,
// such as *string, *[]byte, *map[string]any, or a pointer to a struct
// with JSON tags.
//
// Get never modifies the cache; reading an entry does not refresh its
// modification time.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores a value in the cache under the given key.
//
// The value is marshaled with encoding/json and written to disk, so
// anything json.Marshal rejects (channels, functions) is an error, as is
// any underlying write failure.
//
// Set overwrites an existing entry, resetting its modification time and
// so restarting its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache that prefixes every key with
// prefix. The view shares the parent's directory and TTL.
//
// Namespacing keeps different data sources from colliding on short keys:
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	docCache := cache.Namespace("doc:")
//	docCache.Set(url, body)  // Stored as "doc:<url>"
//
// Calls chain, concatenating prefixes:
//
//	cache.Namespace("remote:").Namespace("doc:")  // prefix: "remote:doc:"
//
// An empty prefix is valid and results in no key transformation.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
