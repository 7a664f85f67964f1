package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when diskEntry format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache keeps resolved rule details on disk between runs.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskEntry struct {
	Schema   uint16
	Details  Details
	StoredAt int64 // unix seconds
}

// OpenDiskCache opens the cache at the standard location for app
// ($XDG_CACHE_HOME/<app>/rules, or ~/.cache/<app>/rules).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "rules"), 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, "rules", hex.EncodeToString(sum[:])+".mp")
}

// Put stores details under d.Key.
func (c *DiskCache) Put(d Details) error {
	if c == nil {
		return nil
	}
	if d.Key == "" {
		return errors.New("rule cache: empty rule key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(d.Key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&diskEntry{
		Schema:   diskCacheSchemaVersion,
		Details:  d,
		StoredAt: time.Now().Unix(),
	}); err != nil {
		_ = f.Close()
		return fmt.Errorf("rule cache: encode %q: %w", d.Key, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get reads details for key. Entries written with another schema version are
// reported as misses.
func (c *DiskCache) Get(key string) (Details, bool, error) {
	if c == nil {
		return Details{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Details{}, false, nil
		}
		return Details{}, false, err
	}
	defer f.Close()

	var entry diskEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return Details{}, false, fmt.Errorf("rule cache: decode %q: %w", key, err)
	}
	if entry.Schema != diskCacheSchemaVersion || entry.Details.Key != key {
		return Details{}, false, nil
	}
	return entry.Details, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "rules")
	old := dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

type cachedResolver struct {
	next  Resolver
	cache *DiskCache
}

// Cached returns a resolver that answers from cache first and stores every
// match of next. Cache failures degrade to asking next.
func Cached(next Resolver, cache *DiskCache) Resolver {
	if next == nil {
		next = None
	}
	return &cachedResolver{next: next, cache: cache}
}

func (r *cachedResolver) Lookup(key string) (Details, bool) {
	if d, ok, err := r.cache.Get(key); err == nil && ok {
		return d, true
	}
	d, ok := r.next.Lookup(key)
	if !ok {
		return Details{}, false
	}
	if d.Key == "" {
		d.Key = key
	}
	_ = r.cache.Put(d)
	return d, true
}
