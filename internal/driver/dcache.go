package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/junaire/brandy/internal/dom"
)

// CacheSchemaVersion stamps cached summaries - increment when DomSummary
// format changes.
const CacheSchemaVersion uint16 = 1

// Digest keys a cached entry by the function's content hash.
type Digest [sha256.Size]byte

// DomSummary is the cacheable slice of a function's dominator info: block
// layout, immediate-dominator edges and frontier sets, all by block name.
type DomSummary struct {
	Schema   uint16
	Function string
	Blocks   []string
	IDom     map[string]string
	Frontier map[string][]string
}

// Summarize flattens dominator info into its cacheable form.
func Summarize(info *dom.Info) *DomSummary {
	fn := info.G.Fn
	s := &DomSummary{
		Schema:   CacheSchemaVersion,
		Function: fn.Name,
		IDom:     make(map[string]string),
		Frontier: make(map[string][]string),
	}
	for _, bb := range fn.Blocks {
		s.Blocks = append(s.Blocks, bb.Name)
		if idom := info.IDom[bb]; idom != nil {
			s.IDom[bb.Name] = idom.Name
		}
		for _, f := range info.Frontier[bb] {
			s.Frontier[bb.Name] = append(s.Frontier[bb.Name], f.Name)
		}
	}
	return s
}

// FunctionKey hashes a function's JSON object into its cache key.
func FunctionKey(raw map[string]any) (Digest, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Digest{}, fmt.Errorf("hash function: %w", err)
	}
	return sha256.Sum256(data), nil
}

// DiskCache stores dominator summaries keyed by function digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes the cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "doms", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a summary, replacing any previous entry
// atomically.
func (c *DiskCache) Put(key Digest, s *DomSummary) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a summary. Returns false on a miss or a schema mismatch.
func (c *DiskCache) Get(key Digest) (*DomSummary, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var s DomSummary
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, false, err
	}
	if s.Schema != CacheSchemaVersion {
		return nil, false, nil
	}
	return &s, true, nil
}
