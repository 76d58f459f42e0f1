package grammar

import (
	"strconv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of compiled grammars a Cache holds when no
// size is given.
const DefaultCacheSize = 4096

// Cache of compiled grammars keyed by the content of their source text.
//
// Compilation is deterministic, so while a grammar stays cached every caller
// building the same text receives the same *Parser. Concurrent builds of the
// same text share a single compilation. A Cache is safe for concurrent use
// and is intended to live for a single document build.
type Cache struct {
	entries *lru.Cache[uint64, *cacheEntry]
	flight  singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheEntry struct {
	src    string
	parser *Parser
	err    error
}

// CacheStats summarises Cache usage.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewCache creates a Cache holding up to size grammars. A size of zero or
// less uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[uint64, *cacheEntry](size)
	if err != nil {
		panic(err)
	}
	return &Cache{entries: entries}
}

// Build returns the compiled grammar for src, compiling it at most once.
//
// Results, including errors, are cached. Positions in errors are relative to
// src and carry no filename.
func (c *Cache) Build(src string) (*Parser, error) {
	key := xxhash.Sum64String(src)
	if entry, ok := c.entries.Get(key); ok && entry.src == src {
		c.hits.Add(1)
		return entry.parser, entry.err
	}
	c.misses.Add(1)
	v, _, _ := c.flight.Do(strconv.FormatUint(key, 16), func() (interface{}, error) {
		parser, err := Build("", src)
		entry := &cacheEntry{src: src, parser: parser, err: err}
		// The first stored result wins, so racing builders agree on identity.
		if prev, ok, _ := c.entries.PeekOrAdd(key, entry); ok && prev.src == src {
			return prev, nil
		}
		return entry, nil
	})
	entry := v.(*cacheEntry)
	if entry.src != src {
		// Hash collision with a different grammar compiled concurrently.
		return Build("", src)
	}
	return entry.parser, entry.err
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.entries.Len()}
}
