// Package routecache memoizes per-pair route data (distances, paths).
//
// Keys are unordered tile pairs: (a, b) and (b, a) share one entry.
// Concurrent requests for the same pair are coalesced with singleflight.
package routecache

import (
	"encoding/binary"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/udisondev/libroute/internal/geo"
)

// DefaultShards is the shard count used when New is given a non-positive value.
const DefaultShards = 16

// Pair is a canonical unordered tile pair: A is never greater than B.
type Pair struct {
	A, B geo.Tile
}

// NewPair canonicalizes (from, to). swapped is true when from > to,
// i.e. the caller's direction runs from B to A.
func NewPair(from, to geo.Tile) (p Pair, swapped bool) {
	if from.Compare(to) > 0 {
		return Pair{A: to, B: from}, true
	}
	return Pair{A: from, B: to}, false
}

func (p Pair) hash() uint64 {
	var buf [24]byte
	for i, v := range [6]int32{p.A.X, p.A.Y, p.A.Level, p.B.X, p.B.Y, p.B.Level} {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return xxhash.Sum64(buf[:])
}

type shard[V any] struct {
	mu      sync.RWMutex
	entries map[Pair]V
}

// table is one generation of cache contents. Clear swaps in a new table,
// so writes finishing after a clear land in the discarded generation.
type table[V any] struct {
	gen    uint64
	shards []shard[V]
}

func newTable[V any](gen uint64, n int) *table[V] {
	t := &table[V]{gen: gen, shards: make([]shard[V], n)}
	for i := range t.shards {
		t.shards[i].entries = make(map[Pair]V)
	}
	return t
}

func (t *table[V]) shard(p Pair) *shard[V] {
	return &t.shards[p.hash()%uint64(len(t.shards))]
}

// Cache is a sharded, concurrency-safe map from unordered tile pairs to V.
type Cache[V any] struct {
	current atomic.Pointer[table[V]]
	group   singleflight.Group
	shards  int
}

// New creates an empty cache with the given number of shards.
func New[V any](shards int) *Cache[V] {
	if shards <= 0 {
		shards = DefaultShards
	}
	c := &Cache[V]{shards: shards}
	c.current.Store(newTable[V](0, shards))
	return c
}

// Get returns the value cached for the pair in either order.
func (c *Cache[V]) Get(p Pair) (V, bool) {
	s := c.current.Load().shard(p)
	s.mu.RLock()
	v, ok := s.entries[p]
	s.mu.RUnlock()
	return v, ok
}

// Put stores v for the pair.
func (c *Cache[V]) Put(p Pair, v V) {
	c.current.Load().put(p, v)
}

func (t *table[V]) put(p Pair, v V) {
	s := t.shard(p)
	s.mu.Lock()
	s.entries[p] = v
	s.mu.Unlock()
}

// GetOrCompute returns the cached value for p or computes, stores and returns it.
// Concurrent callers for the same pair share one compute invocation.
func (c *Cache[V]) GetOrCompute(p Pair, compute func() V) V {
	t := c.current.Load()

	s := t.shard(p)
	s.mu.RLock()
	v, ok := s.entries[p]
	s.mu.RUnlock()
	if ok {
		return v
	}

	res, _, _ := c.group.Do(t.flightKey(p), func() (any, error) {
		if v, ok := c.Get(p); ok {
			return v, nil
		}
		v := compute()
		t.put(p, v)
		return v, nil
	})
	v, _ = res.(V)
	return v
}

func (t *table[V]) flightKey(p Pair) string {
	return strconv.FormatUint(t.gen, 10) + ":" + p.A.String() + ":" + p.B.String()
}

// Len returns the number of cached pairs.
func (c *Cache[V]) Len() int {
	t := c.current.Load()
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Clear drops every entry in one atomic swap.
func (c *Cache[V]) Clear() {
	for {
		old := c.current.Load()
		if c.current.CompareAndSwap(old, newTable[V](old.gen+1, c.shards)) {
			return
		}
	}
}
