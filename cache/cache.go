// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache memoizes transcode results.
//
// Transcoding Basis Universal data is the expensive step of loading a KTX2
// asset; the bytes that come out are deterministic for a given source
// container, target format and flags. TranscodeCache keys results by a
// BLAKE3 digest of exactly those inputs, so repeated loads of the same asset
// skip the transcoder entirely.
package cache

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/gogpu/ktx"
)

// Default configuration constants.
const (
	// shardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 64

	shardMask = shardCount - 1
)

// Key identifies one transcode result: a BLAKE3 digest of the source
// container bytes, the target format and the transcode flags.
type Key [32]byte

// KeyFor computes the cache key for transcoding source to format with flags.
// Identical inputs always produce the same key.
func KeyFor(source []byte, format ktx.TranscodeFormat, flags ktx.TranscodeFlags) Key {
	h := blake3.New()
	_, _ = h.Write(source) // blake3.Write never returns an error

	var tail [8]byte
	binary.LittleEndian.PutUint32(tail[0:4], uint32(format))
	binary.LittleEndian.PutUint32(tail[4:8], uint32(flags))
	_, _ = h.Write(tail[:])

	var key Key
	h.Sum(key[:0])
	return key
}

// TranscodeCache is a thread-safe, sharded LRU cache mapping transcode keys
// to serialized KTX2 containers.
//
// Cached byte slices are shared between callers and must not be modified.
type TranscodeCache struct {
	shards   [shardCount]*shard
	capacity int // per-shard

	// Statistics, atomic for zero-allocation reads.
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// shard is one lock domain of the cache.
type shard struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	lru     *lruList
}

// entry holds a cached container with its LRU node.
type entry struct {
	data []byte
	node *lruNode
}

// New creates a transcode cache holding up to capacity entries per shard
// (total capacity is capacity * 16). If capacity <= 0, DefaultCapacity is
// used.
func New(capacity int) *TranscodeCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &TranscodeCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[Key]*entry),
			lru:     newLRUList(),
		}
	}
	return c
}

// getShard selects the shard for a key. The key is already a uniform digest,
// so its first bytes serve directly as the shard hash.
func (c *TranscodeCache) getShard(key Key) *shard {
	return c.shards[binary.LittleEndian.Uint64(key[:8])&shardMask]
}

// Get returns the cached container for key. On a hit the entry moves to the
// front of the LRU list.
func (c *TranscodeCache) Get(key Key) ([]byte, bool) {
	s := c.getShard(key)

	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil, false
	}

	// Write lock for the LRU update; re-check, the entry may have been
	// evicted in between.
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}
	s.lru.MoveToFront(e.node)
	data := e.data
	s.mu.Unlock()

	c.hits.Add(1)
	return data, true
}

// Put stores a container under key, evicting least recently used entries
// when the shard is full. The slice is stored as-is, not copied.
func (c *TranscodeCache) Put(key Key, data []byte) {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		existing.data = data
		s.lru.MoveToFront(existing.node)
		return
	}

	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}

	node := s.lru.PushFront(key)
	s.entries[key] = &entry{data: data, node: node}
}

// Transcode returns the serialized transcoded form of source, from cache
// when possible. On a miss it opens source, transcodes its Basis data to
// format, serializes the result and caches it.
//
// The returned bytes are shared with the cache and must not be modified.
func (c *TranscodeCache) Transcode(source []byte, format ktx.TranscodeFormat, flags ktx.TranscodeFlags) ([]byte, error) {
	key := KeyFor(source, format, flags)
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	tex, err := ktx.OpenMemory(source, ktx.CreateFlagLoadImageData)
	if err != nil {
		return nil, err
	}
	defer tex.Destroy()

	k2, ok := tex.KTX2()
	if !ok {
		return nil, &ktx.Error{Op: "Transcode", Code: ktx.InvalidOperation}
	}
	if err := k2.TranscodeBasis(format, flags); err != nil {
		return nil, err
	}
	data, err := tex.WriteMemory()
	if err != nil {
		return nil, err
	}

	c.Put(key, data)
	ktx.Logger().Debug("ktx: transcode cached",
		"format", format.String(),
		"size", len(data))
	return data, nil
}

// Delete removes an entry, reporting whether it was present.
func (c *TranscodeCache) Delete(key Key) bool {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes all entries.
func (c *TranscodeCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[Key]*entry)
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *TranscodeCache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Capacity returns the per-shard capacity.
func (c *TranscodeCache) Capacity() int { return c.capacity }

// Stats describes cache state and effectiveness.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the per-shard capacity.
	Capacity int
	// TotalCapacity is the total capacity across all shards.
	TotalCapacity int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate, 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of evicted entries.
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *TranscodeCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:           c.Len(),
		Capacity:      c.capacity,
		TotalCapacity: c.capacity * shardCount,
		Hits:          hits,
		Misses:        misses,
		HitRate:       hitRate,
		Evictions:     c.evictions.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *TranscodeCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
