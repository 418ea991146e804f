// Package cache provides a byte-accounted LRU store for loaded models.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
)

// DefaultCapacity is the default cache capacity in bytes (100 MiB).
const DefaultCapacity = 100 * 1024 * 1024

// Entry wraps a cached model with its accounting data. The cache exclusively
// owns the entry's model; lookups hand out clones, never the cached instance.
type Entry struct {
	Key            string
	SizeBytes      int64
	AccessCount    int64
	LastAccessTime time.Time
	InsertTime     time.Time

	model *model.AnimatedModel
}

// Stats is a snapshot of cache accounting.
type Stats struct {
	SizeBytes     int64
	CapacityBytes int64
	EntryCount    int
	HitRate       float64
	Hits          int64
	Misses        int64
	Evictions     int64
}

// Cache is an LRU model cache with capacity expressed in bytes. Eviction is
// by oldest last-access time, and runs on Put until the new entry fits.
type Cache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	entries  map[string]*Entry

	// hits/misses accumulate for the life of the process and are never
	// reset implicitly; Clear keeps them.
	hits      int64
	misses    int64
	evictions int64

	log *zap.Logger
	now func() time.Time
}

// New creates a cache with the given capacity in bytes. A capacity of zero
// or below falls back to DefaultCapacity.
func New(capacityBytes int64, log *zap.Logger) *Cache {
	if capacityBytes <= 0 {
		capacityBytes = DefaultCapacity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		capacity: capacityBytes,
		entries:  make(map[string]*Entry),
		log:      log,
		now:      time.Now,
	}
}

// Get returns a clone of the cached model for key, or (nil, false) on miss.
// A hit increments the entry's access count and refreshes its last-access
// time.
func (c *Cache) Get(key string) (*model.AnimatedModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	c.hits++
	entry.AccessCount++
	entry.LastAccessTime = c.now()
	return entry.model.Clone(), true
}

// Entry returns a snapshot of the accounting data for key, without touching
// access statistics.
func (c *Cache) Entry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	snapshot := *entry
	snapshot.model = nil
	return snapshot, true
}

// Put stores a clone of m under key, evicting least-recently-used entries
// until it fits. An entry larger than the whole capacity is still admitted
// after evicting everything else; rejecting it would starve oversized
// single assets. Replacing an existing key disposes the old model.
func (c *Cache) Put(key string, m *model.AnimatedModel) {
	if m == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	size := m.Meta.MemoryBytes

	if old, ok := c.entries[key]; ok {
		c.size -= old.SizeBytes
		delete(c.entries, key)
		old.model.Dispose()
	}

	for c.size+size > c.capacity && len(c.entries) > 0 {
		c.evictOldestLocked()
	}

	now := c.now()
	c.entries[key] = &Entry{
		Key:            key,
		SizeBytes:      size,
		LastAccessTime: now,
		InsertTime:     now,
		model:          m.Clone(),
	}
	c.size += size

	c.log.Debug("cache put",
		zap.String("key", key),
		zap.Int64("sizeBytes", size),
		zap.Int64("cacheSize", c.size),
		zap.Int("entries", len(c.entries)))
}

// evictOldestLocked removes the entry with the oldest last-access time and
// disposes its model. Caller holds the lock.
func (c *Cache) evictOldestLocked() {
	var oldest *Entry
	for _, e := range c.entries {
		if oldest == nil || e.LastAccessTime.Before(oldest.LastAccessTime) {
			oldest = e
		}
	}
	if oldest == nil {
		return
	}

	delete(c.entries, oldest.Key)
	c.size -= oldest.SizeBytes
	c.evictions++
	oldest.model.Dispose()

	c.log.Debug("cache evict",
		zap.String("key", oldest.Key),
		zap.Int64("sizeBytes", oldest.SizeBytes),
		zap.Int64("accessCount", oldest.AccessCount))
}

// Remove deletes a single entry and disposes its model. Returns false if
// the key is absent.
func (c *Cache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	c.size -= entry.SizeBytes
	entry.model.Dispose()
	return true
}

// Clear evicts every entry, disposing each model. Hit-rate accounting is
// preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		entry.model.Dispose()
		delete(c.entries, key)
	}
	c.size = 0
}

// Stats returns a snapshot of the cache accounting.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		SizeBytes:     c.size,
		CapacityBytes: c.capacity,
		EntryCount:    len(c.entries),
		HitRate:       hitRate,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
	}
}
