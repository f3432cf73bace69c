package repository

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/okian/territory/pkg/metrics"
)

type cached[V any] struct {
	value V
	seq   uint64
}

// RunCache memoizes assignment results by RunKey. When full, the oldest
// entry is evicted. A capacity of zero disables caching.
type RunCache[V any] struct {
	entries  *xsync.Map[string, cached[V]]
	capacity int
	seq      atomic.Uint64
	// untracked caches do not feed the run cache metrics.
	untracked bool
}

// NewRunCache creates a cache holding at most capacity runs.
func NewRunCache[V any](capacity int) *RunCache[V] {
	return &RunCache[V]{
		entries:  xsync.NewMap[string, cached[V]](),
		capacity: capacity,
	}
}

func newUntrackedCache[V any](capacity int) *RunCache[V] {
	c := NewRunCache[V](capacity)
	c.untracked = true
	return c
}

// Get returns the memoized value for key.
func (c *RunCache[V]) Get(key string) (V, bool) {
	e, ok := c.entries.Load(key)
	if !c.untracked {
		metrics.RecordCacheLookup(ok)
	}
	return e.value, ok
}

// Put stores v under key.
func (c *RunCache[V]) Put(key string, v V) {
	if c.capacity <= 0 {
		return
	}
	c.entries.Store(key, cached[V]{value: v, seq: c.seq.Add(1)})
	for c.entries.Size() > c.capacity {
		c.evictOldest()
	}
	if !c.untracked {
		metrics.UpdateCacheEntries(c.entries.Size())
	}
}

// Clear drops every entry.
func (c *RunCache[V]) Clear() {
	c.entries.Clear()
	if !c.untracked {
		metrics.UpdateCacheEntries(0)
	}
}

// Len returns the number of cached runs.
func (c *RunCache[V]) Len() int {
	return c.entries.Size()
}

func (c *RunCache[V]) evictOldest() {
	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	c.entries.Range(func(k string, e cached[V]) bool {
		if !found || e.seq < oldestSeq {
			oldestKey, oldestSeq, found = k, e.seq, true
		}
		return true
	})
	if found {
		c.entries.Delete(oldestKey)
	}
}
