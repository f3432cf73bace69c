package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides time.Now for LoadedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOnReplace registers a hook run after every successful Replace,
// e.g. to invalidate a RunCache.
func WithOnReplace(fn func(*Dataset)) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.onReplace = append(s.onReplace, fn)
		}
	}
}

// WithBaseLoadLimit caps how many weight vectors keep memoized base loads.
// Values below one are raised to one so the active weights stay cached.
func WithBaseLoadLimit(n int) Option {
	return func(s *MemoryStore) {
		s.memoLimit = max(n, 1)
	}
}
