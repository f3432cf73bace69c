package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/domain/scoring"
)

// baseLoadWeights is the part of the weight vector base loads depend on.
func baseLoadWeights(w scoring.Weights) scoring.Weights {
	w.Location = 0
	return w
}

// generation pairs a dataset with its base load memo so both are swapped together.
type generation struct {
	data      *Dataset
	baseLoads *RunCache[[]model.AccountWithBaseLoad]
}

// DefaultBaseLoadLimit is the number of weight vectors whose base loads are
// kept per dataset when WithBaseLoadLimit is not given.
const DefaultBaseLoadLimit = 16

// MemoryStore is an in-memory Store. Reads are lock-free; Replace is serialized.
type MemoryStore struct {
	current   atomic.Pointer[generation]
	mu        sync.Mutex
	now       func() time.Time
	onReplace []func(*Dataset)
	memoLimit int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now, memoLimit: DefaultBaseLoadLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store.Replace. The slices are copied.
func (s *MemoryStore) Replace(_ context.Context, accounts []model.Account, reps []model.Rep, source string) (*Dataset, error) {
	d := &Dataset{
		Accounts:    append([]model.Account(nil), accounts...),
		Reps:        append([]model.Rep(nil), reps...),
		Fingerprint: Fingerprint(accounts, reps),
		Source:      source,
		LoadedAt:    s.now(),
	}

	s.mu.Lock()
	s.current.Store(&generation{
		data:      d,
		baseLoads: newUntrackedCache[[]model.AccountWithBaseLoad](s.memoLimit),
	})
	hooks := s.onReplace
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(d)
	}
	return d, nil
}

// Current implements Store.Current.
func (s *MemoryStore) Current(_ context.Context) (*Dataset, error) {
	g := s.current.Load()
	if g == nil {
		return nil, ErrNoDataset
	}
	return g.data, nil
}

// BaseLoads implements Store.BaseLoads. The location weight does not affect
// base loads, so vectors that differ only there share one entry. At most
// the configured limit of vectors is kept; the oldest is evicted first.
func (s *MemoryStore) BaseLoads(_ context.Context, w scoring.Weights) (*Dataset, []model.AccountWithBaseLoad, error) {
	g := s.current.Load()
	if g == nil {
		return nil, nil, ErrNoDataset
	}
	key := WeightsKey(baseLoadWeights(w))
	if loads, ok := g.baseLoads.Get(key); ok {
		return g.data, loads, nil
	}
	loads, err := scoring.BaseLoads(g.data.Accounts, w)
	if err != nil {
		return nil, nil, err
	}
	g.baseLoads.Put(key, loads)
	return g.data, loads, nil
}

// Memoized reports how many weight vectors have cached base loads.
func (s *MemoryStore) Memoized() int {
	g := s.current.Load()
	if g == nil {
		return 0
	}
	return g.baseLoads.Len()
}
