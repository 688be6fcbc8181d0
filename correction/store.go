package correction

import (
	"sync"
	"time"

	"github.com/randalmurphal/focusflow/bucket"
)

// Store persists correction factors keyed by bucket. Implementations must
// make AddObservation atomic per key: two near-simultaneous completions
// touching the same bucket both land, never last-write-wins.
type Store interface {
	// Fetch returns the factor for a key. A miss is an expected state,
	// reported through the bool, not an error.
	Fetch(key bucket.Key) (*Factor, bool, error)

	// GetOrCreate returns the factor for a key, creating it with the given
	// priors if absent. Idempotent.
	GetOrCreate(key bucket.Key, priors bucket.Priors) (*Factor, error)

	// AddObservation folds one actual/baseline ratio into a key's factor,
	// creating the factor if this is its first observation.
	AddObservation(key bucket.Key, ratio float64, priors bucket.Priors) error

	// Reset removes all factors. Used by tests and account wipe only.
	Reset() error
}

// MemoryStore is an in-process Store. Reads return copies, so a fetched
// factor never observes later writes.
type MemoryStore struct {
	mu      sync.RWMutex
	factors map[bucket.Key]*Factor

	// now is swappable for tests.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		factors: make(map[bucket.Key]*Factor),
		now:     time.Now,
	}
}

// Fetch implements Store.
func (s *MemoryStore) Fetch(key bucket.Key) (*Factor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.factors[key]
	if !ok {
		return nil, false, nil
	}
	return f.clone(), true, nil
}

// GetOrCreate implements Store.
func (s *MemoryStore) GetOrCreate(key bucket.Key, priors bucket.Priors) (*Factor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.factors[key]
	if !ok {
		f = NewFactor(key, priors)
		s.factors[key] = f
	}
	return f.clone(), nil
}

// AddObservation implements Store. The read-modify-write happens under the
// store lock, so concurrent writers to the same key serialize.
func (s *MemoryStore) AddObservation(key bucket.Key, ratio float64, priors bucket.Priors) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.factors[key]
	if !ok {
		f = NewFactor(key, priors)
		s.factors[key] = f
	}
	f.observe(ratio, s.now())
	return nil
}

// Reset implements Store.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.factors = make(map[bucket.Key]*Factor)
	return nil
}

// Len returns the number of buckets with at least one touch (created lazily
// on first write or GetOrCreate).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.factors)
}
