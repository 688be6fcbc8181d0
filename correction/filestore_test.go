package correction

import (
	"sync"
	"testing"

	"github.com/randalmurphal/focusflow/bucket"
)

func tempFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(FileStoreConfig{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := tempFileStore(t)
	priors := bucket.Priors{Mean: 1.4, Variance: 0.5}
	key := bucket.Key("dreading|15-30|work|*")

	if err := store.AddObservation(key, 1.5, priors); err != nil {
		t.Fatalf("AddObservation: %v", err)
	}
	if err := store.AddObservation(key, 0.5, priors); err != nil {
		t.Fatalf("AddObservation: %v", err)
	}

	f, ok, err := store.Fetch(key)
	if err != nil || !ok {
		t.Fatalf("Fetch: ok=%v err=%v", ok, err)
	}
	if f.ObservationCount != 2 {
		t.Errorf("ObservationCount = %d, want 2", f.ObservationCount)
	}
	if f.SumRatios != 2.0 {
		t.Errorf("SumRatios = %v, want 2.0", f.SumRatios)
	}
	if f.PriorMean != 1.4 {
		t.Errorf("PriorMean = %v, want 1.4", f.PriorMean)
	}
	if f.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestFileStoreFetchMiss(t *testing.T) {
	store := tempFileStore(t)

	_, ok, err := store.Fetch("*|*|*|*")
	if err != nil {
		t.Fatalf("Fetch miss returned error: %v", err)
	}
	if ok {
		t.Error("Fetch reported a factor that was never written")
	}
}

func TestFileStoreWildcardKeysDistinct(t *testing.T) {
	store := tempFileStore(t)
	priors := bucket.Priors{Mean: 1.0, Variance: 0.3}

	// Keys that differ only in wildcard placement must not collide on disk.
	keys := []bucket.Key{
		"dreading|15-30|work|moderate",
		"dreading|15-30|work|*",
		"dreading|15-30|*|*",
		"*|15-30|*|*",
		"*|*|*|*",
	}
	for i, key := range keys {
		for j := 0; j <= i; j++ {
			if err := store.AddObservation(key, 1.0, priors); err != nil {
				t.Fatalf("AddObservation(%s): %v", key, err)
			}
		}
	}

	for i, key := range keys {
		f, ok, err := store.Fetch(key)
		if err != nil || !ok {
			t.Fatalf("Fetch(%s): ok=%v err=%v", key, ok, err)
		}
		if f.ObservationCount != i+1 {
			t.Errorf("key %s: ObservationCount = %d, want %d", key, f.ObservationCount, i+1)
		}
	}

	factors, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(factors) != len(keys) {
		t.Errorf("List returned %d factors, want %d", len(factors), len(keys))
	}
}

func TestFileStoreConcurrentSameKeyWrites(t *testing.T) {
	store := tempFileStore(t)
	priors := bucket.Priors{Mean: 1.0, Variance: 0.3}
	key := bucket.Key("*|30-60|*|*")

	const writers = 4
	const perWriter = 10

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				store.AddObservation(key, 1.0, priors)
			}
		}()
	}
	wg.Wait()

	f, ok, _ := store.Fetch(key)
	if !ok {
		t.Fatal("bucket missing after concurrent writes")
	}
	if f.ObservationCount != writers*perWriter {
		t.Errorf("ObservationCount = %d, want %d", f.ObservationCount, writers*perWriter)
	}
}

func TestFileStoreReset(t *testing.T) {
	store := tempFileStore(t)
	store.AddObservation("*|*|*|*", 1.0, bucket.Priors{Mean: 1, Variance: 0.3})

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	_, ok, err := store.Fetch("*|*|*|*")
	if err != nil {
		t.Fatalf("Fetch after Reset: %v", err)
	}
	if ok {
		t.Error("factor survived Reset")
	}

	// Store remains usable after a reset.
	if err := store.AddObservation("*|*|*|*", 1.0, bucket.Priors{Mean: 1, Variance: 0.3}); err != nil {
		t.Errorf("AddObservation after Reset: %v", err)
	}
}
