package correction

import (
	"errors"
	"math"
	"testing"

	"github.com/randalmurphal/focusflow/bucket"
	fferrors "github.com/randalmurphal/focusflow/errors"
)

func testAttrs() bucket.Attributes {
	return bucket.Attributes{
		Engagement: bucket.EngagementDreading,
		Duration:   bucket.Duration15To30,
		Category:   bucket.CategoryWork,
		Complexity: bucket.ComplexityModerate,
	}
}

// seed adds n observations of the given ratio to one key.
func seed(t *testing.T, store Store, key bucket.Key, priors bucket.Priors, ratio float64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := store.AddObservation(key, ratio, priors); err != nil {
			t.Fatalf("AddObservation: %v", err)
		}
	}
}

func TestPosteriorEqualsPriorWithNoObservations(t *testing.T) {
	priors := bucket.DefaultPriors(bucket.EngagementDreading)
	f := NewFactor("dreading|15-30|work|moderate", priors)

	if got := f.PosteriorMean(); got != priors.Mean {
		t.Errorf("PosteriorMean() = %v, want exactly %v", got, priors.Mean)
	}
}

func TestPosteriorShrinksTowardPrior(t *testing.T) {
	priors := bucket.Priors{Mean: 1.0, Variance: 0.3}

	for _, n := range []int{1, 2, 5, 20, 100} {
		f := NewFactor("k", priors)
		for i := 0; i < n; i++ {
			f.observe(2.0, f.LastUpdated)
		}

		observed, _ := f.ObservedMean()
		mu := f.PosteriorMean()

		// Monotone shrinkage: posterior strictly between prior and
		// observed mean when they differ.
		if mu <= priors.Mean || mu >= observed {
			t.Errorf("n=%d: posterior %v not strictly between prior %v and observed %v",
				n, mu, priors.Mean, observed)
		}
	}
}

func TestPosteriorApproachesObservedMean(t *testing.T) {
	priors := bucket.Priors{Mean: 1.0, Variance: 0.3}

	f := NewFactor("k", priors)
	f.observe(2.0, f.LastUpdated)
	small := f.PosteriorMean()

	for i := 0; i < 99; i++ {
		f.observe(2.0, f.LastUpdated)
	}
	large := f.PosteriorMean()

	if large <= small {
		t.Errorf("posterior should move toward observed mean as n grows: n=1 %v, n=100 %v", small, large)
	}
	if math.Abs(large-2.0) > 0.1 {
		t.Errorf("posterior with 100 observations = %v, want near 2.0", large)
	}
}

func TestPosteriorCoincidingPriorAndObserved(t *testing.T) {
	priors := bucket.Priors{Mean: 1.5, Variance: 0.3}
	f := NewFactor("k", priors)
	f.observe(1.5, f.LastUpdated)

	if got := f.PosteriorMean(); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("PosteriorMean() = %v, want 1.5 when prior and observed coincide", got)
	}
}

func TestConfidenceBoundaries(t *testing.T) {
	tests := []struct {
		n    int
		want Confidence
	}{
		{0, ConfidenceVeryLow},
		{2, ConfidenceVeryLow},
		{3, ConfidenceLow},
		{5, ConfidenceLow},
		{6, ConfidenceMedium},
		{11, ConfidenceMedium},
		{12, ConfidenceGood},
		{19, ConfidenceGood},
		{20, ConfidenceHigh},
		{1000, ConfidenceHigh},
	}

	for _, tt := range tests {
		if got := ConfidenceForCount(tt.n); got != tt.want {
			t.Errorf("ConfidenceForCount(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestLookupPrefersMostSpecificBucket(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)
	attrs := testAttrs()
	priors := bucket.DefaultPriors(attrs.Engagement)
	keys := bucket.ResolveKeys(attrs)

	// Specific bucket says 2.0, global says 1.1; both above threshold.
	seed(t, store, keys[0], priors, 2.0, 5)
	seed(t, store, keys[4], priors, 1.1, 25)

	lookup, err := est.Lookup(attrs)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if lookup.Key != keys[0] {
		t.Errorf("served from %s, want most specific %s", lookup.Key, keys[0])
	}
	if lookup.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %s, want %s", lookup.Confidence, ConfidenceLow)
	}
}

func TestLookupSkipsThinBuckets(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)
	attrs := testAttrs()
	priors := bucket.DefaultPriors(attrs.Engagement)
	keys := bucket.ResolveKeys(attrs)

	// Specific bucket below threshold, duration-level bucket above it.
	seed(t, store, keys[0], priors, 3.0, 2)
	seed(t, store, keys[3], priors, 1.2, 8)

	lookup, err := est.Lookup(attrs)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if lookup.Key != keys[3] {
		t.Errorf("served from %s, want %s", lookup.Key, keys[3])
	}

	// The fallback search must never serve a bucket under the threshold.
	f, ok, _ := store.Fetch(lookup.Key)
	if !ok || f.ObservationCount < est.MinObservations() {
		t.Errorf("served bucket has %d observations, threshold %d", f.ObservationCount, est.MinObservations())
	}
}

func TestLookupFallsBackToPopulationDefault(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)
	attrs := testAttrs()
	priors := bucket.DefaultPriors(attrs.Engagement)

	// Everything below threshold.
	for _, key := range bucket.ResolveKeys(attrs) {
		seed(t, store, key, priors, 5.0, 2)
	}

	lookup, err := est.Lookup(attrs)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if lookup.Factor != priors.Mean {
		t.Errorf("Factor = %v, want engagement default %v", lookup.Factor, priors.Mean)
	}
	if lookup.Confidence != ConfidenceVeryLow {
		t.Errorf("Confidence = %s, want %s", lookup.Confidence, ConfidenceVeryLow)
	}
	if lookup.Key != "" {
		t.Errorf("Key = %s, want empty for population default", lookup.Key)
	}
}

func TestLookupCustomThreshold(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store, WithMinObservations(10))
	attrs := testAttrs()
	priors := bucket.DefaultPriors(attrs.Engagement)
	keys := bucket.ResolveKeys(attrs)

	seed(t, store, keys[0], priors, 2.0, 9)

	lookup, err := est.Lookup(attrs)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if lookup.Key == keys[0] {
		t.Error("bucket with 9 observations served despite threshold 10")
	}
}

func TestRecordCompletionUpdatesAllLevels(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)
	attrs := testAttrs()

	if err := est.RecordCompletion(attrs, 40, 60); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	for i, key := range bucket.ResolveKeys(attrs) {
		f, ok, err := store.Fetch(key)
		if err != nil || !ok {
			t.Fatalf("level %d bucket %s missing after write-back", i, key)
		}
		if f.ObservationCount != 1 {
			t.Errorf("level %d: ObservationCount = %d, want 1", i, f.ObservationCount)
		}
		if math.Abs(f.SumRatios-1.5) > 1e-12 {
			t.Errorf("level %d: SumRatios = %v, want 1.5", i, f.SumRatios)
		}
		if math.Abs(f.SumSquaredRatios-2.25) > 1e-12 {
			t.Errorf("level %d: SumSquaredRatios = %v, want 2.25", i, f.SumSquaredRatios)
		}
	}
}

func TestRecordCompletionInvalidBaseline(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)

	for _, baseline := range []float64{0, -10} {
		err := est.RecordCompletion(testAttrs(), baseline, 30)
		if !errors.Is(err, fferrors.ErrInvalidBaseline) {
			t.Errorf("baseline %v: err = %v, want ErrInvalidBaseline", baseline, err)
		}
	}

	if store.Len() != 0 {
		t.Errorf("store has %d buckets after rejected write-backs, want 0", store.Len())
	}
}

func TestEstimateAppliesFactorAndRange(t *testing.T) {
	store := NewMemoryStore()
	est := NewEstimator(store)
	attrs := testAttrs()
	priors := bucket.DefaultPriors(attrs.Engagement)
	keys := bucket.ResolveKeys(attrs)

	// 25 observations at exactly 1.0: high confidence, factor near 1.
	seed(t, store, keys[0], priors, 1.0, 25)

	rng, lookup, err := est.Estimate(attrs, 40)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if lookup.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %s, want %s", lookup.Confidence, ConfidenceHigh)
	}
	if rng.Low >= rng.High {
		t.Errorf("range (%d, %d) is not a band", rng.Low, rng.High)
	}
	// Factor is pulled slightly above 1.0 by the dreading prior, so the
	// band should sit around 40+.
	if rng.Low < 30 || rng.High > 60 {
		t.Errorf("range (%d, %d) implausible for baseline 40 with ratio 1.0", rng.Low, rng.High)
	}
}
