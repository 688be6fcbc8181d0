// Package testutil provides utilities for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/focusflow/bucket"
	"github.com/randalmurphal/focusflow/correction"
	"github.com/randalmurphal/focusflow/generate"
)

// LoadFixture loads a fixture file from the testdata directory.
// The path is relative to the testdata directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	fullPath := filepath.Join("testdata", path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", path, err)
	}

	return data
}

// TempFile creates a temporary file with the given content.
// Returns the file path. File is automatically cleaned up when the test ends.
func TempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to create temp file %s: %v", name, err)
	}

	return path
}

// =============================================================================
// Domain Fixtures
// =============================================================================

// Attrs builds a full attribute set from classification values and a
// baseline, the way the engine derives it after estimation.
func Attrs(engagement bucket.Engagement, category bucket.Category, complexityScore int, baselineMinutes float64) bucket.Attributes {
	return bucket.NewAttributes(engagement, category, complexityScore, baselineMinutes)
}

// NeutralAttrs is the most common fixture: a neutral, moderate work task.
func NeutralAttrs(baselineMinutes float64) bucket.Attributes {
	return bucket.NewAttributes(bucket.EngagementNeutral, bucket.CategoryWork, 5, baselineMinutes)
}

// SeedObservations writes the given actual/baseline ratios into every
// fallback bucket for attrs, so lookups find a populated store.
func SeedObservations(t *testing.T, store correction.Store, attrs bucket.Attributes, ratios ...float64) {
	t.Helper()

	priors := bucket.DefaultPriors(attrs.Engagement)
	for _, ratio := range ratios {
		for _, key := range bucket.ResolveKeys(attrs) {
			if err := store.AddObservation(key, ratio, priors); err != nil {
				t.Fatalf("seed observation for %s: %v", key, err)
			}
		}
	}
}

// SeededEstimator returns a memory-backed estimator whose buckets for
// attrs already hold the given ratios.
func SeededEstimator(t *testing.T, attrs bucket.Attributes, ratios ...float64) *correction.Estimator {
	t.Helper()

	store := correction.NewMemoryStore()
	SeedObservations(t, store, attrs, ratios...)
	return correction.NewEstimator(store)
}

// NeutralClassification returns the engine's default classification.
func NeutralClassification() generate.Classification {
	return generate.Classification{
		Engagement:      bucket.EngagementNeutral,
		ComplexityScore: 5,
		Category:        bucket.CategoryWork,
	}
}

// ScriptedGenerator returns a MockGenerator producing the given
// structure steps, classification and a fixed per-step estimate.
func ScriptedGenerator(name string, steps []string, cls generate.Classification, stepMinutes int) *generate.MockGenerator {
	return &generate.MockGenerator{
		StructureResult: &generate.Structure{Name: name, Steps: steps},
		ClassifyResult:  &cls,
		EstimateResult:  &generate.StepEstimate{Minutes: stepMinutes, Difficulty: "medium"},
	}
}
