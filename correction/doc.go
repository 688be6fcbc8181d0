// Package correction learns per-user correction factors (actual/baseline
// time ratios) and turns them into displayable estimate ranges.
//
// Core types:
//   - Factor: One bucket's statistical accumulator (prior + running sums)
//   - Store: Keyed persistence for factors, atomic per key
//   - Estimator: Shrinkage-adjusted posterior lookup with fallback search,
//     plus the completion write-back
//   - Confidence: Discrete trust level derived from observation count
//   - Range: The low/high minute band shown to the user
//
// Example usage:
//
//	store := correction.NewMemoryStore()
//	est := correction.NewEstimator(store)
//	attrs := bucket.NewAttributes(bucket.EngagementNeutral, bucket.CategoryWork, 5, 40)
//	lookup, _ := est.Lookup(attrs)
//	rng := correction.RangeFor(40*lookup.Factor, lookup.Confidence)
//
// On task completion, RecordCompletion feeds the observed ratio back into
// every fallback-level bucket so specific and general buckets learn
// simultaneously.
package correction
