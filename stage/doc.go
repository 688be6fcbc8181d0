// Package stage maps estimation pipeline stages to model tiers.
//
// Structure generation is the creative stage and runs on the default
// tier; classification and per-step estimation are deterministic, cheap
// calls that a fast model handles well.
package stage
