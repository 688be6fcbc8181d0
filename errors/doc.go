// Package errors defines the shared error taxonomy for the estimation
// engine, plus predicates for routing failures.
//
// The taxonomy separates three situations the pipeline treats differently:
//
//   - ErrGeneratorUnavailable: the backend cannot be used at all; the
//     engine skips AI enrichment and serves population defaults
//   - ErrGeneratorCallFailed / ErrBadGeneratorResponse: one call failed;
//     the failing stage degrades, the rest of the session continues
//   - ErrInvalidBaseline: a completion with no usable baseline; the
//     learning write-back is skipped, nothing else is affected
package errors
