package errors

import "errors"

// Engine errors with routing semantics; see package documentation.
var (
	// ErrGeneratorUnavailable indicates the generative backend is not
	// usable at all. Sessions proceed without AI enrichment.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrGeneratorCallFailed indicates one specific backend call failed.
	// The stage reports failure; the session may proceed with a default.
	ErrGeneratorCallFailed = errors.New("generator call failed")

	// ErrBadGeneratorResponse indicates the backend answered but the
	// response could not be validated. Never silently accepted.
	ErrBadGeneratorResponse = errors.New("malformed generator response")

	// ErrInvalidBaseline indicates a completion with baseline minutes <= 0.
	// The observation write-back is skipped.
	ErrInvalidBaseline = errors.New("invalid baseline minutes")

	// ErrSessionCommitted indicates a mutation on an already-committed
	// session.
	ErrSessionCommitted = errors.New("session already committed")

	// ErrSessionAbandoned indicates a mutation on an abandoned session.
	ErrSessionAbandoned = errors.New("session abandoned")

	// ErrNotStarted indicates an operation that requires Start first.
	ErrNotStarted = errors.New("session not started")
)
