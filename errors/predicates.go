package errors

import "errors"

// IsGeneratorError checks whether an error came from the generative
// backend, in any of its failure modes.
func IsGeneratorError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrGeneratorUnavailable) ||
		errors.Is(err, ErrGeneratorCallFailed) ||
		errors.Is(err, ErrBadGeneratorResponse)
}

// IsRecoverable checks whether a stage failure leaves the session usable.
// Terminal-session errors are the only unrecoverable ones: every generator
// failure degrades to a default rather than aborting task creation.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	return !IsTerminalSession(err)
}

// IsTerminalSession checks whether an error means the session can accept
// no further mutations.
func IsTerminalSession(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSessionCommitted) || errors.Is(err, ErrSessionAbandoned)
}
