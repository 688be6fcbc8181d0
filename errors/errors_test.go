package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsGeneratorError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", ErrGeneratorUnavailable, true},
		{"call failed", ErrGeneratorCallFailed, true},
		{"bad response", ErrBadGeneratorResponse, true},
		{"wrapped", fmt.Errorf("classify: %w", ErrGeneratorCallFailed), true},
		{"baseline", ErrInvalidBaseline, false},
		{"nil", nil, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGeneratorError(tt.err); got != tt.want {
				t.Errorf("IsGeneratorError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	if !IsRecoverable(ErrGeneratorCallFailed) {
		t.Error("generator call failure should be recoverable")
	}
	if !IsRecoverable(ErrInvalidBaseline) {
		t.Error("invalid baseline should be recoverable")
	}
	if IsRecoverable(ErrSessionCommitted) {
		t.Error("committed session should not be recoverable")
	}
	if IsRecoverable(fmt.Errorf("finalize: %w", ErrSessionAbandoned)) {
		t.Error("abandoned session should not be recoverable through wrapping")
	}
	if IsRecoverable(nil) {
		t.Error("nil is not recoverable")
	}
}

func TestIsTerminalSession(t *testing.T) {
	if !IsTerminalSession(ErrSessionCommitted) || !IsTerminalSession(ErrSessionAbandoned) {
		t.Error("terminal sentinels should be terminal")
	}
	if IsTerminalSession(ErrNotStarted) {
		t.Error("not-started is not terminal")
	}
}
