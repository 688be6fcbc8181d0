package generate

import (
	"context"
	"sync"
	"time"

	"github.com/randalmurphal/focusflow/bucket"
)

// MockGenerator is a scripted Generator for tests. Zero value behavior:
// a one-step structure echoing the task text, a neutral classification and
// a 15 minute step estimate. Delays honor context cancellation, which is
// what pipeline cancellation tests rely on.
type MockGenerator struct {
	mu sync.Mutex

	// Scripted results. Nil fields use the defaults above.
	StructureResult *Structure
	ClassifyResult  *Classification
	EstimateResult  *StepEstimate

	// Injected failures, returned instead of results when set.
	StructureErr error
	ClassifyErr  error
	EstimateErr  error

	// Artificial latency per call kind.
	StructureDelay time.Duration
	ClassifyDelay  time.Duration
	EstimateDelay  time.Duration

	structureCalls int
	classifyCalls  int
	estimateCalls  int
}

// GenerateStructure implements Generator.
func (m *MockGenerator) GenerateStructure(ctx context.Context, taskText string) (*Structure, error) {
	m.mu.Lock()
	m.structureCalls++
	result, errOut, delay := m.StructureResult, m.StructureErr, m.StructureDelay
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if errOut != nil {
		return nil, errOut
	}
	if result == nil {
		result = &Structure{Name: taskText, Steps: []string{taskText}}
	}
	return result, nil
}

// Classify implements Generator.
func (m *MockGenerator) Classify(ctx context.Context, taskText string, steps []string) (*Classification, error) {
	m.mu.Lock()
	m.classifyCalls++
	result, errOut, delay := m.ClassifyResult, m.ClassifyErr, m.ClassifyDelay
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if errOut != nil {
		return nil, errOut
	}
	if result == nil {
		result = &Classification{
			Engagement:      bucket.EngagementNeutral,
			ComplexityScore: 5,
			Category:        bucket.CategoryPersonal,
		}
	}
	return result, nil
}

// EstimateStep implements Generator.
func (m *MockGenerator) EstimateStep(ctx context.Context, taskText, stepText string) (*StepEstimate, error) {
	m.mu.Lock()
	m.estimateCalls++
	result, errOut, delay := m.EstimateResult, m.EstimateErr, m.EstimateDelay
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if errOut != nil {
		return nil, errOut
	}
	if result == nil {
		result = &StepEstimate{Minutes: 15, Difficulty: "medium"}
	}
	return result, nil
}

// StructureCalls returns how many times GenerateStructure was invoked.
func (m *MockGenerator) StructureCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.structureCalls
}

// ClassifyCalls returns how many times Classify was invoked.
func (m *MockGenerator) ClassifyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.classifyCalls
}

// EstimateCalls returns how many times EstimateStep was invoked.
func (m *MockGenerator) EstimateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.estimateCalls
}

// wait sleeps for d or until the context is canceled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
