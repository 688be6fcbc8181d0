package workflow

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/focusflow/bucket"
	ffcontext "github.com/randalmurphal/focusflow/context"
	"github.com/randalmurphal/focusflow/correction"
	fferrors "github.com/randalmurphal/focusflow/errors"
	"github.com/randalmurphal/focusflow/generate"
	"github.com/randalmurphal/focusflow/pipeline"
)

// =============================================================================
// Node Types
// =============================================================================

// NodeFunc is a function that processes state and returns updated state.
// This signature is compatible with flowgraph's NodeFunc[State].
type NodeFunc func(ctx flowgraph.Context, state State) (State, error)

// =============================================================================
// Node Wrappers
// =============================================================================

// WithRetry wraps a node with retry logic
func WithRetry(node NodeFunc, maxRetries int) NodeFunc {
	return func(ctx flowgraph.Context, state State) (State, error) {
		var lastErr error
		for i := 0; i < maxRetries; i++ {
			result, err := node(ctx, state)
			if err == nil {
				return result, nil
			}
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			lastErr = err
		}
		return state, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
	}
}

// WithTiming wraps a node with timing metrics
func WithTiming(node NodeFunc) NodeFunc {
	return func(ctx flowgraph.Context, state State) (State, error) {
		start := time.Now()
		result, err := node(ctx, state)
		duration := time.Since(start)
		slog.Debug("node execution completed", "runId", state.RunID, "duration", duration)
		return result, err
	}
}

// =============================================================================
// Estimation Nodes
// =============================================================================

// GenerateStructureNode breaks the task text into steps.
//
// Prerequisites: state.TaskText must be set
// Updates: state.Name, state.Steps, state.StructureGeneratedAt
//
// Pre-populated steps are kept as-is so callers can feed known
// breakdowns straight into classification. An unavailable backend
// degrades to a single step covering the whole task.
func GenerateStructureNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireTaskText); err != nil {
		return state, err
	}
	if len(state.Steps) > 0 {
		if state.Name == "" {
			state.Name = state.TaskText
		}
		return state, nil
	}

	gen := ffcontext.MustGenerator(ctx)
	structure, err := gen.GenerateStructure(ctx, state.TaskText)
	if err != nil {
		if goerrors.Is(err, fferrors.ErrGeneratorUnavailable) {
			state.Name = state.TaskText
			state.Steps = []string{state.TaskText}
			state.Degraded = true
			state.StructureGeneratedAt = time.Now()
			return state, nil
		}
		return state, fmt.Errorf("generate structure: %w", err)
	}

	state.Name = structure.Name
	state.Steps = structure.Steps
	state.StructureGeneratedAt = time.Now()
	return state, nil
}

// ClassifyNode derives engagement, complexity and category.
//
// Prerequisites: state.TaskText must be set
// Updates: state.Classification, state.ClassifiedAt
//
// A failed or unavailable backend falls back to the neutral default so
// batch runs keep moving; the degraded flag marks the run.
func ClassifyNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireTaskText); err != nil {
		return state, err
	}

	gen := ffcontext.MustGenerator(ctx)
	cls, err := gen.Classify(ctx, state.TaskText, state.Steps)
	if err != nil {
		if ctx.Err() != nil {
			return state, ctx.Err()
		}
		slog.Warn("classification failed, using neutral default",
			"runId", state.RunID, "error", err)
		cls = defaultClassification()
		state.Degraded = true
	}

	state.Classification = cls
	state.ClassifiedAt = time.Now()
	return state, nil
}

// EstimateStepsNode produces per-step baseline minutes and sums them.
//
// Prerequisites: state.Steps must be set
// Updates: state.StepMinutes, state.BaselineMinutes, state.EstimatedAt
//
// An unavailable backend falls back to the default task baseline.
func EstimateStepsNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireSteps); err != nil {
		return state, err
	}

	gen := ffcontext.MustGenerator(ctx)

	total := 0
	minutes := make([]int, 0, len(state.Steps))
	for _, step := range state.Steps {
		est, err := gen.EstimateStep(ctx, state.TaskText, step)
		if err != nil {
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			if goerrors.Is(err, fferrors.ErrGeneratorUnavailable) {
				state.StepMinutes = nil
				state.BaselineMinutes = pipeline.DefaultBaselineMinutes
				state.Degraded = true
				state.EstimatedAt = time.Now()
				return state, nil
			}
			return state, fmt.Errorf("estimate step %q: %w", step, err)
		}
		minutes = append(minutes, est.Minutes)
		total += est.Minutes
	}

	state.StepMinutes = minutes
	state.BaselineMinutes = float64(total)
	state.EstimatedAt = time.Now()
	return state, nil
}

// ComputeRangeNode applies the learned correction factor to the baseline
// and widens it into a display range.
//
// Prerequisites: state.Classification and state.BaselineMinutes
// Updates: state.Low, state.High, state.Confidence, state.Source,
// state.Factor, state.Attributes, state.ComputedAt
func ComputeRangeNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireClassification, RequireBaseline); err != nil {
		return state, err
	}

	est := ffcontext.MustEstimator(ctx)

	cls := state.Classification
	attrs := bucket.NewAttributes(cls.Engagement, cls.Category, cls.ComplexityScore, state.BaselineMinutes)
	rng, lookup, err := est.Estimate(attrs, state.BaselineMinutes)
	if err != nil {
		return state, fmt.Errorf("compute range: %w", err)
	}

	state.Low = rng.Low
	state.High = rng.High
	state.Confidence = lookup.Confidence
	state.Source = lookup.Source
	state.Factor = lookup.Factor
	state.Attributes = &attrs
	state.ComputedAt = time.Now()
	state.FinalizeDuration()
	return state, nil
}

// RecordObservationNode writes the actual/baseline ratio back into the
// correction store. Used when re-running historical tasks to seed
// buckets.
//
// Prerequisites: state.Classification, state.BaselineMinutes and
// state.ActualMinutes
// Updates: None (writes to the correction store)
func RecordObservationNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireClassification, RequireBaseline, RequireActual); err != nil {
		return state, err
	}

	est := ffcontext.MustEstimator(ctx)

	cls := state.Classification
	attrs := bucket.NewAttributes(cls.Engagement, cls.Category, cls.ComplexityScore, state.BaselineMinutes)
	if err := est.RecordCompletion(attrs, state.BaselineMinutes, state.ActualMinutes); err != nil {
		return state, fmt.Errorf("record observation: %w", err)
	}
	return state, nil
}

func defaultClassification() *generate.Classification {
	return &generate.Classification{
		Engagement:      bucket.EngagementNeutral,
		ComplexityScore: 5,
		Category:        bucket.CategoryPersonal,
	}
}

// RangeOf returns the computed range as a correction.Range.
func (s State) RangeOf() correction.Range {
	return correction.Range{Low: s.Low, High: s.High}
}
