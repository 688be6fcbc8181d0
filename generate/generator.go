package generate

import (
	"context"

	"github.com/randalmurphal/focusflow/bucket"
	fferrors "github.com/randalmurphal/focusflow/errors"
)

// Step estimate bounds. The backend contract clamps per-step minutes into
// this window.
const (
	MinStepMinutes = 1
	MaxStepMinutes = 120
)

// Structure is the generated breakdown of a task into steps.
type Structure struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// Classification is the generated attribute set for a task. The
// complexity score stays raw here; bucketing happens downstream.
type Classification struct {
	Engagement      bucket.Engagement `json:"engagement"`
	ComplexityScore int               `json:"complexityScore"`
	Category        bucket.Category   `json:"category"`
}

// StepEstimate is the baseline estimate for a single step.
type StepEstimate struct {
	Minutes    int    `json:"minutes"`
	Difficulty string `json:"difficulty"`
}

// Generator is the generative backend the estimation engine consumes.
// Implementations must honor context cancellation: a canceled call returns
// ctx.Err() promptly and its result is discarded by the caller.
type Generator interface {
	// GenerateStructure breaks task text into a named step list.
	// Creative mode; output may vary between identical calls.
	GenerateStructure(ctx context.Context, taskText string) (*Structure, error)

	// Classify derives engagement, complexity (1-10) and category from the
	// task text and its current steps. Deterministic; fails explicitly.
	Classify(ctx context.Context, taskText string, steps []string) (*Classification, error)

	// EstimateStep produces baseline minutes (1-120) for one step.
	EstimateStep(ctx context.Context, taskText, stepText string) (*StepEstimate, error)
}

// unavailable is a Generator for the backend-missing case: every call
// fails with ErrGeneratorUnavailable so sessions degrade to population
// defaults instead of blocking.
type unavailable struct{}

// Unavailable returns a Generator whose calls all report
// ErrGeneratorUnavailable.
func Unavailable() Generator {
	return unavailable{}
}

func (unavailable) GenerateStructure(ctx context.Context, taskText string) (*Structure, error) {
	return nil, fferrors.ErrGeneratorUnavailable
}

func (unavailable) Classify(ctx context.Context, taskText string, steps []string) (*Classification, error) {
	return nil, fferrors.ErrGeneratorUnavailable
}

func (unavailable) EstimateStep(ctx context.Context, taskText, stepText string) (*StepEstimate, error) {
	return nil, fferrors.ErrGeneratorUnavailable
}
