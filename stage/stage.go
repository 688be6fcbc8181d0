package stage

import (
	"github.com/randalmurphal/llmkit/model"
)

// Stage identifies one generative call kind in the estimation pipeline.
// This determines which model tier is appropriate.
type Stage string

const (
	// Structure generation - creative, benefits from a capable model
	Structure Stage = "structure"

	// Deterministic, high-volume calls - can use smaller models
	Classify Stage = "classify"
	Estimate Stage = "estimate"
)

// DefaultModelMap maps pipeline stages to default models.
var DefaultModelMap = map[Stage]model.ModelName{
	Structure: model.ModelSonnet,
	Classify:  model.ModelHaiku,
	Estimate:  model.ModelHaiku,
}

// TierForStage returns the appropriate tier for a pipeline stage.
func TierForStage(s Stage) model.Tier {
	switch s {
	case Classify, Estimate:
		return model.TierFast
	default:
		return model.TierDefault
	}
}

// NewSelector creates a model selector configured for estimation pipeline
// stages. It uses the standard stage-to-tier mapping.
func NewSelector(opts ...model.SelectorOption) *model.Selector {
	// Prepend the tier function to use Stage
	allOpts := append([]model.SelectorOption{
		model.WithTierFunc(func(task any) model.Tier {
			if s, ok := task.(Stage); ok {
				return TierForStage(s)
			}
			return model.TierDefault
		}),
	}, opts...)

	return model.NewSelector(allOpts...)
}

// SelectModel selects the appropriate model for a pipeline stage.
// Uses the default model map unless overridden.
func SelectModel(s Stage) model.ModelName {
	if m, ok := DefaultModelMap[s]; ok {
		return m
	}
	// Fall back to tier-based selection
	switch TierForStage(s) {
	case model.TierFast:
		return model.ModelHaiku
	default:
		return model.ModelSonnet
	}
}
