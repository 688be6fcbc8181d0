package correction

import (
	"time"

	"github.com/randalmurphal/focusflow/bucket"
)

// Factor is the statistical accumulator for one bucket. PriorMean and
// PriorVariance are seeded from the engagement tag's population defaults
// at creation and never change; the sums only grow, one observation per
// completed task.
type Factor struct {
	Key              bucket.Key `json:"key"`
	PriorMean        float64    `json:"priorMean"`
	PriorVariance    float64    `json:"priorVariance"`
	ObservationCount int        `json:"observationCount"`
	SumRatios        float64    `json:"sumRatios"`
	SumSquaredRatios float64    `json:"sumSquaredRatios"`
	LastUpdated      time.Time  `json:"lastUpdated"`
}

// NewFactor creates a fresh, observation-free factor for a key.
func NewFactor(key bucket.Key, priors bucket.Priors) *Factor {
	return &Factor{
		Key:           key,
		PriorMean:     priors.Mean,
		PriorVariance: priors.Variance,
	}
}

// ObservedMean returns the plain sample mean of recorded ratios.
// The second return is false when there are no observations.
func (f *Factor) ObservedMean() (float64, bool) {
	if f.ObservationCount == 0 {
		return 0, false
	}
	return f.SumRatios / float64(f.ObservationCount), true
}

// PosteriorMean returns the shrinkage-adjusted correction factor.
//
// With n observations, prior mean m0 and prior variance v0:
//
//	w  = n / (n + 1/v0)
//	mu = w*observedMean + (1-w)*m0
//
// With no observations the prior mean is returned directly rather than
// evaluated through the formula, so a zero-variance prior can never divide
// by zero.
func (f *Factor) PosteriorMean() float64 {
	observed, ok := f.ObservedMean()
	if !ok {
		return f.PriorMean
	}

	n := float64(f.ObservationCount)
	w := n / (n + 1/f.PriorVariance)
	return w*observed + (1-w)*f.PriorMean
}

// Confidence returns the discrete trust level for this factor's count.
func (f *Factor) Confidence() Confidence {
	return ConfidenceForCount(f.ObservationCount)
}

// observe folds one ratio into the accumulator.
func (f *Factor) observe(ratio float64, now time.Time) {
	f.ObservationCount++
	f.SumRatios += ratio
	f.SumSquaredRatios += ratio * ratio
	f.LastUpdated = now
}

// clone returns an independent copy so store reads never alias writer
// state.
func (f *Factor) clone() *Factor {
	c := *f
	return &c
}
