package correction

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/focusflow/bucket"
	fferrors "github.com/randalmurphal/focusflow/errors"
)

// DefaultMinObservations is the smallest bucket the fallback search will
// serve an estimate from.
const DefaultMinObservations = 3

// Lookup is the outcome of one estimation read: the correction factor to
// apply to a baseline, how much to trust it, and where it came from.
type Lookup struct {
	// Factor is the posterior correction factor (actual/baseline).
	Factor float64

	// Confidence reflects the serving bucket's observation count, or
	// very-low for the population default.
	Confidence Confidence

	// Source describes the fallback level that served the estimate.
	Source string

	// Key is the serving bucket, or empty for the population default.
	Key bucket.Key
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithMinObservations overrides the bucket-size threshold for the
// fallback search.
func WithMinObservations(n int) Option {
	return func(e *Estimator) {
		e.minObservations = n
	}
}

// WithLogger sets the logger used for estimation debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

// Estimator answers estimation reads against a Store and records
// completion observations back into it.
type Estimator struct {
	store           Store
	minObservations int
	logger          *slog.Logger
}

// NewEstimator creates an estimator over the given store.
func NewEstimator(store Store, opts ...Option) *Estimator {
	e := &Estimator{
		store:           store,
		minObservations: DefaultMinObservations,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinObservations returns the configured bucket-size threshold.
func (e *Estimator) MinObservations() int {
	return e.minObservations
}

// Lookup walks the fallback keys for a task's attributes and returns the
// first bucket with enough observations. When every bucket is thin, the
// engagement tag's population default is served at very-low confidence,
// so an estimate is never based on a statistically thin bucket.
func (e *Estimator) Lookup(attrs bucket.Attributes) (Lookup, error) {
	keys := bucket.ResolveKeys(attrs)

	for i, key := range keys {
		f, ok, err := e.store.Fetch(key)
		if err != nil {
			return Lookup{}, fmt.Errorf("fetch bucket %s: %w", key, err)
		}
		if !ok || f.ObservationCount < e.minObservations {
			continue
		}

		e.logger.Debug("estimate served from bucket",
			"key", key,
			"level", i,
			"observations", f.ObservationCount,
		)
		return Lookup{
			Factor:     f.PosteriorMean(),
			Confidence: f.Confidence(),
			Source:     bucket.Level(i),
			Key:        key,
		}, nil
	}

	priors := bucket.DefaultPriors(attrs.Engagement)
	e.logger.Debug("estimate served from population default", "engagement", attrs.Engagement)
	return Lookup{
		Factor:     priors.Mean,
		Confidence: ConfidenceVeryLow,
		Source:     fmt.Sprintf("typical %s tasks", attrs.Engagement),
	}, nil
}

// Estimate applies the looked-up correction factor to a baseline and
// widens the result into a display range.
func (e *Estimator) Estimate(attrs bucket.Attributes, baselineMinutes float64) (Range, Lookup, error) {
	lookup, err := e.Lookup(attrs)
	if err != nil {
		return Range{}, Lookup{}, err
	}
	return RangeFor(baselineMinutes*lookup.Factor, lookup.Confidence), lookup, nil
}

// RecordCompletion writes the observed actual/baseline ratio into every
// fallback-level bucket for the task's attributes, so specific and general
// buckets learn from the same completion. A non-positive baseline skips
// the write-back with ErrInvalidBaseline; nothing is ever divided by zero.
func (e *Estimator) RecordCompletion(attrs bucket.Attributes, baselineMinutes, actualMinutes float64) error {
	if baselineMinutes <= 0 {
		return fmt.Errorf("%w: %v", fferrors.ErrInvalidBaseline, baselineMinutes)
	}

	ratio := actualMinutes / baselineMinutes
	priors := bucket.DefaultPriors(attrs.Engagement)

	for _, key := range bucket.ResolveKeys(attrs) {
		if err := e.store.AddObservation(key, ratio, priors); err != nil {
			return fmt.Errorf("record observation for %s: %w", key, err)
		}
	}

	e.logger.Debug("completion recorded",
		"ratio", ratio,
		"baseline", baselineMinutes,
		"actual", actualMinutes,
	)
	return nil
}
