package bucket

// Priors is the population-level prior for a bucket's correction factor.
// Seeded into a bucket at creation from the engagement tag's defaults and
// immutable thereafter.
type Priors struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// engagementPriors holds the compile-time population defaults per
// engagement tag. Dreaded tasks run long (procrastination, friction) and
// with higher spread; anticipated tasks finish a little faster than the
// machine baseline.
var engagementPriors = map[Engagement]Priors{
	EngagementDreading: {Mean: 1.4, Variance: 0.5},
	EngagementNeutral:  {Mean: 1.0, Variance: 0.3},
	EngagementExcited:  {Mean: 0.85, Variance: 0.25},
}

// neutralPriors backs unknown tags so a bad classification can never
// produce a zero prior.
var neutralPriors = Priors{Mean: 1.0, Variance: 0.3}

// DefaultPriors returns the population prior for an engagement tag.
// Unknown tags get the neutral prior.
func DefaultPriors(e Engagement) Priors {
	if p, ok := engagementPriors[e]; ok {
		return p
	}
	return neutralPriors
}
