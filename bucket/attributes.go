package bucket

import "fmt"

// =============================================================================
// Engagement
// =============================================================================

// Engagement describes how the user expects to feel about a task.
// Each tag carries a population-level prior; see Priors.
type Engagement string

// Engagement tag constants.
const (
	EngagementDreading Engagement = "dreading"
	EngagementNeutral  Engagement = "neutral"
	EngagementExcited  Engagement = "excited"
)

// Engagements lists all valid engagement tags.
var Engagements = []Engagement{
	EngagementDreading,
	EngagementNeutral,
	EngagementExcited,
}

// Valid reports whether e is a known engagement tag.
func (e Engagement) Valid() bool {
	switch e {
	case EngagementDreading, EngagementNeutral, EngagementExcited:
		return true
	}
	return false
}

// =============================================================================
// Category
// =============================================================================

// Category is a fixed task category produced by classification.
type Category string

// Category constants.
const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryChores   Category = "chores"
	CategoryCreative Category = "creative"
	CategoryLearning Category = "learning"
	CategoryHealth   Category = "health"
	CategoryAdmin    Category = "admin"
)

// Categories lists all valid task categories.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryChores,
	CategoryCreative,
	CategoryLearning,
	CategoryHealth,
	CategoryAdmin,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Complexity
// =============================================================================

// ComplexityTier is the 3-way discretization of a 1-10 complexity score.
type ComplexityTier string

// Complexity tier constants.
const (
	ComplexitySimple   ComplexityTier = "simple"
	ComplexityModerate ComplexityTier = "moderate"
	ComplexityComplex  ComplexityTier = "complex"
)

// TierForScore maps a 1-10 complexity score to its tier.
// Scores outside the range are clamped.
func TierForScore(score int) ComplexityTier {
	switch {
	case score <= 3:
		return ComplexitySimple
	case score <= 6:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

// =============================================================================
// Duration
// =============================================================================

// DurationBucket is the fixed discretization of baseline minutes.
type DurationBucket string

// Duration bucket constants.
const (
	DurationUnder15  DurationBucket = "0-15"
	Duration15To30   DurationBucket = "15-30"
	Duration30To60   DurationBucket = "30-60"
	Duration60To90   DurationBucket = "60-90"
	DurationOver90   DurationBucket = "90+"
)

// BucketForMinutes maps baseline minutes to their duration bucket.
// Boundaries are half-open: a 30 minute task lands in 30-60.
func BucketForMinutes(minutes float64) DurationBucket {
	switch {
	case minutes < 15:
		return DurationUnder15
	case minutes < 30:
		return Duration15To30
	case minutes < 60:
		return Duration30To60
	case minutes < 90:
		return Duration60To90
	default:
		return DurationOver90
	}
}

// =============================================================================
// Attributes
// =============================================================================

// Attributes locates one task in the classification space.
type Attributes struct {
	Engagement Engagement     `json:"engagement"`
	Duration   DurationBucket `json:"duration"`
	Category   Category       `json:"category"`
	Complexity ComplexityTier `json:"complexity"`
}

// NewAttributes derives the full attribute set from classification output
// and the task's baseline minutes.
func NewAttributes(engagement Engagement, category Category, complexityScore int, baselineMinutes float64) Attributes {
	return Attributes{
		Engagement: engagement,
		Duration:   BucketForMinutes(baselineMinutes),
		Category:   category,
		Complexity: TierForScore(complexityScore),
	}
}

// Validate checks that all axes hold known values.
func (a Attributes) Validate() error {
	if !a.Engagement.Valid() {
		return fmt.Errorf("unknown engagement tag: %s", a.Engagement)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("unknown category: %s", a.Category)
	}
	return nil
}
