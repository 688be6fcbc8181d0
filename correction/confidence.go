package correction

// Confidence is the discrete trust level attached to an estimate. It
// drives both the language shown to the user and the displayed range
// width.
type Confidence string

// Confidence levels, lowest to highest.
const (
	ConfidenceVeryLow Confidence = "very-low"
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceGood    Confidence = "good"
	ConfidenceHigh    Confidence = "high"
)

// ConfidenceForCount maps an observation count to its confidence level.
// The boundaries are a fixed product decision, not a formula:
//
//	n < 3   -> very-low
//	3..5    -> low
//	6..11   -> medium
//	12..19  -> good
//	n >= 20 -> high
func ConfidenceForCount(n int) Confidence {
	switch {
	case n < 3:
		return ConfidenceVeryLow
	case n <= 5:
		return ConfidenceLow
	case n <= 11:
		return ConfidenceMedium
	case n <= 19:
		return ConfidenceGood
	default:
		return ConfidenceHigh
	}
}

// rangeMultipliers maps confidence to the +/- fraction applied around a
// point estimate.
var rangeMultipliers = map[Confidence]float64{
	ConfidenceVeryLow: 0.35,
	ConfidenceLow:     0.25,
	ConfidenceMedium:  0.20,
	ConfidenceGood:    0.15,
	ConfidenceHigh:    0.10,
}

// Multiplier returns the +/- fraction for this confidence level.
// Unknown levels get the very-low multiplier: the widest band is the only
// safe default.
func (c Confidence) Multiplier() float64 {
	if m, ok := rangeMultipliers[c]; ok {
		return m
	}
	return rangeMultipliers[ConfidenceVeryLow]
}
