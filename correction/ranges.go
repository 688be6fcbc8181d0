package correction

import "math"

// Range is the minute band displayed for an estimate. The engine never
// surfaces a bare point value; a degenerate Low == High range is a display
// simplification the caller may make, not something computed here.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// RangeFor widens a point estimate into a band sized by confidence.
// Low is floored at one minute.
func RangeFor(estimateMinutes float64, c Confidence) Range {
	m := c.Multiplier()

	low := int(math.Round(estimateMinutes * (1 - m)))
	if low < 1 {
		low = 1
	}
	high := int(math.Round(estimateMinutes * (1 + m)))

	return Range{Low: low, High: high}
}
