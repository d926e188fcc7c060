// Package savings estimates the tax savings available if a target
// property's assessed value were brought to its peer-group median
// ratio (§4.4).
package savings

import "math"

// Estimate is the result of projecting savings against a peer median
// ratio.
type Estimate struct {
	TargetAssessedCents  int64
	AnnualSavingsCents   int64
	FiveYearSavingsCents int64
}

// EstimateSavings computes the savings projection for a target property.
// Returns zero savings (never negative) when the target is under- or
// fairly-assessed relative to medianRatio.
func EstimateSavings(totalValueCents, currentAssessedCents int64, medianRatio, millRate float64) Estimate {
	targetAssessed := int64(math.Round(float64(totalValueCents) * medianRatio))

	delta := currentAssessedCents - targetAssessed
	if delta < 0 {
		delta = 0
	}

	annual := int64(math.Round(float64(delta) * millRate))
	fiveYear := 5 * annual

	return Estimate{
		TargetAssessedCents:  targetAssessed,
		AnnualSavingsCents:   annual,
		FiveYearSavingsCents: fiveYear,
	}
}
