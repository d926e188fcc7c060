// Package fairness converts a target-plus-peers snapshot into a fairness
// score, confidence level, and peer-ratio statistics (§4.3).
package fairness

import (
	"math"
	"sort"

	"github.com/mjmurray03/taxdown/internal/comparable"
	"github.com/mjmurray03/taxdown/internal/models"
	"gonum.org/v1/gonum/stat"
)

// PeerStats holds the peer-group assessment-ratio statistics persisted
// alongside an analysis.
type PeerStats struct {
	MedianRatio             float64
	MeanRatio               float64
	StdDevRatio             float64
	NeighborhoodMedianRatio *float64
	SubdivisionMedianRatio  *float64
	PeerCount               int
}

// Result is the scored output of the fairness component.
type Result struct {
	FairnessScore   int
	ConfidenceLevel int
	Stats           PeerStats
	Scorable        bool
}

// Score computes the fairness score, confidence level, and peer
// statistics for target against its scored matches. Matches must already
// be filtered to candidates with positive total value (the comparable
// package guarantees this).
func Score(target *models.Property, matches []comparable.Match, neighborhoodRatios, subdivisionRatios []float64) Result {
	if target.TotalValueCents <= 0 || len(matches) == 0 {
		return Result{FairnessScore: 0, ConfidenceLevel: 0, Scorable: false}
	}

	ratios := make([]float64, 0, len(matches))
	for _, m := range matches {
		if m.Property.TotalValueCents > 0 {
			ratios = append(ratios, m.Property.AssessmentRatio())
		}
	}
	if len(ratios) == 0 {
		return Result{FairnessScore: 0, ConfidenceLevel: 0, Scorable: false}
	}

	median := medianOf(ratios)
	mean := stat.Mean(ratios, nil)
	stddev := 0.0
	if len(ratios) > 1 {
		stddev = stat.StdDev(ratios, nil)
	}

	peerStats := PeerStats{
		MedianRatio: median,
		MeanRatio:   mean,
		StdDevRatio: stddev,
		PeerCount:   len(ratios),
	}
	if len(neighborhoodRatios) > 0 {
		v := medianOf(neighborhoodRatios)
		peerStats.NeighborhoodMedianRatio = &v
	}
	if len(subdivisionRatios) > 0 {
		v := medianOf(subdivisionRatios)
		peerStats.SubdivisionMedianRatio = &v
	}

	r := target.AssessmentRatio()
	score := 0
	if median != 0 {
		d := (r - median) / median
		score = scoreFromDeviation(d)
	}

	confidence := confidenceFor(len(ratios), stddev, r, median, allProximityTier(matches))

	return Result{
		FairnessScore:   score,
		ConfidenceLevel: confidence,
		Stats:           peerStats,
		Scorable:        true,
	}
}

// scoreFromDeviation maps relative deviation d to a fairness score in
// [0,100] via the piecewise-linear function in §4.3.
func scoreFromDeviation(d float64) int {
	var v float64
	switch {
	case d <= -0.30:
		v = 0
	case d <= -0.05:
		v = lerp(d, -0.30, -0.05, 0, 20)
	case d < 0.05:
		v = lerp(d, -0.05, 0.05, 20, 40)
	case d < 0.15:
		v = lerp(d, 0.05, 0.15, 40, 60)
	case d < 0.25:
		v = lerp(d, 0.15, 0.25, 60, 80)
	case d >= 0.50:
		v = 100
	default:
		v = lerp(d, 0.25, 0.50, 80, 100)
	}
	return int(math.Round(clampFloat(v, 0, 100)))
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// confidenceFor implements the confidence deduction rule in §4.3.
func confidenceFor(peerCount int, stddev, targetRatio, medianRatio float64, proximityOnly bool) int {
	c := 100
	switch {
	case peerCount < 5:
		c -= 40
	case peerCount < 10:
		c -= 20
	}
	if stddev > 0.05 {
		c -= 10
	}
	if medianRatio != 0 && math.Abs((targetRatio-medianRatio)/medianRatio) <= 0.02 {
		c -= 20
	}
	if proximityOnly {
		c -= 20
	}
	if c < 0 {
		c = 0
	}
	if c > 100 {
		c = 100
	}
	return c
}

func allProximityTier(matches []comparable.Match) bool {
	for _, m := range matches {
		if m.Tier != comparable.TierProximity {
			return false
		}
	}
	return len(matches) > 0
}

// medianOf returns the median of a non-empty slice, without mutating the
// input.
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// InterpretationBand returns the human-readable band for a fairness
// score, computed on demand rather than stored (§4.3).
func InterpretationBand(score int) string {
	switch {
	case score <= 20:
		return "under-assessed"
	case score <= 40:
		return "fair"
	case score <= 60:
		return "possibly over"
	case score <= 80:
		return "likely over"
	default:
		return "significantly over"
	}
}
