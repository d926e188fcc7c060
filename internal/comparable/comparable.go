// Package comparable implements the two-tier comparable-property
// matching engine: subdivision-tier first, proximity-tier fallback,
// each candidate scored and ranked by similarity to a target parcel.
package comparable

import (
	"context"
	"fmt"
	"sort"

	"github.com/mjmurray03/taxdown/internal/config"
	"github.com/mjmurray03/taxdown/internal/errs"
	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/models"
	"github.com/mjmurray03/taxdown/internal/repository"
)

// Tier names the matching strategy that produced a Match, a closed set
// of tagged variants rather than a type hierarchy.
type Tier string

const (
	TierSubdivision Tier = "SUBDIVISION"
	TierProximity   Tier = "PROXIMITY"
)

// Match is one scored peer candidate.
type Match struct {
	Property      models.Property
	Score         float64
	DistanceMiles float64
	Tier          Tier
}

// Finder finds comparable properties for a target parcel.
type Finder struct {
	properties repository.PropertyRepository
	cfg        config.AnalysisConfig
}

// NewFinder constructs a Finder over the given property repository and
// analysis configuration (value/acre windows, proximity radius, caps).
func NewFinder(properties repository.PropertyRepository, cfg config.AnalysisConfig) *Finder {
	return &Finder{properties: properties, cfg: cfg}
}

// FindComparables returns up to cfg.MaxComparables ranked peers for the
// target property, per the subdivision-then-proximity strategy (§4.2).
func (f *Finder) FindComparables(ctx context.Context, target *models.Property) ([]Match, error) {
	if target.TotalValueCents <= 0 || target.AcreArea == nil || len(target.Geometry.Coordinates) == 0 {
		return nil, errs.InsufficientData
	}

	subdivisionCandidates, err := f.properties.FindSubdivisionTierComparables(
		ctx, target, f.cfg.ValueWindowRatio, f.cfg.AcreWindowRatio, f.cfg.MaxComparables*4)
	if err != nil {
		return nil, fmt.Errorf("comparable: subdivision tier fetch: %w", err)
	}

	var matches []Match
	if len(subdivisionCandidates) >= f.cfg.MinSubdivisionMatches {
		matches = scoreSubdivisionTier(target, subdivisionCandidates, f.cfg)
	} else {
		proximityCandidates, err := f.properties.FindProximityTierComparables(
			ctx, target, f.cfg.ProximityMiles, f.cfg.ValueWindowRatio, f.cfg.AcreWindowRatio, f.cfg.MaxComparables*4)
		if err != nil {
			return nil, fmt.Errorf("comparable: proximity tier fetch: %w", err)
		}
		matches, err = scoreProximityTier(target, proximityCandidates, f.cfg)
		if err != nil {
			return nil, fmt.Errorf("comparable: proximity tier scoring: %w", err)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].DistanceMiles != matches[j].DistanceMiles {
			return matches[i].DistanceMiles < matches[j].DistanceMiles
		}
		return matches[i].Property.ID < matches[j].Property.ID
	})

	if len(matches) > f.cfg.MaxComparables {
		matches = matches[:f.cfg.MaxComparables]
	}
	return matches, nil
}

func scoreSubdivisionTier(target *models.Property, candidates []models.Property, cfg config.AnalysisConfig) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		c := c
		score := similarityScore(target, &c, 0, cfg)
		matches = append(matches, Match{Property: c, Score: score, DistanceMiles: 0, Tier: TierSubdivision})
	}
	return matches
}

func scoreProximityTier(target *models.Property, candidates []models.Property, cfg config.AnalysisConfig) ([]Match, error) {
	targetLat, targetLng, err := geo.MultiCentroid(target.Geometry)
	if err != nil {
		return nil, fmt.Errorf("target centroid: %w", err)
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		c := c
		if len(c.Geometry.Coordinates) == 0 {
			continue
		}
		candLat, candLng, err := geo.MultiCentroid(c.Geometry)
		if err != nil {
			continue
		}
		distance := geo.HaversineMiles(targetLat, targetLng, candLat, candLng)
		if distance > cfg.ProximityMiles {
			continue
		}
		score := similarityScore(target, &c, distance, cfg)
		matches = append(matches, Match{Property: c, Score: score, DistanceMiles: distance, Tier: TierProximity})
	}
	return matches, nil
}

// similarityScore implements the weighted-sum formula from §4.2: 10
// points property-type match, up to 35 value proximity, up to 30 acre
// proximity, up to 25 location proximity.
func similarityScore(target, candidate *models.Property, distanceMiles float64, cfg config.AnalysisConfig) float64 {
	var score float64

	if target.PropertyType != nil && candidate.PropertyType != nil && *target.PropertyType == *candidate.PropertyType {
		score += 10
	}

	if target.TotalValueCents > 0 {
		deltaValue := absFloat(float64(target.TotalValueCents-candidate.TotalValueCents) / float64(target.TotalValueCents))
		maxWindow := cfg.ValueWindowRatio
		score += clamp(35*(1-deltaValue/maxWindow), 0, 35)
	}

	if target.AcreArea != nil && candidate.AcreArea != nil && *target.AcreArea > 0 {
		deltaAcre := absFloat((*target.AcreArea - *candidate.AcreArea) / *target.AcreArea)
		maxWindow := cfg.AcreWindowRatio
		score += clamp(30*(1-deltaAcre/maxWindow), 0, 30)
	}

	if distanceMiles == 0 {
		score += 25
	} else {
		score += clamp(25*(1-distanceMiles/cfg.ProximityMiles), 0, 25)
	}

	return score
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
