// Package analyzer composes the comparable, fairness, and savings
// components into one idempotent analysis per property, decides a
// recommendation, and persists the result (§4.5).
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mjmurray03/taxdown/internal/comparable"
	"github.com/mjmurray03/taxdown/internal/config"
	"github.com/mjmurray03/taxdown/internal/errs"
	"github.com/mjmurray03/taxdown/internal/fairness"
	"github.com/mjmurray03/taxdown/internal/logger"
	"github.com/mjmurray03/taxdown/internal/models"
	"github.com/mjmurray03/taxdown/internal/repository"
	"github.com/mjmurray03/taxdown/internal/savings"
)

// Clock abstracts the current time so analysis_date is deterministic in
// tests without faking the system clock.
type Clock func() time.Time

// Orchestrator composes 4.2-4.4 into a single analysis per parcel.
type Orchestrator interface {
	// Analyze scores a single property. An unknown property id always
	// surfaces as an errs.Input error wrapping errs.PropertyNotFound.
	// A target that cannot be scored (non-positive total value, missing
	// acreage or geometry, or no usable peers) surfaces as an errs.Data
	// error when failSoft is false, and as nil, nil when failSoft is
	// true. A small peer set is still scored; it only lowers the
	// confidence. AnalyzeBatch calls Analyze with failSoft false and
	// classifies the typed errors into its summary counts.
	Analyze(ctx context.Context, propertyID int64, failSoft bool) (*models.Analysis, error)

	// AnalyzeBatch scores properties in input order, logging progress
	// every 1000 analyses. A per-property failure is classified into
	// the returned summary rather than aborting the run.
	AnalyzeBatch(ctx context.Context, propertyIDs []int64) (BatchSummary, error)

	// FindAppealCandidates reads the latest persisted analyses with
	// fairness_score >= minScore, ordered by descending estimated
	// savings.
	FindAppealCandidates(ctx context.Context, minScore, limit int) ([]models.Analysis, error)

	// GetLatestAnalysis returns the most recent persisted analysis for
	// a property, or nil, nil if none exists.
	GetLatestAnalysis(ctx context.Context, propertyID int64) (*models.Analysis, error)
}

// BatchSummary is returned by AnalyzeBatch: every scored analysis in
// input order, plus the per-property outcome counts §7 names —
// skipped-data (target or peer set couldn't be scored), skipped-input
// (unknown property id), and failed-store (persistence or other
// unclassified failure).
type BatchSummary struct {
	Analyses     []models.Analysis
	SkippedData  int
	SkippedInput int
	FailedStore  int
}

type orchestrator struct {
	properties repository.PropertyRepository
	subdivs    repository.SubdivisionRepository
	analyses   repository.AnalysisRepository
	finder     *comparable.Finder
	cfg        config.AnalysisConfig
	log        *logger.Logger
	now        Clock
}

// New constructs an Orchestrator backed by the given repositories and
// analysis configuration.
func New(properties repository.PropertyRepository, subdivs repository.SubdivisionRepository, analyses repository.AnalysisRepository, cfg config.AnalysisConfig, log *logger.Logger) Orchestrator {
	return &orchestrator{
		properties: properties,
		subdivs:    subdivs,
		analyses:   analyses,
		finder:     comparable.NewFinder(properties, cfg),
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

func (o *orchestrator) Analyze(ctx context.Context, propertyID int64, failSoft bool) (*models.Analysis, error) {
	target, err := o.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("analyzer: fetch target %d: %w", propertyID, err)
	}
	if target == nil {
		return nil, errs.Wrap(errs.Input, fmt.Sprintf("property %d", propertyID), errs.PropertyNotFound)
	}

	matches, err := o.finder.FindComparables(ctx, target)
	if err != nil {
		if errors.Is(err, errs.InsufficientData) {
			if failSoft {
				return nil, nil
			}
			return nil, errs.Wrap(errs.Data, fmt.Sprintf("property %d", propertyID), errs.InsufficientData)
		}
		return nil, fmt.Errorf("analyzer: find comparables for %d: %w", propertyID, err)
	}
	if len(matches) == 0 {
		if failSoft {
			return nil, nil
		}
		return nil, errs.Wrap(errs.Data, fmt.Sprintf("property %d: no comparables", propertyID), errs.InsufficientData)
	}

	var neighborhoodRatios, subdivisionRatios []float64
	if target.SectionTownshipRange != nil {
		neighborhoodRatios, err = o.properties.AssessmentRatiosBySectionTownshipRange(ctx, *target.SectionTownshipRange, target.ID)
		if err != nil {
			return nil, fmt.Errorf("analyzer: neighborhood ratios for %d: %w", propertyID, err)
		}
	}
	if target.SubdivisionID != nil {
		subdivisionRatios, err = o.properties.AssessmentRatiosBySubdivision(ctx, *target.SubdivisionID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("analyzer: subdivision ratios for %d: %w", propertyID, err)
		}
	}

	fairnessResult := fairness.Score(target, matches, neighborhoodRatios, subdivisionRatios)
	if !fairnessResult.Scorable {
		if failSoft {
			return nil, nil
		}
		return nil, errs.Wrap(errs.Data, fmt.Sprintf("property %d: not scorable", propertyID), errs.InsufficientData)
	}

	savingsEstimate := savings.EstimateSavings(
		target.TotalValueCents, target.AssessedValueCents,
		fairnessResult.Stats.MedianRatio, o.cfg.MillRateEffective)

	action := recommend(fairnessResult.FairnessScore, fairnessResult.ConfidenceLevel, savingsEstimate.AnnualSavingsCents, o.cfg)

	analysis := &models.Analysis{
		PropertyID:              target.ID,
		AnalysisDate:            o.now().UTC().Truncate(24 * time.Hour),
		FairnessScore:           fairnessResult.FairnessScore,
		ConfidenceLevel:         fairnessResult.ConfidenceLevel,
		AssessmentRatio:         target.AssessmentRatio(),
		PeerMedianRatio:         fairnessResult.Stats.MedianRatio,
		PeerMeanRatio:           fairnessResult.Stats.MeanRatio,
		PeerStdDevRatio:         fairnessResult.Stats.StdDevRatio,
		NeighborhoodMedianRatio: fairnessResult.Stats.NeighborhoodMedianRatio,
		SubdivisionMedianRatio:  fairnessResult.Stats.SubdivisionMedianRatio,
		ComparableCount:         len(matches),
		ComparableTier:          string(matches[0].Tier),
		RecommendedAction:       action,
		TargetAssessedCents:     savingsEstimate.TargetAssessedCents,
		EstimatedSavingsCents:   savingsEstimate.AnnualSavingsCents,
		FiveYearSavingsCents:    savingsEstimate.FiveYearSavingsCents,
		Methodology:             models.MethodologyStatistical,
		ModelVersion:            o.cfg.ModelVersion,
		Parameters: models.AnalysisParameters{
			ValueWindowRatio:      o.cfg.ValueWindowRatio,
			AcreWindowRatio:       o.cfg.AcreWindowRatio,
			ProximityMiles:        o.cfg.ProximityMiles,
			MaxComparables:        o.cfg.MaxComparables,
			MinSubdivisionMatches: o.cfg.MinSubdivisionMatches,
			MillRateEffective:     o.cfg.MillRateEffective,
			ModelVersion:          o.cfg.ModelVersion,
		},
	}

	id, err := o.analyses.Save(ctx, analysis)
	if err != nil {
		return nil, fmt.Errorf("analyzer: save analysis for %d: %w", propertyID, err)
	}
	analysis.ID = id

	return analysis, nil
}

func (o *orchestrator) AnalyzeBatch(ctx context.Context, propertyIDs []int64) (BatchSummary, error) {
	summary := BatchSummary{Analyses: make([]models.Analysis, 0, len(propertyIDs))}

	for i, id := range propertyIDs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		a, err := o.Analyze(ctx, id, false)
		if err != nil {
			switch {
			case errs.Is(err, errs.Data):
				summary.SkippedData++
			case errs.Is(err, errs.Input):
				summary.SkippedInput++
			default:
				summary.FailedStore++
			}
			o.log.Error("analysis failed", err, map[string]interface{}{"property_id": id})
			continue
		}
		if a != nil {
			summary.Analyses = append(summary.Analyses, *a)
		}

		if (i+1)%1000 == 0 {
			o.log.Info("batch progress", map[string]interface{}{
				"processed":     i + 1,
				"total":         len(propertyIDs),
				"skipped_data":  summary.SkippedData,
				"skipped_input": summary.SkippedInput,
				"failed_store":  summary.FailedStore,
			})
		}
	}

	return summary, nil
}

func (o *orchestrator) FindAppealCandidates(ctx context.Context, minScore, limit int) ([]models.Analysis, error) {
	candidates, err := o.analyses.FindAppealCandidates(ctx, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("analyzer: find appeal candidates: %w", err)
	}
	return candidates, nil
}

func (o *orchestrator) GetLatestAnalysis(ctx context.Context, propertyID int64) (*models.Analysis, error) {
	a, err := o.analyses.GetLatest(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("analyzer: get latest analysis for %d: %w", propertyID, err)
	}
	return a, nil
}

// recommend applies the strict rule from §4.5.
func recommend(fairnessScore, confidence int, annualSavingsCents int64, cfg config.AnalysisConfig) models.RecommendedAction {
	t := cfg.FairnessThresholds
	s := cfg.SavingsThresholds

	if fairnessScore >= t.AppealStrong && confidence >= 60 && annualSavingsCents >= s.StrongCents {
		return models.ActionAppeal
	}
	if fairnessScore >= t.AppealModerate && annualSavingsCents >= s.ModerateCents {
		return models.ActionAppeal
	}
	if fairnessScore >= t.Monitor {
		return models.ActionMonitor
	}
	return models.ActionNone
}
