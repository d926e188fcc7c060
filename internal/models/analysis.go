package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecommendedAction is the closed set of actions the orchestrator may
// stamp on an Analysis.
type RecommendedAction string

const (
	ActionAppeal  RecommendedAction = "APPEAL"
	ActionMonitor RecommendedAction = "MONITOR"
	ActionNone    RecommendedAction = "NONE"
)

// Methodology tags how an Analysis was produced. STATISTICAL is the only
// methodology this core implements.
type Methodology string

const MethodologyStatistical Methodology = "STATISTICAL"

// AnalysisParameters is the configuration snapshot used to produce an
// Analysis, persisted alongside it for reproducibility.
type AnalysisParameters struct {
	ValueWindowRatio      float64 `json:"value_window_ratio"`
	AcreWindowRatio       float64 `json:"acre_window_ratio"`
	ProximityMiles        float64 `json:"proximity_miles"`
	MaxComparables        int     `json:"max_comparables"`
	MinSubdivisionMatches int     `json:"min_subdivision_matches"`
	MillRateEffective     float64 `json:"mill_rate_effective"`
	ModelVersion          string  `json:"model_version"`
}

// Value implements driver.Valuer, storing the parameters as jsonb.
func (p AnalysisParameters) Value() (driver.Value, error) {
	out, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis parameters: %w", err)
	}
	return string(out), nil
}

// Scan implements sql.Scanner.
func (p *AnalysisParameters) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan AnalysisParameters: expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, p)
}

// Analysis is one row per (property, analysis_date): the result of
// composing the comparable, fairness, and savings components for a
// single property.
type Analysis struct {
	ID           int64
	PropertyID   int64
	AnalysisDate time.Time

	FairnessScore   int
	ConfidenceLevel int
	AssessmentRatio float64

	PeerMedianRatio         float64
	PeerMeanRatio           float64
	PeerStdDevRatio         float64
	NeighborhoodMedianRatio *float64
	SubdivisionMedianRatio  *float64
	ComparableCount         int
	ComparableTier          string

	RecommendedAction     RecommendedAction
	TargetAssessedCents   int64
	EstimatedSavingsCents int64
	FiveYearSavingsCents  int64

	Methodology  Methodology
	ModelVersion string
	Parameters   AnalysisParameters

	CreatedAt time.Time
}
