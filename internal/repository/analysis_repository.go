package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mjmurray03/taxdown/internal/database"
	"github.com/mjmurray03/taxdown/internal/models"
)

// AnalysisRepository defines data access over the analyses table. Save is
// idempotent per (property_id, analysis_date): re-running an analysis for
// a property on the same day replaces the prior row rather than
// duplicating it (§6).
type AnalysisRepository interface {
	// Save upserts an analysis, keyed on (property_id, analysis_date).
	Save(ctx context.Context, a *models.Analysis) (int64, error)

	// GetLatest returns the most recent analysis for a property, or
	// nil, nil if the property has never been analyzed.
	GetLatest(ctx context.Context, propertyID int64) (*models.Analysis, error)

	// FindAppealCandidates returns the latest analysis per property
	// among those with fairness_score >= minScore, ordered by
	// descending estimated savings, up to limit rows.
	FindAppealCandidates(ctx context.Context, minScore, limit int) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *database.Database
}

// NewAnalysisRepository creates an AnalysisRepository backed by db.
func NewAnalysisRepository(db *database.Database) AnalysisRepository {
	return &analysisRepository{db: db}
}

const analysisColumns = `
	id, property_id, analysis_date,
	fairness_score, confidence_level, assessment_ratio,
	peer_median_ratio, peer_mean_ratio, peer_stddev_ratio,
	neighborhood_median_ratio, subdivision_median_ratio,
	comparable_count, comparable_tier,
	recommended_action, target_assessed_cents, estimated_savings_cents, five_year_savings_cents,
	methodology, model_version, parameters, created_at`

func scanAnalysis(row pgx.Row) (*models.Analysis, error) {
	var a models.Analysis
	err := row.Scan(
		&a.ID, &a.PropertyID, &a.AnalysisDate,
		&a.FairnessScore, &a.ConfidenceLevel, &a.AssessmentRatio,
		&a.PeerMedianRatio, &a.PeerMeanRatio, &a.PeerStdDevRatio,
		&a.NeighborhoodMedianRatio, &a.SubdivisionMedianRatio,
		&a.ComparableCount, &a.ComparableTier,
		&a.RecommendedAction, &a.TargetAssessedCents, &a.EstimatedSavingsCents, &a.FiveYearSavingsCents,
		&a.Methodology, &a.ModelVersion, &a.Parameters, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) Save(ctx context.Context, a *models.Analysis) (int64, error) {
	query := `
		INSERT INTO analyses (
			property_id, analysis_date,
			fairness_score, confidence_level, assessment_ratio,
			peer_median_ratio, peer_mean_ratio, peer_stddev_ratio,
			neighborhood_median_ratio, subdivision_median_ratio,
			comparable_count, comparable_tier,
			recommended_action, target_assessed_cents, estimated_savings_cents, five_year_savings_cents,
			methodology, model_version, parameters, created_at
		) VALUES (
			$1, $2,
			$3, $4, $5,
			$6, $7, $8,
			$9, $10,
			$11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, now()
		)
		ON CONFLICT (property_id, analysis_date) DO UPDATE SET
			fairness_score = EXCLUDED.fairness_score,
			confidence_level = EXCLUDED.confidence_level,
			assessment_ratio = EXCLUDED.assessment_ratio,
			peer_median_ratio = EXCLUDED.peer_median_ratio,
			peer_mean_ratio = EXCLUDED.peer_mean_ratio,
			peer_stddev_ratio = EXCLUDED.peer_stddev_ratio,
			neighborhood_median_ratio = EXCLUDED.neighborhood_median_ratio,
			subdivision_median_ratio = EXCLUDED.subdivision_median_ratio,
			comparable_count = EXCLUDED.comparable_count,
			comparable_tier = EXCLUDED.comparable_tier,
			recommended_action = EXCLUDED.recommended_action,
			target_assessed_cents = EXCLUDED.target_assessed_cents,
			estimated_savings_cents = EXCLUDED.estimated_savings_cents,
			five_year_savings_cents = EXCLUDED.five_year_savings_cents,
			methodology = EXCLUDED.methodology,
			model_version = EXCLUDED.model_version,
			parameters = EXCLUDED.parameters,
			created_at = now()
		RETURNING id`

	date := a.AnalysisDate
	if date.IsZero() {
		return 0, fmt.Errorf("analysis date must be set")
	}

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		a.PropertyID, date,
		a.FairnessScore, a.ConfidenceLevel, a.AssessmentRatio,
		a.PeerMedianRatio, a.PeerMeanRatio, a.PeerStdDevRatio,
		a.NeighborhoodMedianRatio, a.SubdivisionMedianRatio,
		a.ComparableCount, a.ComparableTier,
		a.RecommendedAction, a.TargetAssessedCents, a.EstimatedSavingsCents, a.FiveYearSavingsCents,
		a.Methodology, a.ModelVersion, a.Parameters,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis for property %d: %w", a.PropertyID, err)
	}
	return id, nil
}

func (r *analysisRepository) GetLatest(ctx context.Context, propertyID int64) (*models.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE property_id = $1
		ORDER BY analysis_date DESC, created_at DESC
		LIMIT 1`

	a, err := scanAnalysis(r.db.Pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest analysis for property %d: %w", propertyID, err)
	}
	return a, nil
}

func (r *analysisRepository) FindAppealCandidates(ctx context.Context, minScore, limit int) ([]models.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM (
			SELECT DISTINCT ON (property_id) *
			FROM analyses
			ORDER BY property_id, analysis_date DESC, created_at DESC
		) latest
		WHERE fairness_score >= $1
		ORDER BY estimated_savings_cents DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query appeal candidates: %w", err)
	}
	defer rows.Close()

	var out []models.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading analysis rows: %w", err)
	}
	return out, nil
}
