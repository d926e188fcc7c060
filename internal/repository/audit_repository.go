package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mjmurray03/taxdown/internal/database"
)

// AuditEntry is one record an ingest run attempted to insert, with its
// outcome as Reason ("loaded" or the insert error), kept for operator
// review (§4.1 error budget).
type AuditEntry struct {
	RunID      uuid.UUID
	SourcePath string
	PropertyID *int64
	ParcelID   *string
	Reason     string
}

// AuditRepository records a per-run journal of parcel ingest: one row
// for every record the load attempts to insert, whether it loaded or
// failed.
type AuditRepository interface {
	// Record writes a single audit entry inside tx.
	Record(ctx context.Context, tx pgx.Tx, e AuditEntry) error

	// CountForRun returns how many audit rows exist for a given run id.
	// The ingest error-budget check does not use it; it works from the
	// load's own loaded/skipped counts.
	CountForRun(ctx context.Context, runID uuid.UUID) (int, error)
}

type auditRepository struct {
	db *database.Database
}

// NewAuditRepository creates an AuditRepository backed by db.
func NewAuditRepository(db *database.Database) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, tx pgx.Tx, e AuditEntry) error {
	query := `
		INSERT INTO data_quality_audit (run_id, source_path, property_id, parcel_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err := tx.Exec(ctx, query, e.RunID, e.SourcePath, e.PropertyID, e.ParcelID, e.Reason)
	if err != nil {
		return fmt.Errorf("failed to record audit entry for run %s: %w", e.RunID, err)
	}
	return nil
}

func (r *auditRepository) CountForRun(ctx context.Context, runID uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM data_quality_audit WHERE run_id = $1`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit rows for run %s: %w", runID, err)
	}
	return count, nil
}
