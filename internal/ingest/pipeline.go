// Package ingest reads cadastral parcel and subdivision shapefiles,
// reprojects and normalizes them, runs building-footprint enrichment
// and subdivision attribution, scores data quality, and loads the
// result transactionally (§4.1).
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mjmurray03/taxdown/internal/config"
	"github.com/mjmurray03/taxdown/internal/database"
	"github.com/mjmurray03/taxdown/internal/errs"
	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/logger"
	"github.com/mjmurray03/taxdown/internal/models"
	"github.com/mjmurray03/taxdown/internal/repository"
)

// ErrBudgetExceeded is returned by LoadParcels when the run's error
// rate exceeds its configured budget; the load is rolled back.
var ErrBudgetExceeded = errors.New("ingest: error budget exceeded")

// ParcelCandidate is one parcel moving through the pipeline: the
// normalized property plus the attributes needed for later steps
// (dedup, enrichment) that don't belong on the persisted model.
type ParcelCandidate struct {
	Property *models.Property
}

// BuildingFootprint is one record from the national building feed, in
// WGS84 (lat/lng) as received.
type BuildingFootprint struct {
	Rings [][][2]float64
}

// Summary is the structured result of a load run, printed as a single
// JSON object by the CLI (§4.1, §7).
type Summary struct {
	RunID          uuid.UUID `json:"run_id"`
	SourcePath     string    `json:"source_path"`
	TotalRead      int       `json:"total_read"`
	Deduplicated   int       `json:"deduplicated"`
	Loaded         int       `json:"loaded"`
	Skipped        int       `json:"skipped"`
	ErrorBudget    float64   `json:"error_budget"`
	ErrorRate      float64   `json:"error_rate"`
	Aborted        bool      `json:"aborted"`
}

// Pipeline drives a single parcel or subdivision load.
type Pipeline struct {
	db         *database.Database
	properties repository.PropertyRepository
	subdivs    repository.SubdivisionRepository
	audit      repository.AuditRepository
	cfg        config.IngestConfig
	log        *logger.Logger
}

// NewPipeline constructs a Pipeline backed by the given repositories.
func NewPipeline(db *database.Database, properties repository.PropertyRepository, subdivs repository.SubdivisionRepository, audit repository.AuditRepository, cfg config.IngestConfig, log *logger.Logger) *Pipeline {
	return &Pipeline{db: db, properties: properties, subdivs: subdivs, audit: audit, cfg: cfg, log: log}
}

// LoadSubdivisions reads a subdivision shapefile and loads every record
// transactionally. Subdivisions carry no error-budget concept of their
// own in §4.1; a malformed row is skipped and logged but not counted
// against any budget.
func (p *Pipeline) LoadSubdivisions(ctx context.Context, path string, zone geo.StatePlaneZone) (Summary, error) {
	runID := uuid.New()
	records, err := ReadShapefile(path)
	if err != nil {
		return Summary{}, errs.Wrap(errs.Ingest, fmt.Sprintf("read subdivisions %s", path), err)
	}

	summary := Summary{RunID: runID, SourcePath: path, TotalRead: len(records)}

	tx, err := p.db.Pool.Begin(ctx)
	if err != nil {
		return Summary{}, errs.Wrap(errs.Store, "begin subdivision load tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, rec := range records {
		s := NormalizeSubdivision(rec, zone)
		if _, err := p.subdivs.Insert(ctx, tx, s); err != nil {
			summary.Skipped++
			p.log.Warn("subdivision row skipped", map[string]interface{}{
				"run_id": runID, "name": s.Name, "error": err.Error(),
			})
			continue
		}
		summary.Loaded++
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, errs.Wrap(errs.Store, "commit subdivision load", err)
	}

	p.log.Info("subdivision load complete", map[string]interface{}{
		"run_id": runID, "loaded": summary.Loaded, "skipped": summary.Skipped,
	})
	return summary, nil
}

// LoadParcels reads a parcel shapefile plus a building-footprints feed,
// runs the full §4.1 pipeline, and loads the result inside one
// transaction. Every attempted record gets one data_quality_audit row.
// Exceeding the configured error budget aborts the load and rolls back.
func (p *Pipeline) LoadParcels(ctx context.Context, path string, zone geo.StatePlaneZone, buildings []BuildingFootprint) (Summary, error) {
	runID := uuid.New()
	records, err := ReadShapefile(path)
	if err != nil {
		return Summary{}, errs.Wrap(errs.Ingest, fmt.Sprintf("read parcels %s", path), err)
	}

	candidates := make([]*ParcelCandidate, 0, len(records))
	for _, rec := range records {
		prop := NormalizeParcel(rec, zone)
		if err := assignSyntheticID(prop); err != nil {
			p.log.Warn("synthetic id assignment failed", map[string]interface{}{"run_id": runID, "error": err.Error()})
		}
		candidates = append(candidates, &ParcelCandidate{Property: prop})
	}

	deduped := Deduplicate(candidates)
	summary := Summary{
		RunID:        runID,
		SourcePath:   path,
		TotalRead:    len(records),
		Deduplicated: len(records) - len(deduped),
		ErrorBudget:  p.cfg.ErrorBudgetFraction,
	}

	enrichBuildings(deduped, zone, buildings)

	tx, err := p.db.Pool.Begin(ctx)
	if err != nil {
		return Summary{}, errs.Wrap(errs.Store, "begin parcel load tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, c := range deduped {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if err := p.attributeSubdivision(ctx, c.Property); err != nil {
			p.log.Warn("subdivision attribution failed", map[string]interface{}{
				"run_id": runID, "parcel_id": effectiveIDOrEmpty(c.Property), "error": err.Error(),
			})
		}

		c.Property.DataQualityScore = ScoreQuality(
			c.Property.IsSynthetic,
			c.Property.TotalValueCents == 0,
			c.Property.OwnerName == nil,
			c.Property.PropertyAddress == nil,
			!c.Property.GeometryValid,
		)

		id, err := p.properties.Insert(ctx, tx, c.Property)
		if err != nil {
			summary.Skipped++
			p.recordAudit(ctx, tx, runID, path, nil, c.Property.ParcelID, err.Error())
			continue
		}
		c.Property.ID = id
		summary.Loaded++
		p.recordAudit(ctx, tx, runID, path, &id, c.Property.ParcelID, "loaded")
	}

	if summary.Loaded+summary.Skipped > 0 {
		summary.ErrorRate = float64(summary.Skipped) / float64(summary.Loaded+summary.Skipped)
	}
	if summary.ErrorRate > p.cfg.ErrorBudgetFraction {
		summary.Aborted = true
		p.log.Error("parcel load exceeded error budget, rolling back", nil, map[string]interface{}{
			"run_id": runID, "error_rate": summary.ErrorRate, "budget": p.cfg.ErrorBudgetFraction,
		})
		return summary, errs.Wrap(errs.Ingest, fmt.Sprintf("error rate %.4f exceeds budget %.4f", summary.ErrorRate, p.cfg.ErrorBudgetFraction), ErrBudgetExceeded)
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, errs.Wrap(errs.Store, "commit parcel load", err)
	}
	committed = true

	p.log.Info("parcel load complete", map[string]interface{}{
		"run_id": runID, "loaded": summary.Loaded, "skipped": summary.Skipped,
		"deduplicated": summary.Deduplicated, "error_rate": summary.ErrorRate,
	})
	return summary, nil
}

func (p *Pipeline) attributeSubdivision(ctx context.Context, prop *models.Property) error {
	if len(prop.Geometry.Coordinates) == 0 {
		return nil
	}
	lat, lng, err := geo.MultiCentroid(prop.Geometry)
	if err != nil {
		return err
	}

	sub, err := p.subdivs.FindContaining(ctx, lat, lng)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	prop.SubdivisionID = &sub.ID
	if prop.SubdivisionName == nil {
		prop.SubdivisionName = &sub.Name
	}
	return nil
}

func (p *Pipeline) recordAudit(ctx context.Context, tx pgx.Tx, runID uuid.UUID, sourcePath string, propertyID *int64, parcelID *string, reason string) {
	entry := repository.AuditEntry{
		RunID:      runID,
		SourcePath: sourcePath,
		PropertyID: propertyID,
		ParcelID:   parcelID,
		Reason:     reason,
	}
	if err := p.audit.Record(ctx, tx, entry); err != nil {
		p.log.Warn("failed to record audit entry", map[string]interface{}{"run_id": runID, "error": err.Error()})
	}
}

func effectiveIDOrEmpty(p *models.Property) string {
	if p == nil {
		return ""
	}
	return p.EffectiveID()
}
