package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mjmurray03/taxdown/internal/database"
	"github.com/mjmurray03/taxdown/internal/models"
)

// SubdivisionRepository defines data access over the subdivisions table,
// including the spatial containment join ingest uses to attribute a
// property to a subdivision (§4.1).
type SubdivisionRepository interface {
	// GetByID returns the subdivision with the given id, or nil, nil if
	// no row is found.
	GetByID(ctx context.Context, id int64) (*models.Subdivision, error)

	// FindContaining returns the subdivision whose polygon contains the
	// given point (lat, lng), or nil, nil if no subdivision matches. A
	// point inside more than one subdivision polygon resolves to the
	// lowest id. Containment is ST_Contains, so a point lying exactly on
	// a polygon's boundary is not contained by that polygon.
	FindContaining(ctx context.Context, lat, lng float64) (*models.Subdivision, error)

	// Insert writes a new subdivision row inside tx, returning its id.
	Insert(ctx context.Context, tx pgx.Tx, s *models.Subdivision) (int64, error)
}

type subdivisionRepository struct {
	db *database.Database
}

// NewSubdivisionRepository creates a SubdivisionRepository backed by db.
func NewSubdivisionRepository(db *database.Database) SubdivisionRepository {
	return &subdivisionRepository{db: db}
}

const subdivisionColumns = `
	id, name, cama_name, shape_length, shape_area,
	ST_AsGeoJSON(geom) as geometry, created_at, updated_at`

func scanSubdivision(row pgx.Row) (*models.Subdivision, error) {
	var s models.Subdivision
	var geomJSON []byte

	err := row.Scan(
		&s.ID, &s.Name, &s.CamaName, &s.ShapeLength, &s.ShapeArea,
		&geomJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(geomJSON) > 0 {
		if err := s.Geometry.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for subdivision %d: %w", s.ID, err)
		}
	}
	return &s, nil
}

func (r *subdivisionRepository) GetByID(ctx context.Context, id int64) (*models.Subdivision, error) {
	query := `SELECT ` + subdivisionColumns + ` FROM subdivisions WHERE id = $1`

	s, err := scanSubdivision(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query subdivision %d: %w", id, err)
	}
	return s, nil
}

func (r *subdivisionRepository) FindContaining(ctx context.Context, lat, lng float64) (*models.Subdivision, error) {
	query := `
		SELECT ` + subdivisionColumns + `
		FROM subdivisions
		WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		ORDER BY id ASC
		LIMIT 1`

	s, err := scanSubdivision(r.db.Pool.QueryRow(ctx, query, lng, lat))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query containing subdivision for (%f, %f): %w", lat, lng, err)
	}
	return s, nil
}

func (r *subdivisionRepository) Insert(ctx context.Context, tx pgx.Tx, s *models.Subdivision) (int64, error) {
	query := `
		INSERT INTO subdivisions (name, cama_name, shape_length, shape_area, geom, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromGeoJSON($5), 4326), now(), now())
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query, s.Name, s.CamaName, s.ShapeLength, s.ShapeArea, geoJSONOfPolygon(s.Geometry)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert subdivision: %w", err)
	}
	return id, nil
}
