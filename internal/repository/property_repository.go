package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mjmurray03/taxdown/internal/database"
	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/models"
)

// PropertyRepository defines parameter-bound data access over the
// properties table. Lookups by id, the two-tier comparable queries and
// the assessment-ratio queries serve the analyzer; Insert serves ingest.
type PropertyRepository interface {
	// GetByID returns the property with the given internal id.
	// Returns nil, nil if no row is found.
	GetByID(ctx context.Context, id int64) (*models.Property, error)

	// FindSubdivisionTierComparables returns candidates sharing the
	// target's subdivision and property type, within the value/acre
	// windows, excluding the target. Ordered by descending total value
	// proximity is not required here; comparable.FindComparables does
	// the scoring and ordering.
	FindSubdivisionTierComparables(ctx context.Context, target *models.Property, valueWindowRatio, acreWindowRatio float64, limit int) ([]models.Property, error)

	// FindProximityTierComparables returns candidates whose centroid lies
	// within proximityMiles of the target's centroid (great-circle
	// distance on the geography interpretation), within the
	// value/acre/type windows. Distance is measured centroid to centroid
	// only; a candidate whose polygon reaches within range while its
	// centroid lies farther away is not returned.
	FindProximityTierComparables(ctx context.Context, target *models.Property, proximityMiles, valueWindowRatio, acreWindowRatio float64, limit int) ([]models.Property, error)

	// Insert writes a new property row inside tx, returning its id.
	Insert(ctx context.Context, tx pgx.Tx, p *models.Property) (int64, error)

	// AssessmentRatiosBySectionTownshipRange returns assessed/total
	// ratios for every property sharing str with positive total value,
	// excluding excludeID. Feeds the fairness scorer's informational
	// neighborhood median ratio (§4.3).
	AssessmentRatiosBySectionTownshipRange(ctx context.Context, str string, excludeID int64) ([]float64, error)

	// AssessmentRatiosBySubdivision is AssessmentRatiosBySectionTownshipRange
	// scoped to a subdivision id instead.
	AssessmentRatiosBySubdivision(ctx context.Context, subdivisionID int64, excludeID int64) ([]float64, error)
}

type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a PropertyRepository backed by db.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id, parcel_id, synthetic_parcel_id, is_synthetic,
	owner_name, owner_address, property_address, property_type,
	section_township_range, school_district, subdivision_name, subdivision_id,
	city, zip, acre_area, shape_length, shape_area,
	building_count, total_building_sqft, largest_building_sqft,
	land_value_cents, improvement_value_cents, assessed_value_cents, total_value_cents,
	geometry_valid, data_quality_score, ST_AsGeoJSON(geom) as geometry,
	created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	var geomJSON []byte

	err := row.Scan(
		&p.ID, &p.ParcelID, &p.SyntheticParcelID, &p.IsSynthetic,
		&p.OwnerName, &p.OwnerAddress, &p.PropertyAddress, &p.PropertyType,
		&p.SectionTownshipRange, &p.SchoolDistrict, &p.SubdivisionName, &p.SubdivisionID,
		&p.City, &p.Zip, &p.AcreArea, &p.ShapeLength, &p.ShapeArea,
		&p.BuildingCount, &p.TotalBuildingSqft, &p.LargestBuildingSqft,
		&p.LandValueCents, &p.ImprovementValueCents, &p.AssessedValueCents, &p.TotalValueCents,
		&p.GeometryValid, &p.DataQualityScore, &geomJSON,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(geomJSON) > 0 {
		if err := p.Geometry.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for property %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property %d: %w", id, err)
	}
	return p, nil
}

func (r *propertyRepository) FindSubdivisionTierComparables(ctx context.Context, target *models.Property, valueWindowRatio, acreWindowRatio float64, limit int) ([]models.Property, error) {
	if target.SubdivisionName == nil || target.PropertyType == nil || target.AcreArea == nil {
		return nil, nil
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id != $1
		  AND subdivision_name = $2
		  AND property_type = $3
		  AND total_value_cents BETWEEN $4 AND $5
		  AND acre_area BETWEEN $6 AND $7
		  AND total_value_cents > 0
		  AND acre_area IS NOT NULL
		  AND geom IS NOT NULL
		ORDER BY id ASC
		LIMIT $8`

	minValue := int64(float64(target.TotalValueCents) * (1 - valueWindowRatio))
	maxValue := int64(float64(target.TotalValueCents) * (1 + valueWindowRatio))
	minAcre := *target.AcreArea * (1 - acreWindowRatio)
	maxAcre := *target.AcreArea * (1 + acreWindowRatio)

	rows, err := r.db.Pool.Query(ctx, query,
		target.ID, *target.SubdivisionName, *target.PropertyType,
		minValue, maxValue, minAcre, maxAcre, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query subdivision-tier comparables: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func (r *propertyRepository) FindProximityTierComparables(ctx context.Context, target *models.Property, proximityMiles, valueWindowRatio, acreWindowRatio float64, limit int) ([]models.Property, error) {
	if target.PropertyType == nil || target.AcreArea == nil || len(target.Geometry.Coordinates) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id != $1
		  AND property_type = $2
		  AND total_value_cents BETWEEN $3 AND $4
		  AND acre_area BETWEEN $5 AND $6
		  AND total_value_cents > 0
		  AND acre_area IS NOT NULL
		  AND geom IS NOT NULL
		  AND ST_DWithin(
		        ST_Centroid(geom)::geography,
		        ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography,
		        $9
		      )
		ORDER BY ST_Distance(ST_Centroid(geom)::geography, ST_SetSRID(ST_MakePoint($7, $8), 4326)::geography) ASC
		LIMIT $10`

	minValue := int64(float64(target.TotalValueCents) * (1 - valueWindowRatio))
	maxValue := int64(float64(target.TotalValueCents) * (1 + valueWindowRatio))
	minAcre := *target.AcreArea * (1 - acreWindowRatio)
	maxAcre := *target.AcreArea * (1 + acreWindowRatio)
	proximityMeters := proximityMiles * 1609.344

	lat, lng, err := targetCentroid(target)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, query,
		target.ID, *target.PropertyType,
		minValue, maxValue, minAcre, maxAcre,
		lng, lat, proximityMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query proximity-tier comparables: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func (r *propertyRepository) Insert(ctx context.Context, tx pgx.Tx, p *models.Property) (int64, error) {
	query := `
		INSERT INTO properties (
			parcel_id, synthetic_parcel_id, is_synthetic,
			owner_name, owner_address, property_address, property_type,
			section_township_range, school_district, subdivision_name, subdivision_id,
			city, zip, acre_area, shape_length, shape_area,
			building_count, total_building_sqft, largest_building_sqft,
			land_value_cents, improvement_value_cents, assessed_value_cents, total_value_cents,
			geometry_valid, data_quality_score, geom, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, ST_SetSRID(ST_GeomFromGeoJSON($26), 4326), now(), now()
		)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		p.ParcelID, p.SyntheticParcelID, p.IsSynthetic,
		p.OwnerName, p.OwnerAddress, p.PropertyAddress, p.PropertyType,
		p.SectionTownshipRange, p.SchoolDistrict, p.SubdivisionName, p.SubdivisionID,
		p.City, p.Zip, p.AcreArea, p.ShapeLength, p.ShapeArea,
		p.BuildingCount, p.TotalBuildingSqft, p.LargestBuildingSqft,
		p.LandValueCents, p.ImprovementValueCents, p.AssessedValueCents, p.TotalValueCents,
		p.GeometryValid, p.DataQualityScore, geoJSONOf(p.Geometry),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property: %w", err)
	}
	return id, nil
}

func (r *propertyRepository) AssessmentRatiosBySectionTownshipRange(ctx context.Context, str string, excludeID int64) ([]float64, error) {
	query := `
		SELECT assessed_value_cents::float8 / total_value_cents::float8
		FROM properties
		WHERE section_township_range = $1
		  AND id != $2
		  AND total_value_cents > 0`

	return queryRatios(ctx, r.db, query, str, excludeID)
}

func (r *propertyRepository) AssessmentRatiosBySubdivision(ctx context.Context, subdivisionID int64, excludeID int64) ([]float64, error) {
	query := `
		SELECT assessed_value_cents::float8 / total_value_cents::float8
		FROM properties
		WHERE subdivision_id = $1
		  AND id != $2
		  AND total_value_cents > 0`

	return queryRatios(ctx, r.db, query, subdivisionID, excludeID)
}

func queryRatios(ctx context.Context, db *database.Database, query string, args ...interface{}) ([]float64, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment ratios: %w", err)
	}
	defer rows.Close()

	var ratios []float64
	for rows.Next() {
		var ratio float64
		if err := rows.Scan(&ratio); err != nil {
			return nil, fmt.Errorf("failed to scan assessment ratio: %w", err)
		}
		ratios = append(ratios, ratio)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading assessment ratio rows: %w", err)
	}
	return ratios, nil
}

func collectProperties(rows pgx.Rows) ([]models.Property, error) {
	var out []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading property rows: %w", err)
	}
	return out, nil
}

func targetCentroid(target *models.Property) (lat, lng float64, err error) {
	if len(target.Geometry.Coordinates) == 0 {
		return 0, 0, fmt.Errorf("target property %d has no geometry", target.ID)
	}
	lat, lng, err = geo.MultiCentroid(target.Geometry)
	if err != nil {
		return 0, 0, fmt.Errorf("target property %d geometry invalid: %w", target.ID, err)
	}
	return lat, lng, nil
}
