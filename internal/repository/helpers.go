package repository

import (
	"fmt"

	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/models"
)

// geoJSONOf renders a geometry's driver.Value (GeoJSON text) for use as a
// bound parameter to ST_GeomFromGeoJSON. Returns nil for an empty geometry.
func geoJSONOf(mp models.MultiPolygon) interface{} {
	v, err := mp.Value()
	if err != nil {
		return nil
	}
	return v
}

// geoJSONOfPolygon is geoJSONOf for a single-ring-set Polygon, used by the
// subdivision table which stores plain Polygon geometry.
func geoJSONOfPolygon(p models.Polygon) interface{} {
	v, err := p.Value()
	if err != nil {
		return nil
	}
	return v
}

// centroidOf returns the lat, lng centroid of a single polygon, wrapping
// internal/geo.Centroid with the column-order this package's callers use.
func centroidOf(p models.Polygon) (lat, lng float64, err error) {
	lat, lng, err = geo.Centroid(p)
	if err != nil {
		return 0, 0, fmt.Errorf("centroid: %w", err)
	}
	return lat, lng, nil
}
