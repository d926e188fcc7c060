package geo

import (
	"fmt"

	"github.com/mjmurray03/taxdown/internal/models"
)

// Centroid returns the lat/lon centroid of a polygon's outer ring using
// the standard signed-area (shoelace) centroid formula. Interior rings
// (holes) are not subtracted out: cadastral polygons in this corpus are
// simple exterior boundaries, and a hole-aware centroid is not needed for
// point-in-polygon attribution or synthetic-id hashing.
func Centroid(p models.Polygon) (lat, lng float64, err error) {
	g, err := p.ToGeom()
	if err != nil {
		return 0, 0, fmt.Errorf("centroid: %w", err)
	}
	if g.NumLinearRings() == 0 {
		return 0, 0, fmt.Errorf("centroid: polygon has no rings")
	}

	ring := g.Coords()[0]
	if len(ring) < 3 {
		return 0, 0, fmt.Errorf("centroid: ring has fewer than 3 points")
	}

	var signedArea, cx, cy float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := ring[i].X(), ring[i].Y()
		xj, yj := ring[j].X(), ring[j].Y()
		cross := xi*yj - xj*yi
		signedArea += cross
		cx += (xi + xj) * cross
		cy += (yi + yj) * cross
	}
	signedArea *= 0.5

	if signedArea == 0 {
		// Degenerate ring (collinear points): fall back to the
		// arithmetic mean of vertices.
		var sx, sy float64
		for _, c := range ring {
			sx += c.X()
			sy += c.Y()
		}
		return sy / float64(n), sx / float64(n), nil
	}

	cx /= 6 * signedArea
	cy /= 6 * signedArea
	return cy, cx, nil
}

// MultiCentroid returns the centroid of a multipolygon's largest-area
// member polygon (by outer-ring shoelace area), matching the convention
// used for parcel geometries uplifted to MultiPolygon by ingest.
func MultiCentroid(mp models.MultiPolygon) (lat, lng float64, err error) {
	if len(mp.Coordinates) == 0 {
		return 0, 0, fmt.Errorf("multicentroid: empty multipolygon")
	}

	bestArea := -1.0
	var best models.Polygon
	for _, rings := range mp.Coordinates {
		poly := models.Polygon{Coordinates: rings, SRID: mp.SRID}
		a, err := Area(poly)
		if err != nil {
			continue
		}
		if a > bestArea {
			bestArea = a
			best = poly
		}
	}
	if bestArea < 0 {
		return 0, 0, fmt.Errorf("multicentroid: no usable polygon member")
	}
	return Centroid(best)
}

// Area returns the unsigned shoelace area of a polygon's outer ring, in
// the units of its coordinates (square degrees for 4326 geometry; square
// feet when called against the ingest-time state-plane working frame).
func Area(p models.Polygon) (float64, error) {
	g, err := p.ToGeom()
	if err != nil {
		return 0, fmt.Errorf("area: %w", err)
	}
	if g.NumLinearRings() == 0 {
		return 0, fmt.Errorf("area: polygon has no rings")
	}

	ring := g.Coords()[0]
	var signedArea float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		signedArea += ring[i].X()*ring[j].Y() - ring[j].X()*ring[i].Y()
	}
	signedArea *= 0.5
	if signedArea < 0 {
		signedArea = -signedArea
	}
	return signedArea, nil
}
