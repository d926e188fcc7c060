package geo

import (
	"math"

	"github.com/mjmurray03/taxdown/internal/models"
)

// StatePlaneZone describes a Lambert Conformal Conic state-plane zone in
// US survey feet, the Cartesian working frame ingest reads source parcel
// and building geometry in (§3, §4.1). No cartographic-projection library
// (proj4 binding or similar) appears anywhere in the retrieved reference
// corpus, so the inverse LCC transform below is implemented directly on
// the standard library; see DESIGN.md.
type StatePlaneZone struct {
	// OriginLat, OriginLon are the projection origin (degrees).
	OriginLat, OriginLon float64
	// StdParallel1, StdParallel2 are the two standard parallels (degrees).
	StdParallel1, StdParallel2 float64
	// FalseEastingFeet, FalseNorthingFeet are added to the projected
	// coordinate at the origin.
	FalseEastingFeet, FalseNorthingFeet float64
}

// usSurveyFootToMeters is the exact US survey foot, per NIST.
const usSurveyFootToMeters = 1200.0 / 3937.0

// earthRadiusMeters is the spherical approximation used by the inverse
// LCC formula below; adequate for the sub-meter precision cadastral
// ingestion needs, not a full ellipsoidal solution.
const earthRadiusMeters = 6371008.8

// ProjectToWGS84 converts a point in a state-plane Cartesian frame (feet)
// to (lat, lng) in WGS84 degrees, via the inverse Lambert Conformal Conic
// formula with two standard parallels.
func (z StatePlaneZone) ProjectToWGS84(eastingFeet, northingFeet float64) (lat, lng float64) {
	R := earthRadiusMeters
	phi0 := toRadians(z.OriginLat)
	phi1 := toRadians(z.StdParallel1)
	phi2 := toRadians(z.StdParallel2)
	lambda0 := toRadians(z.OriginLon)

	n := math.Log(math.Cos(phi1)/math.Cos(phi2)) /
		math.Log(math.Tan(math.Pi/4+phi2/2)/math.Tan(math.Pi/4+phi1/2))
	F := math.Cos(phi1) * math.Pow(math.Tan(math.Pi/4+phi1/2), n) / n
	rho0 := R * F / math.Pow(math.Tan(math.Pi/4+phi0/2), n)

	x := (eastingFeet - z.FalseEastingFeet) * usSurveyFootToMeters
	y := (northingFeet - z.FalseNorthingFeet) * usSurveyFootToMeters

	rho0MinusY := rho0 - y
	rho := math.Copysign(math.Sqrt(x*x+rho0MinusY*rho0MinusY), n)
	theta := math.Atan2(x, rho0MinusY)

	phi := 2*math.Atan(math.Pow(R*F/rho, 1/n)) - math.Pi/2
	lambda := theta/n + lambda0

	return phi * 180 / math.Pi, lambda * 180 / math.Pi
}

// ProjectFromWGS84 converts a (lat, lng) WGS84 point into this zone's
// state-plane Cartesian frame (feet), the forward Lambert Conformal
// Conic transform. Used to bring the building-footprints feed (lat/lon)
// into the parcel working frame for the enrichment join (§4.1).
func (z StatePlaneZone) ProjectFromWGS84(lat, lng float64) (eastingFeet, northingFeet float64) {
	R := earthRadiusMeters
	phi0 := toRadians(z.OriginLat)
	phi1 := toRadians(z.StdParallel1)
	phi2 := toRadians(z.StdParallel2)
	lambda0 := toRadians(z.OriginLon)
	phi := toRadians(lat)
	lambda := toRadians(lng)

	n := math.Log(math.Cos(phi1)/math.Cos(phi2)) /
		math.Log(math.Tan(math.Pi/4+phi2/2)/math.Tan(math.Pi/4+phi1/2))
	F := math.Cos(phi1) * math.Pow(math.Tan(math.Pi/4+phi1/2), n) / n
	rho0 := R * F / math.Pow(math.Tan(math.Pi/4+phi0/2), n)

	rho := R * F / math.Pow(math.Tan(math.Pi/4+phi/2), n)
	theta := n * (lambda - lambda0)

	x := rho * math.Sin(theta)
	y := rho0 - rho*math.Cos(theta)

	eastingFeet = x/usSurveyFootToMeters + z.FalseEastingFeet
	northingFeet = y/usSurveyFootToMeters + z.FalseNorthingFeet
	return eastingFeet, northingFeet
}

// ProjectPolygonFromWGS84 reprojects every ring vertex of a WGS84
// polygon into this zone's state-plane Cartesian frame (feet).
func (z StatePlaneZone) ProjectPolygonFromWGS84(rings [][][2]float64) models.Polygon {
	out := make([][][2]float64, len(rings))
	for i, ring := range rings {
		pts := make([][2]float64, len(ring))
		for j, pt := range ring {
			// Input rings are [lng, lat] per the GeoJSON/Polygon convention.
			easting, northing := z.ProjectFromWGS84(pt[1], pt[0])
			pts[j] = [2]float64{easting, northing}
		}
		out[i] = pts
	}
	return models.Polygon{Coordinates: out, SRID: 0}
}

// ProjectPolygon reprojects every ring vertex of a state-plane polygon
// into a WGS84 Polygon, the storage representation required by §3.
func (z StatePlaneZone) ProjectPolygon(rings [][][2]float64) models.Polygon {
	out := make([][][2]float64, len(rings))
	for i, ring := range rings {
		pts := make([][2]float64, len(ring))
		for j, pt := range ring {
			lat, lng := z.ProjectToWGS84(pt[0], pt[1])
			pts[j] = [2]float64{lng, lat}
		}
		out[i] = pts
	}
	return models.Polygon{Coordinates: out, SRID: 4326}
}

// ProjectPoint reprojects a single state-plane (easting, northing) point
// to a [lng, lat] WGS84 pair, matching the ordering of the polygon
// coordinate arrays elsewhere in this package.
func (z StatePlaneZone) ProjectPoint(eastingFeet, northingFeet float64) [2]float64 {
	lat, lng := z.ProjectToWGS84(eastingFeet, northingFeet)
	return [2]float64{lng, lat}
}
