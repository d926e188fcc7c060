package ingest

import (
	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/models"
)

type statePlaneParcel struct {
	candidate *ParcelCandidate
	poly      models.Polygon
}

// enrichBuildings implements the §4.1 building-footprints join: each
// building is reprojected into the parcel working frame, its area and
// centroid computed there, and attributed to the first parcel polygon
// containing that centroid. Parcels with no attributed buildings keep
// the zero values NormalizeParcel leaves them with.
func enrichBuildings(candidates []*ParcelCandidate, zone geo.StatePlaneZone, buildings []BuildingFootprint) {
	if len(buildings) == 0 {
		return
	}

	parcels := make([]statePlaneParcel, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Property.Geometry.Coordinates) == 0 {
			continue
		}
		// Geometry is stored in WGS84; reproject back to the working
		// Cartesian frame purely for this join.
		statePlanePoly := zone.ProjectPolygonFromWGS84(c.Property.Geometry.Coordinates[0])
		parcels = append(parcels, statePlaneParcel{candidate: c, poly: statePlanePoly})
	}

	for _, b := range buildings {
		poly := zone.ProjectPolygonFromWGS84(b.Rings)

		areaSqft, err := geo.Area(poly)
		if err != nil {
			continue
		}
		northing, easting, err := geo.Centroid(poly)
		if err != nil {
			continue
		}

		for _, sp := range parcels {
			contains, err := geo.ContainsPoint(sp.poly, northing, easting)
			if err != nil || !contains {
				continue
			}
			sp.candidate.Property.BuildingCount++
			sp.candidate.Property.TotalBuildingSqft += int(areaSqft)
			if int(areaSqft) > sp.candidate.Property.LargestBuildingSqft {
				sp.candidate.Property.LargestBuildingSqft = int(areaSqft)
			}
			break
		}
	}
}
