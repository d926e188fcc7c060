package geo

import "testing"

// texasSouthCentral approximates Texas state plane zone 4204 (South
// Central), used here only to exercise the inverse LCC math, not as an
// authoritative parameter set.
var texasSouthCentral = StatePlaneZone{
	OriginLat:         27.833333,
	OriginLon:         -99.0,
	StdParallel1:      28.383333,
	StdParallel2:      30.283333,
	FalseEastingFeet:  2296583.333,
	FalseNorthingFeet: 9842500.0,
}

func TestProjectToWGS84_OriginRoundTrips(t *testing.T) {
	lat, lng := texasSouthCentral.ProjectToWGS84(
		texasSouthCentral.FalseEastingFeet,
		texasSouthCentral.FalseNorthingFeet,
	)

	if lat < 27.8 || lat > 27.9 {
		t.Errorf("expected latitude near origin (27.83), got %f", lat)
	}
	if lng < -99.1 || lng > -98.9 {
		t.Errorf("expected longitude near origin (-99.0), got %f", lng)
	}
}

func TestProjectPolygon_PreservesRingCount(t *testing.T) {
	rings := [][][2]float64{
		{
			{2296583, 9842500},
			{2297583, 9842500},
			{2297583, 9843500},
			{2296583, 9843500},
			{2296583, 9842500},
		},
	}

	poly := texasSouthCentral.ProjectPolygon(rings)
	if len(poly.Coordinates) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(poly.Coordinates))
	}
	if len(poly.Coordinates[0]) != 5 {
		t.Fatalf("expected 5 points, got %d", len(poly.Coordinates[0]))
	}
	if poly.SRID != 4326 {
		t.Errorf("expected SRID 4326, got %d", poly.SRID)
	}
}

func TestProjectFromWGS84_RoundTripsWithInverse(t *testing.T) {
	eastingIn, northingIn := texasSouthCentral.FalseEastingFeet+50000, texasSouthCentral.FalseNorthingFeet+20000

	lat, lng := texasSouthCentral.ProjectToWGS84(eastingIn, northingIn)
	eastingOut, northingOut := texasSouthCentral.ProjectFromWGS84(lat, lng)

	if diff := eastingOut - eastingIn; diff > 1 || diff < -1 {
		t.Errorf("expected easting to round-trip within 1ft, got %f vs %f", eastingOut, eastingIn)
	}
	if diff := northingOut - northingIn; diff > 1 || diff < -1 {
		t.Errorf("expected northing to round-trip within 1ft, got %f vs %f", northingOut, northingIn)
	}
}

func TestProjectPoint_OrdersLngLat(t *testing.T) {
	pt := texasSouthCentral.ProjectPoint(texasSouthCentral.FalseEastingFeet, texasSouthCentral.FalseNorthingFeet)
	lng, lat := pt[0], pt[1]
	if lng > 0 {
		t.Errorf("expected a negative longitude for a Texas zone, got %f", lng)
	}
	if lat < 0 {
		t.Errorf("expected a positive latitude for a Texas zone, got %f", lat)
	}
}
