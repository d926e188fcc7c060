package geo

import (
	"fmt"

	"github.com/mjmurray03/taxdown/internal/models"
)

// ContainsPoint reports whether (lat, lng) lies inside the polygon's
// outer ring, using the standard even-odd ray-casting test. Holes are
// ignored, matching the simplification in Centroid.
func ContainsPoint(p models.Polygon, lat, lng float64) (bool, error) {
	g, err := p.ToGeom()
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	if g.NumLinearRings() == 0 {
		return false, fmt.Errorf("contains: polygon has no rings")
	}

	ring := g.Coords()[0]
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].X(), ring[i].Y()
		xj, yj := ring[j].X(), ring[j].Y()

		intersects := (yi > lat) != (yj > lat)
		if intersects {
			xCross := (xj-xi)*(lat-yi)/(yj-yi) + xi
			if lng < xCross {
				inside = !inside
			}
		}
	}
	return inside, nil
}

// IsSelfIntersecting does a naive O(n^2) segment-intersection check over
// a polygon's outer ring. It is intentionally coarse: the store tolerates
// and flags self-intersecting geometry rather than repairing it (§3, §9),
// so this only needs to detect the condition, not localize it.
func IsSelfIntersecting(p models.Polygon) (bool, error) {
	g, err := p.ToGeom()
	if err != nil {
		return false, fmt.Errorf("self-intersection check: %w", err)
	}
	if g.NumLinearRings() == 0 {
		return false, nil
	}

	ring := g.Coords()[0]
	n := len(ring)
	if n < 4 {
		return false, nil
	}

	type seg struct{ x1, y1, x2, y2 float64 }
	segs := make([]seg, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		segs[i] = seg{ring[i].X(), ring[i].Y(), ring[j].X(), ring[j].Y()}
	}

	for i := 0; i < len(segs); i++ {
		for k := i + 1; k < len(segs); k++ {
			// Adjacent segments share an endpoint by construction; skip.
			if k == i+1 || (i == 0 && k == len(segs)-1) {
				continue
			}
			if segmentsIntersect(segs[i], segs[k]) {
				return true, nil
			}
		}
	}
	return false, nil
}

type segment = struct{ x1, y1, x2, y2 float64 }

func segmentsIntersect(a, b segment) bool {
	d1 := cross(b.x2-b.x1, b.y2-b.y1, a.x1-b.x1, a.y1-b.y1)
	d2 := cross(b.x2-b.x1, b.y2-b.y1, a.x2-b.x1, a.y2-b.y1)
	d3 := cross(a.x2-a.x1, a.y2-a.y1, b.x1-a.x1, b.y1-a.y1)
	d4 := cross(a.x2-a.x1, a.y2-a.y1, b.x2-a.x1, b.y2-a.y1)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}
