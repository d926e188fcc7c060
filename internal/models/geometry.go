package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
)

// Polygon represents a single-ring-set polygon geometry. Coordinates are
// GeoJSON-ordered [lon,lat]. SRID 4326 (WGS84) is used for storage; see
// internal/geo for the source Cartesian (state-plane) working frame used
// during ingest.
type Polygon struct {
	Coordinates [][][2]float64
	SRID        int
}

// Scan implements sql.Scanner, reading a polygon stored by the geometry
// store as GeoJSON (e.g. via ST_AsGeoJSON).
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan Polygon: expected []byte, got %T", value)
	}

	var g struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(bytes, &g); err != nil {
		return fmt.Errorf("failed to unmarshal polygon geometry: %w", err)
	}
	if g.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", g.Type)
	}

	p.Coordinates = g.Coordinates
	p.SRID = 4326
	return nil
}

// Value implements driver.Valuer, writing GeoJSON for use with
// ST_GeomFromGeoJSON in parameter-bound queries.
func (p Polygon) Value() (driver.Value, error) {
	if len(p.Coordinates) == 0 {
		return nil, nil
	}

	g := map[string]interface{}{
		"type":        "Polygon",
		"coordinates": p.Coordinates,
	}
	out, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}
	return string(out), nil
}

// MarshalJSON implements json.Marshaler, returning GeoJSON.
func (p Polygon) MarshalJSON() ([]byte, error) {
	g := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(g)
}

// UnmarshalJSON implements json.Unmarshaler, parsing GeoJSON input.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var g struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}
	if g.Type != "" && g.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", g.Type)
	}

	p.Coordinates = g.Coordinates
	p.SRID = 4326
	return nil
}

// ToGeom converts the wire representation into a go-geom Polygon for
// geometric computation (centroid, containment, area) in internal/geo.
func (p Polygon) ToGeom() (*geom.Polygon, error) {
	if len(p.Coordinates) == 0 {
		return nil, fmt.Errorf("cannot convert empty polygon to geometry")
	}
	rings := make([][]geom.Coord, len(p.Coordinates))
	for i, ring := range p.Coordinates {
		coords := make([]geom.Coord, len(ring))
		for j, pt := range ring {
			coords[j] = geom.Coord{pt[0], pt[1]}
		}
		rings[i] = coords
	}
	g, err := geom.NewPolygon(geom.XY).SetCoords(rings)
	if err != nil {
		return nil, fmt.Errorf("failed to build polygon geometry: %w", err)
	}
	g.SetSRID(p.SRID)
	return g, nil
}

// PolygonFromGeom builds the wire representation from a go-geom Polygon,
// the inverse of ToGeom.
func PolygonFromGeom(g *geom.Polygon) Polygon {
	coords := g.Coords()
	rings := make([][][2]float64, len(coords))
	for i, ring := range coords {
		pts := make([][2]float64, len(ring))
		for j, c := range ring {
			pts[j] = [2]float64{c.X(), c.Y()}
		}
		rings[i] = pts
	}
	return Polygon{Coordinates: rings, SRID: 4326}
}

// MultiPolygon represents a multi-ring-set geometry; ingest uplifts every
// parcel polygon to a MultiPolygon of one element per §4.1.
type MultiPolygon struct {
	Coordinates [][][][2]float64
	SRID        int
}

// Scan implements sql.Scanner.
func (mp *MultiPolygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan MultiPolygon: expected []byte, got %T", value)
	}

	var g struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(bytes, &g); err != nil {
		return fmt.Errorf("failed to unmarshal multipolygon geometry: %w", err)
	}
	if g.Type != "MultiPolygon" {
		return fmt.Errorf("expected MultiPolygon type, got %s", g.Type)
	}

	mp.Coordinates = g.Coordinates
	mp.SRID = 4326
	return nil
}

// Value implements driver.Valuer.
func (mp MultiPolygon) Value() (driver.Value, error) {
	if len(mp.Coordinates) == 0 {
		return nil, nil
	}

	g := map[string]interface{}{
		"type":        "MultiPolygon",
		"coordinates": mp.Coordinates,
	}
	out, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multipolygon to GeoJSON: %w", err)
	}
	return string(out), nil
}

// MarshalJSON implements json.Marshaler.
func (mp MultiPolygon) MarshalJSON() ([]byte, error) {
	g := struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{
		Type:        "MultiPolygon",
		Coordinates: mp.Coordinates,
	}
	return json.Marshal(g)
}

// UnmarshalJSON implements json.Unmarshaler.
func (mp *MultiPolygon) UnmarshalJSON(data []byte) error {
	var g struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("failed to unmarshal multipolygon: %w", err)
	}
	if g.Type != "" && g.Type != "MultiPolygon" {
		return fmt.Errorf("expected MultiPolygon type, got %s", g.Type)
	}

	mp.Coordinates = g.Coordinates
	mp.SRID = 4326
	return nil
}

// ToGeom converts the wire representation into a go-geom MultiPolygon.
func (mp MultiPolygon) ToGeom() (*geom.MultiPolygon, error) {
	if len(mp.Coordinates) == 0 {
		return nil, fmt.Errorf("cannot convert empty multipolygon to geometry")
	}
	polys := make([][][]geom.Coord, len(mp.Coordinates))
	for i, poly := range mp.Coordinates {
		rings := make([][]geom.Coord, len(poly))
		for j, ring := range poly {
			coords := make([]geom.Coord, len(ring))
			for k, pt := range ring {
				coords[k] = geom.Coord{pt[0], pt[1]}
			}
			rings[j] = coords
		}
		polys[i] = rings
	}
	g, err := geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipolygon geometry: %w", err)
	}
	g.SetSRID(mp.SRID)
	return g, nil
}

// MultiPolygonFromPolygon uplifts a single polygon to a one-element
// multipolygon, matching the normalization step in §4.1.
func MultiPolygonFromPolygon(p Polygon) MultiPolygon {
	return MultiPolygon{
		Coordinates: [][][][2]float64{p.Coordinates},
		SRID:        4326,
	}
}

// MultiPolygonFromGeom builds the wire representation from a go-geom
// MultiPolygon.
func MultiPolygonFromGeom(g *geom.MultiPolygon) MultiPolygon {
	polys := g.Coords()
	out := make([][][][2]float64, len(polys))
	for i, poly := range polys {
		rings := make([][][2]float64, len(poly))
		for j, ring := range poly {
			pts := make([][2]float64, len(ring))
			for k, c := range ring {
				pts[k] = [2]float64{c.X(), c.Y()}
			}
			rings[j] = pts
		}
		out[i] = rings
	}
	return MultiPolygon{Coordinates: out, SRID: 4326}
}
