package ingest

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// ShapeRecord is one shape plus its DBF attribute row, read verbatim
// from the source file before any normalization (§4.1).
type ShapeRecord struct {
	// Rings is the shape's polygon rings in the source Cartesian frame
	// (state-plane feet), one []point2 per ring.
	Rings [][][2]float64
	// Attrs maps upper-cased DBF field names to their string value.
	Attrs map[string]string
}

// ReadShapefile opens path and its sibling .dbf, returning one
// ShapeRecord per polygon shape. Non-polygon shape types are skipped.
func ReadShapefile(path string) ([]ShapeRecord, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile %s: %w", path, err)
	}
	defer reader.Close()

	fields := reader.Fields()
	fieldNames := make([]string, len(fields))
	for i, f := range fields {
		fieldNames[i] = strings.ToUpper(strings.TrimRight(string(f.Name[:]), "\x00"))
	}

	var out []ShapeRecord
	for reader.Next() {
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		rings := ringsFromShape(poly)

		attrs := make(map[string]string, len(fieldNames))
		for i, name := range fieldNames {
			attrs[name] = strings.TrimSpace(reader.Attribute(i))
		}

		out = append(out, ShapeRecord{Rings: rings, Attrs: attrs})
	}

	return out, nil
}

// ringsFromShape splits a go-shp polygon's flat point list into rings
// per its Parts offsets.
func ringsFromShape(p *shp.Polygon) [][][2]float64 {
	rings := make([][][2]float64, 0, len(p.Parts))
	for i := range p.Parts {
		start := p.Parts[i]
		var end int32
		if i+1 < len(p.Parts) {
			end = p.Parts[i+1]
		} else {
			end = int32(p.NumPoints)
		}

		ring := make([][2]float64, 0, end-start)
		for j := start; j < end; j++ {
			pt := p.Points[j]
			ring = append(ring, [2]float64{pt.X, pt.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}
