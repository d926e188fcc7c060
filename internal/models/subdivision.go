package models

import "time"

// Subdivision is a named polygon grouping parcels, typically a platted
// neighborhood. Properties reference a subdivision by id, assigned by a
// spatial containment join at ingest.
type Subdivision struct {
	ID          int64
	Name        string
	CamaName    *string
	ShapeLength *float64
	ShapeArea   *float64
	Geometry    Polygon
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
