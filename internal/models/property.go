package models

import "time"

// Property is a single cadastral parcel: a polygon with ownership and
// valuation attributes. All monetary fields are integer cents.
type Property struct {
	ID int64

	// ParcelID is the county-issued identifier; it may be absent, in
	// which case SyntheticParcelID is populated by ingest and
	// IsSynthetic is true. At least one of the two is always set.
	ParcelID          *string
	SyntheticParcelID *string
	IsSynthetic       bool

	OwnerName            *string
	OwnerAddress         *string
	PropertyAddress      *string
	PropertyType         *string
	SectionTownshipRange *string
	SchoolDistrict       *string
	SubdivisionName      *string
	SubdivisionID        *int64
	City                 *string
	Zip                  *string

	AcreArea    *float64
	ShapeLength *float64
	ShapeArea   *float64

	BuildingCount       int
	TotalBuildingSqft   int
	LargestBuildingSqft int

	LandValueCents        int64
	ImprovementValueCents int64
	AssessedValueCents    int64
	TotalValueCents       int64

	GeometryValid    bool
	DataQualityScore int
	Geometry         MultiPolygon

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveID returns parcel_id when present, otherwise synthetic_parcel_id.
// Every stored property has exactly one non-empty effective id (§3).
func (p *Property) EffectiveID() string {
	if p.ParcelID != nil && *p.ParcelID != "" {
		return *p.ParcelID
	}
	if p.SyntheticParcelID != nil {
		return *p.SyntheticParcelID
	}
	return ""
}

// AssessmentRatio returns assessed/total, or 0 when total is non-positive.
func (p *Property) AssessmentRatio() float64 {
	if p.TotalValueCents <= 0 {
		return 0
	}
	return float64(p.AssessedValueCents) / float64(p.TotalValueCents)
}

// HasScorableData reports whether the property carries the total value,
// acreage, and geometry the comparable/fairness pipeline requires.
func (p *Property) HasScorableData() bool {
	return p.TotalValueCents > 0 && p.AcreArea != nil && len(p.Geometry.Coordinates) > 0
}
