package ingest

import (
	"strconv"
	"strings"

	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/models"
)

// Parcel attribute field names, as written by the source shapefiles'
// DBF tables. DBF field names are capped at 10 characters.
const (
	fieldParcelID    = "PARCELID"
	fieldOwnerName   = "OWNER"
	fieldOwnerAddr   = "OWNERADDR"
	fieldSiteAddr    = "SITEADDR"
	fieldPropType    = "PROPTYPE"
	fieldSTR         = "STR"
	fieldSchoolDist  = "SCHOOLDIST"
	fieldSubdivision = "SUBDIVISIO"
	fieldCity        = "CITY"
	fieldZip         = "ZIP"
	fieldLandVal     = "LANDVAL"
	fieldImpVal      = "IMPVAL"
	fieldAssessVal   = "ASSESSVAL"
	fieldTotalVal    = "TOTALVAL"
	fieldAcreArea    = "ACREAREA"
	fieldShapeLen    = "SHAPE_LEN"
	fieldShapeArea   = "SHAPE_AREA"
)

// Subdivision attribute field names.
const (
	fieldSubName     = "NAME"
	fieldSubCamaName = "CAMANAME"
)

// NormalizeParcel converts a raw shapefile record into a Property: it
// reprojects the source geometry into WGS84, upcases tokens, trims
// strings, converts dollar amounts to cents, and uplifts the polygon to
// a one-member MultiPolygon (§4.1).
func NormalizeParcel(rec ShapeRecord, zone geo.StatePlaneZone) *models.Property {
	p := &models.Property{}

	if v := upcaseTrim(rec.Attrs[fieldParcelID]); v != "" {
		p.ParcelID = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldOwnerName]); v != "" {
		p.OwnerName = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldOwnerAddr]); v != "" {
		p.OwnerAddress = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldSiteAddr]); v != "" {
		p.PropertyAddress = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldPropType]); v != "" {
		p.PropertyType = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldSTR]); v != "" {
		p.SectionTownshipRange = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldSchoolDist]); v != "" {
		p.SchoolDistrict = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldSubdivision]); v != "" {
		p.SubdivisionName = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldCity]); v != "" {
		p.City = &v
	}
	if v := upcaseTrim(rec.Attrs[fieldZip]); v != "" {
		p.Zip = &v
	}

	p.LandValueCents = dollarsToCents(rec.Attrs[fieldLandVal])
	p.ImprovementValueCents = dollarsToCents(rec.Attrs[fieldImpVal])
	p.AssessedValueCents = dollarsToCents(rec.Attrs[fieldAssessVal])
	p.TotalValueCents = dollarsToCents(rec.Attrs[fieldTotalVal])

	if acre, err := strconv.ParseFloat(strings.TrimSpace(rec.Attrs[fieldAcreArea]), 64); err == nil {
		p.AcreArea = &acre
	}
	if length, err := strconv.ParseFloat(strings.TrimSpace(rec.Attrs[fieldShapeLen]), 64); err == nil {
		p.ShapeLength = &length
	}
	if area, err := strconv.ParseFloat(strings.TrimSpace(rec.Attrs[fieldShapeArea]), 64); err == nil {
		p.ShapeArea = &area
	}

	poly := zone.ProjectPolygon(rec.Rings)
	p.Geometry = models.MultiPolygonFromPolygon(poly)

	if ok, err := geo.IsSelfIntersecting(poly); err != nil || ok {
		p.GeometryValid = false
	} else {
		p.GeometryValid = true
	}

	return p
}

// NormalizeSubdivision converts a raw shapefile record into a
// Subdivision, reprojecting its geometry into WGS84.
func NormalizeSubdivision(rec ShapeRecord, zone geo.StatePlaneZone) *models.Subdivision {
	s := &models.Subdivision{
		Name:     upcaseTrim(rec.Attrs[fieldSubName]),
		Geometry: zone.ProjectPolygon(rec.Rings),
	}
	if v := upcaseTrim(rec.Attrs[fieldSubCamaName]); v != "" {
		s.CamaName = &v
	}
	if length, err := strconv.ParseFloat(strings.TrimSpace(rec.Attrs[fieldShapeLen]), 64); err == nil {
		s.ShapeLength = &length
	}
	if area, err := strconv.ParseFloat(strings.TrimSpace(rec.Attrs[fieldShapeArea]), 64); err == nil {
		s.ShapeArea = &area
	}
	return s
}

// assignSyntheticID computes and sets SyntheticParcelID when ParcelID
// is absent or empty, per §4.1.
func assignSyntheticID(p *models.Property) error {
	if p.ParcelID != nil && *p.ParcelID != "" {
		return nil
	}

	wkt, err := geo.MultiCentroidWKT(p.Geometry)
	if err != nil {
		return err
	}
	id := geo.SyntheticParcelID(wkt)
	p.SyntheticParcelID = &id
	p.IsSynthetic = true
	return nil
}

func upcaseTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// dollarsToCents converts a whole-dollar DBF field to integer cents.
// Unparseable or empty values are treated as zero.
func dollarsToCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	dollars, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(dollars * 100)
}
