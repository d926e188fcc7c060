package ingest

import (
	"testing"

	"github.com/mjmurray03/taxdown/internal/geo"
)

var testZone = geo.StatePlaneZone{
	OriginLat:         27.833333,
	OriginLon:         -99.0,
	StdParallel1:      28.383333,
	StdParallel2:      30.283333,
	FalseEastingFeet:  2296583.333,
	FalseNorthingFeet: 9842500.0,
}

func squareRecord(attrs map[string]string) ShapeRecord {
	rings := [][][2]float64{
		{
			{testZone.FalseEastingFeet, testZone.FalseNorthingFeet},
			{testZone.FalseEastingFeet + 1000, testZone.FalseNorthingFeet},
			{testZone.FalseEastingFeet + 1000, testZone.FalseNorthingFeet + 1000},
			{testZone.FalseEastingFeet, testZone.FalseNorthingFeet + 1000},
			{testZone.FalseEastingFeet, testZone.FalseNorthingFeet},
		},
	}
	return ShapeRecord{Rings: rings, Attrs: attrs}
}

func TestNormalizeParcel_UpcasesAndConvertsCents(t *testing.T) {
	rec := squareRecord(map[string]string{
		fieldParcelID:  "abc-123",
		fieldOwnerName: "  jane doe ",
		fieldTotalVal:  "150000.50",
	})

	p := NormalizeParcel(rec, testZone)
	if p.ParcelID == nil || *p.ParcelID != "ABC-123" {
		t.Errorf("expected upcased trimmed parcel id, got %v", p.ParcelID)
	}
	if p.OwnerName == nil || *p.OwnerName != "JANE DOE" {
		t.Errorf("expected upcased trimmed owner, got %v", p.OwnerName)
	}
	if p.TotalValueCents != 15000050 {
		t.Errorf("expected 15000050 cents, got %d", p.TotalValueCents)
	}
}

func TestNormalizeParcel_UpliftsToMultiPolygon(t *testing.T) {
	rec := squareRecord(map[string]string{})
	p := NormalizeParcel(rec, testZone)

	if len(p.Geometry.Coordinates) != 1 {
		t.Fatalf("expected one multipolygon member, got %d", len(p.Geometry.Coordinates))
	}
}

func TestAssignSyntheticID_WhenParcelIDMissing(t *testing.T) {
	rec := squareRecord(map[string]string{})
	p := NormalizeParcel(rec, testZone)

	if err := assignSyntheticID(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsSynthetic {
		t.Error("expected IsSynthetic true")
	}
	if p.SyntheticParcelID == nil {
		t.Fatal("expected a synthetic parcel id")
	}
	if len(*p.SyntheticParcelID) != len("SYNTH-")+12 {
		t.Errorf("expected 12 hex chars after the SYNTH- prefix, got %q", *p.SyntheticParcelID)
	}
}

func TestAssignSyntheticID_SkippedWhenParcelIDPresent(t *testing.T) {
	rec := squareRecord(map[string]string{fieldParcelID: "123"})
	p := NormalizeParcel(rec, testZone)

	if err := assignSyntheticID(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsSynthetic {
		t.Error("expected IsSynthetic false when a real parcel id is present")
	}
}
