package ingest

import (
	"testing"

	"github.com/mjmurray03/taxdown/internal/models"
)

func squareGeom() models.MultiPolygon {
	return models.MultiPolygon{
		SRID: 4326,
		Coordinates: [][][][2]float64{
			{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		},
	}
}

func candidate(parcelID, address, owner *string, totalValueCents int64) *ParcelCandidate {
	return &ParcelCandidate{
		Property: &models.Property{
			ParcelID:        parcelID,
			PropertyAddress: address,
			OwnerName:       owner,
			TotalValueCents: totalValueCents,
			Geometry:        squareGeom(),
		},
	}
}

func TestDeduplicate_DropsEmptyPlaceholders(t *testing.T) {
	placeholder := candidate(nil, nil, nil, 0)
	real := candidate(strp("123"), strp("100 MAIN ST"), strp("JANE DOE"), 500000)

	out := Deduplicate([]*ParcelCandidate{placeholder, real})
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(out))
	}
	if out[0].Property.ParcelID == nil || *out[0].Property.ParcelID != "123" {
		t.Error("expected the real record to survive")
	}
}

func TestDeduplicate_CollapsesDuplicateKeyKeepingFirst(t *testing.T) {
	first := candidate(strp("1"), strp("200 OAK ST"), strp("JOHN SMITH"), 300000)
	dup := candidate(strp("2"), strp("200 OAK ST"), strp("JOHN SMITH"), 300000)

	out := Deduplicate([]*ParcelCandidate{first, dup})
	if len(out) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(out))
	}
	if *out[0].Property.ParcelID != "1" {
		t.Errorf("expected the first-seen record to be kept, got parcel id %s", *out[0].Property.ParcelID)
	}
}

func TestDeduplicate_DistinctTotalValueNotCollapsed(t *testing.T) {
	a := candidate(strp("1"), strp("300 ELM ST"), strp("A OWNER"), 100000)
	b := candidate(strp("2"), strp("300 ELM ST"), strp("A OWNER"), 200000)

	out := Deduplicate([]*ParcelCandidate{a, b})
	if len(out) != 2 {
		t.Errorf("expected both records to survive (different total value), got %d", len(out))
	}
}

func TestDeduplicate_OutputOrderMatchesSourceOrder(t *testing.T) {
	a := candidate(strp("1"), strp("100 MAIN ST"), strp("A OWNER"), 100000)
	dup := candidate(strp("2"), strp("100 MAIN ST"), strp("A OWNER"), 100000)
	b := candidate(strp("3"), strp("200 OAK ST"), strp("B OWNER"), 200000)

	candidates := []*ParcelCandidate{a, dup, b}
	for i := 0; i < 20; i++ {
		out := Deduplicate(candidates)
		if len(out) != 2 {
			t.Fatalf("expected 2 records, got %d", len(out))
		}
		if *out[0].Property.ParcelID != "1" || *out[1].Property.ParcelID != "3" {
			t.Fatalf("expected stable source order [1 3], got [%s %s]", *out[0].Property.ParcelID, *out[1].Property.ParcelID)
		}
	}
}

func strp(s string) *string { return &s }
