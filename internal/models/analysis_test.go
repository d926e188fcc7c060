package models

import "testing"

func TestAnalysisParameters_ValueScanRoundTrip(t *testing.T) {
	original := AnalysisParameters{
		ValueWindowRatio:      0.15,
		AcreWindowRatio:       0.25,
		ProximityMiles:        2.0,
		MaxComparables:        10,
		MinSubdivisionMatches: 3,
		MillRateEffective:     0.021,
		ModelVersion:          "v1",
	}

	raw, err := original.Value()
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	str, ok := raw.(string)
	if !ok {
		t.Fatalf("expected string value, got %T", raw)
	}

	var roundTripped AnalysisParameters
	if err := roundTripped.Scan([]byte(str)); err != nil {
		t.Fatalf("unexpected error scanning: %v", err)
	}

	if roundTripped != original {
		t.Errorf("expected round trip to preserve parameters, got %+v, want %+v", roundTripped, original)
	}
}

func TestAnalysisParameters_ScanNil(t *testing.T) {
	var p AnalysisParameters
	if err := p.Scan(nil); err != nil {
		t.Errorf("expected nil scan to succeed, got %v", err)
	}
}
