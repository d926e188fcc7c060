package savings

import "testing"

func TestEstimateSavings_OverAssessed(t *testing.T) {
	e := EstimateSavings(10000000, 6000000, 0.5, 0.02)
	if e.TargetAssessedCents != 5000000 {
		t.Errorf("expected target assessed 5000000, got %d", e.TargetAssessedCents)
	}
	if e.AnnualSavingsCents != 20000 {
		t.Errorf("expected annual savings 20000 ((6000000-5000000)*0.02), got %d", e.AnnualSavingsCents)
	}
	if e.FiveYearSavingsCents != 100000 {
		t.Errorf("expected five year savings 100000, got %d", e.FiveYearSavingsCents)
	}
}

func TestEstimateSavings_UnderAssessed_ReturnsZero(t *testing.T) {
	e := EstimateSavings(10000000, 3000000, 0.5, 0.02)
	if e.AnnualSavingsCents != 0 || e.FiveYearSavingsCents != 0 {
		t.Errorf("expected zero savings for under-assessed target, got annual=%d five_year=%d", e.AnnualSavingsCents, e.FiveYearSavingsCents)
	}
}

func TestEstimateSavings_ExactlyAtMedian(t *testing.T) {
	e := EstimateSavings(10000000, 5000000, 0.5, 0.02)
	if e.AnnualSavingsCents != 0 {
		t.Errorf("expected zero savings when assessed equals target, got %d", e.AnnualSavingsCents)
	}
}

func TestEstimateSavings_NeverNegative(t *testing.T) {
	e := EstimateSavings(1000000, 100000, 0.9, 0.02)
	if e.AnnualSavingsCents < 0 || e.FiveYearSavingsCents < 0 {
		t.Error("savings must never be negative")
	}
}
