package ingest

import "testing"

func TestScoreQuality_Perfect(t *testing.T) {
	if got := ScoreQuality(false, false, false, false, false); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestScoreQuality_SyntheticOnlyCapsAt50(t *testing.T) {
	if got := ScoreQuality(true, false, false, false, false); got != 50 {
		t.Errorf("expected the synthetic-only cap of 50, got %d", got)
	}
}

func TestScoreQuality_ClampsAtZero(t *testing.T) {
	got := ScoreQuality(true, true, true, true, true)
	if got != 0 {
		t.Errorf("expected 0 (clamped), got %d", got)
	}
}

func TestScoreQuality_MixedDefectsNotCapped(t *testing.T) {
	// Synthetic (-20) and zero total value (-15) together: not "only
	// synthetic", so the 50 cap doesn't apply.
	got := ScoreQuality(true, true, false, false, false)
	if got != 65 {
		t.Errorf("expected 65 (100-20-15), got %d", got)
	}
}
