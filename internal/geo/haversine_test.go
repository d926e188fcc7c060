package geo

import "testing"

func TestHaversineMiles_SamePoint(t *testing.T) {
	d := HaversineMiles(30.3477, -95.4502, 30.3477, -95.4502)
	if d != 0 {
		t.Errorf("expected 0 miles for identical points, got %f", d)
	}
}

func TestHaversineMiles_KnownDistance(t *testing.T) {
	// Dallas to Houston, roughly 225 miles apart.
	d := HaversineMiles(32.7767, -96.7970, 29.7604, -95.3698)
	if d < 200 || d > 250 {
		t.Errorf("expected roughly 225 miles between Dallas and Houston, got %f", d)
	}
}

func TestHaversineMiles_Symmetric(t *testing.T) {
	a := HaversineMiles(30.0, -95.0, 30.1, -95.1)
	b := HaversineMiles(30.1, -95.1, 30.0, -95.0)
	if a != b {
		t.Errorf("expected symmetric distance, got %f vs %f", a, b)
	}
}
