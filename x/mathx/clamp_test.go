package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 4); got != 4 {
		t.Errorf("Clamp(5,0,4) = %d, want 4", got)
	}
	if got := Clamp(-1, 0, 4); got != 0 {
		t.Errorf("Clamp(-1,0,4) = %d, want 0", got)
	}
	// Swapped bounds still clamp.
	if got := Clamp(9, 4, 0); got != 4 {
		t.Errorf("Clamp(9,4,0) = %d, want 4", got)
	}
}

func TestSat8(t *testing.T) {
	cases := []struct {
		in   int
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{200, 200},
		{255, 255},
		{1000, 255},
	}
	for _, c := range cases {
		if got := Sat8(c.in); got != c.want {
			t.Errorf("Sat8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSatAddSub8(t *testing.T) {
	if got := SatAdd8(215, 50); got != 255 {
		t.Errorf("SatAdd8(215,50) = %d, want 255", got)
	}
	if got := SatAdd8(100, 50); got != 150 {
		t.Errorf("SatAdd8(100,50) = %d, want 150", got)
	}
	if got := SatSub8(7, 10); got != 0 {
		t.Errorf("SatSub8(7,10) = %d, want 0", got)
	}
	if got := SatSub8(60, 10); got != 50 {
		t.Errorf("SatSub8(60,10) = %d, want 50", got)
	}
}
