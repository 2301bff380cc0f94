package sao

import "testing"

// fakePads returns a settable raw reading per channel, ignoring the
// iteration count the way a noiseless pad would.
type fakePads struct {
	raw [touchChannels]int32
}

func (f *fakePads) ReadPad(channel uint8, iterations int) int32 {
	return f.raw[channel]
}

func calibrated(t *testing.T, base int32) (*TouchSense, *fakePads) {
	t.Helper()
	pads := &fakePads{}
	for i := range pads.raw {
		pads.raw[i] = base
	}
	ts := NewTouchSense(pads)
	ts.Calibrate()
	return ts, pads
}

func TestTouchClaimsLevel(t *testing.T) {
	ts, pads := calibrated(t, 1000)

	pads.raw[2] = 1000 + levelThreshold + 1
	if got := ts.Update(0); got != 2 {
		t.Fatalf("level = %d, want 2", got)
	}
}

func TestTouchHighestPadWins(t *testing.T) {
	ts, pads := calibrated(t, 1000)

	// Two pads over threshold: the scan is ascending, so pad 3
	// overwrites pad 1.
	pads.raw[1] = 1000 + levelThreshold + 1
	pads.raw[3] = 1000 + levelThreshold + 1
	if got := ts.Update(0); got != 3 {
		t.Fatalf("level = %d, want 3", got)
	}
}

func TestTouchLevelSticky(t *testing.T) {
	ts, pads := calibrated(t, 1000)

	pads.raw[4] = 1000 + levelThreshold + 1
	if got := ts.Update(0); got != 4 {
		t.Fatalf("level = %d, want 4", got)
	}

	// Release: no pad over threshold keeps the last level.
	pads.raw[4] = 1000
	if got := ts.Update(4); got != 4 {
		t.Fatalf("released level = %d, want 4", got)
	}
}

func TestTouchExactThresholdDoesNotClaim(t *testing.T) {
	ts, pads := calibrated(t, 1000)

	pads.raw[0] = 1000 + levelThreshold
	if got := ts.Update(3); got != 3 {
		t.Fatalf("level = %d, want 3 (threshold is exclusive)", got)
	}
}

func TestTouchIndicatorThresholdIndependent(t *testing.T) {
	ts, pads := calibrated(t, 1000)

	// Between the two thresholds: claims the level but does not light
	// the indicator.
	pads.raw[1] = 1000 + levelThreshold + 50
	if got := ts.Update(0); got != 1 {
		t.Fatalf("level = %d, want 1", got)
	}
	if ts.Touching(1) {
		t.Fatal("indicator lit below its own threshold")
	}

	pads.raw[1] = 1000 + indicatorThreshold + 1
	ts.Update(0)
	if !ts.Touching(1) {
		t.Fatal("indicator not lit above its threshold")
	}
}

func TestTouchDeltasClamped(t *testing.T) {
	ts, pads := calibrated(t, 0)

	pads.raw[0] = 100000
	pads.raw[1] = -100000
	pads.raw[2] = -17
	ts.Update(0)

	d := ts.Deltas()
	if d[0] != 32767 {
		t.Errorf("delta[0] = %d, want 32767", d[0])
	}
	if d[1] != -32768 {
		t.Errorf("delta[1] = %d, want -32768", d[1])
	}
	if d[2] != -17 {
		t.Errorf("delta[2] = %d, want -17", d[2])
	}
}
