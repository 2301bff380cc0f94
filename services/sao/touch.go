package sao

import (
	"socialbattery-go/types"
	"socialbattery-go/x/mathx"
)

const (
	// sampleIterations is the averaging count the sampling primitive
	// applies per reading.
	sampleIterations = 10

	// levelThreshold is the delta above baseline that claims the social
	// level.
	levelThreshold = 1900

	// indicatorThreshold is the independent, higher threshold for the
	// momentary "actively touching" indicator (mode 1 blue channel).
	indicatorThreshold = 2000
)

// TouchSense owns the one-time baseline and the per-tick delta scan.
type TouchSense struct {
	reader   types.TouchReader
	baseline [touchChannels]int32
	deltas   [touchChannels]int32
}

func NewTouchSense(r types.TouchReader) *TouchSense {
	return &TouchSense{reader: r}
}

// Calibrate captures the baseline, once, before the bus is brought up.
// There is no recalibration: a finger resting on a pad at boot biases that
// channel for the rest of the session. Known limitation.
func (t *TouchSense) Calibrate() {
	for ch := uint8(0); ch < touchChannels; ch++ {
		t.baseline[ch] = t.reader.ReadPad(ch, sampleIterations)
	}
}

// Update samples all pads and returns the new social level. Channels are
// scanned in ascending order and each one over threshold overwrites the
// level, so the highest-indexed pad currently over threshold wins. When no
// pad is over threshold the passed-in level comes back unchanged (sticky).
// Mode 1 depends on this exact tie-break; it is not a max over channels.
func (t *TouchSense) Update(level uint8) uint8 {
	for ch := uint8(0); ch < touchChannels; ch++ {
		raw := t.reader.ReadPad(ch, sampleIterations)
		t.deltas[ch] = raw - t.baseline[ch]
		if t.deltas[ch] > levelThreshold {
			level = ch
		}
	}
	return level
}

// Deltas returns the last scan's per-channel deltas, narrowed for the
// register file.
func (t *TouchSense) Deltas() [touchChannels]int16 {
	var out [touchChannels]int16
	for i, d := range t.deltas {
		out[i] = int16(mathx.Clamp(d, -32768, 32767))
	}
	return out
}

// Touching reports the momentary per-channel indicator.
func (t *TouchSense) Touching(ch int) bool {
	return t.deltas[ch] > indicatorThreshold
}
