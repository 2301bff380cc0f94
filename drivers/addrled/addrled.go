// Package addrled transmits byte frames to clockless addressable RGB LEDs
// (WS2812 class). The chipset recovers each bit from the high-pulse width
// alone, so the encoder is a timing table and the transmitter is a strict
// high/wait/low/wait sequence with the bus event source suspended for the
// whole frame. There is no clock line, no acknowledgment and no retransmit;
// a glitched pulse shows up as a wrong color until the next frame.
package addrled

import (
	"socialbattery-go/types"
)

// SymbolTiming is the pulse shape of one bit on the wire.
type SymbolTiming struct {
	HighNanos uint16
	LowNanos  uint16
}

// Timings is the per-symbol timing table for one chipset.
type Timings struct {
	Zero SymbolTiming
	One  SymbolTiming
	// ResetMicros is the low time that latches a frame.
	ResetMicros uint16
}

// WS2812 returns the timing table for WS2812/WS2812B parts.
// Values are mid-tolerance per the data sheet.
func WS2812() Timings {
	return Timings{
		Zero:        SymbolTiming{HighNanos: 350, LowNanos: 800},
		One:         SymbolTiming{HighNanos: 700, LowNanos: 600},
		ResetMicros: 60,
	}
}

// Symbol returns the pulse shape for a bit value.
func (t Timings) Symbol(one bool) SymbolTiming {
	if one {
		return t.One
	}
	return t.Zero
}

// Bits expands a byte into its wire order, MSB first.
func Bits(b byte) [8]bool {
	var out [8]bool
	for i := 0; i < 8; i++ {
		out[i] = (b>>(7-i))&1 == 1
	}
	return out
}

// Transmitter serializes frames onto a single data pin.
type Transmitter struct {
	pin   types.DigitalPin
	delay types.Delayer
	gate  types.BusGate
	t     Timings
}

// NewTransmitter builds a transmitter. The gate is suspended for the
// duration of every frame so bus servicing cannot stretch a pulse.
func NewTransmitter(pin types.DigitalPin, delay types.Delayer, gate types.BusGate, t Timings) *Transmitter {
	return &Transmitter{pin: pin, delay: delay, gate: gate, t: t}
}

// Transmit sends the frame, MSB first per byte. An empty frame is a no-op.
// It busy-waits for the full frame duration and must only be called from
// the control loop.
func (tx *Transmitter) Transmit(frame []byte) {
	if len(frame) == 0 {
		return
	}
	tx.gate.Suspend()
	for _, b := range frame {
		for i := 7; i >= 0; i-- {
			sym := tx.t.Symbol((b>>uint(i))&1 == 1)
			tx.pin.Set(true)
			tx.delay.WaitNanos(uint32(sym.HighNanos))
			tx.pin.Set(false)
			tx.delay.WaitNanos(uint32(sym.LowNanos))
		}
	}
	tx.gate.Resume()
}
