// Package types holds the hardware-facing interfaces shared between the
// firmware core, the drivers and the platform bindings.
package types

// PinMode selects how a GPIO line is driven.
type PinMode uint8

const (
	// PinInputPull configures the line as an input with a weak pull.
	// The pull direction follows the last Set level (true = up, false = down).
	PinInputPull PinMode = iota
	// PinOutput configures the line as a push-pull output.
	PinOutput
)

// DigitalPin is one GPIO line.
type DigitalPin interface {
	Configure(mode PinMode)
	// Set drives the output level, or selects the pull direction while the
	// pin is an input.
	Set(level bool)
	Get() bool
}

// TouchReader samples one capacitive pad and returns a raw count
// proportional to the pad capacitance. iterations averages repeated
// samples inside the primitive.
type TouchReader interface {
	ReadPad(channel uint8, iterations int) int32
}

// BusGate suspends delivery of bus-handler events. It is the system's only
// mutual-exclusion primitive: while suspended, no register callback can run
// and no bus event can preempt the caller. Suspend/Resume must not nest.
type BusGate interface {
	Suspend()
	Resume()
}

// Delayer busy-waits for a requested duration. Implementations are expected
// to be precise enough for one-wire LED symbol timing, which rules out the
// scheduler on MCU targets.
type Delayer interface {
	WaitNanos(ns uint32)
}

// BusTargetConfig describes the two logical bus addresses the device
// exposes: a read-write control surface backed by Control, and a read-only
// identity block backed by Identity.
//
// The byte-level target protocol engine guarantees atomic single-byte
// access per callback. OnWrite runs in handler context after the bytes have
// been stored and must return before the transaction is acknowledged;
// OnRead is informational only.
type BusTargetConfig struct {
	ControlAddress  uint8
	IdentityAddress uint8
	Control         []byte
	Identity        []byte
	OnWrite         func(reg, count uint8)
	OnRead          func(reg uint8)
}

// BusTarget is the bus peripheral protocol engine.
type BusTarget interface {
	Configure(cfg BusTargetConfig) error
}

// Board groups the hardware resources the firmware owns.
type Board struct {
	ModeStrap DigitalPin // boot-time strap: high = standalone operation
	Button    DigitalPin // active low, pulled up
	IO1       DigitalPin
	IO2       DigitalPin
	E1        DigitalPin
	E2        DigitalPin
	SDA       DigitalPin // probed at boot only; owned by the target afterwards
	SCL       DigitalPin
	LEDData   DigitalPin // one-wire data line to the addressable LEDs

	Touch  TouchReader
	Delay  Delayer
	Gate   BusGate
	Target BusTarget

	// Ticks is a free-running millisecond counter; wraps at 2^32.
	Ticks func() uint32
	// SleepMs blocks the caller for the given number of milliseconds.
	SleepMs func(ms uint32)
}
