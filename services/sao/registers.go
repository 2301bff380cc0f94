// Package sao implements the social battery SAO firmware core: the
// host-facing register file, touch sensing, the mode state machine with its
// LED effects, and the 20 ms control loop that ties them together.
//
// The device has exactly one concurrent collaborator, the bus target
// handler, which may run between any two loop steps. Every shared access
// goes through the register file and its bus gate; there are no other
// synchronization primitives.
package sao

// Bus addresses.
const (
	AddressControl  = 0x57
	AddressIdentity = 0x50
)

// FirmwareVersion is reported in registers 0 and 1.
const FirmwareVersion uint16 = 1

// Control surface register indices.
const (
	RegFWVersionLo   = 0  // RO
	RegFWVersionHi   = 1  // RO
	RegGPIOMode      = 2  // bits 0-3: IO1,IO2,E1,E2 direction, 1 = output
	RegGPIOInputs    = 3  // RO, bits 0-3 live level
	RegGPIOOutputs   = 4  // bits 0-3 drive level, pull direction when input
	RegMode          = 5  // 0-7
	RegTouchBase     = 6  // registers 6-15: five int16 deltas, little-endian
	RegSocialLevel   = 16 // 0-4
	RegRainbowSpeed  = 17
	RegScannerSpeed  = 18
	RegButton        = 19 // RO, bit0 = current, bit1 = previous
	RegButtonEnabled = 20
	RegLEDBase       = 21 // registers 21-35: 15 color bytes, G,R,B per LED

	// RegCount covers every mapped register; the LED region ends at
	// index 35 inclusive.
	RegCount = 36
)

const (
	numLEDs       = 5
	touchChannels = 5

	// FrameBytes is one full LED frame: 3 channels per LED, wire order
	// green, red, blue.
	FrameBytes = numLEDs * 3
)

// Power-on register defaults. The speed encodings put the default scanner
// trip point close to the top of the accumulator range.
const (
	DefaultRainbowSpeed uint8 = 15
	DefaultScannerSpeed uint8 = 0xFF - 10
)
