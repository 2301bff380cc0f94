// Package socialbattery provides a controller-side driver for the WICCON
// social battery SAO: a 36-register control surface at one bus address and
// a read-only identity descriptor at a second.
package socialbattery

const (
	// 7-bit bus addresses.
	AddressControl  = 0x57
	AddressIdentity = 0x50

	// --- Control surface register indices ---

	regFWVersionLo   = 0  // R
	regFWVersionHi   = 1  // R
	regGPIOMode      = 2  // R/W, bits 0-3: IO1,IO2,E1,E2 direction
	regGPIOInputs    = 3  // R, bits 0-3 live level
	regGPIOOutputs   = 4  // R/W, bits 0-3 drive level
	regMode          = 5  // R/W, 0-7
	regTouchBase     = 6  // R, five int16 deltas, little-endian
	regSocialLevel   = 16 // R/W, 0-4
	regRainbowSpeed  = 17 // R/W
	regScannerSpeed  = 18 // R/W
	regButton        = 19 // R, bit0 current, bit1 previous
	regButtonEnabled = 20 // R/W
	regLEDBase       = 21 // R/W in mode 0, snapshot otherwise

	// Device limits.
	NumLEDs       = 5
	NumTouchPads  = 5
	FrameBytes    = NumLEDs * 3
	ModeMax       = 7
	SocialLevels  = 5
	registerCount = 36
)

// Modes, as the device defines them.
const (
	ModePassthrough uint8 = iota
	ModeSocial
	ModeRainbow
	ModePaletteA
	ModePaletteB
	ModeScanRed
	ModeScanGreen
	ModeScanBlue
)
