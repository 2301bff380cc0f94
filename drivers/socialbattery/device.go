package socialbattery

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrModeRange  = errors.New("mode must be 0-7")
	ErrLevelRange = errors.New("social level must be 0-4")
	ErrLEDIndex   = errors.New("led index must be 0-4")
	ErrIdentity   = errors.New("identity block magic mismatch")
)

// Device represents one SAO on an I²C bus.
type Device struct {
	bus  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [1 + FrameBytes]byte
	r [FrameBytes]byte
}

// New constructs a Device at the default control address.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, addr: AddressControl}
}

// Connected probes the device by checking the firmware version register is
// readable.
func (d *Device) Connected() bool {
	_, err := d.FirmwareVersion()
	return err == nil
}

// FirmwareVersion returns the 16-bit firmware version.
func (d *Device) FirmwareVersion() (uint16, error) {
	buf, err := d.readBytes(regFWVersionLo, 2)
	if err != nil {
		return 0, err
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// Mode reads the current rendering mode.
func (d *Device) Mode() (uint8, error) { return d.readReg(regMode) }

// SetMode selects a rendering mode (0-7).
func (d *Device) SetMode(mode uint8) error {
	if mode > ModeMax {
		return ErrModeRange
	}
	return d.writeReg(regMode, mode)
}

// SocialLevel reads the current 0-4 availability level.
func (d *Device) SocialLevel() (uint8, error) { return d.readReg(regSocialLevel) }

// SetSocialLevel overrides the availability level (0-4). The device's own
// touch sensing may overwrite it on any later tick.
func (d *Device) SetSocialLevel(level uint8) error {
	if level >= SocialLevels {
		return ErrLevelRange
	}
	return d.writeReg(regSocialLevel, level)
}

// TouchDeltas reads the five signed baseline deltas.
func (d *Device) TouchDeltas() ([NumTouchPads]int16, error) {
	var out [NumTouchPads]int16
	buf, err := d.readBytes(regTouchBase, 2*NumTouchPads)
	if err != nil {
		return out, err
	}
	for i := 0; i < NumTouchPads; i++ {
		out[i] = int16(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8)
	}
	return out, nil
}

// Button returns the debounced button state for this tick and the one
// before it.
func (d *Device) Button() (pressed, previous bool, err error) {
	v, err := d.readReg(regButton)
	if err != nil {
		return false, false, err
	}
	return v&(1<<0) != 0, v&(1<<1) != 0, nil
}

// ButtonEnabled reports whether button presses cycle the mode.
func (d *Device) ButtonEnabled() (bool, error) {
	v, err := d.readReg(regButtonEnabled)
	return v != 0, err
}

// SetButtonEnabled allows or blocks mode cycling via the button.
func (d *Device) SetButtonEnabled(enabled bool) error {
	v := uint8(0)
	if enabled {
		v = 1
	}
	return d.writeReg(regButtonEnabled, v)
}

// RainbowSpeed reads the mode 2 hue spread.
func (d *Device) RainbowSpeed() (uint8, error) { return d.readReg(regRainbowSpeed) }

// SetRainbowSpeed sets the mode 2 hue spread.
func (d *Device) SetRainbowSpeed(v uint8) error { return d.writeReg(regRainbowSpeed, v) }

// ScannerSpeed reads the scanner speed register. Larger is faster.
func (d *Device) ScannerSpeed() (uint8, error) { return d.readReg(regScannerSpeed) }

// SetScannerSpeed sets the scanner speed register.
func (d *Device) SetScannerSpeed(v uint8) error { return d.writeReg(regScannerSpeed, v) }

// GPIO access: bits 0-3 are IO1, IO2, E1, E2.

// SetPinDirections sets expansion pin directions (1 = output). Takes
// effect synchronously on the device.
func (d *Device) SetPinDirections(mask uint8) error { return d.writeReg(regGPIOMode, mask&0x0F) }

// SetOutputs sets expansion pin drive levels (pull direction for inputs).
func (d *Device) SetOutputs(mask uint8) error { return d.writeReg(regGPIOOutputs, mask&0x0F) }

// Inputs reads the live expansion pin levels.
func (d *Device) Inputs() (uint8, error) {
	v, err := d.readReg(regGPIOInputs)
	return v & 0x0F, err
}

// Colors reads the 15-byte frame snapshot, wire order G,R,B per LED.
func (d *Device) Colors() ([FrameBytes]byte, error) {
	var out [FrameBytes]byte
	buf, err := d.readBytes(regLEDBase, FrameBytes)
	if err != nil {
		return out, err
	}
	copy(out[:], buf)
	return out, nil
}

// SetColors writes a full frame. Only rendered when the device is in
// ModePassthrough.
func (d *Device) SetColors(frame [FrameBytes]byte) error {
	d.w[0] = regLEDBase
	copy(d.w[1:], frame[:])
	return d.bus.Tx(d.addr, d.w[:1+FrameBytes], nil)
}

// SetLED writes one LED's color in ModePassthrough.
func (d *Device) SetLED(index int, red, green, blue uint8) error {
	if index < 0 || index >= NumLEDs {
		return ErrLEDIndex
	}
	d.w[0] = uint8(regLEDBase + 3*index)
	d.w[1] = green
	d.w[2] = red
	d.w[3] = blue
	return d.bus.Tx(d.addr, d.w[:4], nil)
}

// Byte-register operations. The device auto-increments its register
// pointer within one transaction.

func (d *Device) readReg(reg byte) (byte, error) {
	buf, err := d.readBytes(reg, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Device) readBytes(reg byte, n int) ([]byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:n]); err != nil {
		return nil, err
	}
	return d.r[:n], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.bus.Tx(d.addr, d.w[:2], nil)
}
