package sao

import (
	"socialbattery-go/types"
)

// GPIOPins are the host-controllable expansion lines, in register bit order.
type GPIOPins struct {
	IO1, IO2, E1, E2 types.DigitalPin
}

func (g GPIOPins) pin(bit uint8) types.DigitalPin {
	switch bit {
	case 0:
		return g.IO1
	case 1:
		return g.IO2
	case 2:
		return g.E1
	case 3:
		return g.E2
	}
	return nil
}

// Control is the loop's per-tick view of the host-writable control
// registers, captured in one gate-held read at the top of each tick.
// Host writes land between ticks and take effect here, never mid-tick.
type Control struct {
	Mode          uint8
	SocialLevel   uint8
	RainbowSpeed  uint8
	ScannerSpeed  uint8
	ButtonEnabled bool
}

// TickPublish is everything the loop republishes for host visibility at the
// end of its sensing phase.
type TickPublish struct {
	GPIOInputs    uint8
	TouchDeltas   [touchChannels]int16
	Mode          uint8
	SocialLevel   uint8
	RainbowSpeed  uint8
	ScannerSpeed  uint8
	Button        bool
	ButtonPrev    bool
	ButtonEnabled bool
}

// RegisterFile is the control surface shared with the bus handler. The
// handler stores single bytes (atomic per the target engine's contract) and
// invokes HandleWrite; the loop reads and publishes multi-byte regions with
// the gate suspended so the handler can never observe a torn value.
type RegisterFile struct {
	mem  [RegCount]byte
	gate types.BusGate
	gpio GPIOPins
}

func NewRegisterFile(gate types.BusGate, gpio GPIOPins) *RegisterFile {
	rf := &RegisterFile{gate: gate, gpio: gpio}
	rf.mem[RegFWVersionLo] = byte(FirmwareVersion)
	rf.mem[RegFWVersionHi] = byte(FirmwareVersion >> 8)
	rf.mem[RegRainbowSpeed] = DefaultRainbowSpeed
	rf.mem[RegScannerSpeed] = DefaultScannerSpeed
	return rf
}

// Bytes returns the backing store handed to the bus target engine.
func (rf *RegisterFile) Bytes() []byte { return rf.mem[:] }

// HandleWrite runs in bus-handler context after the target engine has
// stored the written bytes, and must return before the transaction is
// acknowledged: the host may re-read immediately. GPIO reconfiguration is
// the only synchronous side effect; the remaining control registers are
// picked up by the loop's next Snapshot.
func (rf *RegisterFile) HandleWrite(reg, count uint8) {
	mode := rf.mem[RegGPIOMode]
	out := rf.mem[RegGPIOOutputs]
	for bit := uint8(0); bit < 4; bit++ {
		p := rf.gpio.pin(bit)
		if p == nil {
			continue
		}
		if mode&(1<<bit) != 0 {
			p.Configure(types.PinOutput)
		} else {
			p.Configure(types.PinInputPull)
		}
		// Drive level, or pull direction while input.
		p.Set(out&(1<<bit) != 0)
	}
}

// HandleRead runs in bus-handler context. Reads are passive.
func (rf *RegisterFile) HandleRead(reg uint8) {}

// SetBootDefaults seeds mode and button-enable before the bus comes up
// (standalone strap path).
func (rf *RegisterFile) SetBootDefaults(mode uint8, buttonEnabled bool) {
	rf.gate.Suspend()
	rf.mem[RegMode] = mode
	if buttonEnabled {
		rf.mem[RegButtonEnabled] = 1
	}
	rf.gate.Resume()
}

// Snapshot captures the host-writable control registers for one tick.
func (rf *RegisterFile) Snapshot() Control {
	rf.gate.Suspend()
	c := Control{
		Mode:          rf.mem[RegMode],
		SocialLevel:   rf.mem[RegSocialLevel],
		RainbowSpeed:  rf.mem[RegRainbowSpeed],
		ScannerSpeed:  rf.mem[RegScannerSpeed],
		ButtonEnabled: rf.mem[RegButtonEnabled] != 0,
	}
	rf.gate.Resume()
	return c
}

// Publish writes the sensed values back into the register file as one
// indivisible update.
func (rf *RegisterFile) Publish(p TickPublish) {
	rf.gate.Suspend()
	rf.mem[RegFWVersionLo] = byte(FirmwareVersion)
	rf.mem[RegFWVersionHi] = byte(FirmwareVersion >> 8)
	rf.mem[RegGPIOInputs] = p.GPIOInputs & 0x0F
	for i, d := range p.TouchDeltas {
		rf.mem[RegTouchBase+2*i] = byte(uint16(d))
		rf.mem[RegTouchBase+2*i+1] = byte(uint16(d) >> 8)
	}
	rf.mem[RegMode] = p.Mode
	rf.mem[RegSocialLevel] = p.SocialLevel
	rf.mem[RegRainbowSpeed] = p.RainbowSpeed
	rf.mem[RegScannerSpeed] = p.ScannerSpeed
	b := uint8(0)
	if p.Button {
		b |= 1 << 0
	}
	if p.ButtonPrev {
		b |= 1 << 1
	}
	rf.mem[RegButton] = b
	if p.ButtonEnabled {
		rf.mem[RegButtonEnabled] = 1
	} else {
		rf.mem[RegButtonEnabled] = 0
	}
	rf.gate.Resume()
}

// PublishFrame snapshots the rendered LED frame into the color registers.
func (rf *RegisterFile) PublishFrame(frame *[FrameBytes]byte) {
	rf.gate.Suspend()
	copy(rf.mem[RegLEDBase:RegLEDBase+FrameBytes], frame[:])
	rf.gate.Resume()
}

// CopyFrame reads the host-authored color registers as one unit (mode 0).
func (rf *RegisterFile) CopyFrame(frame *[FrameBytes]byte) {
	rf.gate.Suspend()
	copy(frame[:], rf.mem[RegLEDBase:RegLEDBase+FrameBytes])
	rf.gate.Resume()
}
