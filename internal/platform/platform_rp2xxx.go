//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"sync"
	"time"

	"device/arm"

	"socialbattery-go/types"
)

// Default pin map for the RP2 prototype carrier. The production SAO uses
// whatever its micro provides; only this file knows pin numbers.
const (
	pinSDA     = machine.GP0 // I2C0 target: control surface
	pinSCL     = machine.GP1
	pinSDA1    = machine.GP2 // I2C1 target: identity block
	pinSCL1    = machine.GP3
	pinButton  = machine.GP4
	pinStrap   = machine.GP5
	pinIO1     = machine.GP6
	pinIO2     = machine.GP7
	pinE1      = machine.GP8
	pinE2      = machine.GP9
	pinLEDData = machine.GP10
)

var touchPins = [5]machine.Pin{machine.GP20, machine.GP21, machine.GP22, machine.GP26, machine.GP27}

// mcuPin adapts machine.Pin. Pull direction while input follows the last
// Set level, matching the latch-selects-pull convention of the register
// interface.
type mcuPin struct {
	p     machine.Pin
	input bool
	latch bool
}

func (m *mcuPin) Configure(mode types.PinMode) {
	switch mode {
	case types.PinOutput:
		m.input = false
		m.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		m.p.Set(m.latch)
	default:
		m.input = true
		m.applyPull()
	}
}

func (m *mcuPin) Set(level bool) {
	m.latch = level
	if m.input {
		m.applyPull()
		return
	}
	m.p.Set(level)
}

func (m *mcuPin) Get() bool { return m.p.Get() }

func (m *mcuPin) applyPull() {
	if m.latch {
		m.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	} else {
		m.p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	}
}

// chargeTouch measures pad capacitance by charge time: discharge the pad,
// float it against the pull-up, and count loop iterations until the level
// reads high. The count is proportional to pad capacitance.
type chargeTouch struct {
	pins [5]machine.Pin
}

const chargeCountLimit = 4096

func (t *chargeTouch) ReadPad(channel uint8, iterations int) int32 {
	p := t.pins[channel]
	var total int32
	for it := 0; it < iterations; it++ {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
		for i := 0; i < 16; i++ {
			arm.Asm("nop")
		}
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		count := int32(0)
		for !p.Get() && count < chargeCountLimit {
			count++
		}
		total += count
	}
	return total
}

// cycleDelayer busy-waits. The loop body costs about three cycles on the
// M0+; the divisor is tuned for single-cycle-accurate-enough LED timing.
type cycleDelayer struct {
	cyclesPerUs uint32
}

func (d cycleDelayer) WaitNanos(ns uint32) {
	n := ns * d.cyclesPerUs / 1000 / 3
	for i := uint32(0); i < n; i++ {
		arm.Asm("nop")
	}
}

// mcuGate serializes the control loop against the target-servicing
// goroutines. Suspend blocks new bus events; an event already mid-callback
// completes first, which is exactly the interrupt-mask semantics.
type mcuGate struct {
	mu sync.Mutex
}

func (g *mcuGate) Suspend() { g.mu.Lock() }
func (g *mcuGate) Resume()  { g.mu.Unlock() }

// mcuTarget serves the two logical addresses on the two hardware I2C
// blocks in target mode, one goroutine each.
type mcuTarget struct {
	gate *mcuGate
}

func (t *mcuTarget) Configure(cfg types.BusTargetConfig) error {
	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:  pinSDA,
		SCL:  pinSCL,
		Mode: machine.I2CModeTarget,
	}); err != nil {
		return err
	}
	if err := machine.I2C0.Listen(uint16(cfg.ControlAddress)); err != nil {
		return err
	}
	go t.serveControl(machine.I2C0, cfg)

	if err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:  pinSDA1,
		SCL:  pinSCL1,
		Mode: machine.I2CModeTarget,
	}); err != nil {
		return err
	}
	if err := machine.I2C1.Listen(uint16(cfg.IdentityAddress)); err != nil {
		return err
	}
	go t.serveIdentity(machine.I2C1, cfg)
	return nil
}

// serveControl implements register-pointer semantics on the control
// surface: first received byte selects the register, further bytes write
// ascending registers, and a read request replies from the pointer on.
func (t *mcuTarget) serveControl(i2c *machine.I2C, cfg types.BusTargetConfig) {
	buf := make([]byte, len(cfg.Control)+1)
	ptr := uint8(0)
	for {
		evt, n, err := i2c.WaitForEvent(buf)
		if err != nil {
			continue
		}
		switch evt {
		case machine.I2CReceive:
			if n == 0 {
				break
			}
			t.gate.Suspend()
			ptr = buf[0]
			wrote := uint8(0)
			for i := 1; i < n; i++ {
				idx := int(ptr) + i - 1
				if idx >= len(cfg.Control) {
					break
				}
				cfg.Control[idx] = buf[i]
				wrote++
			}
			if wrote > 0 && cfg.OnWrite != nil {
				cfg.OnWrite(ptr, wrote)
			}
			t.gate.Resume()
		case machine.I2CRequest:
			t.gate.Suspend()
			if int(ptr) >= len(cfg.Control) {
				ptr = 0
			}
			if cfg.OnRead != nil {
				cfg.OnRead(ptr)
			}
			i2c.Reply(cfg.Control[ptr:])
			t.gate.Resume()
		case machine.I2CFinish:
		}
	}
}

func (t *mcuTarget) serveIdentity(i2c *machine.I2C, cfg types.BusTargetConfig) {
	buf := make([]byte, 4)
	ptr := uint8(0)
	for {
		evt, n, err := i2c.WaitForEvent(buf)
		if err != nil {
			continue
		}
		switch evt {
		case machine.I2CReceive:
			// Identity is read-only: received bytes only move the pointer.
			if n > 0 {
				ptr = buf[0]
			}
		case machine.I2CRequest:
			if int(ptr) >= len(cfg.Identity) {
				ptr = 0
			}
			i2c.Reply(cfg.Identity[ptr:])
		case machine.I2CFinish:
		}
	}
}

var bootTime = time.Now()

func ticks() uint32 {
	return uint32(time.Since(bootTime) / time.Millisecond)
}

func sleepMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// NewBoard wires the RP2 pin map.
func NewBoard() types.Board {
	gate := &mcuGate{}
	return types.Board{
		ModeStrap: &mcuPin{p: pinStrap},
		Button:    &mcuPin{p: pinButton},
		IO1:       &mcuPin{p: pinIO1},
		IO2:       &mcuPin{p: pinIO2},
		E1:        &mcuPin{p: pinE1},
		E2:        &mcuPin{p: pinE2},
		SDA:       &mcuPin{p: pinSDA},
		SCL:       &mcuPin{p: pinSCL},
		LEDData:   &mcuPin{p: pinLEDData},
		Touch:     &chargeTouch{pins: touchPins},
		Delay:     cycleDelayer{cyclesPerUs: machine.CPUFrequency() / 1_000_000},
		Gate:      gate,
		Target:    &mcuTarget{gate: gate},
		Ticks:     ticks,
		SleepMs:   sleepMs,
	}
}
