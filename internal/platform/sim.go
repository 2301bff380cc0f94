// Package platform binds the firmware's hardware interfaces to a concrete
// target. The default build wires a full software simulation; MCU builds
// replace it behind build tags, the same way the real SAO pins would be
// wired on its micro.
package platform

import (
	"sync"
	"time"

	"socialbattery-go/types"
)

// SimPin models one GPIO line. While configured as an input the read level
// follows the external drive if present, else the selected pull.
type SimPin struct {
	mu    sync.Mutex
	mode  types.PinMode
	latch bool // output level / pull direction
	ext   *bool
}

func (p *SimPin) Configure(mode types.PinMode) {
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.latch = level
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == types.PinInputPull && p.ext != nil {
		return *p.ext
	}
	// Outputs read back the latch; floating inputs follow the pull.
	return p.latch
}

// Drive forces an external level onto the line (as a host, jumper or
// pull-up resistor would).
func (p *SimPin) Drive(level bool) {
	p.mu.Lock()
	l := level
	p.ext = &l
	p.mu.Unlock()
}

// Release lets the line float again.
func (p *SimPin) Release() {
	p.mu.Lock()
	p.ext = nil
	p.mu.Unlock()
}

// simGate is the simulated bus-event gate: a plain mutex that the target
// fake also takes around every callback, so suspending really does block
// bus events.
type simGate struct {
	mu         sync.Mutex
	held       bool
	suspension int
}

func (g *simGate) Suspend() {
	g.mu.Lock()
	g.held = true
	g.suspension++
}

func (g *simGate) Resume() {
	g.held = false
	g.mu.Unlock()
}

// SimTarget emulates the bus target protocol engine: register-pointer
// transactions against the shared control/identity memory, with callbacks
// delivered exactly as the engine contract requires.
type SimTarget struct {
	gate *simGate

	mu         sync.Mutex
	cfg        types.BusTargetConfig
	configured bool
}

func (t *SimTarget) Configure(cfg types.BusTargetConfig) error {
	t.mu.Lock()
	t.cfg = cfg
	t.configured = true
	t.mu.Unlock()
	return nil
}

func (t *SimTarget) Configured() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.configured
}

// HostWrite emulates a controller write transaction: register pointer then
// data bytes. The gate serializes it against the control loop.
func (t *SimTarget) HostWrite(reg uint8, data ...byte) {
	t.gate.Suspend()
	defer t.gate.Resume()
	if !t.configured || len(data) == 0 {
		return
	}
	copy(t.cfg.Control[reg:], data)
	if t.cfg.OnWrite != nil {
		t.cfg.OnWrite(reg, uint8(len(data)))
	}
}

// HostRead emulates a controller read of n bytes from reg.
func (t *SimTarget) HostRead(reg uint8, n int) []byte {
	t.gate.Suspend()
	defer t.gate.Resume()
	if !t.configured {
		return nil
	}
	if t.cfg.OnRead != nil {
		t.cfg.OnRead(reg)
	}
	out := make([]byte, n)
	copy(out, t.cfg.Control[reg:])
	return out
}

// HostReadIdentity reads from the identity address.
func (t *SimTarget) HostReadIdentity(off uint8, n int) []byte {
	t.gate.Suspend()
	defer t.gate.Resume()
	if !t.configured {
		return nil
	}
	out := make([]byte, n)
	copy(out, t.cfg.Identity[off:])
	return out
}

// simTouch returns settable raw counts per pad. Iterations are accounted
// the way the sampling primitive would: the returned count is the averaged
// value, independent of the iteration count.
type simTouch struct {
	mu  sync.Mutex
	raw [5]int32
}

func (s *simTouch) ReadPad(channel uint8, iterations int) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw[channel]
}

// Sim is the whole simulated board plus its test controls.
type Sim struct {
	ModeStrap *SimPin
	Button    *SimPin
	IO1, IO2  *SimPin
	E1, E2    *SimPin
	SDA, SCL  *SimPin
	LEDData   *SimPin

	Target *SimTarget

	gate  *simGate
	touch *simTouch

	mu       sync.Mutex
	realTime bool
	epoch    time.Time
	nowMs    uint32
	pulses   []simPulse
}

type simPulse struct {
	high bool
	ns   uint32
}

// NewSim builds a simulated board with a virtual clock.
func NewSim() *Sim {
	g := &simGate{}
	s := &Sim{
		ModeStrap: &SimPin{},
		Button:    &SimPin{},
		IO1:       &SimPin{},
		IO2:       &SimPin{},
		E1:        &SimPin{},
		E2:        &SimPin{},
		SDA:       &SimPin{},
		SCL:       &SimPin{},
		LEDData:   &SimPin{},
		Target:    &SimTarget{gate: g},
		gate:      g,
		touch:     &simTouch{},
		epoch:     time.Now(),
	}
	return s
}

// UseRealTime switches the clock to wall time (for interactive runs).
func (s *Sim) UseRealTime() {
	s.mu.Lock()
	s.realTime = true
	s.mu.Unlock()
}

// Advance moves the virtual clock forward.
func (s *Sim) Advance(ms uint32) {
	s.mu.Lock()
	s.nowMs += ms
	s.mu.Unlock()
}

func (s *Sim) ticks() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.realTime {
		return uint32(time.Since(s.epoch) / time.Millisecond)
	}
	return s.nowMs
}

func (s *Sim) sleepMs(ms uint32) {
	s.mu.Lock()
	rt := s.realTime
	if !rt {
		s.nowMs += ms
	}
	s.mu.Unlock()
	if rt {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

// WaitNanos records wire activity instead of burning cycles: each wait is
// attributed to the LED data line's current level.
func (s *Sim) WaitNanos(ns uint32) {
	level := s.LEDData.Get()
	s.mu.Lock()
	s.pulses = append(s.pulses, simPulse{high: level, ns: ns})
	s.mu.Unlock()
}

// SetTouchRaw sets the raw count the sampling primitive reports for a pad.
func (s *Sim) SetTouchRaw(channel uint8, raw int32) {
	s.touch.mu.Lock()
	s.touch.raw[channel] = raw
	s.touch.mu.Unlock()
}

// PressButton drives the active-low button line.
func (s *Sim) PressButton(pressed bool) {
	s.Button.Drive(!pressed)
}

// AttachHostBus pulls SDA/SCL high as bus pull-up resistors would.
func (s *Sim) AttachHostBus() {
	s.SDA.Drive(true)
	s.SCL.Drive(true)
}

// GateSuspensions reports how many critical sections have been entered.
func (s *Sim) GateSuspensions() int {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	return s.gate.suspension
}

// ResetWire clears the recorded pulse log.
func (s *Sim) ResetWire() {
	s.mu.Lock()
	s.pulses = nil
	s.mu.Unlock()
}

// oneThresholdNs splits recorded high pulses into 0 and 1 symbols.
const oneThresholdNs = 500

// Frames decodes the recorded pulse log back into transmitted bytes and
// returns them chunked per frame.
func (s *Sim) Frames(frameLen int) [][]byte {
	s.mu.Lock()
	pulses := make([]simPulse, len(s.pulses))
	copy(pulses, s.pulses)
	s.mu.Unlock()

	var bits []bool
	for i := 0; i+1 < len(pulses); i += 2 {
		hi, lo := pulses[i], pulses[i+1]
		if !hi.high || lo.high {
			// out of phase; drop the malformed tail
			break
		}
		bits = append(bits, hi.ns >= oneThresholdNs)
	}

	var bytes []byte
	for i := 0; i+8 <= len(bits); i += 8 {
		b := byte(0)
		for j := 0; j < 8; j++ {
			b <<= 1
			if bits[i+j] {
				b |= 1
			}
		}
		bytes = append(bytes, b)
	}

	var frames [][]byte
	for i := 0; i+frameLen <= len(bytes); i += frameLen {
		frames = append(frames, bytes[i:i+frameLen])
	}
	return frames
}

// LastFrame returns the newest decoded frame, if any.
func (s *Sim) LastFrame(frameLen int) ([]byte, bool) {
	frames := s.Frames(frameLen)
	if len(frames) == 0 {
		return nil, false
	}
	return frames[len(frames)-1], true
}

// Board assembles the types.Board view of the simulation.
func (s *Sim) Board() types.Board {
	return types.Board{
		ModeStrap: s.ModeStrap,
		Button:    s.Button,
		IO1:       s.IO1,
		IO2:       s.IO2,
		E1:        s.E1,
		E2:        s.E2,
		SDA:       s.SDA,
		SCL:       s.SCL,
		LEDData:   s.LEDData,
		Touch:     s.touch,
		Delay:     s,
		Gate:      s.gate,
		Target:    s.Target,
		Ticks:     s.ticks,
		SleepMs:   s.sleepMs,
	}
}
