package sao

import (
	"socialbattery-go/drivers/addrled"
	"socialbattery-go/errcode"
	"socialbattery-go/types"
	"socialbattery-go/x/timex"
)

// TickMs is the control loop period in milliseconds.
const TickMs = 20

// fallbackHoldMs is how long the boot fallback pattern is held before the
// loop takes over.
const fallbackHoldMs = 100

// EventKind tags loop telemetry.
type EventKind uint8

const (
	EventBoot EventKind = iota
	EventBusFallback
	EventMode
	EventLevel
	EventButton
)

// Event is loop telemetry for the service layer. Value carries the mode
// number, the level, or the button state bits depending on Kind.
type Event struct {
	Kind  EventKind
	Value uint8
}

// Config wires a Device to its board.
type Config struct {
	Board types.Board
	// Events, when set, receives state-change telemetry from the loop.
	// It runs on the loop and must not block.
	Events func(Event)
}

func (c Config) Validate() error {
	b := c.Board
	if b.ModeStrap == nil || b.Button == nil || b.LEDData == nil ||
		b.Touch == nil || b.Delay == nil || b.Gate == nil ||
		b.Ticks == nil || b.SleepMs == nil {
		return errcode.InvalidParams
	}
	return nil
}

// Device is the owned context for the whole firmware: register file,
// sensing state, renderer and serializer. All of it is driven from the
// single control loop; the bus handler touches only the register file.
type Device struct {
	board  types.Board
	events func(Event)

	regs   *RegisterFile
	touch  *TouchSense
	button ButtonState
	fx     Renderer
	tx     *addrled.Transmitter

	busOK    bool
	lastTick uint32

	// Loop-owned copies of the host-writable switches, refreshed from the
	// register snapshot every tick.
	mode          uint8
	level         uint8
	buttonEnabled bool
}

func New(cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := cfg.Board
	d := &Device{
		board:  b,
		events: cfg.Events,
		touch:  NewTouchSense(b.Touch),
		tx:     addrled.NewTransmitter(b.LEDData, b.Delay, b.Gate, addrled.WS2812()),
	}
	d.regs = NewRegisterFile(b.Gate, GPIOPins{IO1: b.IO1, IO2: b.IO2, E1: b.E1, E2: b.E2})
	return d, nil
}

// Registers exposes the register file (for the platform target plumbing
// and for tests).
func (d *Device) Registers() *RegisterFile { return d.regs }

// BusUsable reports whether the boot probe found a usable bus.
func (d *Device) BusUsable() bool { return d.busOK }

// Boot configures pins, captures the touch baseline, applies the
// standalone strap, probes the bus and registers the target. When no host
// bus is present it lights the visual fallback, holds it briefly and
// returns errcode.BusUnusable; the loop still runs in that case.
func (d *Device) Boot() error {
	b := d.board

	// Strap, button and expansion lines start as pulled-up inputs.
	inputs := [...]types.DigitalPin{b.ModeStrap, b.Button, b.IO1, b.IO2, b.E1, b.E2}
	for _, p := range inputs {
		if p == nil {
			continue
		}
		p.Configure(types.PinInputPull)
		p.Set(true)
	}
	b.LEDData.Configure(types.PinOutput)
	b.LEDData.Set(false)

	// Baseline before any bus activity can perturb sampling.
	d.touch.Calibrate()

	// Standalone strap: no jumper reads high through the pull-up.
	if b.ModeStrap.Get() {
		d.regs.SetBootDefaults(ModeSocial, true)
	}

	d.lastTick = b.Ticks()

	d.busOK = d.probeBus()
	if !d.busOK {
		// Degrade to a visual self-test: all LEDs green, hold briefly.
		var frame [FrameBytes]byte
		for i := 0; i < numLEDs; i++ {
			frame[i*3+chGreen] = 0xFF
		}
		d.regs.PublishFrame(&frame)
		d.tx.Transmit(frame[:])
		b.SleepMs(fallbackHoldMs)
		d.emit(Event{Kind: EventBusFallback})
		return errcode.BusUnusable
	}

	if err := b.Target.Configure(types.BusTargetConfig{
		ControlAddress:  AddressControl,
		IdentityAddress: AddressIdentity,
		Control:         d.regs.Bytes(),
		Identity:        Identity(),
		OnWrite:         d.regs.HandleWrite,
		OnRead:          d.regs.HandleRead,
	}); err != nil {
		return err
	}
	d.emit(Event{Kind: EventBoot})
	return nil
}

// probeBus checks whether the bus lines are externally pulled high. Both
// lines get the internal pull-down first; any line still reading high means
// bus pull-ups are present and the bus is usable.
func (d *Device) probeBus() bool {
	b := d.board
	if b.SDA == nil || b.SCL == nil || b.Target == nil {
		return false
	}
	b.SDA.Configure(types.PinInputPull)
	b.SDA.Set(false)
	b.SCL.Configure(types.PinInputPull)
	b.SCL.Set(false)
	return b.SDA.Get() || b.SCL.Get()
}

// Run drives the loop forever at the tick cadence. Between ticks the only
// activity is bus servicing.
func (d *Device) Run() {
	for {
		if !d.Poll() {
			d.board.SleepMs(1)
		}
	}
}

// Poll runs one tick if the period has elapsed and reports whether it did.
// The comparison is wraparound-safe unsigned subtraction on the free
// running millisecond counter.
func (d *Device) Poll() bool {
	now := d.board.Ticks()
	if timex.Since32(now, d.lastTick) < TickMs {
		return false
	}
	d.lastTick = now
	d.tick()
	return true
}

func (d *Device) tick() {
	// Host writes land between ticks; capture one consistent view.
	ctl := d.regs.Snapshot()
	d.mode = ctl.Mode
	d.level = ctl.SocialLevel
	d.buttonEnabled = ctl.ButtonEnabled

	prevLevel := d.level
	d.level = d.touch.Update(d.level)
	if d.level != prevLevel {
		d.emit(Event{Kind: EventLevel, Value: d.level})
	}

	pressed := !d.board.Button.Get() // active low
	rising := d.button.Update(pressed)
	if rising {
		d.emit(Event{Kind: EventButton, Value: d.button.Bits()})
		if d.buttonEnabled {
			d.mode++
			if d.mode > ModeMax {
				// Mode 0 is never re-entered via the button.
				d.mode = ModeSocial
			}
			d.emit(Event{Kind: EventMode, Value: d.mode})
		}
	}

	d.regs.Publish(TickPublish{
		GPIOInputs:    d.readInputs(),
		TouchDeltas:   d.touch.Deltas(),
		Mode:          d.mode,
		SocialLevel:   d.level,
		RainbowSpeed:  ctl.RainbowSpeed,
		ScannerSpeed:  ctl.ScannerSpeed,
		Button:        d.button.Pressed(),
		ButtonPrev:    d.button.Previous(),
		ButtonEnabled: d.buttonEnabled,
	})

	in := RenderInput{
		Level:        d.level,
		RainbowSpeed: ctl.RainbowSpeed,
		ScannerSpeed: ctl.ScannerSpeed,
	}
	for i := 0; i < touchChannels; i++ {
		in.Touching[i] = d.touch.Touching(i)
	}
	d.fx.Render(d.mode, in)

	var frame [FrameBytes]byte
	if d.mode == ModePassthrough {
		d.regs.CopyFrame(&frame)
	} else {
		frame = *d.fx.Frame()
		d.regs.PublishFrame(&frame)
	}
	d.tx.Transmit(frame[:])
}

func (d *Device) readInputs() uint8 {
	b := d.board
	v := uint8(0)
	if b.IO1 != nil && b.IO1.Get() {
		v |= 1 << 0
	}
	if b.IO2 != nil && b.IO2.Get() {
		v |= 1 << 1
	}
	if b.E1 != nil && b.E1.Get() {
		v |= 1 << 2
	}
	if b.E2 != nil && b.E2.Get() {
		v |= 1 << 3
	}
	return v
}

func (d *Device) emit(ev Event) {
	if d.events != nil {
		d.events(ev)
	}
}
