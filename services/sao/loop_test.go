package sao

import (
	"testing"

	"socialbattery-go/errcode"
	"socialbattery-go/internal/platform"
)

// hostedSim boots a device with bus pull-ups present and the strap
// jumpered (host configuration).
func hostedSim(t *testing.T) (*platform.Sim, *Device) {
	t.Helper()
	sim := platform.NewSim()
	sim.AttachHostBus()
	sim.ModeStrap.Drive(false)

	dev, err := New(Config{Board: sim.Board()})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Boot(); err != nil {
		t.Fatalf("boot: %v", err)
	}
	return sim, dev
}

func runTick(sim *platform.Sim, dev *Device) {
	sim.Advance(TickMs)
	dev.Poll()
}

func TestBootWithHost(t *testing.T) {
	sim, dev := hostedSim(t)

	if !dev.BusUsable() {
		t.Fatal("bus not usable with pull-ups present")
	}
	if !sim.Target.Configured() {
		t.Fatal("bus target not registered")
	}
	// Jumpered strap: passthrough mode, button ignored.
	if got := sim.Target.HostRead(RegMode, 1); got[0] != ModePassthrough {
		t.Errorf("mode = %d, want passthrough", got[0])
	}
	if got := sim.Target.HostRead(RegButtonEnabled, 1); got[0] != 0 {
		t.Error("button enabled without a host opting in")
	}

	fw := sim.Target.HostRead(RegFWVersionLo, 2)
	if v := uint16(fw[0]) | uint16(fw[1])<<8; v != FirmwareVersion {
		t.Errorf("firmware version = %d, want %d", v, FirmwareVersion)
	}
}

func TestBootServesIdentity(t *testing.T) {
	sim, _ := hostedSim(t)

	id := sim.Target.HostReadIdentity(0, len(Identity()))
	if string(id[:4]) != "LIFE" {
		t.Fatalf("identity magic = %q", id[:4])
	}
	if string(id[8:8+21]) != "WICCON SOCIAL BATTERY" {
		t.Errorf("identity name = %q", id[8:8+21])
	}
}

func TestBootFallbackWithoutBus(t *testing.T) {
	sim := platform.NewSim()
	// Lines float: no pull-ups, strap reads high through its pull.
	dev, err := New(Config{Board: sim.Board()})
	if err != nil {
		t.Fatal(err)
	}

	err = dev.Boot()
	if errcode.Of(err) != errcode.BusUnusable {
		t.Fatalf("boot error = %v, want bus unusable", err)
	}
	if dev.BusUsable() {
		t.Fatal("bus reported usable with floating lines")
	}
	if sim.Target.Configured() {
		t.Fatal("target registered on an unusable bus")
	}

	// The fallback pattern on the wire: all LEDs green.
	frame, ok := sim.LastFrame(FrameBytes)
	if !ok {
		t.Fatal("no frame transmitted at fallback")
	}
	for i := 0; i < numLEDs; i++ {
		if frame[i*3+chGreen] != 0xFF || frame[i*3+chRed] != 0 || frame[i*3+chBlue] != 0 {
			t.Fatalf("led %d = % x, want pure green", i, frame[i*3:i*3+3])
		}
	}
}

func TestStandaloneStrapDefaults(t *testing.T) {
	sim := platform.NewSim()
	dev, err := New(Config{Board: sim.Board()})
	if err != nil {
		t.Fatal(err)
	}
	_ = dev.Boot() // no bus: fallback, loop still runs

	mem := dev.Registers().Bytes()
	if mem[RegMode] != ModeSocial {
		t.Errorf("standalone mode = %d, want social", mem[RegMode])
	}
	if mem[RegButtonEnabled] != 1 {
		t.Error("standalone boot must enable the button")
	}
}

func TestTickCadence(t *testing.T) {
	sim, dev := hostedSim(t)

	sim.Advance(TickMs - 1)
	if dev.Poll() {
		t.Fatal("ticked before the period elapsed")
	}
	sim.Advance(1)
	if !dev.Poll() {
		t.Fatal("did not tick at the period boundary")
	}
	if dev.Poll() {
		t.Fatal("ticked twice without the clock advancing")
	}
}

func TestTickCadenceSurvivesCounterWrap(t *testing.T) {
	sim, dev := hostedSim(t)

	// Park the counter just below the 32-bit wrap.
	sim.Advance(^uint32(0) - 5)
	dev.Poll()

	sim.Advance(3)
	if dev.Poll() {
		t.Fatal("ticked 3 ms after the last tick")
	}
	sim.Advance(TickMs) // crosses zero
	if !dev.Poll() {
		t.Fatal("missed the tick across the counter wrap")
	}
}

func TestButtonCyclesModes(t *testing.T) {
	sim, dev := hostedSim(t)
	sim.Target.HostWrite(RegMode, ModeSocial)
	sim.Target.HostWrite(RegButtonEnabled, 1)

	press := func() {
		sim.PressButton(true)
		runTick(sim, dev)
		sim.PressButton(false)
		runTick(sim, dev)
	}

	// 1 through 7, then wrap to 1. Mode 0 is host-only.
	want := []uint8{2, 3, 4, 5, 6, 7, 1, 2}
	for _, w := range want {
		press()
		if got := sim.Target.HostRead(RegMode, 1)[0]; got != w {
			t.Fatalf("mode = %d, want %d", got, w)
		}
	}
}

func TestHeldButtonAdvancesOnce(t *testing.T) {
	sim, dev := hostedSim(t)
	sim.Target.HostWrite(RegMode, ModeSocial)
	sim.Target.HostWrite(RegButtonEnabled, 1)

	sim.PressButton(true)
	for i := 0; i < 5; i++ {
		runTick(sim, dev)
	}
	if got := sim.Target.HostRead(RegMode, 1)[0]; got != ModeRainbow {
		t.Fatalf("mode = %d after a held press, want %d", got, ModeRainbow)
	}
}

func TestDisabledButtonIgnored(t *testing.T) {
	sim, dev := hostedSim(t)
	sim.Target.HostWrite(RegMode, ModeRainbow)

	sim.PressButton(true)
	runTick(sim, dev)

	if got := sim.Target.HostRead(RegMode, 1)[0]; got != ModeRainbow {
		t.Fatalf("mode = %d, want unchanged %d", got, ModeRainbow)
	}
	// The press is still reported in the button register.
	if got := sim.Target.HostRead(RegButton, 1)[0]; got&0b01 == 0 {
		t.Error("pressed bit not reported")
	}
}

func TestPassthroughFrameReachesWire(t *testing.T) {
	sim, dev := hostedSim(t)

	var frame [FrameBytes]byte
	for i := range frame {
		frame[i] = byte(i * 16)
	}
	sim.Target.HostWrite(RegLEDBase, frame[:]...)

	sim.ResetWire()
	runTick(sim, dev)

	got, ok := sim.LastFrame(FrameBytes)
	if !ok {
		t.Fatal("no frame on the wire")
	}
	for i := range frame {
		if got[i] != frame[i] {
			t.Fatalf("wire frame % x, want % x", got, frame[:])
		}
	}
}

func TestTouchUpdatesLevelRegisters(t *testing.T) {
	sim, dev := hostedSim(t)
	sim.Target.HostWrite(RegMode, ModeSocial)

	sim.SetTouchRaw(3, 2500) // baseline was 0
	runTick(sim, dev)

	if got := sim.Target.HostRead(RegSocialLevel, 1)[0]; got != 3 {
		t.Fatalf("level = %d, want 3", got)
	}
	d := sim.Target.HostRead(RegTouchBase+6, 2)
	if d[0] != 0xC4 || d[1] != 0x09 {
		t.Errorf("delta 3 = % x, want c4 09 (2500)", d)
	}

	// 2500 is over the indicator threshold too: pad 3's blue lights.
	frame, ok := sim.LastFrame(FrameBytes)
	if !ok {
		t.Fatal("no frame on the wire")
	}
	if frame[3*3+chBlue] != 0xFF {
		t.Error("touch indicator not lit on pad 3")
	}
	if frame[3*3+chGreen] != 150 || frame[3*3+chRed] != 105 {
		t.Errorf("led 3 = % x, want level-3 colors", frame[3*3:3*3+3])
	}
}

func TestHostLevelOverrideSticksUntilTouch(t *testing.T) {
	sim, dev := hostedSim(t)

	sim.Target.HostWrite(RegSocialLevel, 4)
	runTick(sim, dev)
	if got := sim.Target.HostRead(RegSocialLevel, 1)[0]; got != 4 {
		t.Fatalf("level = %d, want host-written 4", got)
	}

	sim.SetTouchRaw(1, 2500)
	runTick(sim, dev)
	if got := sim.Target.HostRead(RegSocialLevel, 1)[0]; got != 1 {
		t.Fatalf("level = %d, want touch-claimed 1", got)
	}
}

func TestRenderedFramePublishedToRegisters(t *testing.T) {
	sim, dev := hostedSim(t)
	sim.Target.HostWrite(RegMode, ModePaletteA)
	runTick(sim, dev)

	got := sim.Target.HostRead(RegLEDBase, FrameBytes)
	for i := range paletteA {
		if got[i] != paletteA[i] {
			t.Fatalf("register frame % x, want palette A", got)
		}
	}
}

func TestLoopEmitsEvents(t *testing.T) {
	sim := platform.NewSim()
	sim.AttachHostBus()
	sim.ModeStrap.Drive(false)

	var events []Event
	dev, err := New(Config{
		Board:  sim.Board(),
		Events: func(ev Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Boot(); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != EventBoot {
		t.Fatalf("boot events = %+v", events)
	}

	events = nil
	sim.Target.HostWrite(RegButtonEnabled, 1)
	sim.Target.HostWrite(RegMode, ModeSocial)
	sim.SetTouchRaw(2, 2500)
	sim.PressButton(true)
	runTick(sim, dev)

	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	if len(kinds) != 3 || kinds[0] != EventLevel || kinds[1] != EventButton || kinds[2] != EventMode {
		t.Fatalf("tick events = %+v", events)
	}
	if events[0].Value != 2 {
		t.Errorf("level event value = %d, want 2", events[0].Value)
	}
	if events[2].Value != ModeRainbow {
		t.Errorf("mode event value = %d, want %d", events[2].Value, ModeRainbow)
	}
}

func TestValidateRejectsEmptyBoard(t *testing.T) {
	if _, err := New(Config{}); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v, want invalid params", err)
	}
}
