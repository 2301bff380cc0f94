//go:build !rp2040 && !rp2350

// Command sao-sim runs the firmware against the simulated board and
// renders the LED strip to the terminal, driving it through a scripted
// host session: mode changes, touch presses and button pokes.
package main

import (
	"fmt"
	"time"

	"socialbattery-go/internal/platform"
	"socialbattery-go/services/sao"
)

func main() {
	sim := platform.NewSim()
	sim.AttachHostBus()
	sim.ModeStrap.Drive(false)

	dev, err := sao.New(sao.Config{Board: sim.Board()})
	if err != nil {
		fmt.Println("config:", err)
		return
	}
	if err := dev.Boot(); err != nil {
		fmt.Println("boot:", err)
		return
	}
	fmt.Println("booted, bus usable:", dev.BusUsable())

	id := sim.Target.HostReadIdentity(0, len(sao.Identity()))
	fmt.Printf("identity: %q driven by %q\n", id[8:8+21], id[29:29+6])

	steps := []struct {
		name  string
		setup func()
		ticks int
	}{
		{"social, level via touch", func() {
			sim.Target.HostWrite(sao.RegMode, sao.ModeSocial)
			sim.SetTouchRaw(3, 2500)
		}, 5},
		{"touch released, level sticks", func() {
			sim.SetTouchRaw(3, 0)
		}, 5},
		{"rainbow", func() {
			sim.Target.HostWrite(sao.RegMode, sao.ModeRainbow)
		}, 30},
		{"palette A", func() {
			sim.Target.HostWrite(sao.RegMode, sao.ModePaletteA)
		}, 3},
		{"blue scanner", func() {
			sim.Target.HostWrite(sao.RegMode, sao.ModeScanBlue)
			sim.Target.HostWrite(sao.RegScannerSpeed, 0xFF)
		}, 40},
		{"button press cycles mode", func() {
			sim.Target.HostWrite(sao.RegMode, sao.ModeSocial)
			sim.Target.HostWrite(sao.RegButtonEnabled, 1)
			sim.PressButton(true)
		}, 2},
		{"host-authored frame", func() {
			sim.PressButton(false)
			sim.Target.HostWrite(sao.RegMode, sao.ModePassthrough)
			sim.Target.HostWrite(sao.RegLEDBase,
				0, 255, 0, // red
				128, 255, 0, // orange
				255, 255, 0, // yellow
				255, 0, 0, // green
				0, 0, 255) // blue
		}, 3},
	}

	for _, st := range steps {
		st.setup()
		fmt.Println("--", st.name)
		for i := 0; i < st.ticks; i++ {
			sim.Advance(sao.TickMs)
			dev.Poll()
			if frame, ok := sim.LastFrame(sao.FrameBytes); ok {
				printStrip(frame)
			}
			mem := dev.Registers().Bytes()
			fmt.Printf("  mode %d level %d\n", mem[sao.RegMode], mem[sao.RegSocialLevel])
			time.Sleep(40 * time.Millisecond)
		}
	}
}

// printStrip draws one truecolor block per LED. Wire order is G,R,B.
func printStrip(frame []byte) {
	fmt.Print("  ")
	for i := 0; i+2 < len(frame); i += 3 {
		g, r, b := frame[i], frame[i+1], frame[i+2]
		fmt.Printf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", r, g, b)
	}
}
