//go:build rp2040

// Command busprobe runs on a second Pico wired as the bus controller and
// exercises an attached social battery: identity, register round-trips,
// touch/button readout and a host-authored frame. Results go to UART0.
package main

import (
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"socialbattery-go/drivers/socialbattery"
)

var console = uartx.UART0

// tiny helpers (no fmt)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	sign := ""
	if i < 0 {
		sign = "-"
		i = -i
	}
	var buf [32]byte
	b := len(buf)
	for i > 0 {
		b--
		buf[b] = byte('0' + (i % 10))
		i /= 10
	}
	if sign != "" {
		b--
		buf[b] = '-'
	}
	return string(buf[b:])
}

func logln(parts ...string) {
	for i, p := range parts {
		if i > 0 {
			console.Write([]byte{' '})
		}
		console.Write([]byte(p))
	}
	console.Write([]byte("\r\n"))
}

func main() {
	_ = console.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	time.Sleep(500 * time.Millisecond)
	logln("[probe] boot")

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.GPIO4,
		SCL:       machine.GPIO5,
		Frequency: 100 * machine.KHz,
	}); err != nil {
		logln("[probe] i2c config failed:", err.Error())
		return
	}

	dev := socialbattery.New(machine.I2C0)
	for !dev.Connected() {
		logln("[probe] waiting for target ...")
		time.Sleep(time.Second)
	}

	fw, _ := dev.FirmwareVersion()
	logln("[probe] firmware version", itoa(int(fw)))

	id, err := dev.ReadIdentity()
	if err != nil {
		logln("[probe] identity error:", err.Error())
	} else {
		logln("[probe] identity:", id.Name, "/", id.Driver)
	}

	// Register round-trips.
	if err := dev.SetRainbowSpeed(31); err == nil {
		if v, _ := dev.RainbowSpeed(); v != 31 {
			logln("[probe] FAIL rainbow speed readback:", itoa(int(v)))
		}
	}
	if err := dev.SetMode(socialbattery.ModeMax + 1); err == nil {
		logln("[probe] FAIL mode range accepted")
	}
	_ = dev.SetButtonEnabled(true)

	// Host-authored test pattern, then hand rendering back to the badge.
	_ = dev.SetMode(socialbattery.ModePassthrough)
	for i := 0; i < socialbattery.NumLEDs; i++ {
		_ = dev.SetLED(i, 0, 0, 64)
	}
	time.Sleep(2 * time.Second)
	_ = dev.SetMode(socialbattery.ModeSocial)

	for {
		level, _ := dev.SocialLevel()
		mode, _ := dev.Mode()
		pressed, _, _ := dev.Button()
		deltas, _ := dev.TouchDeltas()

		parts := []string{"[probe] mode", itoa(int(mode)), "level", itoa(int(level))}
		if pressed {
			parts = append(parts, "button")
		}
		for _, d := range deltas {
			parts = append(parts, itoa(int(d)))
		}
		logln(parts...)

		time.Sleep(time.Second)
	}
}
