package sao

import "socialbattery-go/x/mathx"

// Mode values. ModePassthrough is only reachable as the power-on default or
// by an explicit host write; the button cycles 1..7.
const (
	ModePassthrough uint8 = 0 // host-authored colors from the register file
	ModeSocial      uint8 = 1
	ModeRainbow     uint8 = 2
	ModePaletteA    uint8 = 3
	ModePaletteB    uint8 = 4
	ModeScanRed     uint8 = 5
	ModeScanGreen   uint8 = 6
	ModeScanBlue    uint8 = 7

	ModeMax = ModeScanBlue
)

// Channel offsets within one LED's three bytes. Wire order is G,R,B.
const (
	chGreen = 0
	chRed   = 1
	chBlue  = 2
)

const (
	scanDecayStep = 10
	scanRampStep  = 50
)

// Trans pride colors, wire order G,R,B per LED.
var paletteA = [FrameBytes]byte{
	0, 0, 255,
	150, 255, 174,
	255, 255, 255,
	150, 255, 174,
	0, 0, 255,
}

// Dutch flag colors.
var paletteB = [FrameBytes]byte{
	0, 255, 0,
	0, 255, 0,
	255, 255, 255,
	0, 0, 255,
	0, 0, 255,
}

// RenderInput is the sensed state a frame is computed from.
type RenderInput struct {
	Level        uint8
	Touching     [touchChannels]bool
	RainbowSpeed uint8
	ScannerSpeed uint8
}

// Renderer computes the frame for modes 1-7. The buffer persists across
// ticks: the scanner fades out whatever the previous mode left behind.
type Renderer struct {
	frame [FrameBytes]byte
	hue   uint8
	scan  scanner
}

// Frame returns the renderer's buffer.
func (r *Renderer) Frame() *[FrameBytes]byte { return &r.frame }

// Render fills the frame for one tick. ModePassthrough renders nothing; the
// loop transmits the register file's live bytes instead.
func (r *Renderer) Render(mode uint8, in RenderInput) {
	switch mode {
	case ModeSocial:
		r.social(in)
	case ModeRainbow:
		r.rainbow(in.RainbowSpeed)
	case ModePaletteA:
		r.frame = paletteA
	case ModePaletteB:
		r.frame = paletteB
	case ModeScanRed:
		r.scan.step(&r.frame, chRed, in.ScannerSpeed)
	case ModeScanGreen:
		r.scan.step(&r.frame, chGreen, in.ScannerSpeed)
	case ModeScanBlue:
		r.scan.step(&r.frame, chBlue, in.ScannerSpeed)
	}
}

// social lights one LED per level step, green rising and red falling with
// the level, and flashes a pad's blue channel while it is actively touched.
func (r *Renderer) social(in RenderInput) {
	g := mathx.Sat8(50 * int(in.Level))
	red := 255 - g
	for i := 0; i < numLEDs; i++ {
		if in.Level < uint8(i) {
			r.frame[i*3+chGreen] = 0
			r.frame[i*3+chRed] = 0
		} else {
			r.frame[i*3+chGreen] = g
			r.frame[i*3+chRed] = red
		}
		if in.Touching[i] {
			r.frame[i*3+chBlue] = 0xFF
		} else {
			r.frame[i*3+chBlue] = 0
		}
	}
}

// rainbow spreads a hue offset across the strip and advances the global
// hue one step per tick, wrapping at the 8-bit boundary.
func (r *Renderer) rainbow(speed uint8) {
	for i := 0; i < numLEDs; i++ {
		cr, cg, cb := hsvColor(r.hue+uint8(i)*speed, 240, 128)
		r.frame[i*3+chGreen] = cg
		r.frame[i*3+chRed] = cr
		r.frame[i*3+chBlue] = cb
	}
	r.hue++
}

// scanner is the bouncing-fade animation state shared by modes 5-7.
type scanner struct {
	head     uint8
	backward bool
	// acc is 16 bits wide so it can exceed the trip point even at
	// scanner_speed 0 (trip point 255).
	acc uint16
}

// step evolves the animation one tick: fade the whole frame, move the head
// when the accumulator trips, then ramp the head's channel. The speed
// register encodes the trip point as 255-speed, so a larger register value
// trips sooner and moves the head faster.
func (s *scanner) step(frame *[FrameBytes]byte, channel int, speed uint8) {
	for i := range frame {
		frame[i] = mathx.SatSub8(frame[i], scanDecayStep)
	}

	if s.acc > uint16(0xFF-speed) {
		s.acc = 0
		if !s.backward {
			s.head++
			if s.head >= numLEDs-1 {
				s.backward = true
			}
		} else {
			s.head--
			if s.head == 0 {
				s.backward = false
			}
		}
	} else {
		s.acc++
	}

	idx := int(s.head)*3 + channel
	frame[idx] = mathx.SatAdd8(frame[idx], scanRampStep)
}

// hsvColor converts 8-bit HSV to RGB with integer math only. Hue runs the
// full 0..255 circle in six regions.
func hsvColor(h, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}
	region := h / 43
	rem := uint32(h%43) * 6 // position within the region, 0..252

	p := uint8(uint32(v) * uint32(255-uint32(s)) / 255)
	q := uint8(uint32(v) * (255 - uint32(s)*rem/255) / 255)
	t := uint8(uint32(v) * (255 - uint32(s)*(255-rem)/255) / 255)

	switch region {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
