package sao

// ButtonState tracks the button across ticks. Debounce granularity is the
// tick period itself; there is deliberately no sub-tick filtering.
type ButtonState struct {
	cur  bool
	prev bool
}

// Update records this tick's sample and reports a rising edge.
func (b *ButtonState) Update(pressed bool) bool {
	b.prev = b.cur
	b.cur = pressed
	return b.cur && !b.prev
}

func (b *ButtonState) Pressed() bool  { return b.cur }
func (b *ButtonState) Previous() bool { return b.prev }

// Bits packs the state for the button register: bit0 current, bit1
// previous tick.
func (b *ButtonState) Bits() uint8 {
	v := uint8(0)
	if b.cur {
		v |= 1 << 0
	}
	if b.prev {
		v |= 1 << 1
	}
	return v
}
