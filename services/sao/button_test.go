package sao

import "testing"

func TestButtonRisingEdge(t *testing.T) {
	var b ButtonState

	if b.Update(false) {
		t.Fatal("edge reported while idle")
	}
	if !b.Update(true) {
		t.Fatal("press not reported as an edge")
	}
	if b.Update(true) {
		t.Fatal("held press reported as a second edge")
	}
	if b.Update(false) {
		t.Fatal("release reported as an edge")
	}
	if !b.Update(true) {
		t.Fatal("second press not reported")
	}
}

func TestButtonBits(t *testing.T) {
	var b ButtonState

	b.Update(true)
	if got := b.Bits(); got != 0b01 {
		t.Fatalf("bits after press = %#b, want 0b01", got)
	}
	b.Update(true)
	if got := b.Bits(); got != 0b11 {
		t.Fatalf("bits while held = %#b, want 0b11", got)
	}
	b.Update(false)
	if got := b.Bits(); got != 0b10 {
		t.Fatalf("bits after release = %#b, want 0b10", got)
	}
	b.Update(false)
	if got := b.Bits(); got != 0b00 {
		t.Fatalf("bits while idle = %#b, want 0b00", got)
	}
}
