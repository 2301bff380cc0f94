//go:build !rp2040 && !rp2350

package platform

import "socialbattery-go/types"

// NewBoard returns the simulated board on host builds, running on wall
// time. Tests build their own Sim instances with the virtual clock.
func NewBoard() types.Board {
	s := NewSim()
	s.UseRealTime()
	// No host attached by default: boot takes the visual fallback path.
	return s.Board()
}
