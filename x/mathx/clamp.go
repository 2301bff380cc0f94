package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sat8 narrows an integer to uint8, saturating instead of wrapping.
func Sat8[T constraints.Integer](v T) uint8 {
	n := int64(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// SatAdd8 adds b to a, saturating at 255.
func SatAdd8(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// SatSub8 subtracts b from a, saturating at 0.
func SatSub8(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}
