// Package word provides the SWAR primitives the scan kernels build on.
package word

import "math/bits"

// Size is the machine word width in bits the engine is built around.
const Size = 64

// Popcount returns the number of set bits in w.
func Popcount(w uint64) uint64 {
	return uint64(bits.OnesCount64(w))
}

// ClearRightmost clears the lowest set bit of w.
func ClearRightmost(w uint64) uint64 {
	return w & (w - 1)
}

// SmearRightmost sets every bit strictly left of w's lowest set bit (the
// bit itself is cleared), so that Popcount(SmearRightmost(w)) is the
// MSB-first index of w's lowest set bit: 63 for bit 0, 0 for bit 63. This
// is the position the bit-vectors' MSB-first numbering gives that bit.
// Returns 0 for w == 0.
func SmearRightmost(w uint64) uint64 {
	return w ^ (-w)
}

// CeilDiv returns ceil(x/y) for positive y.
func CeilDiv(x, y uint64) uint64 {
	return (x + y - 1) / y
}

// BitWidth returns the minimum number of bits needed to represent v in
// unsigned binary, floored at 1 (BitWidth(0) == 1 rather than 0 — the
// original BitWeaving formula, ceil(log2(max_code)), is undefined at
// max_code == 0, so the floor is applied here). This single formula serves
// both the width_exceeded suggestion and the post-append shrink-optimum
// check: bits.Len64 already equals ceil(log2(v)) for non-powers of two and
// ceil(log2(v))+1 for exact powers of two, which is exactly the "bump to
// the next integer for headroom" rule spec.md describes.
func BitWidth(v uint64) uint32 {
	if v == 0 {
		return 1
	}
	return uint32(bits.Len64(v))
}
