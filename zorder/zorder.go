/*
DESCRIPTION
  zorder.go provides Z-order (Morton) addressing utilities used to lay out
  per-LCU coefficient buffers so that recursive quad-tree sub-blocks occupy
  contiguous ranges, and small numeric helpers. No other package of this
  module imports it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package zorder provides Morton-order addressing and small clipping/
// min/max helpers. No other package of this module imports it.
package zorder

// Index returns the Morton (Z-order) index for the block coordinate (x, y)
// measured in smallest-CU units. Recursive quad-tree traversal visits blocks
// in increasing Index order, so a coefficient buffer addressed by Index keeps
// every recursive sub-block's coefficients contiguous.
func Index(x, y uint32) uint64 {
	return interleave(uint64(x)) | (interleave(uint64(y)) << 1)
}

// interleave spreads the low 32 bits of v so that each original bit i ends up
// at bit position 2*i, leaving the odd bit positions free for the other axis.
func interleave(v uint64) uint64 {
	v &= 0x00000000ffffffff
	v = (v | (v << 16)) & 0x0000ffff0000ffff
	v = (v | (v << 8)) & 0x00ff00ff00ff00ff
	v = (v | (v << 4)) & 0x0f0f0f0f0f0f0f0f
	v = (v | (v << 2)) & 0x3333333333333333
	v = (v | (v << 1)) & 0x5555555555555555
	return v
}

// Clip3 clips z to the inclusive range [x, y].
func Clip3(x, y, z int) int {
	if z < x {
		return x
	}
	if z > y {
		return y
	}
	return z
}

// Max returns the larger of a and b.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Abs returns the absolute value of a.
func Abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FloorLog2 returns floor(log2(v)) for v >= 1.
func FloorLog2(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
