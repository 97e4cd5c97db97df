/*
DESCRIPTION
  scale.go implements POC-based motion vector scaling for temporal
  candidates (§4.2.5), and the internal-precision rounding applied when a
  candidate list is finalised.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mvce

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/hevcenc/picture"
)

const (
	mvScaleMax  = 32767
	mvScaleMin  = -32768
	maxTbShift  = 6
	mvScaleBits = 8
)

// ScaleMV scales mv from a source distance (currPOC - srcRefPOC) to a target
// distance (currPOC - dstRefPOC), per the tb/td scale factor of §4.2.5. When
// the two distances are equal the input is returned unchanged, satisfying
// the identity-when-same-POC property.
func ScaleMV(mv picture.MV, currPOC, srcRefPOC, dstRefPOC int) picture.MV {
	td := clip(-128, 127, currPOC-srcRefPOC)
	tb := clip(-128, 127, currPOC-dstRefPOC)
	if td == tb || td == 0 {
		return mv
	}

	tx := (16384 + abs(td)/2) / td
	distScaleFactor := clip(-4096, 4095, (tb*tx+32)>>6)

	x := clip(mvScaleMin, mvScaleMax, signAdjust(distScaleFactor*int(mv.X), mvScaleBits))
	y := clip(mvScaleMin, mvScaleMax, signAdjust(distScaleFactor*int(mv.Y), mvScaleBits))
	return picture.MV{X: int16(x), Y: int16(y)}
}

// signAdjust implements the sign(x) * ((abs(x) + round) >> shift) rounding
// used by the reference scaling formula, where round = (1<<(shift-1)) - 1.
func signAdjust(v, shift int) int {
	round := 1<<(shift-1) - 1
	if v >= 0 {
		return (v + round) >> shift
	}
	return -((-v + round) >> shift)
}

func clip(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RoundAvgMV computes the pairwise-average merge candidate component.
// stat.Mean supplies the unrounded arithmetic mean; an exact .5 tie is
// rounded up, giving (a+b+1)>>1: away from zero for positive sums and
// toward zero for negative sums.
func RoundAvgMV(a, b int16) int16 {
	mean := stat.Mean([]float64{float64(a), float64(b)}, nil)
	sum := int(a) + int(b)
	if sum%2 == 0 {
		return int16(mean)
	}
	return int16(mean + 0.5)
}
