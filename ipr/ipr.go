/*
DESCRIPTION
  ipr.go provides the inter-prediction reconstructor: uni- and
  bi-directional pixel synthesis from one or two reference pictures and a
  motion vector pair, dispatching to an external Interpolator for the
  actual fractional-pel filter taps (out of scope for this module).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ipr reconstructs prediction blocks from already-decoded reference
// pictures: integer-pel copy with edge replication, or a delegated
// fractional-pel interpolation, combined into a final 8-bit sample either
// directly (uni-prediction) or by averaging two lists (bi-prediction).
package ipr

import "github.com/ausocean/hevcenc/picture"

// FracMask isolates the fractional-pel bits of an internal-precision
// motion vector component; the integer pel offset is mv >> picture.InternalMVPrec.
const FracMask = (1 << picture.InternalMVPrec) - 1

// Interpolator produces fractional-pel samples. Its filter taps are an
// external collaborator: this package only decides when interpolation is
// needed and how to combine its output, not how the taps are computed.
type Interpolator interface {
	// InterpolateLuma fills dst (w*h samples, row-major, stride w) with the
	// luma prediction for the w x h block whose top-left integer-pel
	// reference position is (x, y) and whose sub-pel phase is (fracX, fracY)
	// in picture.InternalMVPrec units (0..15).
	InterpolateLuma(ref *picture.Plane, x, y, fracX, fracY, w, h int, dst []int16)

	// InterpolateChroma is the chroma equivalent, phase likewise in
	// picture.InternalMVPrec units against the chroma sampling grid.
	InterpolateChroma(ref *picture.Plane, x, y, fracX, fracY, w, h int, dst []int16)
}

// mvFrac splits an internal-precision motion vector component into its
// integer pel offset and its fractional phase.
func mvFrac(v int16) (intPel, frac int) {
	iv := int(v)
	frac = iv & FracMask
	intPel = iv >> picture.InternalMVPrec
	return
}

func clip8(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
