/*
DESCRIPTION
  unipred.go implements single-list prediction: integer-pel edge-replicated
  copy when the motion vector has no fractional part, otherwise delegation
  to the Interpolator, both normalised to the same high-precision (14-bit)
  intermediate representation bi-prediction averages over.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ipr

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/hevcenc/picture"
)

// HPShift is the number of bits an 8-bit reference sample is left-shifted
// by to reach the 14-bit high-precision intermediate domain the
// interpolator's output is assumed to already be expressed in.
const HPShift = 6

// PredictUniHP produces the w x h high-precision (pre-normalisation)
// prediction block for one reference list at motion vector mv, anchored at
// block position (x, y). log is optional and nil-safe; when set it narrates
// which of the integer-pel fast path or the Interpolator was used.
func PredictUniHP(interp Interpolator, ref *picture.Plane, mv picture.MV, x, y, w, h int, chroma bool, log logging.Logger) []int16 {
	intX, fracX := mvFrac(mv.X)
	intY, fracY := mvFrac(mv.Y)
	refX, refY := x+intX, y+intY

	dst := make([]int16, w*h)

	if fracX == 0 && fracY == 0 {
		logDebug(log, "integer-pel fast path", "x", x, "y", y, "w", w, "h", h)
		copyIntegerPel(ref, refX, refY, w, h, dst)
		return dst
	}

	logDebug(log, "fractional-pel interpolation", "x", x, "y", y, "fracX", fracX, "fracY", fracY, "chroma", chroma)
	if chroma {
		interp.InterpolateChroma(ref, refX, refY, fracX, fracY, w, h, dst)
	} else {
		interp.InterpolateLuma(ref, refX, refY, fracX, fracY, w, h, dst)
	}
	return dst
}

// logDebug is a nil-safe wrapper so callers need not guard every call site
// against an absent logger.
func logDebug(log logging.Logger, msg string, args ...interface{}) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

// copyIntegerPel fills dst with edge-replicated reference samples shifted
// into the high-precision domain, the no-fractional-motion fast path that
// needs no interpolation filter.
func copyIntegerPel(ref *picture.Plane, x, y, w, h int, dst []int16) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			dst[row*w+col] = int16(ref.At(x+col, y+row)) << HPShift
		}
	}
}

// ToByte normalises a high-precision prediction block back to 8-bit
// samples, rounding to nearest and clipping to [0,255].
func ToByte(hp []int16) []byte {
	out := make([]byte, len(hp))
	const round = 1 << (HPShift - 1)
	for i, v := range hp {
		out[i] = clip8((int(v) + round) >> HPShift)
	}
	return out
}

// PredictUni produces the final 8-bit uni-prediction block.
func PredictUni(interp Interpolator, ref *picture.Plane, mv picture.MV, x, y, w, h int, chroma bool, log logging.Logger) []byte {
	return ToByte(PredictUniHP(interp, ref, mv, x, y, w, h, chroma, log))
}
