/*
DESCRIPTION
  bipred.go implements bi-directional prediction: a high-precision
  accumulation path that sums both lists' 14-bit intermediate samples before
  a single normalising shift, and a simpler averaged-copy path that
  normalises each list to 8 bits first and then averages, selected by
  config.Config.Bipred (§4.3).

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
	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/picture"
)

// BiRequest names one list's reference plane and motion vector for a
// bi-predicted block.
type BiRequest struct {
	Ref *picture.Plane
	MV  picture.MV
}

// PredictBi produces the final 8-bit bi-prediction block for a w x h
// block anchored at (x, y) from the two list requests. log is optional and
// nil-safe; when set it narrates the high-precision-vs-averaged path choice
// in addition to each list's own uni-prediction dispatch.
func PredictBi(cfg config.Config, interp Interpolator, l0, l1 BiRequest, x, y, w, h int, chroma bool, log logging.Logger) []byte {
	hp0 := PredictUniHP(interp, l0.Ref, l0.MV, x, y, w, h, chroma, log)
	hp1 := PredictUniHP(interp, l1.Ref, l1.MV, x, y, w, h, chroma, log)

	if cfg.Bipred {
		logDebug(log, "bi-prediction: high-precision accumulation path")
		return accumulateHP(hp0, hp1)
	}
	logDebug(log, "bi-prediction: averaged 8-bit copy path")
	return averageBytes(ToByte(hp0), ToByte(hp1))
}

// accumulateHP sums the two lists' high-precision samples and normalises
// with a single shift one bit deeper than the uni-prediction path, since
// the sum of two 14-bit values needs the extra headroom before rounding.
func accumulateHP(hp0, hp1 []int16) []byte {
	out := make([]byte, len(hp0))
	const shift = HPShift + 1
	const round = 1 << (shift - 1)
	for i := range hp0 {
		out[i] = clip8((int(hp0[i]) + int(hp1[i]) + round) >> shift)
	}
	return out
}

// averageBytes averages two already-normalised 8-bit prediction blocks,
// using floats.Round to settle the half-integer case the same way the
// high-precision path's integer shift would: away from zero.
func averageBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		mean := (float64(a[i]) + float64(b[i])) / 2
		out[i] = clip8(int(floats.Round(mean, 0)))
	}
	return out
}
