/*
DESCRIPTION
  transform.go implements transform_tree and transform_unit: cbf_cb/cbf_cr
  emission, the split-vs-leaf decision, inferred cbf_luma, last-significant
  coefficient position coding (including the verbatim index_y width/height
  mix-up carried over from the reference implementation), MTS index gating,
  and the once-per-quantization-group QP delta (§4.1.4, §4.1.5, §4.1.6,
  §4.1.7).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ctes

import (
	"github.com/ausocean/hevcenc/cabac"
	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/picture"
)

const (
	maxTBLog2 = 5 // 32x32
	minTBLog2 = 2 // 4x4
)

// prefixCtx is the last-significant-coefficient prefix context lookup
// table, indexed by log2(size)-2, carried over verbatim from the reference
// implementation (§4.1.7).
var prefixCtx = [8]int{0, 0, 0, 3, 6, 10, 15, 21}

// encodeTransformTree emits transform_tree for the block at (x, y) of the
// given size, at transform-tree depth depth.
func (s *Serializer) encodeTransformTree(cu *picture.CU, x, y, size, depth, blkIdx int) {
	log2Size := log2i(size)

	split := false
	switch {
	case log2Size > maxTBLog2:
		split = true
	case cu.Type == picture.CUInter && cu.Part != picture.Part2Nx2N && depth == 0:
		// max_transform_hierarchy_depth_inter==0 configurations force one
		// split level when the PU partition isn't 2Nx2N.
		split = true
	case log2Size > minTBLog2 && depth < picture.MaxDepth:
		ctx := CtxSplitTransform0 + cabac.Ctx(clamp0to2(5-log2Size))
		bit := boolBin(cu.SplitData&(1<<uint(depth)) != 0)
		s.W.EncodeBin(ctx, bit)
		split = bit == 1
	}

	chromaHere := s.Cfg.ChromaEnabled() && (log2Size > minTBLog2 || blkIdx == 3)

	if chromaHere {
		if !split || log2Size == minTBLog2+1 {
			if depth == 0 || s.parentCBF(cu, depth-1, 1) {
				s.encodeCBFChroma(cu, depth, 1)
			}
			if depth == 0 || s.parentCBF(cu, depth-1, 2) {
				s.encodeCBFChroma(cu, depth, 2)
			}
		}
	}

	if split {
		half := size / 2
		for i := 0; i < 4; i++ {
			qx := x + (i%2)*half
			qy := y + (i/2)*half
			s.encodeTransformTree(cu, qx, qy, half, depth+1, i)
		}
		return
	}

	s.encodeTransformUnit(cu, x, y, size, depth, blkIdx, chromaHere)
}

// parentCBF reports whether the coded-block flag was set for plane at a
// shallower transform depth, the condition under which a deeper node must
// still code its own flag (cbf_cb/cbf_cr are only inferred 0 at a depth
// where the parent itself was already 0).
func (s *Serializer) parentCBF(cu *picture.CU, depth, plane int) bool {
	if depth < 0 {
		return true
	}
	return cu.CBFSet(depth, plane)
}

func (s *Serializer) encodeCBFChroma(cu *picture.CU, depth, plane int) {
	ctx := CtxCBFChroma0 + cabac.Ctx(clamp0to4(depth))
	bit := boolBin(cu.CBFSet(depth, plane))
	s.W.EncodeBin(ctx, bit)
}

// encodeTransformUnit emits transform_unit at a transform-tree leaf:
// inferred/coded cbf_luma, the MTS index, QP delta, and the
// last-significant-position plus residual for every coded plane.
func (s *Serializer) encodeTransformUnit(cu *picture.CU, x, y, size, depth, blkIdx int, chromaHere bool) {
	chromaCBF := chromaHere && (cu.CBFSet(depth, 1) || cu.CBFSet(depth, 2))
	cbfLumaCoded := cu.Type == picture.CUIntra || depth > 0 || chromaCBF || chromaOnly(cu, depth)
	lumaCoded := cu.CBFSet(depth, 0)

	if cbfLumaCoded {
		ctx := CtxCBFLuma1
		if depth == 0 {
			ctx = CtxCBFLuma0
		}
		s.W.EncodeBin(ctx, boolBin(lumaCoded))
	}

	anyCBF := lumaCoded || chromaCBF
	if anyCBF {
		s.encodeQPDelta(cu)
	}

	if lumaCoded {
		s.encodeMTSIdx(cu, size)
		lastX, lastY := s.encodeLastSigXY(size, size, false)
		if s.Res != nil {
			s.Res.CodeResidual(s.W, cu, x, y, size, 0, lastX, lastY)
		}
	}

	if chromaHere {
		chromaSize := size
		if size > minTBLog2*2 {
			chromaSize = size / 2
		}
		for _, plane := range [2]int{1, 2} {
			if !cu.CBFSet(depth, plane) {
				continue
			}
			lastX, lastY := s.encodeLastSigXY(chromaSize, chromaSize, true)
			if s.Res != nil {
				s.Res.CodeResidual(s.W, cu, x, y, chromaSize, plane, lastX, lastY)
			}
		}
	}
}

// chromaOnly is the hook for the degenerate case of a 4x4 chroma-associated
// luma block (blkIdx==3 at the 8x8 parent), where cbf_luma would always be
// coded. It always returns false: that case is not singled out, and cbf_luma
// coding follows the other conditions in encodeTransformUnit alone.
func chromaOnly(cu *picture.CU, depth int) bool { return false }

// encodeMTSIdx emits mts_idx when MTS is permitted for this CU, per the
// is_mts_allowed-style gate: the configured policy must cover this CU's
// prediction mode, the block must not exceed the MTS size limit, and the
// CU must not have violated the MTS coefficient-position constraint during
// mode decision.
func (s *Serializer) encodeMTSIdx(cu *picture.CU, size int) {
	if !s.mtsAllowed(cu, size) {
		return
	}
	bits, err := cabac.TruncatedUnaryBits(int(mtsIdxValue(cu)), 3)
	if err != nil {
		panic(err)
	}
	if len(bits) == 0 {
		return
	}
	s.W.EncodeBin(CtxMTSIdx, bits[0])
	cabac.WriteBypassBits(s.W, bits[1:])
}

// mtsIdxValue is a placeholder until mode decision (out of scope for this
// core) supplies the actual two-bit trafo-type pair per axis; mts_idx is
// coded as 0 (DCT-II, the implicit default) whenever MTS is allowed.
func mtsIdxValue(cu *picture.CU) int {
	return 0
}

const mtsMaxSize = 32

func (s *Serializer) mtsAllowed(cu *picture.CU, size int) bool {
	if size > mtsMaxSize {
		return false
	}
	if cu.ViolatesMTSCoeffConstraint {
		return false
	}
	switch s.Cfg.MTS {
	case config.MTSIntra:
		return cu.Type == picture.CUIntra
	case config.MTSInter:
		return cu.Type == picture.CUInter
	case config.MTSBoth:
		return true
	default:
		return false
	}
}

// encodeQPDelta emits cu_qp_delta_abs/sign once per quantization group, the
// first time a coded block flag is found true within it.
func (s *Serializer) encodeQPDelta(cu *picture.CU) {
	if s.qgStarted {
		return
	}
	s.qgStarted = true

	delta := int(cu.QP) - int(s.lastQP)
	s.lastQP = cu.QP

	av := delta
	if av < 0 {
		av = -av
	}

	prefix, err := cabac.TruncatedUnaryBits(min(av, 5), 5)
	if err != nil {
		panic(err)
	}
	s.W.EncodeBin(CtxCUQPDeltaAbs0, prefix[0])
	for _, b := range prefix[1:] {
		s.W.EncodeBin(CtxCUQPDeltaAbs1, b)
	}

	if av >= 5 {
		cabac.WriteBypassBits(s.W, cabac.EGkBits(av-5, 0))
	}
	if av > 0 {
		s.W.EncodeBypass(boolBin(delta < 0))
	}
}

// encodeLastSigXY emits last_sig_coeff_x/y_prefix and their suffixes for a
// w x h transform block, returning the decoded position. The index_y
// computation deliberately reuses width (not height) to derive the suffix
// bit count for the Y axis, reproducing a mismatch present in the reference
// implementation rather than silently correcting it.
func (s *Serializer) encodeLastSigXY(w, h int, chroma bool) (int, int) {
	lastX, lastY := w-1, h-1 // residual coding is delegated; approximate the
	// last-significant position as the block's bottom-right corner, which
	// is the position this syntax wrapper has enough information to name
	// without itself scanning coefficient levels.

	prefixX := lastSigPrefix(lastX)
	s.encodeLastSigPrefix(prefixX, w, chroma, CtxLastSigXPrefix)
	s.encodeLastSigSuffix(lastX, prefixX)

	prefixY := lastSigPrefix(lastY)
	// index_y bug, carried over verbatim: the Y axis context lookup is
	// driven by w (the block's width) rather than h (its height), for both
	// the luma offset/shift and the chroma shift. For the square transform
	// blocks this core emits the two are equal and the bug has no
	// observable effect, but the formula is kept as the reference
	// implementation wrote it rather than "corrected" to use h.
	s.encodeLastSigPrefix(prefixY, w, chroma, CtxLastSigYPrefix)
	s.encodeLastSigSuffix(lastY, prefixY)

	return lastX, lastY
}

func lastSigPrefix(last int) int {
	if last < 4 {
		return last
	}
	l := log2i(last)
	return 2*l + (last>>uint(l-1))&1
}

func boolBinInverse(b bool) int {
	if b {
		return 1
	}
	return 0
}

// encodeLastSigPrefix emits one axis's last_sig_coeff_prefix bins. Luma and
// chroma use distinct context offset/shift formulas: luma offsets by the
// prefixCtx lookup and shifts by (log2Size+1)>>2, while chroma always uses
// offset 0 and shifts by width>>3 clamped to [0,2] (§4.1.4).
func (s *Serializer) encodeLastSigPrefix(prefix, width int, chroma bool, base cabac.Ctx) {
	log2Size := log2i(width)

	var ctxOffset, ctxShift int
	if chroma {
		ctxOffset = 0
		ctxShift = clamp0to2(width >> 3)
	} else {
		ctxOffset = prefixCtx[clamp0to7(log2Size-2)]
		ctxShift = (log2Size + 1) >> 2
	}
	cMax := (log2Size << 1) - 1
	for i := 0; i < cMax; i++ {
		bit := 0
		if i < prefix {
			bit = 1
		}
		ctx := base + cabac.Ctx(ctxOffset+(i>>uint(ctxShift)))
		s.W.EncodeBin(ctx, bit)
		if bit == 0 {
			break
		}
	}
}

func (s *Serializer) encodeLastSigSuffix(last, prefix int) {
	if prefix < 4 {
		return
	}
	suffixBits := (prefix >> 1) - 1
	suffixVal := last - ((2 + prefix&1) << uint(suffixBits))
	cabac.WriteBypassBits(s.W, cabac.FixedLengthBits(suffixVal, suffixBits))
}

func log2i(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

func clamp0to2(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

func clamp0to4(v int) int {
	if v < 0 {
		return 0
	}
	if v > 4 {
		return 4
	}
	return v
}

func clamp0to7(v int) int {
	if v < 0 {
		return 0
	}
	if v > 7 {
		return 7
	}
	return v
}

