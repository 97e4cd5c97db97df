/*
DESCRIPTION
  inter.go implements prediction_unit for inter CUs: merge flag/index,
  inter_pred_idc, reference index, MVP flag and motion vector difference
  (§4.1.2). No root coded-block flag is coded: encodeCU goes straight from
  these prediction units to the transform tree.

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
	"github.com/ausocean/hevcenc/picture"
)

// encodeMergeCandidate emits merge_idx for a skip CU (merge_flag is implied
// by cu_skip_flag and not separately coded).
func (s *Serializer) encodeMergeCandidate(cu *picture.CU, x, y, size int) {
	s.encodeMergeIdx(cu.Inter.MergeIdx)
}

// encodeMergeIdx context-codes the first truncated-unary bin of merge_idx
// and bypass-codes the remainder, per §4.1.2 step 2.
func (s *Serializer) encodeMergeIdx(idx uint8) {
	cMax := int(s.Cfg.MaxMerge) - 1
	if cMax < 0 {
		cMax = 0
	}
	bits, err := cabac.TruncatedUnaryBits(int(idx), cMax)
	if err != nil {
		// A mode decision that hands the serializer an out-of-range
		// merge_idx is a programming error upstream, not a recoverable
		// bitstream condition.
		panic(err)
	}
	if len(bits) == 0 {
		return
	}
	s.W.EncodeBin(CtxMergeIdx, bits[0])
	cabac.WriteBypassBits(s.W, bits[1:])
}

// encodeInterPUs emits prediction_unit for every PU of an inter (non-skip)
// CU's partition shape.
func (s *Serializer) encodeInterPUs(cu *picture.CU, x, y, size int) {
	n := cu.Part.NumPU()
	for i := 0; i < n; i++ {
		s.encodeInterPU(cu, i, x, y, size)
	}
}

func (s *Serializer) encodeInterPU(cu *picture.CU, puIdx int, x, y, size int) {
	mergeBit := boolBin(cu.Merged)
	s.W.EncodeBin(CtxMergeFlag, mergeBit)
	if cu.Merged {
		s.encodeMergeIdx(cu.Inter.MergeIdx)
		return
	}

	s.encodeInterPredIdc(cu, int(cu.Depth))

	for l := 0; l < 2; l++ {
		if !cu.Inter.ListActive(l) {
			continue
		}
		s.encodeRefIdx(cu.Inter.MVRef[l])
		s.encodeMVD(cu.Inter.MV[l])
		s.W.EncodeBin(CtxMVPFlag, int(cu.Inter.MVCand[l]))
	}
}

// encodeInterPredIdc emits inter_pred_idc: a single context-coded bin
// choosing uni- vs bi-prediction (context indexed by min(cuDepth,4)), and
// when uni-predicted, a second bin choosing L0 vs L1.
func (s *Serializer) encodeInterPredIdc(cu *picture.CU, cuDepth int) {
	idx := cuDepth
	if idx > 4 {
		idx = 4
	}
	ctx := CtxInterPredIdc0 + cabac.Ctx(idx)

	bi := cu.Inter.ListActive(0) && cu.Inter.ListActive(1)
	s.W.EncodeBin(ctx, boolBin(bi))
	if bi {
		return
	}
	s.W.EncodeBin(ctx, boolBin(cu.Inter.ListActive(1)))
}

// encodeRefIdx codes ref_idx as a unary sequence: the first two bins
// context-coded (greater-than-0, greater-than-1), any remainder
// bypass-coded. The reference list size is not known here, so the
// terminating zero bin is always written (no truncation at num_ref_idx).
func (s *Serializer) encodeRefIdx(refIdx uint8) {
	if refIdx == 0 {
		s.W.EncodeBin(CtxRefIdxGreater0, 0)
		return
	}
	s.W.EncodeBin(CtxRefIdxGreater0, 1)
	if refIdx == 1 {
		s.W.EncodeBin(CtxRefIdxGreater1, 0)
		return
	}
	s.W.EncodeBin(CtxRefIdxGreater1, 1)
	bits, err := cabac.UnaryBits(int(refIdx) - 2)
	if err != nil {
		panic(err)
	}
	cabac.WriteBypassBits(s.W, bits)
}

// encodeMVD implements mvd_coding: both components' abs_mvd_greater0 flags
// first, then both abs_mvd_greater1 flags, then each component's EG1 suffix
// and sign bin in turn, per §4.1.2/S3. The two axes are not coded back to
// back; their prefix bins are interleaved before either suffix is written.
func (s *Serializer) encodeMVD(mv picture.MV) {
	ax := abs(int(mv.X))
	ay := abs(int(mv.Y))

	gr0X := ax > 0
	gr0Y := ay > 0
	s.W.EncodeBin(CtxMVDGreater0, boolBin(gr0X))
	s.W.EncodeBin(CtxMVDGreater0, boolBin(gr0Y))

	gr1X := gr0X && ax > 1
	gr1Y := gr0Y && ay > 1
	if gr0X {
		s.W.EncodeBin(CtxMVDGreater1, boolBin(gr1X))
	}
	if gr0Y {
		s.W.EncodeBin(CtxMVDGreater1, boolBin(gr1Y))
	}

	s.encodeMVDSuffixAndSign(int(mv.X), ax, gr0X, gr1X)
	s.encodeMVDSuffixAndSign(int(mv.Y), ay, gr0Y, gr1Y)
}

func (s *Serializer) encodeMVDSuffixAndSign(v, av int, greater0, greater1 bool) {
	if !greater0 {
		return
	}
	if greater1 {
		cabac.WriteBypassBits(s.W, cabac.EGkBits(av-2, 1))
	}
	s.W.EncodeBypass(boolBin(v < 0))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
