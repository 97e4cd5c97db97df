/*
DESCRIPTION
  cu.go implements coding_unit: transquant-bypass, skip-flag, pred-mode and
  part-mode emission, then dispatch into the intra or inter prediction-unit
  syntax and the transform tree (§4.1.1).

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

// encodeCU emits coding_unit for the leaf CU at (x, y) of the given size and
// depth, then its prediction-unit syntax and transform tree.
func (s *Serializer) encodeCU(cu *picture.CU, x, y, size, depth, picWidth, picHeight int) {
	if s.Cfg.Lossless {
		s.W.EncodeBin(CtxTransquantBypassFlag, 1)
	} else if cu.TransquantBypass {
		s.W.EncodeBin(CtxTransquantBypassFlag, 1)
	} else {
		s.W.EncodeBin(CtxTransquantBypassFlag, 0)
	}

	if cu.Type != picture.CUIntra {
		ctx := s.skipFlagCtx(x, y)
		bit := 0
		if cu.Skipped {
			bit = 1
		}
		s.W.EncodeBin(ctx, bit)
		s.logDebug("coded cu_skip_flag", "x", x, "y", y, "skipped", cu.Skipped)
		if cu.Skipped {
			s.encodeMergeCandidate(cu, x, y, size)
			return
		}
	}

	// pred_mode_flag is inferred (and not coded) only in an I slice, whose
	// every CU is intra by construction; slice-type tracking is out of
	// scope for this core, so every leaf this serializer reaches is
	// assumed to come from a P or B slice and codes the flag explicitly.
	predModeBit := 0
	if cu.Type == picture.CUIntra {
		predModeBit = 1
	}
	s.W.EncodeBin(CtxPredMode, predModeBit)

	if cu.Type != picture.CUPCM {
		s.encodePartMode(cu, depth)
	}

	if cu.Type == picture.CUIntra {
		s.encodeIntraPU(cu, x, y, size)
	} else {
		s.encodeInterPUs(cu, x, y, size)
	}

	s.encodeTransformTree(cu, x, y, size, 0, 0)
}

// skipFlagCtx applies the same left/above-neighbor increment rule as
// split_cu_flag, counted over cu_skip_flag instead of split depth.
func (s *Serializer) skipFlagCtx(x, y int) cabac.Ctx {
	inc := 0
	if x > 0 {
		if left := s.cus.At(x-1, y); left != nil && left.Skipped {
			inc++
		}
	}
	if y > 0 {
		if above := s.cus.At(x, y-1); above != nil && above.Skipped {
			inc++
		}
	}
	return CtxSkipFlag + cabac.Ctx(inc)
}

// encodePartMode emits part_mode for a non-PCM CU. 2Nx2N is the implicit
// default at the deepest split level and is not coded there; every other
// case codes a truncated-unary-style prefix context-coded bin sequence.
// The AMP-vs-symmetric discriminator is context-coded (CtxPartMode2); only
// the final bin choosing between the two AMP shapes is bypass-coded.
func (s *Serializer) encodePartMode(cu *picture.CU, depth int) {
	atMaxDepth := depth == picture.MaxDepth
	if cu.Part == picture.Part2Nx2N && !atMaxDepth {
		s.W.EncodeBin(CtxPartMode0, 1)
		return
	}

	if !atMaxDepth {
		s.W.EncodeBin(CtxPartMode0, 0)
	}

	switch cu.Part {
	case picture.Part2Nx2N:
		// Only reachable at atMaxDepth; no further bins required for
		// intra's implicit 2Nx2N-or-NxN choice, handled by the caller.
	case picture.Part2NxN, picture.PartNx2N:
		s.W.EncodeBin(CtxPartMode1, boolBin(cu.Part == picture.Part2NxN))
		if s.Cfg.AMPEnable && !atMaxDepth {
			s.W.EncodeBin(CtxPartMode2, 1) // not AMP
		}
	case picture.Part2NxnU, picture.Part2NxnD:
		s.W.EncodeBin(CtxPartMode1, 1)
		s.W.EncodeBin(CtxPartMode2, 0)
		s.W.EncodeBypass(boolBin(cu.Part == picture.Part2NxnD))
	case picture.PartnLx2N, picture.PartnRx2N:
		s.W.EncodeBin(CtxPartMode1, 0)
		s.W.EncodeBin(CtxPartMode2, 0)
		s.W.EncodeBypass(boolBin(cu.Part == picture.PartnRx2N))
	case picture.PartNxN:
		s.W.EncodeBin(CtxPartMode3, 1)
	}
}

func boolBin(b bool) int {
	if b {
		return 1
	}
	return 0
}
