/*
DESCRIPTION
  ctx.go enumerates the context-model slot identifiers the serializer
  assigns to each context-coded syntax element. The slots are opaque
  cabac.Ctx values; the adaptive state and initial probabilities they name
  belong to the external CABAC engine.

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

import "github.com/ausocean/hevcenc/cabac"

// Context slot base offsets, one block per syntax element, each reserving
// enough slots for its own neighbor/depth-derived context increment. The
// actual adaptive state these slots name lives in the external CABAC
// engine; the numbers only need to be distinct and stable within one
// Serializer run.
const (
	CtxSplitFlag cabac.Ctx = 3 * iota // 3 contexts: left/above split count 0,1,2
	CtxSkipFlag                       // 3 contexts: left/above skip count
	ctxGroupA
)

const (
	CtxMergeFlag cabac.Ctx = ctxGroupA + cabac.Ctx(iota)
	CtxMergeIdx            // first bin only; remainder is bypass-coded
	CtxPredMode
	CtxPartMode0 // part_mode has up to 4 contexts; CtxPartMode0+depthBin
	CtxPartMode1
	CtxPartMode2
	CtxPartMode3
	CtxPCMFlag // reserved; PCM path is not wired into this core
	CtxPrevIntraLumaPred
	CtxIntraChromaPredMode
	ctxGroupB
)

const (
	CtxInterPredIdc0 cabac.Ctx = ctxGroupB + cabac.Ctx(iota) // +min(cuDepth,4)
	CtxInterPredIdc1
	CtxInterPredIdc2
	CtxInterPredIdc3
	CtxInterPredIdc4
	CtxRefIdxGreater0
	CtxRefIdxGreater1
	CtxMVPFlag
	CtxMVDGreater0
	CtxMVDGreater1
	CtxRootCBF
	ctxGroupC
)

const (
	CtxCBFLuma0 cabac.Ctx = ctxGroupC + cabac.Ctx(iota) // transform depth == 0
	CtxCBFLuma1                                         // transform depth > 0
	CtxCBFChroma0
	CtxCBFChroma1
	CtxCBFChroma2
	CtxCBFChroma3
	CtxCBFChroma4
	CtxSplitTransform0 // indexed by 5 - log2TrafoSize, clamped to [0,2]
	CtxSplitTransform1
	CtxSplitTransform2
	ctxGroupD
)

// numLastSigCtxPerAxis is the span reserved for the last-significant
// coefficient position prefix's context table per axis (§4.1.7).
const numLastSigCtxPerAxis = 18

// CtxLastSigXPrefix and CtxLastSigYPrefix each reserve numLastSigCtxPerAxis
// contexts, enough for the largest prefixCtx offset plus the highest
// per-bin increment of the luma and chroma formulas (§4.1.7).
const CtxLastSigXPrefix cabac.Ctx = ctxGroupD
const CtxLastSigYPrefix = CtxLastSigXPrefix + numLastSigCtxPerAxis

const (
	CtxCUQPDeltaAbs0 = CtxLastSigYPrefix + numLastSigCtxPerAxis + cabac.Ctx(iota)
	CtxCUQPDeltaAbs1
	CtxTransquantBypassFlag
	CtxMTSIdx
)
