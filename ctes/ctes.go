/*
DESCRIPTION
  ctes.go implements the coding-tree entropy serializer's recursion entry
  point: border classification, implicit split-mode derivation, explicit
  split-flag emission, and quadrant recursion with frame-boundary
  suppression (§4.1.1).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ctes serializes a reconstructed coding tree into its CABAC
// syntax-element bin sequence: coding_quadtree, coding_unit, prediction_unit
// and transform_tree, driving an external cabac.Writer. The arithmetic
// coding engine, its context tables, the pixel interpolation filters and
// the actual residual coefficient coder are external collaborators; this
// package owns only the syntax structure and binarization around them.
package ctes

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/hevcenc/cabac"
	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/picture"
)

// ResidualCoder codes the actual transform coefficient levels for one
// transform block once the serializer has emitted the surrounding syntax
// (cbf flags, last-significant position, MTS index). The coefficient
// scanning/level binarization engine is out of scope for this module.
type ResidualCoder interface {
	CodeResidual(w cabac.Writer, cu *picture.CU, x, y, size int, plane int, lastX, lastY int)
}

// Serializer walks a reconstructed CU tree and emits its bitstream syntax.
// It carries no picture data of its own: every CU it serializes must
// already hold its final, mode-decided state (partition, motion, residual
// cbf flags); the serializer only determines which syntax elements that
// state implies and in what order/context they're coded.
type Serializer struct {
	W    cabac.Writer
	Cfg  config.Config
	Res  ResidualCoder
	Log  logging.Logger
	cus  *picture.CUArray

	lastQP    int8
	qgStarted bool
}

// NewSerializer constructs a Serializer over the given CU array, which must
// already be populated with the final reconstructed state for every CU the
// serializer will visit.
func NewSerializer(w cabac.Writer, cfg config.Config, res ResidualCoder, log logging.Logger, cus *picture.CUArray) *Serializer {
	return &Serializer{W: w, Cfg: cfg, Res: res, Log: log, cus: cus}
}

// EncodeCTU serializes one LCU's coding tree, rooted at (x, y), within a
// picture of the given pixel dimensions.
func (s *Serializer) EncodeCTU(x, y, picWidth, picHeight int) {
	s.lastQP = 0
	s.qgStarted = false
	s.encodeQuadtree(x, y, picture.LCUWidth, 0, picWidth, picHeight)
}

// encodeQuadtree implements coding_quadtree: implicit split derivation at
// the frame border, explicit split_cu_flag emission otherwise, and
// recursion into the four quadrants, each suppressed if it falls entirely
// outside the picture.
func (s *Serializer) encodeQuadtree(x, y, size, depth, picWidth, picHeight int) {
	if depth <= int(s.Cfg.MaxQPDeltaDepth) {
		// A node at or above MaxQPDeltaDepth opens a new quantization group.
		s.qgStarted = false
	}

	insideFrame := x+size <= picWidth && y+size <= picHeight

	split := false
	switch {
	case size > picture.LCUWidth>>uint(picture.MaxDepth) && !insideFrame:
		// Implicit split: a block straddling the frame border that is larger
		// than the minimum CU size always splits without a coded flag.
		split = true
		s.logDebug("implicit split at frame border", "x", x, "y", y, "size", size)
	case size > picture.LCUWidth>>uint(picture.MaxDepth):
		ctx := s.splitFlagCtx(x, y, depth)
		bit := 0
		if s.cuAt(x, y).Depth > uint8(depth) {
			bit = 1
		}
		s.W.EncodeBin(ctx, bit)
		split = bit == 1
		s.logDebug("coded split_cu_flag", "x", x, "y", y, "size", size, "split", split)
	}

	if split {
		half := size / 2
		for i := 0; i < 4; i++ {
			qx := x + (i%2)*half
			qy := y + (i/2)*half
			if qx >= picWidth || qy >= picHeight {
				continue
			}
			s.encodeQuadtree(qx, qy, half, depth+1, picWidth, picHeight)
		}
		return
	}

	s.encodeCU(s.cuAt(x, y), x, y, size, depth, picWidth, picHeight)
}

// splitFlagCtx implements the context-index formula for split_cu_flag: the
// CtxSplitFlag base, incremented once for each of the left and above
// neighbors whose depth is strictly greater than this one.
func (s *Serializer) splitFlagCtx(x, y, depth int) cabac.Ctx {
	inc := 0
	if x > 0 {
		if left := s.cus.At(x-1, y); left != nil && int(left.Depth) > depth {
			inc++
		}
	}
	if y > 0 {
		if above := s.cus.At(x, y-1); above != nil && int(above.Depth) > depth {
			inc++
		}
	}
	return CtxSplitFlag + cabac.Ctx(inc)
}

func (s *Serializer) cuAt(x, y int) *picture.CU {
	return s.cus.At(x, y)
}

// logDebug is a nil-safe wrapper around s.Log.Debug, so split/skip decision
// narration doesn't need to guard every call site against an absent logger.
func (s *Serializer) logDebug(msg string, args ...interface{}) {
	if s.Log != nil {
		s.Log.Debug(msg, args...)
	}
}
