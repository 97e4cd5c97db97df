/*
DESCRIPTION
  spatial.go derives the five canonical spatial neighbor candidates (A0, A1,
  B0, B1, B2) for a prediction unit, applying the availability and
  coding-order rules of §4.2.1.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mvce implements the motion-vector candidate engine: spatial,
// temporal and history-based candidate derivation feeding the AMVP and
// merge list constructions, plus POC-based motion vector scaling.
package mvce

import "github.com/ausocean/hevcenc/picture"

// Lookup maps a pixel position to the CU descriptor covering it, or nil if
// unavailable. *picture.CUArray satisfies Lookup.
type Lookup interface {
	At(x, y int) *picture.CU
}

// Spatial holds the five spatial neighbor candidates of §4.2.1, nil where
// unavailable.
type Spatial struct {
	A0, A1, B0, B1, B2 *picture.CU
}

// SpatialCandidates derives the A0/A1/B0/B1/B2 candidates for a block at
// (x,y) of size w x h within a picture of the given dimensions.
//
// topRightCache, when non-nil, is consulted for B0 instead of cua in the one
// case the specification calls out: the B0 address crosses the current
// LCU's right edge, the block is in the LCU's top row, and WPP is disabled.
// This lets a wavefront/tile encoding thread supply its own snapshot of the
// already-encoded LCU to the upper right rather than racing on the shared,
// still-mutating current-frame CU array (§5).
func SpatialCandidates(cua Lookup, x, y, w, h, picWidth, picHeight int, wpp bool, topRightCache Lookup) Spatial {
	var s Spatial

	if x > 0 {
		if a1 := cua.At(x-1, y+h-1); a1 != nil && a1.Type == picture.CUInter {
			s.A1 = a1
		}
		if y+h < picHeight && isA0CandCoded(x, y, w, h) {
			if a0 := cua.At(x-1, y+h); a0 != nil && a0.Type == picture.CUInter {
				s.A0 = a0
			}
		}
	}

	if y > 0 {
		if b1 := cua.At(x+w-1, y-1); b1 != nil && b1.Type == picture.CUInter {
			s.B1 = b1
		}

		if x+w < picWidth {
			xLocal := x % picture.LCUWidth
			crossesRight := xLocal+w >= picture.LCUWidth
			topRow := (y % picture.LCUWidth) == 0

			src := cua
			ok := !crossesRight
			if crossesRight && topRow && !wpp {
				if topRightCache != nil {
					src = topRightCache
					ok = true
				}
			}

			if ok && isB0CandCoded(x, y, w, h) {
				if b0 := src.At(x+w, y-1); b0 != nil && b0.Type == picture.CUInter {
					s.B0 = b0
				}
			}
		}

		if x > 0 {
			if b2 := cua.At(x-1, y-1); b2 != nil && b2.Type == picture.CUInter {
				s.B2 = b2
			}
		}
	}

	return s
}

// isA0CandCoded reports whether the A0 candidate block, anchored at
// (x-1, y+h), has already been coded relative to the current block. The
// search reduces the block to the largest square it contains anchored at
// its bottom-left corner, then walks up through parent quadrants: child
// index 0 (left of parent) is always coded, 1 is coded after, 2 moves to the
// parent, 3 is coded after. Above LCUWidth the candidate is outside the LCU
// and treated as unavailable.
func isA0CandCoded(x, y, w, h int) bool {
	size := minPow2(w, h)
	if h != size {
		y = y + h - size
	}
	for size < picture.LCUWidth {
		parent := 2 * size
		idx := boolToInt(x%parent != 0) + 2*boolToInt(y%parent != 0)
		switch idx {
		case 0:
			return true
		case 1:
			return false
		case 2:
			y -= size
			size = parent
		case 3:
			return false
		}
	}
	return false
}

// isB0CandCoded is the symmetric test for the B0 candidate, anchored at
// (x+w, y-1), reducing to the top-right corner of the block.
func isB0CandCoded(x, y, w, h int) bool {
	size := minPow2(w, h)
	if w != size {
		x = x + w - size
	}
	for size < picture.LCUWidth {
		parent := 2 * size
		idx := boolToInt(x%parent != 0) + 2*boolToInt(y%parent != 0)
		switch idx {
		case 0:
			return true
		case 1:
			x -= size
			size = parent
		case 2:
			return true
		case 3:
			return false
		}
	}
	return true
}

// minPow2 returns the side of the largest square the w x h rectangle
// contains, i.e. min(largest power of two dividing w, largest power of two
// dividing h).
func minPow2(w, h int) int {
	lw := w & -w
	lh := h & -h
	if lw < lh {
		return lw
	}
	return lh
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
