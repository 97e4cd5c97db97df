/*
DESCRIPTION
  intra.go implements prediction_unit for intra CUs: MPM candidate list
  derivation, prev_intra_luma_pred_flag/mpm_idx or the truncated-binary
  remainder code, and intra_chroma_pred_mode restricted to the
  derived-mode-only path this core emits (§4.1.3).

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
	"sort"

	"github.com/ausocean/hevcenc/cabac"
	"github.com/ausocean/hevcenc/picture"
)

const (
	modePlanar = 0
	modeDC     = 1

	// intraMPMCount is the fixed length of the most-probable-mode candidate
	// list (§4.1.3).
	intraMPMCount = 3

	// numLumaIntraModes is the size of the luma intra mode alphabet (0..66).
	numLumaIntraModes = 67
)

// encodeIntraPU emits prediction_unit for an intra CU's one or four PUs
// (Part2Nx2N or PartNxN only; other partition shapes are not valid for
// intra CUs), followed by intra_chroma_pred_mode once per CU.
func (s *Serializer) encodeIntraPU(cu *picture.CU, x, y, size int) {
	n := cu.Part.NumPU()
	puSize := size
	if n == 4 {
		puSize = size / 2
	}

	prevFlags := make([]bool, n)
	for i := 0; i < n; i++ {
		px, py := puOrigin(x, y, puSize, i)
		mpm := s.mpmCandidates(px, py)
		mode := cu.Intra.Mode // same mode for every PU in this model

		idx := indexOf(mpm, mode)
		prevFlags[i] = idx >= 0
		s.W.EncodeBin(CtxPrevIntraLumaPred, boolBin(prevFlags[i]))
		if idx >= 0 {
			s.encodeMPMIdx(idx)
			continue
		}
		s.encodeRemIntraMode(mode, mpm)
	}

	s.encodeChromaMode()
}

// puOrigin returns the top-left pixel of PU i within an n-PU PartNxN/
// Part2Nx2N split (z-order within the CU: top-left, top-right, bottom-left,
// bottom-right).
func puOrigin(x, y, puSize, i int) (int, int) {
	return x + (i%2)*puSize, y + (i/2)*puSize
}

// mpmCandidates derives the three most-probable-mode candidates from the
// left and above neighbors, per §4.1.3: if both neighbors agree and are
// angular, take that mode plus its two angularly-adjacent modes; if both
// agree and are planar or DC, take planar, DC and vertical (26); if they
// differ, add both plus whichever of planar/DC is missing, plus the
// angular mode 26 (vertical) as a last resort.
func (s *Serializer) mpmCandidates(x, y int) [intraMPMCount]uint8 {
	left := s.neighborIntraMode(x-1, y)
	above := s.neighborIntraMode(x, y-1)

	if left == above {
		if left < 2 {
			return [intraMPMCount]uint8{modePlanar, modeDC, 26}
		}
		return [intraMPMCount]uint8{
			left,
			2 + uint8((int(left)-2+29)%32),
			2 + uint8((int(left)-2+1)%32),
		}
	}

	cands := [intraMPMCount]uint8{left, above, modePlanar}
	if left != modePlanar && above != modePlanar {
		cands[2] = modePlanar
	} else if left != modeDC && above != modeDC {
		cands[2] = modeDC
	} else {
		cands[2] = 26
	}
	return cands
}

// neighborIntraMode returns a neighbor's luma intra mode, defaulting to DC
// when the neighbor is unavailable or itself inter-coded (§4.1.3's
// substitution rule).
func (s *Serializer) neighborIntraMode(x, y int) uint8 {
	if x < 0 || y < 0 {
		return modeDC
	}
	cu := s.cus.At(x, y)
	if cu == nil || cu.Type != picture.CUIntra {
		return modeDC
	}
	return cu.Intra.Mode
}

func indexOf(list [intraMPMCount]uint8, v uint8) int {
	for i, c := range list {
		if c == v {
			return i
		}
	}
	return -1
}

// encodeMPMIdx emits mpm_idx: truncated unary over cMax=2, first bin
// bypass-coded (§4.1.3).
func (s *Serializer) encodeMPMIdx(idx int) {
	bits, err := cabac.TruncatedUnaryBits(idx, intraMPMCount-1)
	if err != nil {
		panic(err)
	}
	cabac.WriteBypassBits(s.W, bits)
}

// encodeRemIntraMode emits rem_intra_luma_pred_mode: the actual mode,
// recoded downward once for every MPM candidate it exceeds (so the
// remainder alphabet excludes the three MPM values), as a truncated-binary
// code over the resulting 64-symbol range, i.e. a fixed 6-bit code.
func (s *Serializer) encodeRemIntraMode(mode uint8, mpm [intraMPMCount]uint8) {
	sorted := append([]uint8{}, mpm[:]...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rem := int(mode)
	for _, c := range sorted {
		if rem >= int(c) {
			rem--
		}
	}

	bits := cabac.TruncatedBinaryBits(rem, numLumaIntraModes-intraMPMCount)
	cabac.WriteBypassBits(s.W, bits)
}

// encodeChromaMode emits intra_chroma_pred_mode. This core only ever
// derives the chroma mode from the luma mode (DM_CHROMA); the four
// additional fixed chroma candidates are a decision the mode-decision
// stage this core does not implement would need to select, so only the
// single "derived" bin is coded.
func (s *Serializer) encodeChromaMode() {
	s.W.EncodeBin(CtxIntraChromaPredMode, 0)
}
