/*
DESCRIPTION
  merge.go builds the merge candidate list of §4.2.4: B1, A1, B0, A0,
  B2-if-fewer-than-four, temporal, HMVP, pairwise-average, zero-fill, each
  gated by the different_mer motion-estimation-region rule and the
  no-duplicates rule.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mvce

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/hmvp"
	"github.com/ausocean/hevcenc/picture"
)

// MergeCandidate is one entry of the merge list: the composed inter
// prediction state a merge_idx selects wholesale.
type MergeCandidate struct {
	Inter picture.Inter
}

// differentMER reports whether (x,y) and (cx,cy) fall in different
// motion-estimation regions at the configured parallel merge level, the
// gate that suppresses a spatial/HMVP candidate whose source lies in the
// same not-yet-coded region as the current block.
func differentMER(x, y, cx, cy int, log2ParMrgLevel int) bool {
	return (x>>uint(log2ParMrgLevel)) != (cx>>uint(log2ParMrgLevel)) ||
		(y>>uint(log2ParMrgLevel)) != (cy>>uint(log2ParMrgLevel))
}

// BuildMerge constructs the merge candidate list for a block at (x,y) of
// size w x h, up to cfg.MaxMerge entries (clamped to picture.MRGMaxNumCands).
// log is optional and nil-safe; when set it narrates which source admitted
// each candidate and which were rejected as duplicates or out-of-MER.
func BuildMerge(cfg config.Config, cua Lookup, table *hmvp.Table, col *ColPicture, x, y, w, h, picWidth, picHeight int, topRightCache Lookup, log logging.Logger) []MergeCandidate {
	maxCands := int(cfg.MaxMerge)
	if maxCands > picture.MRGMaxNumCands {
		maxCands = picture.MRGMaxNumCands
	}
	if maxCands <= 0 {
		return nil
	}

	s := SpatialCandidates(cua, x, y, w, h, picWidth, picHeight, cfg.WPP, topRightCache)
	cands := make([]MergeCandidate, 0, maxCands)

	addSpatial := func(name string, cu *picture.CU, cx, cy int) {
		if cu == nil || len(cands) >= maxCands {
			return
		}
		if !differentMER(x, y, cx, cy, int(cfg.Log2ParallelMergeLevel)) {
			logDebug(log, "rejected spatial merge candidate: same MER", "source", name)
			return
		}
		cand := MergeCandidate{Inter: cu.Inter}
		if isDuplicateInList(cands, cand) {
			logDebug(log, "rejected spatial merge candidate: duplicate", "source", name)
			return
		}
		cands = append(cands, cand)
		logDebug(log, "admitted spatial merge candidate", "source", name)
	}

	addSpatial("B1", s.B1, x+w-1, y-1)
	addSpatial("A1", s.A1, x-1, y+h-1)
	addSpatial("B0", s.B0, x+w, y-1)
	addSpatial("A0", s.A0, x-1, y+h)
	if len(cands) < 4 {
		addSpatial("B2", s.B2, x-1, y-1)
	}

	if len(cands) < maxCands && cfg.TMVPEnable && col != nil {
		if tc, ok := temporalMergeCandidate(*col, x, y, w, h, picWidth, picHeight); ok && !isDuplicateInList(cands, tc) {
			cands = append(cands, tc)
			logDebug(log, "admitted temporal merge candidate")
		}
	}

	for i := 0; i < table.Size() && len(cands) < maxCands; i++ {
		cu := table.At(i)
		if cu == nil {
			continue
		}
		cand := MergeCandidate{Inter: cu.Inter}
		// The first two HMVP entries are accepted unconditionally; the rest
		// are still subject to the duplicate check, mirroring the relaxed
		// acceptance the history table affords its most-recent entries.
		if i < 2 || !isDuplicateInList(cands, cand) {
			cands = append(cands, cand)
			logDebug(log, "admitted HMVP merge candidate", "tableIdx", i)
		}
	}

	cands = addPairwiseAverage(cands, maxCands)
	cands = zeroFillMerge(cands, maxCands)

	return cands
}

// temporalMergeCandidate adapts the H/C3 lookup of TemporalCandidate into a
// full merge candidate carrying both lists when bi-prediction is active in
// the co-located CU.
func temporalMergeCandidate(col ColPicture, x, y, w, h, picWidth, picHeight int) (MergeCandidate, bool) {
	cu, _, found := colCandidate(col, x, y, w, h, picWidth, picHeight)
	if !found {
		return MergeCandidate{}, false
	}
	return MergeCandidate{Inter: cu.Inter}, true
}

// isDuplicateInList reports whether cand's inter state already appears in
// cands, per §4.2.4's definition of candidate equality (same as
// hmvp.IsDuplicate's per-list MV/ref comparison).
func isDuplicateInList(cands []MergeCandidate, cand MergeCandidate) bool {
	a := picture.CU{Inter: cand.Inter}
	for _, c := range cands {
		b := picture.CU{Inter: c.Inter}
		if hmvp.IsDuplicate(&a, &b) {
			return true
		}
	}
	return false
}

// addPairwiseAverage appends the average of the first two candidates, per
// list, when the list is not yet full and at least two candidates exist.
func addPairwiseAverage(cands []MergeCandidate, maxCands int) []MergeCandidate {
	if len(cands) >= maxCands || len(cands) < 2 {
		return cands
	}
	a, b := cands[0].Inter, cands[1].Inter
	var avg picture.Inter
	for l := 0; l < 2; l++ {
		switch {
		case a.ListActive(l) && b.ListActive(l):
			avg.MV[l] = picture.MV{
				X: RoundAvgMV(a.MV[l].X, b.MV[l].X),
				Y: RoundAvgMV(a.MV[l].Y, b.MV[l].Y),
			}
			avg.MVRef[l] = a.MVRef[l]
			avg.MVDir |= 1 << uint(l)
		case a.ListActive(l):
			avg.MV[l] = a.MV[l]
			avg.MVRef[l] = a.MVRef[l]
			avg.MVDir |= 1 << uint(l)
		case b.ListActive(l):
			avg.MV[l] = b.MV[l]
			avg.MVRef[l] = b.MVRef[l]
			avg.MVDir |= 1 << uint(l)
		}
	}
	avg.ClearUnused()
	return append(cands, MergeCandidate{Inter: avg})
}

// zeroFillMerge pads a short merge list with zero motion vectors until it
// reaches exactly maxCands entries. The padding alternates between L0-only
// and L1-only uni-prediction; every padded candidate uses reference index 0
// (reference indices are not cycled and no bi-predicted zero candidate is
// produced).
func zeroFillMerge(cands []MergeCandidate, maxCands int) []MergeCandidate {
	refIdx := uint8(0)
	biDirToggle := uint8(1)
	for len(cands) < maxCands {
		inter := picture.Inter{
			MVDir: biDirToggle,
			MVRef: [2]uint8{refIdx, refIdx},
		}
		inter.ClearUnused()
		cands = append(cands, MergeCandidate{Inter: inter})
		if biDirToggle == 3 {
			refIdx++
		}
		biDirToggle ^= 3
	}
	return cands
}
