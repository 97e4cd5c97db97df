/*
DESCRIPTION
  amvp.go builds the two-entry Advanced Motion Vector Predictor list of
  §4.2.3: left spatial group, top spatial group, temporal candidate, HMVP
  fill, and zero-fill, each candidate added subject to the no-duplicates
  rule of §4.2.1.

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

// AMVPRequest names the list and target reference the caller is building a
// predictor list for.
type AMVPRequest struct {
	ListIdx int
	RefIdx  uint8
	RefPOC  int
	CurrPOC int
}

// BuildAMVP constructs the (at most picture.AMVPMaxNumCands) AMVP predictor
// list for a block at (x,y) of size w x h. log is optional and nil-safe; when
// set it narrates which source admitted each candidate.
func BuildAMVP(cfg config.Config, cua Lookup, table *hmvp.Table, col *ColPicture, x, y, w, h, picWidth, picHeight int, req AMVPRequest, topRightCache Lookup, log logging.Logger) []picture.MV {
	s := SpatialCandidates(cua, x, y, w, h, picWidth, picHeight, cfg.WPP, topRightCache)

	cands := make([]picture.MV, 0, picture.AMVPMaxNumCands)

	if mv, ok := firstMatchingUnscaled(req, s.A0, s.A1); ok {
		cands = append(cands, mv)
		logDebug(log, "admitted left spatial AMVP candidate", "mvX", mv.X, "mvY", mv.Y)
	}

	if mv, ok := firstMatchingUnscaled(req, s.B0, s.B1, s.B2); ok {
		if len(cands) == 0 || !mvEqual(cands[0], mv) {
			cands = appendUpTo(cands, mv, picture.AMVPMaxNumCands)
			logDebug(log, "admitted top spatial AMVP candidate", "mvX", mv.X, "mvY", mv.Y)
		}
	}

	// req.CurrPOC > 1 requires at least two P/B ancestor frames before the
	// temporal candidate is trusted (§4.2.3 step 4).
	if len(cands) < picture.AMVPMaxNumCands && cfg.TMVPEnable && col != nil && req.CurrPOC > 1 {
		if mv, ok := TemporalCandidate(req.CurrPOC, *col, x, y, w, h, picWidth, picHeight, req.RefPOC); ok {
			cands = appendUpTo(cands, mv, picture.AMVPMaxNumCands)
			logDebug(log, "admitted temporal AMVP candidate", "mvX", mv.X, "mvY", mv.Y)
		}
	}

	for i := 0; i < table.Size() && len(cands) < picture.AMVPMaxNumCands; i++ {
		cu := table.At(i)
		if cu == nil {
			continue
		}
		if mv, ok := matchList(req, cu); ok {
			before := len(cands)
			cands = appendUnique(cands, mv, picture.AMVPMaxNumCands)
			if len(cands) > before {
				logDebug(log, "admitted HMVP AMVP candidate", "mvX", mv.X, "mvY", mv.Y, "tableIdx", i)
			}
		}
	}

	for len(cands) < picture.AMVPMaxNumCands {
		cands = append(cands, picture.MV{})
	}

	return cands
}

// logDebug is a nil-safe wrapper so callers need not guard every call site
// against an absent logger.
func logDebug(log logging.Logger, msg string, args ...interface{}) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

// firstMatchingUnscaled returns the motion vector of the first candidate in
// order whose active list's reference index equals req.RefIdx on req.ListIdx,
// falling back to the other list's MV when it alone shares req.RefIdx (the
// POC match is implied by the caller comparing reference indices within a
// single-reference-per-index scheme).
func firstMatchingUnscaled(req AMVPRequest, neighbors ...*picture.CU) (picture.MV, bool) {
	for _, cu := range neighbors {
		if cu == nil {
			continue
		}
		if mv, ok := matchList(req, cu); ok {
			return mv, true
		}
	}
	return picture.MV{}, false
}

// matchList returns cu's motion vector for req.ListIdx if that list is
// active and points at req.RefIdx, else the other list's vector under the
// same condition.
func matchList(req AMVPRequest, cu *picture.CU) (picture.MV, bool) {
	other := 1 - req.ListIdx
	if cu.Inter.ListActive(req.ListIdx) && int(cu.Inter.MVRef[req.ListIdx]) == int(req.RefIdx) {
		return cu.Inter.MV[req.ListIdx], true
	}
	if cu.Inter.ListActive(other) && int(cu.Inter.MVRef[other]) == int(req.RefIdx) {
		return cu.Inter.MV[other], true
	}
	return picture.MV{}, false
}

func mvEqual(a, b picture.MV) bool { return a.X == b.X && a.Y == b.Y }

func appendUpTo(cands []picture.MV, mv picture.MV, max int) []picture.MV {
	if len(cands) >= max {
		return cands
	}
	return append(cands, mv)
}

func appendUnique(cands []picture.MV, mv picture.MV, max int) []picture.MV {
	for _, c := range cands {
		if mvEqual(c, mv) {
			return cands
		}
	}
	return appendUpTo(cands, mv, max)
}
