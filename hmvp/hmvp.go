/*
DESCRIPTION
  hmvp.go provides the per-CTU-row history-based motion vector predictor
  (HMVP) table: a small bounded LRU of recently reconstructed inter CU
  descriptors.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hmvp provides the history-based motion vector predictor table: a
// bounded, per-CTU-row LRU of inter CU descriptors consulted by the
// motion-vector candidate engine and refreshed after every reconstructed
// inter CU.
//
// A fixed backing array with memmove-style shifting is used in preference to
// a linked list, since the table is tiny (at most picture.MaxNumHMVPCands
// entries) and contiguous shifting keeps it cache-resident.
package hmvp

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/hevcenc/picture"
)

// Table is one CTU row's HMVP LRU, youngest entry first. Log is optional and
// nil-safe; when set it narrates eviction decisions the way the rest of this
// module's packages narrate theirs.
type Table struct {
	Log     logging.Logger
	entries [picture.MaxNumHMVPCands]picture.CU
	size    int
}

// Size returns the number of valid entries currently in the table.
func (t *Table) Size() int { return t.size }

// At returns a pointer to the i'th entry (0 = youngest). Callers must not
// retain the pointer past the next Insert.
func (t *Table) At(i int) *picture.CU {
	if i < 0 || i >= t.size {
		return nil
	}
	return &t.entries[i]
}

// Reset empties the table, used at the start of each CTU row.
func (t *Table) Reset() {
	t.size = 0
}

// duplicateIndex returns the index of the first existing entry that is a
// duplicate of cu under the merge-candidate equality predicate, or -1.
func (t *Table) duplicateIndex(cu *picture.CU) int {
	for i := 0; i < t.size; i++ {
		if IsDuplicate(cu, &t.entries[i]) {
			return i
		}
	}
	return -1
}

// Insert adds cu to the table. Any existing duplicate (by IsDuplicate) is
// first removed; on overflow the oldest entry is discarded. The new entry
// always becomes index 0.
func (t *Table) Insert(cu *picture.CU) {
	dup := t.duplicateIndex(cu)

	switch {
	case dup == 0:
		// Already at the front; only the content is refreshed below.
	case dup > 0:
		// Shift entries [0, dup) down by one, overwriting the duplicate.
		copy(t.entries[1:dup+1], t.entries[0:dup])
	default:
		// No duplicate: shift the whole table down, dropping the oldest
		// entry if the table is already full.
		end := t.size
		if end > len(t.entries)-1 {
			end = len(t.entries) - 1
		}
		if t.size == len(t.entries) && t.Log != nil {
			evicted := t.entries[len(t.entries)-1]
			t.Log.Debug("evicting oldest HMVP entry", "mvX", evicted.Inter.MV[0].X, "mvY", evicted.Inter.MV[0].Y)
		}
		copy(t.entries[1:end+1], t.entries[0:end])
		if t.size < len(t.entries) {
			t.size++
		}
	}

	t.entries[0] = *cu
}

// IsDuplicate implements the HMVP/merge-candidate equality predicate of
// §4.2.4: same direction bitmap, and for every active list the same MV and
// reference index.
func IsDuplicate(a, b *picture.CU) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Inter.MVDir != b.Inter.MVDir {
		return false
	}
	for i := 0; i < 2; i++ {
		if a.Inter.MVDir&(1<<uint(i)) == 0 {
			continue
		}
		if a.Inter.MV[i] != b.Inter.MV[i] || a.Inter.MVRef[i] != b.Inter.MVRef[i] {
			return false
		}
	}
	return true
}

// ShouldAdd reports whether a reconstructed CU at (x,y,w,h) qualifies for
// HMVP insertion under the motion-estimation-region gate of §4.2.6: the CU
// must cross a MER boundary on both axes relative to its top-left corner.
func ShouldAdd(x, y, w, h, log2ParallelMergeLevel int) bool {
	xBr, yBr := x+w, y+h
	return (xBr>>uint(log2ParallelMergeLevel)) > (x>>uint(log2ParallelMergeLevel)) &&
		(yBr>>uint(log2ParallelMergeLevel)) > (y>>uint(log2ParallelMergeLevel))
}
