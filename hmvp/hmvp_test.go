package hmvp

import (
	"testing"

	"github.com/ausocean/hevcenc/picture"
)

func mvCU(x int16) *picture.CU {
	cu := &picture.CU{
		Type: picture.CUInter,
		Inter: picture.Inter{
			MV:    [2]picture.MV{{X: x}, {}},
			MVRef: [2]uint8{0, picture.NoRefIdx},
			MVDir: 1,
		},
	}
	cu.Inter.ClearUnused()
	return cu
}

func TestInsertGrowsUntilFull(t *testing.T) {
	var table Table
	for i := 0; i < picture.MaxNumHMVPCands; i++ {
		table.Insert(mvCU(int16(i)))
	}
	if table.Size() != picture.MaxNumHMVPCands {
		t.Fatalf("Size() = %d, want %d", table.Size(), picture.MaxNumHMVPCands)
	}
	if table.At(0).Inter.MV[0].X != int16(picture.MaxNumHMVPCands-1) {
		t.Errorf("At(0) = %+v, want most recently inserted entry at the front", table.At(0))
	}
}

func TestInsertDropsOldestOnOverflow(t *testing.T) {
	var table Table
	for i := 0; i < picture.MaxNumHMVPCands+2; i++ {
		table.Insert(mvCU(int16(i)))
	}
	if table.Size() != picture.MaxNumHMVPCands {
		t.Fatalf("Size() = %d, want %d", table.Size(), picture.MaxNumHMVPCands)
	}
	oldest := table.At(table.Size() - 1)
	if oldest.Inter.MV[0].X != int16(2) {
		t.Errorf("oldest surviving entry = %+v, want X=2 (the first two were dropped)", oldest)
	}
}

// TestInsertDuplicateMovesToFront is spec scenario S5: a duplicate inserted
// at table index 3 shifts entries 0..2 down to 1..3 (overwriting the
// duplicate), moves to slot 0, and the table size is unchanged.
func TestInsertDuplicateMovesToFront(t *testing.T) {
	var table Table
	for i := 0; i < picture.MaxNumHMVPCands; i++ {
		table.Insert(mvCU(int16(i)))
	}
	// Table is now [4,3,2,1,0] (youngest first). Re-insert a duplicate of
	// the entry at index 3 (X=1).
	dupOf := table.At(3).Inter.MV[0].X
	if dupOf != 1 {
		t.Fatalf("precondition failed: At(3).X = %d, want 1", dupOf)
	}

	table.Insert(mvCU(1))

	if table.Size() != picture.MaxNumHMVPCands {
		t.Fatalf("Size() = %d, want unchanged %d", table.Size(), picture.MaxNumHMVPCands)
	}
	if table.At(0).Inter.MV[0].X != 1 {
		t.Errorf("At(0).X = %d, want 1 (the re-inserted duplicate)", table.At(0).Inter.MV[0].X)
	}
	want := []int16{1, 4, 3, 2, 0}
	for i, w := range want {
		if table.At(i).Inter.MV[0].X != w {
			t.Errorf("At(%d).X = %d, want %d", i, table.At(i).Inter.MV[0].X, w)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	a := mvCU(5)
	b := mvCU(5)
	if !IsDuplicate(a, b) {
		t.Error("identical MV/ref/direction CUs should be duplicates")
	}
	c := mvCU(6)
	if IsDuplicate(a, c) {
		t.Error("differing MV should not be a duplicate")
	}
}

func TestShouldAddMERGate(t *testing.T) {
	if !ShouldAdd(0, 0, 8, 8, 2) {
		t.Error("8x8 CU at origin should cross its own MER boundary")
	}
}
