package mvce

import (
	"testing"

	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/hmvp"
	"github.com/ausocean/hevcenc/picture"
)

func interCU(x, y, w int, mv picture.MV, ref uint8) *picture.CU {
	cu := &picture.CU{
		Type:  picture.CUInter,
		X:     x,
		Y:     y,
		Width: w,
		Inter: picture.Inter{
			MV:    [2]picture.MV{mv, {}},
			MVRef: [2]uint8{ref, picture.NoRefIdx},
			MVDir: 1,
		},
	}
	cu.Inter.ClearUnused()
	return cu
}

// TestScaleMVIdentity is testable property #5: scaling to the same POC
// distance is a no-op.
func TestScaleMVIdentity(t *testing.T) {
	mv := picture.MV{X: 12, Y: -7}
	got := ScaleMV(mv, 10, 5, 5)
	if got != mv {
		t.Errorf("ScaleMV same-distance = %+v, want %+v", got, mv)
	}
}

func TestScaleMVDoublesAtDoubleDistance(t *testing.T) {
	mv := picture.MV{X: 8, Y: -8}
	// currPOC=10, srcRef=8 (td=2), dstRef=6 (tb=4): doubles the distance.
	got := ScaleMV(mv, 10, 8, 6)
	if got.X != 16 || got.Y != -16 {
		t.Errorf("ScaleMV doubled distance = %+v, want (16,-16)", got)
	}
}

func TestRoundAvgMV(t *testing.T) {
	cases := []struct{ a, b, want int16 }{
		{2, 3, 3},
		{-2, -3, -2},
		{0, 0, 0},
		{1, 2, 2},
	}
	for _, c := range cases {
		got := RoundAvgMV(c.a, c.b)
		if got != c.want {
			t.Errorf("RoundAvgMV(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

// S4-style scene: a 16x16 CU at (64,64) in a 256x256 picture with left and
// above neighbors coded as inter.
func TestSpatialCandidatesBasic(t *testing.T) {
	cua := picture.NewCUArray(256, 256)
	a1 := interCU(48, 64, 16, picture.MV{X: 4, Y: 0}, 0)
	cua.Set(48, 64, 16, 16, a1)
	b1 := interCU(64, 48, 16, picture.MV{X: 0, Y: 4}, 0)
	cua.Set(64, 48, 16, 16, b1)

	s := SpatialCandidates(cua, 64, 64, 16, 16, 256, 256, false, nil)
	if s.A1 == nil || s.A1.Inter.MV[0].X != 4 {
		t.Error("A1 candidate not found as expected")
	}
	if s.B1 == nil || s.B1.Inter.MV[0].Y != 4 {
		t.Error("B1 candidate not found as expected")
	}
}

func TestBuildAMVPAlwaysTwoEntries(t *testing.T) {
	cua := picture.NewCUArray(128, 128)
	table := &hmvp.Table{}
	cfg := config.Default()
	req := AMVPRequest{ListIdx: 0, RefIdx: 0, RefPOC: 0, CurrPOC: 4}

	got := BuildAMVP(cfg, cua, table, nil, 32, 32, 16, 16, 128, 128, req, nil, nil)
	if len(got) != picture.AMVPMaxNumCands {
		t.Fatalf("len(BuildAMVP) = %d, want %d", len(got), picture.AMVPMaxNumCands)
	}
}

func TestBuildMergeFillsToConfiguredLength(t *testing.T) {
	cua := picture.NewCUArray(128, 128)
	table := &hmvp.Table{}
	cfg := config.Default()

	got := BuildMerge(cfg, cua, table, nil, 32, 32, 16, 16, 128, 128, nil, nil)
	if len(got) != int(cfg.MaxMerge) {
		t.Fatalf("len(BuildMerge) = %d, want %d", len(got), cfg.MaxMerge)
	}
}

func TestBuildMergeDedupsSpatialCandidates(t *testing.T) {
	cua := picture.NewCUArray(256, 256)
	// A1 and B1 both reference the same CU, same MV and ref: must collapse
	// to a single merge entry plus zero-fill/average, never two identical
	// ones back to back beyond what the table of candidates allows.
	shared := interCU(0, 0, 16, picture.MV{X: 2, Y: 2}, 0)
	cua.Set(16, 32, 16, 16, shared) // A1 at (31,47) -> block covering that SCU
	cua.Set(32, 16, 16, 16, shared) // B1 at (47,31)

	table := &hmvp.Table{}
	cfg := config.Default()
	cfg.MaxMerge = 2

	got := BuildMerge(cfg, cua, table, nil, 32, 32, 16, 16, 256, 256, nil, nil)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Inter.MV[0] == got[1].Inter.MV[0] && got[0].Inter.MVRef[0] == got[1].Inter.MVRef[0] {
		t.Error("merge list contains adjacent duplicate candidates")
	}
}

func TestHMVPShouldAddMERGate(t *testing.T) {
	if !hmvp.ShouldAdd(0, 0, 8, 8, 2) {
		t.Error("8x8 CU at origin should cross its own MER boundary")
	}
	if hmvp.ShouldAdd(4, 4, 2, 2, 2) {
		t.Error("2x2 CU entirely inside one MER should not qualify")
	}
}
