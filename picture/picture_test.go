package picture

import "testing"

func TestCUArraySetAtUniform(t *testing.T) {
	a := NewCUArray(128, 128)
	cu := &CU{Type: CUInter, X: 0, Y: 0, Width: 32}
	a.Set(0, 0, 32, 32, cu)

	for y := 0; y < 32; y += SCUWidth {
		for x := 0; x < 32; x += SCUWidth {
			got := a.At(x, y)
			if got != cu {
				t.Fatalf("At(%d,%d) = %v, want shared descriptor %v", x, y, got, cu)
			}
		}
	}
	if got := a.At(32, 0); got == cu {
		t.Fatalf("At(32,0) should not belong to the 0,0 32x32 CU")
	}
}

func TestCUArrayOutOfBounds(t *testing.T) {
	a := NewCUArray(64, 64)
	if got := a.At(-1, 0); got != nil {
		t.Errorf("At(-1,0) = %v, want nil", got)
	}
	if got := a.At(1000, 1000); got != nil {
		t.Errorf("At(1000,1000) = %v, want nil", got)
	}
}

func TestInterClearUnusedInvariant(t *testing.T) {
	in := Inter{
		MV:    [2]MV{{X: 4, Y: -4}, {X: 7, Y: 2}},
		MVRef: [2]uint8{0, 1},
		MVDir: 1, // only list 0 active
	}
	in.ClearUnused()

	if in.MV[0] != (MV{X: 4, Y: -4}) {
		t.Errorf("active list 0 MV was modified: %+v", in.MV[0])
	}
	if in.MV[1] != (MV{}) {
		t.Errorf("inactive list 1 MV not cleared: %+v", in.MV[1])
	}
	if in.MVRef[1] != NoRefIdx {
		t.Errorf("inactive list 1 ref not reset to NoRefIdx: %d", in.MVRef[1])
	}
}

func TestPlaneAtClampsToEdge(t *testing.T) {
	p := Plane{
		Data:   []byte{1, 2, 3, 4},
		Width:  2,
		Height: 2,
		Stride: 2,
	}
	if got := p.At(-5, -5); got != 1 {
		t.Errorf("At(-5,-5) = %d, want 1 (top-left clamp)", got)
	}
	if got := p.At(50, 50); got != 4 {
		t.Errorf("At(50,50) = %d, want 4 (bottom-right clamp)", got)
	}
}
