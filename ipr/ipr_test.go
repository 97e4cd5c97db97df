package ipr

import (
	"testing"

	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/picture"
)

// fakeInterpolator records whether it was invoked and returns a fixed value,
// standing in for the out-of-scope fractional-pel filter.
type fakeInterpolator struct {
	called bool
	value  int16
}

func (f *fakeInterpolator) InterpolateLuma(ref *picture.Plane, x, y, fracX, fracY, w, h int, dst []int16) {
	f.called = true
	for i := range dst {
		dst[i] = f.value
	}
}

func (f *fakeInterpolator) InterpolateChroma(ref *picture.Plane, x, y, fracX, fracY, w, h int, dst []int16) {
	f.InterpolateLuma(ref, x, y, fracX, fracY, w, h, dst)
}

func flatPlane(w, h int, v byte) *picture.Plane {
	data := make([]byte, w*h)
	for i := range data {
		data[i] = v
	}
	return &picture.Plane{Data: data, Width: w, Height: h, Stride: w}
}

func TestPredictUniIntegerPelSkipsInterpolator(t *testing.T) {
	ref := flatPlane(32, 32, 100)
	interp := &fakeInterpolator{}
	out := PredictUni(interp, ref, picture.MV{X: 16, Y: 0}, 4, 4, 4, 4, false, nil) // 16 = 1 full pel, 0 frac
	if interp.called {
		t.Error("integer-pel motion vector should not invoke the interpolator")
	}
	for _, v := range out {
		if v != 100 {
			t.Fatalf("got %d, want 100", v)
		}
	}
}

func TestPredictUniFractionalDelegates(t *testing.T) {
	ref := flatPlane(32, 32, 100)
	interp := &fakeInterpolator{value: 50 << HPShift}
	out := PredictUni(interp, ref, picture.MV{X: 1, Y: 0}, 4, 4, 4, 4, false, nil)
	if !interp.called {
		t.Error("fractional motion vector should invoke the interpolator")
	}
	for _, v := range out {
		if v != 50 {
			t.Fatalf("got %d, want 50", v)
		}
	}
}

func TestPredictBiHighPrecisionAveragesTwoLists(t *testing.T) {
	ref0 := flatPlane(32, 32, 80)
	ref1 := flatPlane(32, 32, 120)
	interp := &fakeInterpolator{}
	cfg := config.Default()
	cfg.Bipred = true

	out := PredictBi(cfg, interp, BiRequest{Ref: ref0}, BiRequest{Ref: ref1}, 4, 4, 4, 4, false, nil)
	for _, v := range out {
		if v != 100 {
			t.Fatalf("high-precision bi-pred average = %d, want 100", v)
		}
	}
}

func TestPredictBiAveragedCopyPath(t *testing.T) {
	ref0 := flatPlane(32, 32, 80)
	ref1 := flatPlane(32, 32, 121)
	interp := &fakeInterpolator{}
	cfg := config.Default()
	cfg.Bipred = false

	out := PredictBi(cfg, interp, BiRequest{Ref: ref0}, BiRequest{Ref: ref1}, 4, 4, 4, 4, false, nil)
	for _, v := range out {
		if v != 101 { // (80+121)/2 = 100.5, rounds away from zero to 101
			t.Fatalf("averaged-copy bi-pred = %d, want 101", v)
		}
	}
}

func TestPlaneAtEdgeReplicationFeedsPrediction(t *testing.T) {
	ref := flatPlane(8, 8, 10)
	interp := &fakeInterpolator{}
	// Motion vector pushes the reference window off the top-left corner;
	// Plane.At's edge clamp must still produce a flat block.
	out := PredictUni(interp, ref, picture.MV{X: -64, Y: -64}, 0, 0, 4, 4, false, nil)
	for _, v := range out {
		if v != 10 {
			t.Fatalf("got %d, want 10 (edge replicated)", v)
		}
	}
}
