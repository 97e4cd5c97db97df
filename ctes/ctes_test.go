package ctes

import (
	"testing"

	"github.com/ausocean/hevcenc/cabac"
	"github.com/ausocean/hevcenc/config"
	"github.com/ausocean/hevcenc/picture"
)

// recordingWriter mirrors the fake used in package cabac's own tests: a
// minimal bin-order recorder standing in for the out-of-scope arithmetic
// coding engine.
type recordingWriter struct {
	ops []op
}

type op struct {
	kind string
	ctx  cabac.Ctx
	bin  int
}

func (r *recordingWriter) EncodeBin(ctx cabac.Ctx, bin int) {
	r.ops = append(r.ops, op{"ctx", ctx, bin})
}
func (r *recordingWriter) EncodeBypass(bin int) {
	r.ops = append(r.ops, op{"bypass", 0, bin})
}
func (r *recordingWriter) EncodeBypassBins(value uint32, numBins int) {
	for i := numBins - 1; i >= 0; i-- {
		r.ops = append(r.ops, op{"bypass", 0, int((value >> uint(i)) & 1)})
	}
}
func (r *recordingWriter) EncodeTerminate(bin int) {
	r.ops = append(r.ops, op{"trm", 0, bin})
}

// nopResidual discards residual coding requests; exercising the actual
// coefficient coder is out of scope for this module.
type nopResidual struct {
	calls int
}

func (n *nopResidual) CodeResidual(w cabac.Writer, cu *picture.CU, x, y, size, plane, lastX, lastY int) {
	n.calls++
}

func newLeafCU(depth uint8, width int) *picture.CU {
	cu := &picture.CU{
		Type:  picture.CUIntra,
		Part:  picture.Part2Nx2N,
		Depth: depth,
		Width: width,
		QP:    26,
		Intra: picture.Intra{Mode: 10},
	}
	return cu
}

func TestEncodeCTUIntraLeafDoesNotPanic(t *testing.T) {
	cua := picture.NewCUArray(64, 64)
	cu := newLeafCU(0, picture.LCUWidth)
	cua.Set(0, 0, picture.LCUWidth, picture.LCUWidth, cu)

	w := &recordingWriter{}
	res := &nopResidual{}
	cfg := config.Default()
	s := NewSerializer(w, cfg, res, nil, cua)

	s.EncodeCTU(0, 0, 64, 64)

	if len(w.ops) == 0 {
		t.Fatal("expected at least one emitted bin")
	}
	if w.ops[0].kind != "ctx" {
		t.Errorf("first emitted bin should be split_cu_flag (ctx-coded), got %+v", w.ops[0])
	}
}

func TestSplitFlagContextIncrementsWithNeighborDepth(t *testing.T) {
	cua := picture.NewCUArray(128, 128)

	splitCU := newLeafCU(1, 32)
	cua.Set(0, 0, 32, 32, splitCU)

	s := &Serializer{cus: cua}
	ctx := s.splitFlagCtx(32, 0, 0)
	if ctx != CtxSplitFlag+1 {
		t.Errorf("splitFlagCtx = %v, want CtxSplitFlag+1 (one deeper left neighbor)", ctx)
	}
}

func TestSkipFlagContextCountsCodedNeighbors(t *testing.T) {
	cua := picture.NewCUArray(128, 128)

	left := newLeafCU(0, 16)
	left.Type = picture.CUInter
	left.Skipped = true
	cua.Set(0, 16, 16, 16, left)

	above := newLeafCU(0, 16)
	above.Type = picture.CUInter
	above.Skipped = true
	cua.Set(16, 0, 16, 16, above)

	s := &Serializer{cus: cua}
	ctx := s.skipFlagCtx(16, 16)
	if ctx != CtxSkipFlag+2 {
		t.Errorf("skipFlagCtx = %v, want CtxSkipFlag+2 (both neighbors skipped)", ctx)
	}
}

func TestEncodeMergeIdxBinarization(t *testing.T) {
	w := &recordingWriter{}
	cfg := config.Default()
	cfg.MaxMerge = 5
	s := &Serializer{W: w, Cfg: cfg}

	s.encodeMergeIdx(2)

	// Truncated unary of 2 over cMax=4: "1 1 0", first bin context-coded,
	// remainder bypass (§4.1.2 step 2).
	want := []op{{"ctx", CtxMergeIdx, 1}, {"bypass", 0, 1}, {"bypass", 0, 0}}
	if len(w.ops) != len(want) {
		t.Fatalf("ops = %+v, want %+v", w.ops, want)
	}
	for i := range want {
		if w.ops[i] != want[i] {
			t.Errorf("op[%d] = %+v, want %+v", i, w.ops[i], want[i])
		}
	}
}

func TestEncodeMVDMatchesSpecSuffixes(t *testing.T) {
	w := &recordingWriter{}
	s := &Serializer{W: w}

	s.encodeMVD(picture.MV{X: 3, Y: -5})

	// X=3: greater0=1, greater1=1, EG1(1)={0,1}, sign=0 (positive).
	// Y=-5: greater0=1, greater1=1, EG1(3)={1,0,0,1}, sign=1 (negative).
	// Both greater0 bins are coded first, then both greater1 bins, then each
	// axis's suffix+sign in turn (§4.1.2/S3 bin order), not per-axis runs.
	want := []op{
		{"ctx", CtxMVDGreater0, 1}, // gr0_x
		{"ctx", CtxMVDGreater0, 1}, // gr0_y
		{"ctx", CtxMVDGreater1, 1}, // gr1_x
		{"ctx", CtxMVDGreater1, 1}, // gr1_y
		{"bypass", 0, 0}, {"bypass", 0, 1}, // EG1(1) for x
		{"bypass", 0, 0}, // sign_x (positive)
		{"bypass", 0, 1}, {"bypass", 0, 0}, {"bypass", 0, 0}, {"bypass", 0, 1}, // EG1(3) for y
		{"bypass", 0, 1}, // sign_y (negative)
	}
	if len(w.ops) != len(want) {
		t.Fatalf("got %d ops, want %d: %+v", len(w.ops), len(want), w.ops)
	}
	for i := range want {
		if w.ops[i] != want[i] {
			t.Errorf("op[%d] = %+v, want %+v", i, w.ops[i], want[i])
		}
	}
}

func TestMTSNotAllowedWhenOff(t *testing.T) {
	s := &Serializer{Cfg: config.Config{MTS: config.MTSOff}}
	cu := newLeafCU(0, 32)
	if s.mtsAllowed(cu, 32) {
		t.Error("MTSOff should never allow mts_idx emission")
	}
}

func TestMTSAllowedForIntraUnderMTSIntra(t *testing.T) {
	s := &Serializer{Cfg: config.Config{MTS: config.MTSIntra}}
	cu := newLeafCU(0, 32)
	if !s.mtsAllowed(cu, 32) {
		t.Error("MTSIntra should allow mts_idx for an intra CU within size limit")
	}
	cu.ViolatesMTSCoeffConstraint = true
	if s.mtsAllowed(cu, 32) {
		t.Error("a CU violating the MTS coefficient constraint must not allow mts_idx")
	}
}

func TestMPMCandidatesDCFallbackWhenNeighborsUnavailable(t *testing.T) {
	cua := picture.NewCUArray(64, 64)
	s := &Serializer{cus: cua}
	got := s.mpmCandidates(0, 0)
	want := [intraMPMCount]uint8{modePlanar, modeDC, 26}
	if got != want {
		t.Errorf("mpmCandidates with no neighbors = %v, want %v", got, want)
	}
}
