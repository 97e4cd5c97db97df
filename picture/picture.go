/*
DESCRIPTION
  picture.go provides the picture/plane/coding-unit data model shared by the
  coding-tree entropy serializer, the motion-vector candidate engine and the
  inter-prediction reconstructor.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package picture provides the frame/plane/coding-unit data model: the
// luma/chroma plane pair, the largest-coding-unit quad-tree's leaf
// descriptor (CU), and the dense CU array that lets a pixel position be
// mapped back to the CU descriptor that covers it.
package picture

// Geometry constants shared by every package in this module.
const (
	// LCUWidth is the side length in pixels of a largest coding unit (CTU).
	LCUWidth = 64

	// LCULog2 is log2(LCUWidth).
	LCULog2 = 6

	// MaxDepth is the deepest quad-tree split allowed below an LCU
	// (LCUWidth >> MaxDepth == smallest CU side).
	MaxDepth = 4

	// SCUWidth is the side length in pixels of the smallest coding unit,
	// i.e. LCUWidth >> MaxDepth.
	SCUWidth = LCUWidth >> MaxDepth

	// AMVPMaxNumCands is the fixed length of a constructed AMVP list.
	AMVPMaxNumCands = 2

	// MRGMaxNumCands is the upper bound on a constructed merge list.
	MRGMaxNumCands = 6

	// MaxNumHMVPCands bounds the per-CTU-row history table.
	MaxNumHMVPCands = 5

	// InternalMVPrec is the number of fractional bits of internal MV
	// precision (1/16-pel).
	InternalMVPrec = 4

	// NoRefIdx marks an inactive reference index slot, mirroring the
	// canonical "255" sentinel used by the reference encoder.
	NoRefIdx = 255
)

// CUType classifies the prediction mode of a coding unit.
type CUType uint8

const (
	CUIntra CUType = iota
	CUInter
	CUPCM
)

// PartSize enumerates the partition shapes a CU's prediction units can take.
type PartSize uint8

const (
	Part2Nx2N PartSize = iota
	Part2NxN
	PartNx2N
	PartNxN
	Part2NxnU // AMP
	Part2NxnD // AMP
	PartnLx2N // AMP
	PartnRx2N // AMP
)

// NumPU returns how many prediction units a CU of this partition shape has.
func (p PartSize) NumPU() int {
	if p == PartNxN {
		return 4
	}
	if p == Part2Nx2N {
		return 1
	}
	return 2
}

// MV is a motion vector in InternalMVPrec fractional-pel units.
type MV struct {
	X, Y int16
}

// Zero reports whether the motion vector is exactly (0,0).
func (m MV) Zero() bool { return m.X == 0 && m.Y == 0 }

// Intra carries the intra-prediction parameters of a CU.
type Intra struct {
	Mode        uint8 // luma intra prediction mode, 0..66
	ModeChroma  uint8
	MultiRefIdx uint8
}

// Inter carries the inter-prediction parameters of a CU.
//
// Invariant: for list index i, if MVDir&(1<<i) == 0 then MV[i] == (0,0) and
// MVRef[i] == NoRefIdx. Callers constructing a CU must call ClearUnused to
// establish this invariant; the engines in this module rely on it and do not
// re-derive it.
type Inter struct {
	MV      [2]MV
	MVRef   [2]uint8 // reference index into the list, or NoRefIdx
	MVDir   uint8    // bit 0: L0 active, bit 1: L1 active
	MVCand  [2]uint8 // AMVP index actually used per list, set by mode decision
	MergeIdx uint8
}

// ClearUnused zeroes the MV/ref fields of any list not marked active in
// MVDir, establishing the Inter invariant.
func (in *Inter) ClearUnused() {
	for i := 0; i < 2; i++ {
		if in.MVDir&(1<<uint(i)) != 0 {
			continue
		}
		in.MV[i] = MV{}
		in.MVRef[i] = NoRefIdx
	}
}

// ListActive reports whether list i (0 or 1) is active for this CU.
func (in *Inter) ListActive(i int) bool {
	return in.MVDir&(1<<uint(i)) != 0
}

// CU describes one leaf (or about-to-be-split internal node, while the tree
// walk is in progress) of the coding-tree quad-tree.
type CU struct {
	Type     CUType
	Part     PartSize
	Depth    uint8
	X, Y     int // top-left pixel position within the picture
	Width    int // CU side in pixels (LCUWidth >> Depth)
	SplitData uint64 // bitmap of explicit splits recorded per depth, LSB = depth 0

	// CBF is a coded-block-flag bitmap indexed as (depth*3 + plane), plane
	// 0=Y,1=U,2=V, one bit per (depth, plane) pair actually coded.
	CBF uint32

	QP      int8
	Skipped bool
	Merged  bool

	Intra Intra
	Inter Inter

	MTSLastScanPos             bool
	ViolatesMTSCoeffConstraint bool
	TransquantBypass           bool
}

// CBFSet reports whether the coded-block flag is set for plane at depth.
func (c *CU) CBFSet(depth int, plane int) bool {
	return c.CBF&(1<<uint(depth*3+plane)) != 0
}

// SetCBF sets or clears the coded-block flag for plane at depth.
func (c *CU) SetCBF(depth int, plane int, v bool) {
	bit := uint32(1) << uint(depth*3+plane)
	if v {
		c.CBF |= bit
	} else {
		c.CBF &^= bit
	}
}

// Rect returns the inclusive-exclusive pixel rectangle covered by the CU.
func (c *CU) Rect() (x0, y0, x1, y1 int) {
	return c.X, c.Y, c.X + c.Width, c.Y + c.Width
}

// Plane is a single-component pixel (or coefficient) buffer with explicit
// geometry, used for the luma and two chroma components of a Picture.
type Plane struct {
	Data   []byte
	Width  int
	Height int
	Stride int
}

// At returns the pixel value at (x, y), clamped to the plane's edges
// (edge replication), matching the border-extrapolation rule used by the
// inter-prediction reconstructor for out-of-frame reference access.
func (p *Plane) At(x, y int) byte {
	if x < 0 {
		x = 0
	}
	if x >= p.Width {
		x = p.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.Height {
		y = p.Height - 1
	}
	return p.Data[y*p.Stride+x]
}

// ChromaFormat enumerates the supported chroma subsampling layouts.
type ChromaFormat uint8

const (
	Chroma400 ChromaFormat = iota // monochrome
	Chroma420
)

// Picture is a decoded/reconstructed frame: a luma plane plus two chroma
// planes (absent for monochrome), optionally carrying picture-order-count
// and a CU array for use as a reference picture.
type Picture struct {
	Luma, Cb, Cr Plane
	Chroma       ChromaFormat

	// POC is the picture order count. Only meaningful for reference
	// pictures; -1 for the picture currently being encoded.
	POC int

	// CUs records, for a reference picture, the reconstructed CU that
	// covers each smallest-CU-granularity tile, for temporal-candidate
	// lookup. nil for the picture currently being encoded until its tree
	// has been walked.
	CUs *CUArray
}

// CUArray is a dense grid, indexed at SCUWidth granularity, mapping pixel
// position to the CU descriptor that contains it.
//
// Invariant: for any two pixel positions inside the same CU, At returns
// descriptors with identical content (the same *CU pointer, by
// construction, since Set fills every SCU-granularity tile of a CU with one
// shared pointer).
type CUArray struct {
	cus           []*CU
	width, height int // in SCU units
}

// NewCUArray allocates a CU array covering a picture of the given pixel
// dimensions.
func NewCUArray(picWidth, picHeight int) *CUArray {
	w := (picWidth + SCUWidth - 1) / SCUWidth
	h := (picHeight + SCUWidth - 1) / SCUWidth
	return &CUArray{cus: make([]*CU, w*h), width: w, height: h}
}

// Width returns the array's width in SCU units.
func (a *CUArray) Width() int { return a.width }

// Height returns the array's height in SCU units.
func (a *CUArray) Height() int { return a.height }

// At returns the CU descriptor covering pixel (x, y), or nil if (x, y) is
// outside the array or not yet coded.
func (a *CUArray) At(x, y int) *CU {
	sx, sy := x/SCUWidth, y/SCUWidth
	if sx < 0 || sy < 0 || sx >= a.width || sy >= a.height {
		return nil
	}
	return a.cus[sy*a.width+sx]
}

// Set fills every SCU tile of the pixel rectangle [x,x+w) x [y,y+h) with cu.
func (a *CUArray) Set(x, y, w, h int, cu *CU) {
	x0, y0 := x/SCUWidth, y/SCUWidth
	x1, y1 := (x+w+SCUWidth-1)/SCUWidth, (y+h+SCUWidth-1)/SCUWidth
	for sy := y0; sy < y1 && sy < a.height; sy++ {
		if sy < 0 {
			continue
		}
		for sx := x0; sx < x1 && sx < a.width; sx++ {
			if sx < 0 {
				continue
			}
			a.cus[sy*a.width+sx] = cu
		}
	}
}

// CoeffBuffer holds one LCU's worth of transform coefficients for one plane,
// laid out in Z-order so recursive transform-tree sub-blocks occupy
// contiguous ranges. See package zorder.
type CoeffBuffer struct {
	Coeffs []int32
	Width  int // plane width of this LCU in coefficient samples
}
