/*
DESCRIPTION
  cabac.go provides the context-adaptive binary arithmetic coding surface
  consumed by the coding-tree entropy serializer: a Writer interface standing
  in for the external binary-bin-writer primitive (out of scope for this
  core, per the specification), plus the binarization helpers the serializer
  needs to turn syntax element values into bin sequences before handing them
  to a Writer.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cabac defines the boundary between the coding-tree entropy
// serializer and the external CABAC arithmetic-coding engine. The engine
// itself (renormalization, the range/offset state machine, the context
// initialisation tables) is an out-of-scope collaborator; this package only
// defines the Writer interface the serializer drives, plus the
// binarization helpers (unary, truncated unary, truncated binary, k-th
// order Exp-Golomb) needed to turn a syntax element's value into the bin
// sequence a Writer is driven with.
package cabac

import "github.com/pkg/errors"

// Ctx identifies one context model slot. The serializer only ever threads
// Ctx values through; the model state and initialisation tables they name
// live in the external CABAC engine.
type Ctx int

// Writer is the external CABAC engine's bin-level surface. One bin is
// written per call, except EncodeBypassBins, which writes numBins bins;
// EncodeBin looks up and updates the context model identified by ctx, EncodeBypass and EncodeBypassBins write bypass-coded
// (equiprobable) bins, and EncodeTerminate writes the CABAC termination bin.
type Writer interface {
	// EncodeBin writes bin (0 or 1) under context ctx, updating that
	// context's adaptive state.
	EncodeBin(ctx Ctx, bin int)

	// EncodeBypass writes a single equiprobable bin.
	EncodeBypass(bin int)

	// EncodeBypassBins writes the low numBins bits of value, most
	// significant bit first, each bypass-coded.
	EncodeBypassBins(value uint32, numBins int)

	// EncodeTerminate writes the CABAC termination/end-of-slice bin.
	EncodeTerminate(bin int)
}

// WriteBypassBits writes each element of bits (0/1) as an individual bypass
// bin, in order. It is the moral equivalent of EncodeBypassBins for
// pre-binarized sequences produced by the helpers below.
func WriteBypassBits(w Writer, bits []int) {
	for _, b := range bits {
		w.EncodeBypass(b)
	}
}

var (
	errNegativeSyntaxVal = errors.New("cabac: cannot binarize a negative syntax value")
	errValGreaterThanMax = errors.New("cabac: syntax value greater than cMax")
)

// UnaryBits returns the unary binary string of v: v one-bins followed by a
// terminating zero-bin.
func UnaryBits(v int) ([]int, error) {
	if v < 0 {
		return nil, errors.Wrapf(errNegativeSyntaxVal, "value %d", v)
	}
	bits := make([]int, v+1)
	for i := 0; i < v; i++ {
		bits[i] = 1
	}
	return bits, nil
}

// TruncatedUnaryBits returns the truncated-unary binary string of v given
// cMax: identical to UnaryBits, except the terminating zero is omitted when
// v == cMax.
func TruncatedUnaryBits(v, cMax int) ([]int, error) {
	if v < 0 {
		return nil, errors.Wrapf(errNegativeSyntaxVal, "value %d", v)
	}
	if v > cMax {
		return nil, errors.Wrapf(errValGreaterThanMax, "value %d, cMax %d", v, cMax)
	}
	bits, err := UnaryBits(v)
	if err != nil {
		return nil, err
	}
	if v == cMax {
		return bits[:len(bits)-1], nil
	}
	return bits, nil
}

// FixedLengthBits returns v in n bits, most significant bit first.
func FixedLengthBits(v, n int) []int {
	bits := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		bits[i] = v & 1
		v >>= 1
	}
	return bits
}

// TruncatedBinaryBits returns the truncated-binary code for v over a symbol
// alphabet of size numSymbols, used to code the intra luma mode remainder
// (§4.1.3) over 67-INTRA_MPM_COUNT symbols.
func TruncatedBinaryBits(v, numSymbols int) []int {
	n := 0
	for (1 << uint(n)) < numSymbols {
		n++
	}
	u := (1 << uint(n)) - numSymbols
	if v < u {
		return FixedLengthBits(v, n-1)
	}
	return FixedLengthBits(v+u, n)
}

// ExpGolombSuffixBits returns the k-th order Exp-Golomb suffix for |v|
// relative to the truncated-unary prefix value uCoff, i.e. the suffix
// portion of UEGk binarization. It does not include the truncated-unary
// prefix itself or the sign bin; callers emit those separately per the
// specification's per-syntax-element bin ordering.
func ExpGolombSuffixBits(absV, uCoff, k int) []int {
	if absV < uCoff {
		return nil
	}
	var bits []int
	rem := absV - uCoff
	for {
		if rem >= (1 << uint(k)) {
			bits = append(bits, 1)
			rem -= 1 << uint(k)
			k++
			continue
		}
		bits = append(bits, 0)
		for k--; k >= 0; k-- {
			bits = append(bits, (rem>>uint(k))&1)
		}
		return bits
	}
}

// EGkBits returns the plain k-th order Exp-Golomb code for the non-negative
// value v, i.e. ExpGolombSuffixBits with no truncated-unary prefix. This is
// the form used directly by the MVD suffix (k=1, v=|component|-2) and the
// QP-delta suffix (k=0, v=|delta|-5).
func EGkBits(v, k int) []int {
	return ExpGolombSuffixBits(v, 0, k)
}
