/*
DESCRIPTION
  config.go provides the configuration options consumed by the coding-tree
  entropy serializer and motion-vector candidate engine.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings consumed by the
// coding-tree entropy serializer and the motion-vector candidate engine.
package config

// MTSMode enumerates the configured Multiple-Transform-Select policy.
type MTSMode uint8

// MTS policy values, per the "mts" config option of §6.
const (
	MTSOff MTSMode = iota
	MTSIntra
	MTSInter
	MTSBoth
)

// ChromaFormat enumerates the configured chroma subsampling layout, per the
// "chroma_format" config option of §6.
type ChromaFormat uint16

const (
	Chroma400 ChromaFormat = 400
	Chroma420 ChromaFormat = 420
)

// Config collects every option named in the specification's external
// interface table (§6). It is a flat struct of typed fields, passed by value
// into the serializer and candidate engine the way revid's config.Config is
// threaded through the capture pipeline.
type Config struct {
	// MTS gates MTS-index emission (§4.1.5).
	MTS MTSMode

	// TMVPEnable gates temporal candidate addition in both the AMVP and
	// merge list constructions (§4.2.3 step 4, §4.2.4 step 6).
	TMVPEnable bool

	// Log2ParallelMergeLevel sets the motion-estimation-region
	// quantisation used by the merge-list different_mer gate and the HMVP
	// insertion gate (§4.2.4, §4.2.6).
	Log2ParallelMergeLevel uint8

	// MaxMerge is the target merge-list length, clamped to
	// picture.MRGMaxNumCands.
	MaxMerge uint8

	// WPP disables the top-right-LCU B0 cache source when wavefront
	// parallel processing is active (§4.2.1, §5).
	WPP bool

	// Bipred enables the high-precision bi-prediction accumulation path
	// (§4.3).
	Bipred bool

	// Lossless, when set, causes every leaf CU to emit
	// cu_transquant_bypass_flag=1 (§4.1.1 step 6).
	Lossless bool

	// MaxQPDeltaDepth is the depth limit at which a new quantisation group
	// begins (§4.1.6).
	MaxQPDeltaDepth uint8

	// Chroma selects 4:0:0 (monochrome, suppresses all chroma syntax) or
	// 4:2:0.
	Chroma ChromaFormat

	// AMPEnable permits asymmetric motion partitions in part_mode.
	AMPEnable bool
}

// Default returns the configuration baseline used when a caller has not
// overridden anything: MTS off, TMVP on, log2 parallel merge level 2 (4x4
// regions), five merge candidates, 4:2:0 chroma, AMP enabled, no lossless.
func Default() Config {
	return Config{
		MTS:                    MTSOff,
		TMVPEnable:             true,
		Log2ParallelMergeLevel: 2,
		MaxMerge:               5,
		Chroma:                 Chroma420,
		AMPEnable:              true,
	}
}

// ChromaEnabled reports whether chroma syntax should be emitted at all.
func (c Config) ChromaEnabled() bool {
	return c.Chroma != Chroma400
}
