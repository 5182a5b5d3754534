// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer.
package qpextract

import "sync"

// Private types (alphabetical)

// coordParser accumulates frames while scanning a coordinate-stream report.
// It replaces the implicit per-scan globals with explicit state: the frames
// built so far and the y coordinate of the last record consumed.
type coordParser struct {
	frames []CoordFrame
	lastY  int
}

// Public types (alphabetical)

// AxisDecision is the frame-axis tick strategy chosen for a report.
// When UseIFrameTicks is true the visualization should place explicit ticks
// at IFramePositions while preserving the original axis limits; otherwise
// default automatic ticks apply.
type AxisDecision struct {
	// UseIFrameTicks is true when I-frames are rare enough that marking
	// their positions is more informative than constant ticks.
	UseIFrameTicks bool

	// IFramePositions contains the frame indices of all I-frames,
	// in frame order. Populated even when UseIFrameTicks is false.
	IFramePositions []int
}

// BlockInfo holds the QP value and the size of one coding block.
type BlockInfo struct {
	// QP is the quantization parameter applied to the block.
	QP int

	// Size is the side of the square block in pixels (8 to 64).
	Size int
}

// CoordFrame is one frame reconstructed from a coordinate-stream report.
// Blocks maps each coding block's top-left coordinate to its QP and size.
type CoordFrame struct {
	// FrameNumber is the 1-based position of the frame in the stream.
	FrameNumber int

	// Blocks maps block origin coordinates to their QP and size.
	// A coordinate seen twice within the same frame keeps the later record.
	Blocks map[CoordKey]BlockInfo
}

// CoordKey is a block origin packed as (x << 32) | y. Packing the two
// coordinates into one integer keeps map lookups free of string formatting.
type CoordKey uint64

// Diagnostic reports a recoverable, line-local parse problem. The offending
// line is discarded and parsing continues; the caller decides whether and how
// to surface the message.
type Diagnostic struct {
	// Line is the 1-based line number of the offending input line.
	Line int

	// Message describes what was wrong with the line.
	Message string
}

// DistroReport is the full result of parsing a histogram-line report.
type DistroReport struct {
	// Frames holds one histogram per qp_distro line accepted, in file order.
	Frames []HistogramFrame

	// SliceTypes holds one slice-type tag per slice_type line, in file
	// order, index-aligned with Frames.
	SliceTypes []string

	// Bounds is the running min-of-mins / max-of-maxs over accepted frames.
	Bounds QPBounds

	// Diagnostics lists the lines that were discarded and why.
	Diagnostics []Diagnostic
}

// Extractor runs the qpextract binary against an HEVC bitstream and captures
// its telemetry output.
type Extractor struct {
	// QPExtractPath is the path to the qpextract executable.
	QPExtractPath string

	// mutex protects concurrent access to the extractor.
	mutex sync.Mutex
}

// HistogramFrame is one frame's QP distribution in histogram form.
// Values[i] counts the coding blocks that used QP value MinQP+i.
type HistogramFrame struct {
	// MinQP is the QP value counted by Values[0].
	MinQP int

	// Values holds the per-QP block counts, one entry per QP value from
	// MinQP to MinQP+len(Values)-1.
	Values []int
}

// QPBounds tracks the extreme QP values observed across all frames of a
// report. Both fields start at the UnsetQP sentinel and only tighten
// monotonically (min of mins, max of maxs) as frames are accepted.
type QPBounds struct {
	// MinMinQP is the smallest per-frame minimum QP seen so far.
	MinMinQP int

	// MaxMaxQP is the largest per-frame maximum QP seen so far.
	MaxMaxQP int
}

// QPExtractInfo contains information about the qpextract installation.
type QPExtractInfo struct {
	// Installed is true if qpextract was found on the system.
	Installed bool

	// Path is the full path to the qpextract executable.
	Path string
}

// QPMatrix is the rectangular frame-by-QP histogram matrix. Row i holds
// frame i's counts; column j counts uses of QP value Bounds.MinMinQP+j.
// The matrix is built once and never mutated afterwards.
type QPMatrix struct {
	// Bounds is the QP range covered by the columns, after any span
	// widening applied during construction.
	Bounds QPBounds

	// Rows holds one row per frame, each of length Bounds.Span().
	Rows [][]int
}

// QPRecord is one coding block's telemetry as read from a qp_coord line:
// its QP value and square size at top-left pixel coordinate (X, Y).
type QPRecord struct {
	// X is the horizontal pixel coordinate of the block origin.
	X int

	// Y is the vertical pixel coordinate of the block origin.
	Y int

	// QP is the quantization parameter applied to the block.
	QP int

	// BlockSize is the side of the square block in pixels.
	BlockSize int
}
