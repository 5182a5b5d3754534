// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer, including tools for reconstructing
// per-frame coding-block maps from its coordinate-stream telemetry.
package qpextract

import (
	"regexp"
	"strconv"
)

// Private variables (alphabetical)

// coordRecordRegex matches one coordinate-stream telemetry record of the form
// "qp_coord[x,y]: qp, CbSize: size". Any surrounding text is ignored.
var coordRecordRegex = regexp.MustCompile(`qp_coord\[(\d+),(\d+)\]:\s*(\d+),\s*CbSize:\s*(\d+)`)

// Private methods (alphabetical)

// consume feeds one record into the parser state. The first record opens
// frame 1; afterwards a y coordinate strictly below the previous record's y
// signals wraparound to a new raster and opens the next frame. The record is
// stored in the current frame, overwriting any earlier record at the same
// coordinate.
func (p *coordParser) consume(rec QPRecord) {
	if len(p.frames) == 0 {
		p.frames = append(p.frames, CoordFrame{
			FrameNumber: 1,
			Blocks:      make(map[CoordKey]BlockInfo),
		})
		p.lastY = rec.Y
	}

	if rec.Y < p.lastY {
		p.frames = append(p.frames, CoordFrame{
			FrameNumber: p.frames[len(p.frames)-1].FrameNumber + 1,
			Blocks:      make(map[CoordKey]BlockInfo),
		})
	}
	p.lastY = rec.Y

	current := &p.frames[len(p.frames)-1]
	current.Blocks[MakeCoordKey(rec.X, rec.Y)] = BlockInfo{QP: rec.QP, Size: rec.BlockSize}
}

// Public functions (alphabetical)

// LookupQP resolves the pixel coordinate (x, y) to its enclosing coding block
// within one frame's block map. It probes the map at successively coarser
// alignments, snapping the coordinate down to an 8, 16 and finally 32 pixel
// grid; coding-block origins are always aligned to their block size, so the
// first probe that hits returns the covering block. When no probe matches,
// the second return value is false. This is a normal negative result, not an
// error.
func LookupQP(x, y int, blocks map[CoordKey]BlockInfo) (BlockInfo, bool) {
	for shift := minLookupShift; shift <= maxLookupShift; shift++ {
		key := MakeCoordKey((x>>shift)<<shift, (y>>shift)<<shift)
		if info, ok := blocks[key]; ok {
			return info, true
		}
	}
	return BlockInfo{}, false
}

// MakeCoordKey packs a block origin into a single map key.
func MakeCoordKey(x, y int) CoordKey {
	return CoordKey(uint64(uint32(x))<<32 | uint64(uint32(y)))
}

// ParseCoordStream parses the full text of a coordinate-stream telemetry
// report into an ordered list of frames. Records are matched anywhere in the
// input in document order; all non-matching text is ignored. An input with no
// matching records yields an empty list, which callers must treat as a fatal
// "no data" condition before any further processing.
func ParseCoordStream(report string) []CoordFrame {
	var parser coordParser

	for _, match := range coordRecordRegex.FindAllStringSubmatch(report, -1) {
		x, _ := strconv.Atoi(match[1])
		y, _ := strconv.Atoi(match[2])
		qp, _ := strconv.Atoi(match[3])
		size, _ := strconv.Atoi(match[4])

		parser.consume(QPRecord{X: x, Y: y, QP: qp, BlockSize: size})
	}

	return parser.frames
}

// Public methods (alphabetical)

// AverageBlockSize calculates the mean coding-block size of the frame in
// pixels. Returns 0.0 for a frame with no blocks to avoid division by zero.
func (f *CoordFrame) AverageBlockSize() float64 {
	if len(f.Blocks) == 0 {
		return 0.0
	}

	var sum int
	for _, info := range f.Blocks {
		sum += info.Size
	}

	return float64(sum) / float64(len(f.Blocks))
}

// AverageQP calculates the mean QP value of the frame's coding blocks.
// Returns 0.0 for a frame with no blocks to avoid division by zero.
func (f *CoordFrame) AverageQP() float64 {
	if len(f.Blocks) == 0 {
		return 0.0
	}

	var sum int
	for _, info := range f.Blocks {
		sum += info.QP
	}

	return float64(sum) / float64(len(f.Blocks))
}

// X unpacks the horizontal coordinate of the key.
func (k CoordKey) X() int {
	return int(uint32(k >> 32))
}

// Y unpacks the vertical coordinate of the key.
func (k CoordKey) Y() int {
	return int(uint32(k))
}
