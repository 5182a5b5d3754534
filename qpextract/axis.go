// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer, including the policy that picks the
// frame-axis tick strategy for visualization.
package qpextract

// Public functions (alphabetical)

// DecideFrameAxis chooses the frame-axis tick strategy from the slice types
// collected alongside a histogram-line report. When fewer than IFrameThreshold
// of all frames are I-frames, marking their positions explicitly is more
// informative than constant ticks; at or above the threshold, and for reports
// with no slice-type information at all, default ticks apply. The comparison
// is strict, so a report sitting exactly at the threshold keeps default ticks,
// and an empty slice-type list does too.
func DecideFrameAxis(sliceTypes []string) AxisDecision {
	var positions []int
	for i, t := range sliceTypes {
		if t == "I" {
			positions = append(positions, i)
		}
	}

	return AxisDecision{
		UseIFrameTicks:  float64(len(positions)) < IFrameThreshold*float64(len(sliceTypes)),
		IFramePositions: positions,
	}
}
