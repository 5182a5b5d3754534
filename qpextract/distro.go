// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer, including tools for parsing its
// pre-aggregated per-frame QP histogram telemetry.
package qpextract

import (
	"strconv"
	"strings"
)

// Private functions (alphabetical)

// isDistroDelimiter reports whether r separates tokens on a qp_distro line.
// The bracket and brace characters carry no structure beyond token
// separation.
func isDistroDelimiter(r rune) bool {
	return r == '[' || r == ':' || r == ']' || r == '{' || r == '}' || r == ' '
}

// parseDistroLine parses one qp_distro line into a histogram frame. The line
// is tokenized starting from the qp_distro substring; the second and third
// tokens are the declared minimum and maximum QP, all remaining tokens are
// the per-QP counts. A line whose declared range disagrees with its count
// vector, or that fails to parse as integers, is rejected with a diagnostic
// message.
func parseDistroLine(line string) (HistogramFrame, string) {
	start := strings.Index(line, "qp_distro")
	tokens := strings.FieldsFunc(line[start:], isDistroDelimiter)
	if len(tokens) < 3 {
		return HistogramFrame{}, "qp_distro line has no range tokens"
	}

	minQP, err := strconv.Atoi(tokens[1])
	if err != nil {
		return HistogramFrame{}, "invalid min QP: " + tokens[1]
	}
	maxQP, err := strconv.Atoi(tokens[2])
	if err != nil {
		return HistogramFrame{}, "invalid max QP: " + tokens[2]
	}

	values := make([]int, 0, len(tokens)-3)
	for _, token := range tokens[3:] {
		count, err := strconv.Atoi(token)
		if err != nil {
			return HistogramFrame{}, "invalid QP count: " + token
		}
		values = append(values, count)
	}

	if maxQP-minQP+1 != len(values) {
		return HistogramFrame{}, "declared QP range [" + tokens[1] + ":" + tokens[2] +
			"] disagrees with " + strconv.Itoa(len(values)) + " counts"
	}

	return HistogramFrame{MinQP: minQP, Values: values}, ""
}

// Public functions (alphabetical)

// NewQPBounds returns bounds at the unset sentinel, ready to accumulate
// frames.
func NewQPBounds() QPBounds {
	return QPBounds{MinMinQP: UnsetQP, MaxMaxQP: UnsetQP}
}

// ParseDistroReport parses the full text of a histogram-line telemetry
// report. It processes the report line by line: blank lines and lines
// beginning with '#' are comments, a line containing slice_type contributes
// its trailing token to the slice-type list, and a line containing qp_distro
// contributes one histogram frame. Malformed qp_distro lines are discarded
// individually and reported through the result's Diagnostics; they never
// abort the run. A report with zero accepted qp_distro lines yields an empty
// result that callers must treat as a fatal "no data" condition.
func ParseDistroReport(report string) *DistroReport {
	result := &DistroReport{Bounds: NewQPBounds()}

	for number, line := range strings.Split(report, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.Contains(line, "slice_type") {
			fields := strings.Fields(line)
			result.SliceTypes = append(result.SliceTypes, fields[len(fields)-1])
			continue
		}

		if !strings.Contains(line, "qp_distro") {
			continue
		}

		frame, problem := parseDistroLine(line)
		if problem != "" {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Line:    number + 1,
				Message: problem,
			})
			continue
		}

		result.Frames = append(result.Frames, frame)
		result.Bounds.Update(frame.MinQP, frame.MaxQP())
	}

	return result
}

// Public methods (alphabetical)

// Empty reports whether the parse produced no usable QP data.
func (r *DistroReport) Empty() bool {
	return len(r.Frames) == 0
}

// MaxQP returns the largest QP value counted by the frame.
func (f *HistogramFrame) MaxQP() int {
	return f.MinQP + len(f.Values) - 1
}

// Total returns the number of coding blocks counted by the frame.
func (f *HistogramFrame) Total() int {
	var sum int
	for _, count := range f.Values {
		sum += count
	}
	return sum
}

// IsSet reports whether the bounds have observed at least one frame.
func (b *QPBounds) IsSet() bool {
	return b.MinMinQP != UnsetQP && b.MaxMaxQP != UnsetQP
}

// Span returns the number of QP values covered by the bounds, inclusive.
func (b *QPBounds) Span() int {
	return b.MaxMaxQP - b.MinMinQP + 1
}

// Update widens the bounds to cover one frame's QP range. The first update
// sets both ends unconditionally; later updates only move MinMinQP down and
// MaxMaxQP up.
func (b *QPBounds) Update(minQP, maxQP int) {
	if b.MinMinQP == UnsetQP || minQP < b.MinMinQP {
		b.MinMinQP = minQP
	}
	if b.MaxMaxQP == UnsetQP || maxQP > b.MaxMaxQP {
		b.MaxMaxQP = maxQP
	}
}
