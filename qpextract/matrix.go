// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer, including tools for normalizing parsed
// per-frame QP histograms into a rectangular frame-by-QP matrix.
package qpextract

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Public functions (alphabetical)

// NewQPMatrix stacks a list of variable-width per-frame histograms into one
// rectangular matrix whose columns cover the global QP bounds. Each frame's
// counts are placed at their QP offset and padded with zeros on both sides,
// so no counts are gained or lost. When the raw bounds would yield fewer than
// MinQPSpan columns, both ends are widened by one QP value first; the wider
// span only improves visualization and does not change any counts.
//
// An empty frame list or unset bounds yields ErrNoData. A negative padding
// count means the bounds do not actually cover every frame, which is an
// upstream bug and aborts construction; a partial matrix is never returned.
func NewQPMatrix(frames []HistogramFrame, bounds QPBounds) (*QPMatrix, error) {
	if len(frames) == 0 || !bounds.IsSet() {
		return nil, ErrNoData
	}

	if bounds.MinMinQP > bounds.MaxMaxQP-(MinQPSpan-1) {
		bounds.MinMinQP--
		bounds.MaxMaxQP++
	}

	matrix := &QPMatrix{
		Bounds: bounds,
		Rows:   make([][]int, 0, len(frames)),
	}

	for i, frame := range frames {
		left := frame.MinQP - bounds.MinMinQP
		right := bounds.MaxMaxQP - frame.MinQP - len(frame.Values) + 1
		if left < 0 || right < 0 {
			return nil, FormatError("frame %d QP range [%d:%d] exceeds bounds [%d:%d]",
				i+1, frame.MinQP, frame.MaxQP(), bounds.MinMinQP, bounds.MaxMaxQP)
		}

		row := make([]int, bounds.Span())
		copy(row[left:], frame.Values)
		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix, nil
}

// Public methods (alphabetical)

// ColumnQP returns the QP value counted by column j.
func (m *QPMatrix) ColumnQP(j int) int {
	return m.Bounds.MinMinQP + j
}

// MaxCount returns the largest count anywhere in the matrix.
func (m *QPMatrix) MaxCount() int {
	var max int
	for _, row := range m.Rows {
		for _, count := range row {
			if count > max {
				max = count
			}
		}
	}
	return max
}

// NumFrames returns the number of rows (frames) in the matrix.
func (m *QPMatrix) NumFrames() int {
	return len(m.Rows)
}

// NumQP returns the number of columns (distinct QP values) in the matrix.
func (m *QPMatrix) NumQP() int {
	return m.Bounds.Span()
}

// WriteCSV writes the matrix in CSV form: a header row naming the frame
// column and each QP value, then one row per frame with its 1-based frame
// number followed by the per-QP counts.
func (m *QPMatrix) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, m.NumQP()+1)
	header = append(header, "frame")
	for j := 0; j < m.NumQP(); j++ {
		header = append(header, "qp"+strconv.Itoa(m.ColumnQP(j)))
	}
	if err := writer.Write(header); err != nil {
		return FormatError("error writing CSV header: %w", err)
	}

	for i, row := range m.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.Itoa(i+1))
		for _, count := range row {
			record = append(record, strconv.Itoa(count))
		}
		if err := writer.Write(record); err != nil {
			return FormatError("error writing CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return FormatError("error flushing CSV output: %w", err)
	}
	return nil
}
