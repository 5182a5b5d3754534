// Package render turns a normalized frame-by-QP matrix into a heatmap image.
// The X axis carries frame numbers, the Y axis carries QP values, and cell
// intensity shows how many coding blocks of a frame used each QP value, on a
// logarithmic scale so rare QP values stay visible next to dominant ones.
package render

import (
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/qphound/qphound/qpextract"
)

// Private constants (alphabetical)
const (
	// heatmapHeight is the rendered image height.
	heatmapHeight = 10 * vg.Centimeter

	// heatmapWidth is the rendered image width.
	heatmapWidth = 24 * vg.Centimeter

	// paletteShades is the number of gray levels in the intensity palette.
	paletteShades = 64
)

// Private types (alphabetical)

// grayscale is a white-to-dark palette: absent QP values render white, the
// most common ones render nearly black.
type grayscale int

// Colors returns the palette shades from lightest to darkest.
func (g grayscale) Colors() []color.Color {
	colors := make([]color.Color, int(g))
	for i := range colors {
		v := uint8(255 - i*255/(int(g)-1))
		colors[i] = color.Gray{Y: v}
	}
	return colors
}

// integerTicks is a plot.Ticker that places major ticks on whole values only,
// thinning them to a readable count for wide ranges.
type integerTicks struct{}

// Ticks implements plot.Ticker for integerTicks.
func (integerTicks) Ticks(min, max float64) []plot.Tick {
	lo := int(math.Ceil(min))
	hi := int(math.Floor(max))
	if hi < lo {
		return nil
	}

	// Walk the 1-2-5 progression until at most ~10 ticks remain.
	steps := []int{1, 2, 5}
	magnitude := 1
	index := 0
	for (hi-lo)/(steps[index]*magnitude) > 10 {
		index++
		if index == len(steps) {
			index = 0
			magnitude *= 10
		}
	}
	step := steps[index] * magnitude

	var ticks []plot.Tick
	for v := lo; v <= hi; v += step {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

// matrixGrid adapts a QPMatrix to the plotter.GridXYZ interface. Columns are
// frames, rows are QP values, and Z is the log-compressed block count.
type matrixGrid struct {
	matrix *qpextract.QPMatrix
}

// Dims returns the grid dimensions: one column per frame, one row per QP.
func (g matrixGrid) Dims() (c, r int) {
	return g.matrix.NumFrames(), g.matrix.NumQP()
}

// X returns the frame index of column c.
func (g matrixGrid) X(c int) float64 {
	return float64(c)
}

// Y returns the QP value of row r.
func (g matrixGrid) Y(r int) float64 {
	return float64(g.matrix.ColumnQP(r))
}

// Z returns the log-compressed count for frame c at QP row r. The log keeps
// frames dominated by one QP value from washing out the rest of the column.
func (g matrixGrid) Z(c, r int) float64 {
	return math.Log10(1 + float64(g.matrix.Rows[c][r]))
}

// Private functions (alphabetical)

// iframeTicks builds explicit frame-axis ticks at the given I-frame indices.
func iframeTicks(positions []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, 0, len(positions))
	for _, pos := range positions {
		ticks = append(ticks, plot.Tick{Value: float64(pos), Label: strconv.Itoa(pos)})
	}
	return plot.ConstantTicks(ticks)
}

// Public functions (alphabetical)

// Heatmap builds the QP distribution heatmap for a normalized matrix. The
// axis decision controls the frame axis: explicit ticks at I-frame positions
// when I-frames are rare, default integer ticks otherwise. The axis limits
// always cover the full matrix regardless of where the ticks fall.
func Heatmap(matrix *qpextract.QPMatrix, decision qpextract.AxisDecision) (*plot.Plot, error) {
	if matrix == nil || matrix.NumFrames() == 0 {
		return nil, qpextract.ErrNoData
	}

	p := plot.New()
	p.Title.Text = "QP distribution"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "QP"

	heatmap := plotter.NewHeatMap(matrixGrid{matrix: matrix}, grayscale(paletteShades))
	heatmap.Min = 0
	p.Add(heatmap)

	// Pin the limits to the cell edges before choosing tick positions, so
	// sparse I-frame ticks cannot shrink the visible range.
	p.X.Min = -0.5
	p.X.Max = float64(matrix.NumFrames()) - 0.5
	p.Y.Min = float64(matrix.Bounds.MinMinQP) - 0.5
	p.Y.Max = float64(matrix.Bounds.MaxMaxQP) + 0.5

	if decision.UseIFrameTicks {
		p.X.Tick.Marker = iframeTicks(decision.IFramePositions)
	} else {
		p.X.Tick.Marker = integerTicks{}
	}
	p.Y.Tick.Marker = integerTicks{}

	return p, nil
}

// SavePNG renders the plot as a PNG image at the given path.
func SavePNG(p *plot.Plot, path string) error {
	return p.Save(heatmapWidth, heatmapHeight, path)
}

// WritePNG renders the plot as a PNG image to the given writer. It is used
// when the output path is standard output rather than a file.
func WritePNG(p *plot.Plot, w io.Writer) error {
	writer, err := p.WriterTo(heatmapWidth, heatmapHeight, "png")
	if err != nil {
		return err
	}
	_, err = writer.WriteTo(w)
	return err
}
