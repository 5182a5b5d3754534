// Package render turns a normalized frame-by-QP matrix into a heatmap image.
package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/qphound/qphound/qpextract"
)

// RenderTestSuite defines the test suite for heatmap rendering.
type RenderTestSuite struct {
	suite.Suite
	matrix  *qpextract.QPMatrix // Small normalized matrix shared by the tests
	tempDir string              // Temporary directory for image output
}

// SetupSuite builds a small two-frame matrix and a temporary output
// directory.
func (s *RenderTestSuite) SetupSuite() {
	matrix, err := qpextract.NewQPMatrix([]qpextract.HistogramFrame{
		{MinQP: 2, Values: []int{0, 5, 3}},
		{MinQP: 1, Values: []int{2, 0, 1}},
	}, qpextract.QPBounds{MinMinQP: 1, MaxMaxQP: 4})
	require.NoError(s.T(), err, "Failed to build test matrix")
	s.matrix = matrix

	tempDir, err := os.MkdirTemp("", "qphound-render-test")
	require.NoError(s.T(), err, "Failed to create temporary directory")
	s.tempDir = tempDir
}

// TearDownSuite removes the temporary directory.
func (s *RenderTestSuite) TearDownSuite() {
	os.RemoveAll(s.tempDir)
}

// TestHeatmap tests heatmap construction with both tick strategies.
func (s *RenderTestSuite) TestHeatmap() {
	// Default ticks
	p, err := Heatmap(s.matrix, qpextract.AxisDecision{})
	require.NoError(s.T(), err, "Heatmap construction should succeed")
	require.NotNil(s.T(), p, "Plot should not be nil")
	assert.Equal(s.T(), -0.5, p.X.Min, "X axis should start at the first cell edge")
	assert.Equal(s.T(), 1.5, p.X.Max, "X axis should end at the last cell edge")
	assert.Equal(s.T(), 0.5, p.Y.Min, "Y axis should start below the minimum QP")
	assert.Equal(s.T(), 4.5, p.Y.Max, "Y axis should end above the maximum QP")

	// Explicit I-frame ticks
	decision := qpextract.AxisDecision{UseIFrameTicks: true, IFramePositions: []int{0}}
	p, err = Heatmap(s.matrix, decision)
	require.NoError(s.T(), err, "Heatmap with I-frame ticks should succeed")
	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	require.Len(s.T(), ticks, 1, "One I-frame should yield one tick")
	assert.Equal(s.T(), 0.0, ticks[0].Value, "Tick should sit at the I-frame position")
	assert.Equal(s.T(), "0", ticks[0].Label, "Tick label incorrect")
}

// TestHeatmapNoData verifies that a nil or empty matrix is rejected.
func (s *RenderTestSuite) TestHeatmapNoData() {
	p, err := Heatmap(nil, qpextract.AxisDecision{})
	assert.ErrorIs(s.T(), err, qpextract.ErrNoData, "Nil matrix should yield ErrNoData")
	assert.Nil(s.T(), p, "No plot should be returned for nil matrix")
}

// TestSavePNG renders the heatmap to a file and checks that a non-empty PNG
// was produced.
func (s *RenderTestSuite) TestSavePNG() {
	p, err := Heatmap(s.matrix, qpextract.AxisDecision{})
	require.NoError(s.T(), err, "Heatmap construction should succeed")

	path := filepath.Join(s.tempDir, "heatmap.png")
	require.NoError(s.T(), SavePNG(p, path), "SavePNG should succeed")

	data, err := os.ReadFile(path)
	require.NoError(s.T(), err, "Saved file should be readable")
	assert.NotEmpty(s.T(), data, "Saved file should not be empty")
	assert.True(s.T(), bytes.HasPrefix(data, []byte("\x89PNG")), "Output should be a PNG image")
}

// TestWritePNG renders the heatmap to an in-memory writer, the path used when
// the output file is standard output.
func (s *RenderTestSuite) TestWritePNG() {
	p, err := Heatmap(s.matrix, qpextract.AxisDecision{})
	require.NoError(s.T(), err, "Heatmap construction should succeed")

	var buf bytes.Buffer
	require.NoError(s.T(), WritePNG(p, &buf), "WritePNG should succeed")
	assert.True(s.T(), bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "Output should be a PNG image")
}

// TestMatrixGrid tests the GridXYZ adapter: dimensions, axis values and the
// log compression of counts.
func (s *RenderTestSuite) TestMatrixGrid() {
	grid := matrixGrid{matrix: s.matrix}

	c, r := grid.Dims()
	assert.Equal(s.T(), 2, c, "Grid should have one column per frame")
	assert.Equal(s.T(), 4, r, "Grid should have one row per QP value")

	assert.Equal(s.T(), 0.0, grid.X(0), "First column should be frame 0")
	assert.Equal(s.T(), 1.0, grid.Y(0), "First row should be the minimum QP")
	assert.Equal(s.T(), 4.0, grid.Y(3), "Last row should be the maximum QP")

	assert.Equal(s.T(), 0.0, grid.Z(0, 0), "Zero count should map to zero intensity")
	assert.InDelta(s.T(), 0.77815, grid.Z(0, 2), 1e-4, "Count 5 should map to log10(6)")
}

// TestIntegerTicks tests the whole-value ticker used for both axes.
func (s *RenderTestSuite) TestIntegerTicks() {
	testCases := []struct {
		name          string
		min, max      float64
		expectedCount int
		firstLabel    string
	}{
		{name: "Small_Range", min: -0.5, max: 9.5, expectedCount: 10, firstLabel: "0"},
		{name: "Single_Value", min: 3.5, max: 4.5, expectedCount: 1, firstLabel: "4"},
		{name: "Empty_Range", min: 0.4, max: 0.6, expectedCount: 0},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			ticks := integerTicks{}.Ticks(tc.min, tc.max)
			assert.Len(s.T(), ticks, tc.expectedCount, "Tick count incorrect")
			if tc.expectedCount > 0 {
				assert.Equal(s.T(), tc.firstLabel, ticks[0].Label, "First tick label incorrect")
			}
		})
	}

	// Wide ranges are thinned to a readable count
	ticks := integerTicks{}.Ticks(-0.5, 999.5)
	assert.LessOrEqual(s.T(), len(ticks), 11, "Wide range should be thinned")
	assert.GreaterOrEqual(s.T(), len(ticks), 5, "Thinning should not erase the axis")
}

// TestGrayscalePalette verifies the white-to-dark palette used for cell
// intensity.
func (s *RenderTestSuite) TestGrayscalePalette() {
	colors := grayscale(4).Colors()
	require.Len(s.T(), colors, 4, "Palette size incorrect")

	first, _, _, _ := colors[0].RGBA()
	last, _, _, _ := colors[len(colors)-1].RGBA()
	assert.Greater(s.T(), first, last, "Palette should run from light to dark")
}

// TestRenderSuite runs the render test suite.
// This is the entry point for running all render tests.
func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}
