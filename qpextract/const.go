// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer. It includes tools for running the analyzer,
// parsing its per-block and per-frame QP telemetry, and normalizing the parsed
// distributions into a rectangular frame-by-QP matrix.
package qpextract

import (
	"errors"
	"fmt"
	"time"
)

// Private constants (alphabetical)
const (
	// defaultTimeout is the standard timeout for qpextract operations.
	// Operations that exceed this timeout will be terminated.
	defaultTimeout = 10 * time.Minute

	// errorPrefix is used as a prefix for all error messages from this package.
	// This ensures consistent error formatting across the package.
	errorPrefix = "qpextract: "

	// maxLookupShift is the last alignment shift probed by LookupQP.
	// Shifting by 5 aligns a coordinate to a 32-pixel grid.
	maxLookupShift = 5

	// minLookupShift is the first alignment shift probed by LookupQP.
	// Shifting by 3 aligns a coordinate to an 8-pixel grid, the smallest
	// coding block size.
	minLookupShift = 3
)

// Public constants (alphabetical)
const (
	// IFrameThreshold is the maximum I-frame fraction for which the frame
	// axis switches from default ticks to explicit I-frame positions.
	IFrameThreshold = 0.05

	// MinQPSpan is the minimum number of distinct QP columns the normalized
	// matrix will contain. Narrower raw bounds are widened by one QP value
	// on each side before the matrix is built.
	MinQPSpan = 4

	// UnsetQP is the sentinel value marking QP bounds that have not yet
	// observed any frame.
	UnsetQP = -1
)

// Public variables (alphabetical)

// ErrNoData indicates that the telemetry report contained no valid records.
// It is fatal: no matrix can be built and no visualization should be attempted.
var ErrNoData = errors.New(errorPrefix + "no QP data found in report")

// Public functions (alphabetical)

// FormatError creates a standardized error message with the package prefix.
// It ensures all errors from this package have a consistent format and can be
// easily identified as originating from the qpextract package.
func FormatError(format string, args ...interface{}) error {
	return fmt.Errorf(errorPrefix+format, args...)
}

// GetDefaultTimeout returns the standard timeout duration for qpextract runs.
// Applications can use this when creating contexts for Extractor.Run.
func GetDefaultTimeout() time.Duration {
	return defaultTimeout
}
