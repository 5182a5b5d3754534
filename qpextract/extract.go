// Package qpextract provides functionality for detecting and working with the
// qpextract HEVC bitstream analyzer, including running it as a subprocess and
// capturing its telemetry output.
package qpextract

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Public functions (alphabetical)

// NewExtractor creates a new Extractor for the provided qpextract
// installation. It validates that the analyzer was actually found before
// creating the extractor; an uninstalled analyzer is an error.
func NewExtractor(info *QPExtractInfo) (*Extractor, error) {
	if info == nil || !info.Installed {
		return nil, FormatError("qpextract not available")
	}

	return &Extractor{QPExtractPath: info.Path}, nil
}

// Public methods (alphabetical)

// Run executes the analyzer against an HEVC bitstream file (Annex B format)
// and returns its full standard output, which is the telemetry report the
// parsers in this package consume. The call blocks until the analyzer exits;
// the context can cancel a run that takes too long. A non-zero exit status or
// any I/O failure is fatal to the whole pipeline and is returned with the
// analyzer's captured stderr, which is where qpextract explains bitstream
// problems.
//
// This method is thread-safe and can be called concurrently for different
// files.
func (e *Extractor) Run(ctx context.Context, filePath string) (string, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.QPExtractPath == "" {
		return "", FormatError("qpextract not available")
	}

	cmd := exec.CommandContext(ctx, e.QPExtractPath, filePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", FormatError("qpextract failed: %w: %s", err, msg)
		}
		return "", FormatError("qpextract failed: %w", err)
	}

	return stdout.String(), nil
}
