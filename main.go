// Package main provides the entry point for the qphound application.
// It drives the qpextract bitstream analyzer over an HEVC file, parses the
// per-frame QP telemetry, and renders the QP distribution as a heatmap image.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gertd/go-pluralize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/qphound/qphound/qpextract"
	"github.com/qphound/qphound/render"
)

// Private constants (alphabetical)
// None currently defined

// Public constants (alphabetical)
// None currently defined

// Private variables (alphabetical)
// None currently defined

// Public variables (alphabetical)

// BuildDate contains the date when the binary was built.
// This value is set during build using ldflags.
var BuildDate = "unknown"

// Commit contains the git commit hash that the binary was built from.
// This value is set during build using ldflags.
var Commit = "unknown"

// Version contains the current version of the application.
// This value can be overridden during build using ldflags:
// go build -ldflags="-X 'main.Version=v1.0.0'"
var Version = "Development Version"

// Private functions (alphabetical)

// analyzeCoordStream parses a coordinate-stream report and prints a per-frame
// summary, optionally resolving probe coordinates against every parsed frame.
func analyzeCoordStream(report string, probes []string) error {
	regularStyle := color.New(color.Reset)
	valueStyle := color.New(color.Bold)
	summaryStyle := color.New(color.FgCyan, color.Bold)

	frames := qpextract.ParseCoordStream(report)
	if len(frames) == 0 {
		return fmt.Errorf("no qp_coord records found: input is not a valid coordinate-stream report")
	}

	pluralizeClient := pluralize.NewClient()

	summaryStyle.Println("\n🧱 COORDINATE-STREAM SUMMARY")
	regularStyle.Println("----------------------------")
	regularStyle.Printf("🎞️ %d ", len(frames))
	valueStyle.Println(pluralizeClient.Pluralize("frame", len(frames), false))

	for i := range frames {
		frame := &frames[i]
		regularStyle.Printf("  Frame %d:\t%d %s, avg QP %.2f, avg block %.1f px\n",
			frame.FrameNumber,
			len(frame.Blocks),
			pluralizeClient.Pluralize("block", len(frame.Blocks), false),
			frame.AverageQP(),
			frame.AverageBlockSize())
	}

	for _, probe := range probes {
		x, y, err := parseProbeArg(probe)
		if err != nil {
			return err
		}

		for i := range frames {
			frame := &frames[i]
			if info, ok := qpextract.LookupQP(x, y, frame.Blocks); ok {
				regularStyle.Printf("🔍 (%d,%d) in frame %d: QP ", x, y, frame.FrameNumber)
				valueStyle.Printf("%d", info.QP)
				regularStyle.Printf(" (%dx%d block)\n", info.Size, info.Size)
			} else {
				regularStyle.Printf("🔍 (%d,%d) in frame %d: no covering block\n",
					x, y, frame.FrameNumber)
			}
		}
	}

	return nil
}

// analyzeDistro parses a histogram-line report, normalizes it into the
// frame-by-QP matrix, and writes the heatmap (and optional CSV export).
func analyzeDistro(report string, outfile string, csvPath string) error {
	regularStyle := color.New(color.Reset)
	valueStyle := color.New(color.Bold)
	warnStyle := color.New(color.FgYellow)
	successStyle := color.New(color.FgGreen)

	parsed := qpextract.ParseDistroReport(report)

	// Surface recoverable line problems without aborting the run
	for _, diag := range parsed.Diagnostics {
		warnStyle.Printf("⚠️ line %d: %s (line skipped)\n", diag.Line, diag.Message)
	}

	if parsed.Empty() {
		return fmt.Errorf("no qp_distro found: input should be a valid h265 file")
	}

	matrix, err := qpextract.NewQPMatrix(parsed.Frames, parsed.Bounds)
	if err != nil {
		return err
	}

	decision := qpextract.DecideFrameAxis(parsed.SliceTypes)

	pluralizeClient := pluralize.NewClient()
	regularStyle.Printf("🎞️ Parsed ")
	valueStyle.Printf("%d %s", matrix.NumFrames(),
		pluralizeClient.Pluralize("frame", matrix.NumFrames(), false))
	regularStyle.Printf(" (%d %s), QP range ", len(decision.IFramePositions),
		pluralizeClient.Pluralize("I-frame", len(decision.IFramePositions), false))
	valueStyle.Printf("%s\n", formatQPRange(matrix.Bounds))

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("error creating CSV file: %w", err)
		}
		defer file.Close()

		if err := matrix.WriteCSV(file); err != nil {
			return err
		}
		successStyle.Printf("✅ Matrix CSV saved to %s\n", csvPath)
	}

	heatmap, err := render.Heatmap(matrix, decision)
	if err != nil {
		return err
	}

	if outfile == "" || outfile == "-" {
		return render.WritePNG(heatmap, os.Stdout)
	}
	if err := render.SavePNG(heatmap, outfile); err != nil {
		return fmt.Errorf("error saving heatmap: %w", err)
	}
	successStyle.Printf("✅ Heatmap saved to %s\n", outfile)
	return nil
}

// formatQPRange formats the chosen QP bounds for display.
func formatQPRange(bounds qpextract.QPBounds) string {
	return fmt.Sprintf("%d-%d", bounds.MinMinQP, bounds.MaxMaxQP)
}

// parseProbeArg parses a --probe argument of the form "x,y" into pixel
// coordinates. Both coordinates must be non-negative integers.
func parseProbeArg(arg string) (int, int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid probe coordinate %q: expected x,y", arg)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || x < 0 {
		return 0, 0, fmt.Errorf("invalid probe coordinate %q: bad x value", arg)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || y < 0 {
		return 0, 0, fmt.Errorf("invalid probe coordinate %q: bad y value", arg)
	}

	return x, y, nil
}

// runAnalyzer executes qpextract against the input file while showing an
// indeterminate spinner, since the analyzer gives no progress feedback of its
// own. It returns the captured telemetry report.
func runAnalyzer(ctx context.Context, extractor *qpextract.Extractor, filePath string) (string, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("🔬 Extracting QP telemetry"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	report, err := extractor.Run(ctx, filePath)
	close(done)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	return report, err
}

// versionPrinter prints the version banner with build metadata.
func versionPrinter(c *cli.Context) {
	summaryStyle := color.New(color.FgCyan, color.Bold)
	valueStyle := color.New(color.Bold)
	regularStyle := color.New(color.Reset)

	summaryStyle.Printf("📊 QPHound %s\n", Version)
	regularStyle.Printf("  🛠️ Build date: ")
	valueStyle.Printf("%s\n", BuildDate)
	regularStyle.Printf("  🔍 Commit: ")
	valueStyle.Printf("%s\n", Commit)
}

// Public functions (alphabetical)

// analyzeCommand implements the default command which analyzes an HEVC file.
// It locates qpextract, runs it over the input, and dispatches the captured
// telemetry to the selected parser and output stage.
func analyzeCommand(c *cli.Context) error {
	valueStyle := color.New(color.Bold)
	regularStyle := color.New(color.Reset)
	errorStyle := color.New(color.FgRed)

	// Get the file path from the first argument
	if c.NArg() < 1 {
		errorStyle.Printf("❌ Error: missing required argument: INPUT_FILE\n\n")
		regularStyle.Printf("Usage: %s [options] INPUT_FILE [OUTPUT_FILE]\n", c.App.Name)
		regularStyle.Printf("Run '%s --help' for more information.\n", c.App.Name)
		return fmt.Errorf("missing required argument: INPUT_FILE")
	}
	filePath := c.Args().Get(0)
	outfile := c.Args().Get(1)

	// Convert to absolute path
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", absPath)
	}

	// Find the qpextract analyzer
	info, err := qpextract.DetectQPExtract(c.String("qpextract"))
	if err != nil {
		return fmt.Errorf("error finding qpextract: %w", err)
	}
	if !info.Installed {
		return fmt.Errorf("cannot find qpextract binary; use the --qpextract option")
	}

	regularStyle.Printf("🔧 Using qpextract at ")
	valueStyle.Printf("%s\n", info.Path)

	extractor, err := qpextract.NewExtractor(info)
	if err != nil {
		return fmt.Errorf("error creating extractor: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), qpextract.GetDefaultTimeout())
	defer cancel()

	report, err := runAnalyzer(ctx, extractor, absPath)
	if err != nil {
		return err
	}

	if c.Bool("coord") {
		return analyzeCoordStream(report, c.StringSlice("probe"))
	}
	return analyzeDistro(report, outfile, c.String("csv"))
}

// main is the entry point of the application.
// It parses command-line arguments, validates input, and starts the analysis.
func main() {
	// Override the default version printer
	cli.VersionPrinter = versionPrinter

	// Create a new CLI app
	app := &cli.App{
		Name:  "qphound",
		Usage: "A tool for visualizing per-frame QP distributions of HEVC files",
		Description: "QPHound runs the qpextract bitstream analyzer over an HEVC file " +
			"(Annex B format), parses its per-frame QP telemetry, and renders the " +
			"QP distribution over time as a heatmap image. When I-frames are rare, " +
			"the frame axis marks their positions instead of constant ticks.",
		Version:   Version,
		Action:    analyzeCommand,
		ArgsUsage: "INPUT_FILE [OUTPUT_FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "qpextract",
				Usage: "use `QPEXTRACT_PATH` to access the qpextract analyzer",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "also export the normalized QP matrix as CSV to `CSV_PATH`",
			},
			&cli.BoolFlag{
				Name:  "coord",
				Usage: "treat the telemetry as a coordinate stream and print a per-frame summary",
			},
			&cli.StringSliceFlag{
				Name:  "probe",
				Usage: "with --coord, resolve pixel coordinate `X,Y` to its coding block (repeatable)",
			},
		},
	}

	// Run the application
	if err := app.Run(os.Args); err != nil {
		errorStyle := color.New(color.FgRed)
		errorStyle.Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}
}
