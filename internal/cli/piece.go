package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
	"github.com/plotfield/plotfield/pkg/preset"
)

// pieceCommand creates the subcommand that renders one piece. Every piece
// shares the seed/frame/format/preset flags; the parameter flags are the
// piece's own knobs. Flags the user leaves untouched fall through to the
// preset (if any) and then to the piece defaults.
func (c *CLI) pieceCommand(pc *piece.Piece) *cobra.Command {
	var (
		formatsStr string
		output     string
		presetName string
		noCache    bool
	)
	opts := pipeline.Options{Piece: pc.Name}

	cmd := &cobra.Command{
		Use:   pc.Name,
		Short: "Render " + pc.Summary,
		Long: fmt.Sprintf(`Render %s.

The output defaults to %s.<format> in the working directory; use --output to
pick a different path. Results are cached locally, so re-rendering the same
parameters is instant. The same parameters and seed always produce the same
image.`, pc.Summary, pc.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if presetName != "" {
				if err := preset.Apply(presetName, &opts); err != nil {
					return err
				}
			}
			return c.runPiece(cmd.Context(), &opts, output, noCache)
		},
	}

	addSharedFlags(cmd, &opts, &formatsStr, &output, &presetName, &noCache)
	addPieceFlags(cmd, pc.Name, &opts)

	return cmd
}

// addSharedFlags registers the flags every piece command accepts.
func addSharedFlags(cmd *cobra.Command, opts *pipeline.Options, formatsStr, output, presetName *string, noCache *bool) {
	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed (default 42)")
	f.IntVar(&opts.Width, "width", 0, "frame width in pixels (default: the piece's preferred size)")
	f.IntVar(&opts.Height, "height", 0, "frame height in pixels (default: the piece's preferred size)")
	f.StringVarP(formatsStr, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	f.StringVarP(output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVar(&opts.Palette, "palette", "", "color palette: "+strings.Join(palette.Names(), ", "))
	f.Float64Var(&opts.Alpha, "alpha", 0, "mark opacity in (0, 1] (default: per piece)")
	f.BoolVar(&opts.Axes, "axes", false, "draw axes instead of hiding them")
	f.StringVarP(presetName, "preset", "p", "", "apply a named preset (see 'plotfield presets')")
	f.BoolVar(noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute cached results (fresh output is written back)")
}

// addPieceFlags registers the parameter flags specific to one piece.
func addPieceFlags(cmd *cobra.Command, name string, opts *pipeline.Options) {
	f := cmd.Flags()
	switch name {
	case "distort":
		f.IntVar(&opts.GridW, "grid-w", 0, "lattice width in points (default 150)")
		f.IntVar(&opts.GridH, "grid-h", 0, "lattice height in points (default 150)")
		f.IntVar(&opts.Panels, "panels", 0, "number of panels in the sweep (default 6)")
		f.Float64Var(&opts.SweepFrom, "sweep-from", 0, "distortion coefficient of the first panel (default 0.2)")
		f.Float64Var(&opts.SweepTo, "sweep-to", 0, "distortion coefficient of the last panel (default -0.3)")
		f.Float64Var(&opts.B, "b", 0, "cos(y) warp coefficient (default 2)")
		f.Float64Var(&opts.C, "c", 0, "sin(x/y) warp coefficient (default 1)")
		f.Float64Var(&opts.D, "d", 0, "sin(y) warp coefficient (default 0.4)")
		f.Float64Var(&opts.PointSize, "point-size", 0, "point radius in pixels (default 1)")
		f.BoolVar(&opts.Colorize, "colorize", false, "derive point colors from their coordinates")
		addWarpFlags(cmd, opts)
	case "flow":
		f.Float64Var(&opts.FieldW, "field-w", 0, "field width in data units (default 10)")
		f.Float64Var(&opts.FieldH, "field-h", 0, "field height in data units (default 10)")
		f.Float64Var(&opts.Resolution, "resolution", 0, "grid spacing of the vector field (default 0.1)")
		f.IntVar(&opts.Neighbourhood, "neighbourhood", 0, "vector neighbourhood size, min 2 (default 3)")
		f.StringVar(&opts.Decay, "decay", "", "distance decay: inv_linear (default), inv_quadratic, inv_cubic")
		f.IntVar(&opts.Particles, "particles", 0, "number of particles (default 120)")
		f.IntVar(&opts.Lifespan, "lifespan", 0, "steps each particle lives (default 400)")
		f.Float64Var(&opts.StepSize, "step-size", 0, "distance per step (default 0.05)")
		f.Float64Var(&opts.Stroke, "stroke", 0, "trail stroke width in pixels (default 0.8)")
		f.BoolVar(&opts.FieldOnly, "field-only", false, "draw the vector field quiver instead of trails")
		f.BoolVar(&opts.NoiseField, "noise-field", false, "initialize the field from simplex noise")
	case "strokes":
		f.IntVar(&opts.Nodes, "nodes", 0, "control nodes per stroke (default 8)")
		f.IntVar(&opts.Strokes, "strokes", 0, "number of strokes (default 500)")
		f.IntVar(&opts.Samples, "samples", 0, "samples per spline (default 100)")
		f.Float64Var(&opts.Stroke, "stroke", 0, "stroke width in pixels (default 0.1)")
	case "squares":
		f.IntVar(&opts.Rows, "rows", 0, "grid rows (default 12)")
		f.IntVar(&opts.Cols, "cols", 0, "grid columns (default 12)")
		f.Float64Var(&opts.SquareSize, "square-size", 0, "outer square size in data units (default 5)")
		f.Float64Var(&opts.Gap, "gap", 0, "gap between cells (default 0.1)")
		f.Float64Var(&opts.Stroke, "stroke", 0, "outline width in pixels (default 1)")
	case "waves":
		f.Float64Var(&opts.Min, "min", 0, "mesh start (default -10)")
		f.Float64Var(&opts.Max, "max", 0, "mesh end (default 10)")
		f.Float64Var(&opts.Step, "step", 0, "mesh step (default 0.05)")
		f.Float64Var(&opts.PointSize, "point-size", 0, "point radius in pixels (default 0.6)")
		f.BoolVar(&opts.Colorize, "colorize", false, "derive point colors from their coordinates")
		addWarpFlags(cmd, opts)
	}
}

// addWarpFlags registers the optional point-warp flags shared by the lattice
// pieces (distort, waves).
func addWarpFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&opts.JitterAmount, "jitter", 0, "gaussian jitter amount")
	f.Float64Var(&opts.ScaleFactor, "scale", 0, "scale points around the origin")
	f.Float64Var(&opts.NoiseAmp, "noise-amp", 0, "simplex displacement amplitude")
	f.Float64Var(&opts.NoiseFreq, "noise-freq", 0, "simplex displacement frequency")
	f.BoolVar(&opts.PolarRemap, "polar", false, "remap points to (radius, angle)")
	f.StringVar(&opts.Script, "script", "", "Lua warp script file (must define warp(x, y))")
}

// runPiece executes the pipeline for opts and writes the artifacts.
func (c *CLI) runPiece(ctx context.Context, opts *pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Piece))
	spinner.Start()

	result, err := runner.Execute(ctx, *opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Piece, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Piece)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.MarkCount, result.Stats.PanelCount,
		result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Vary it", fmt.Sprintf("%s %s --seed %d", appName, opts.Piece, result.Scene.Seed+1))

	return nil
}

// outputPath derives the file path for one format. With no --output the file
// is <piece>.<format> in the working directory. A single-format render with
// --output uses it verbatim; with several formats the output's own format
// extension (if any) is stripped and each format appends its own.
func outputPath(output, pieceName, format string, single bool) string {
	if output == "" {
		return pieceName + "." + format
	}
	if single {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

// writeArtifacts writes each rendered format to disk and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, pieceName, output string) ([]string, error) {
	single := len(formats) == 1
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, pieceName, format, single)
		out, err := openOutput(path)
		if err != nil {
			return nil, err
		}
		_, err = out.Write(data)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// nopCloser wraps an io.Writer with a no-op Close method, making os.Stdout
// usable where a WriteCloser is needed.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
