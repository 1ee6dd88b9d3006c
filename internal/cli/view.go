package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // decode the rendered artifact
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/piece"
	"github.com/plotfield/plotfield/pkg/pipeline"
	"github.com/plotfield/plotfield/pkg/preset"
)

// viewCommand creates the view command, which renders a piece into a desktop
// window instead of a file. Esc or Q closes the window; Space re-renders
// with the next seed.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		presetName string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:       "view <piece>",
		Short:     "Render a piece into a desktop window",
		Long:      "Render a piece and display it in a window. Esc or Q closes it; Space renders the next seed.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: piece.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Piece = args[0]
			opts.Formats = []string{pipeline.FormatPNG}
			if presetName != "" {
				if err := preset.Apply(presetName, &opts); err != nil {
					return err
				}
			}
			return c.runView(cmd.Context(), opts, noCache)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed (default 42)")
	f.IntVar(&opts.Width, "width", 0, "frame width in pixels (default: the piece's preferred size)")
	f.IntVar(&opts.Height, "height", 0, "frame height in pixels (default: the piece's preferred size)")
	f.StringVar(&opts.Palette, "palette", "", "color palette: "+strings.Join(palette.Names(), ", "))
	f.Float64Var(&opts.Alpha, "alpha", 0, "mark opacity in (0, 1] (default: per piece)")
	f.BoolVar(&opts.Axes, "axes", false, "draw axes instead of hiding them")
	f.StringVarP(&presetName, "preset", "p", "", "apply a named preset (see 'plotfield presets')")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runView renders once, then hands the image to an ebiten window.
func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	img, seed, err := renderViewImage(ctx, runner, opts)
	if err != nil {
		return err
	}
	prog.done("view ready")

	v := &viewer{
		ctx:    ctx,
		runner: runner,
		opts:   opts,
		seed:   seed,
		img:    ebiten.NewImageFromImage(img),
		w:      img.Bounds().Dx(),
		h:      img.Bounds().Dy(),
	}
	ebiten.SetWindowTitle(fmt.Sprintf("%s — %s (seed %d)", appName, opts.Piece, seed))
	ebiten.SetWindowSize(v.w, v.h)
	return ebiten.RunGame(v)
}

// renderViewImage runs the pipeline for a PNG and decodes it, returning the
// image and the normalized seed that produced it.
func renderViewImage(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (image.Image, uint64, error) {
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	img, _, err := image.Decode(bytes.NewReader(result.Artifacts[pipeline.FormatPNG]))
	if err != nil {
		return nil, 0, fmt.Errorf("decode rendered png: %w", err)
	}
	return img, result.Scene.Seed, nil
}

// viewer implements ebiten.Game and displays a single rendered frame.
type viewer struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options
	seed   uint64
	img    *ebiten.Image
	w, h   int
}

func (v *viewer) Update() error {
	if err := v.ctx.Err(); err != nil {
		return err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.opts.Seed = v.seed + 1
		img, seed, err := renderViewImage(v.ctx, v.runner, v.opts)
		if err != nil {
			return err
		}
		v.seed = seed
		v.img = ebiten.NewImageFromImage(img)
		ebiten.SetWindowTitle(fmt.Sprintf("%s — %s (seed %d)", appName, v.opts.Piece, v.seed))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.img, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.w, v.h
}
