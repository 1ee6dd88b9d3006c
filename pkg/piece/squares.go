package piece

import (
	"math"
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Squares draws a grid of nested square outlines. Each inset rotates about
// its own anchor by the cell's row+column angle, and the channel ramps are
// logistic curves over the grid position, with a gaussian kick on blue.
// The palette parameter is accepted but unused: the colors are computed.
var Squares = &Piece{
	Name:      "squares",
	Summary:   "rotated concentric square outlines on a logistic color grid",
	FrameW:    900,
	FrameH:    900,
	Normalize: squaresDefaults,
	Build:     buildSquares,
}

func squaresDefaults(p Params) Params {
	p = sharedDefaults(p)
	if p.Rows == 0 {
		p.Rows = 12
	}
	if p.Cols == 0 {
		p.Cols = 12
	}
	if p.SquareSize == 0 {
		p.SquareSize = 5
	}
	if p.Gap == 0 {
		p.Gap = 0.1
	}
	if p.Stroke == 0 {
		p.Stroke = 1
	}
	if p.Alpha == 0 {
		p.Alpha = 1
	}
	if p.Palette == "" {
		p.Palette = palette.Default
	}
	return p
}

func buildSquares(p Params, rng *rand.Rand) (*scene.Scene, error) {
	p = squaresDefaults(p)

	pitch := p.SquareSize + p.Gap
	insets := int(p.SquareSize)
	rects := make([]scene.Rect, 0, p.Rows*p.Cols*insets)
	for r := range p.Rows {
		for c := range p.Cols {
			cx := float64(c) * pitch
			cy := float64(r) * pitch
			angle := float64(c + r)
			for i := range insets {
				fi := float64(i)
				color := scene.Color{
					R: logistic(float64(r+1) * (10*fi + 1) / p.SquareSize),
					G: logistic(float64(c+1) * (0.05*fi + 1) / p.SquareSize),
					B: logistic(float64(r+1)/float64(c+1)*(0.01*fi+1)/p.SquareSize + rng.NormFloat64()*0.4),
					A: p.Alpha,
				}
				rects = append(rects, scene.Rect{
					Pos:    scene.Vec2{X: cx + fi/2, Y: cy + fi/2},
					W:      p.SquareSize - fi,
					H:      p.SquareSize - fi,
					Angle:  angle,
					Stroke: p.Stroke,
					Color:  color,
				})
			}
		}
	}

	bounds := &scene.Bounds{
		MinX: -pitch,
		MinY: -pitch,
		MaxX: float64(p.Cols+1) * pitch,
		MaxY: float64(p.Rows+1) * pitch,
	}
	return &scene.Scene{
		Piece:      "squares",
		Seed:       p.Seed,
		Background: scene.White,
		Panels:     []scene.Panel{{Rects: rects, Bounds: bounds}},
	}, nil
}

// logistic squashes the whole real line into (0, 1).
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
