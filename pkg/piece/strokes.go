package piece

import (
	"math"
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/scene"
	"github.com/plotfield/plotfield/pkg/spline"
)

// Strokes layers hundreds of hairline spline curves drawn through a shared
// node skeleton. Every stroke re-jitters the nodes and drifts upward, which
// stacks into a brushed, fibrous texture.
var Strokes = &Piece{
	Name:      "strokes",
	Summary:   "layered hairline splines drifting up from shared nodes",
	FrameW:    900,
	FrameH:    900,
	Normalize: strokesDefaults,
	Build:     buildStrokes,
}

func strokesDefaults(p Params) Params {
	p = sharedDefaults(p)
	if p.Nodes == 0 {
		p.Nodes = 8
	}
	if p.Strokes == 0 {
		p.Strokes = 500
	}
	if p.Samples == 0 {
		p.Samples = 100
	}
	if p.Stroke == 0 {
		p.Stroke = 0.1
	}
	if p.Alpha == 0 {
		p.Alpha = 1
	}
	if p.Palette == "" {
		p.Palette = "ink"
	}
	return p
}

func buildStrokes(p Params, rng *rand.Rand) (*scene.Scene, error) {
	p = strokesDefaults(p)
	pal, err := palette.Get(p.Palette)
	if err != nil {
		return nil, err
	}

	// Node skeleton: evenly spaced x with one shared gaussian shift,
	// uniform integer y.
	baseX := make([]float64, p.Nodes)
	baseY := make([]float64, p.Nodes)
	shift := rng.NormFloat64() * 2
	for j := range p.Nodes {
		if p.Nodes > 1 {
			baseX[j] = 100 * float64(j) / float64(p.Nodes-1)
		}
		baseX[j] += shift
		baseY[j] = float64(rng.IntN(100))
	}

	color := pal.Map(1).WithAlpha(p.Alpha)
	paths := make([]scene.Path, 0, p.Strokes)
	nodes := make([]scene.Vec2, p.Nodes)
	for i := range p.Strokes {
		dx := rng.NormFloat64() * 0.5
		for j := range nodes {
			nodes[j] = scene.Vec2{
				X: baseX[j] + dx,
				Y: baseY[j] + float64(i)*0.1 + math.Abs(rng.NormFloat64()*50),
			}
		}
		paths = append(paths, scene.Path{
			Points: spline.CatmullRom(nodes, p.Samples),
			Stroke: p.Stroke,
			Color:  color,
		})
	}

	// Pin x to the node span, let y follow the drift.
	panel := scene.Panel{Paths: paths}
	fit := panel.DataBounds()
	panel.Bounds = &scene.Bounds{MinX: 0, MinY: fit.MinY, MaxX: 100, MaxY: fit.MaxY}

	return &scene.Scene{
		Piece:      "strokes",
		Seed:       p.Seed,
		Background: pal.Map(0),
		Panels:     []scene.Panel{panel},
	}, nil
}
