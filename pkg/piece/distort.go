package piece

import (
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/field"
	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Distort pushes a square integer lattice through the SineQuartet warp,
// one panel per sweep step of the a coefficient. Point sizes follow the
// warped coordinate product, so the panels read as folded sheets of dust.
var Distort = &Piece{
	Name:      "distort",
	Summary:   "warped point lattices swept across a distortion coefficient",
	FrameW:    1800,
	FrameH:    300,
	Normalize: distortDefaults,
	Build:     buildDistort,
}

func distortDefaults(p Params) Params {
	p = sharedDefaults(p)
	if p.GridW == 0 {
		p.GridW = 150
	}
	if p.GridH == 0 {
		p.GridH = 150
	}
	if p.Panels == 0 {
		p.Panels = 6
	}
	if p.SweepFrom == 0 && p.SweepTo == 0 {
		p.SweepFrom, p.SweepTo = 0.2, -0.3
	}
	if p.B == 0 {
		p.B = 2
	}
	if p.C == 0 {
		p.C = 1
	}
	if p.D == 0 {
		p.D = 0.4
	}
	if p.Alpha == 0 {
		p.Alpha = 0.4
	}
	if p.PointSize == 0 {
		p.PointSize = 1
	}
	if p.Palette == "" {
		p.Palette = palette.Default
	}
	return p
}

func buildDistort(p Params, rng *rand.Rand) (*scene.Scene, error) {
	p = distortDefaults(p)
	pal, err := palette.Get(p.Palette)
	if err != nil {
		return nil, err
	}
	post, err := newPostWarp(p, rng)
	if err != nil {
		return nil, err
	}
	defer post.Close()

	colorOf := field.UniformColor(pal.Map(0.5))
	if p.Colorize {
		colorOf = field.TrigColor(20, 5, 8, 5)
	}
	sizeOf := field.ProductSize(0.4)

	sc := &scene.Scene{
		Piece:      "distort",
		Seed:       p.Seed,
		Background: scene.White,
		Panels:     make([]scene.Panel, 0, p.Panels),
	}
	for i := range p.Panels {
		a := sweepValue(p.SweepFrom, p.SweepTo, i, p.Panels)
		pts := field.Lattice(p.GridW, p.GridH)
		warp := field.SineQuartet(a, p.B, p.C, p.D)
		for j := range pts {
			pts[j] = warp(pts[j])
		}
		if err := post.apply(pts); err != nil {
			return nil, err
		}

		// The y = 0 lattice row warps to non-finite coordinates; those
		// marks are dropped here rather than carried to the sinks.
		panel := scene.Panel{Points: make([]scene.Point, 0, len(pts))}
		for _, v := range pts {
			if !v.Finite() {
				continue
			}
			panel.Points = append(panel.Points, scene.Point{
				Pos:   v,
				Size:  sizeOf(v) * p.PointSize,
				Color: colorOf(v).WithAlpha(p.Alpha),
			})
		}
		sc.Panels = append(sc.Panels, panel)
	}
	return sc, nil
}

// sweepValue interpolates the distortion coefficient for panel i of n.
func sweepValue(from, to float64, i, n int) float64 {
	if n <= 1 {
		return from
	}
	return from + float64(i)/float64(n-1)*(to-from)
}
