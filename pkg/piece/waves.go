package piece

import (
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/field"
	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Waves folds a dense square mesh with the SineFold warp and shades each
// point by its sine intensity through the palette. The default step keeps
// the mesh near 160k points; step 0.01 over the default span pushes it to
// 2001x2001 and still builds.
var Waves = &Piece{
	Name:      "waves",
	Summary:   "a folded sine mesh shaded by intensity through the palette",
	FrameW:    900,
	FrameH:    900,
	Normalize: wavesDefaults,
	Build:     buildWaves,
}

func wavesDefaults(p Params) Params {
	p = sharedDefaults(p)
	if p.Min == 0 && p.Max == 0 {
		p.Min, p.Max = -10, 10
	}
	if p.Step == 0 {
		p.Step = 0.05
	}
	if p.Alpha == 0 {
		p.Alpha = 0.8
	}
	if p.PointSize == 0 {
		p.PointSize = 0.6
	}
	if p.Palette == "" {
		p.Palette = palette.Default
	}
	return p
}

func buildWaves(p Params, rng *rand.Rand) (*scene.Scene, error) {
	p = wavesDefaults(p)
	pal, err := palette.Get(p.Palette)
	if err != nil {
		return nil, err
	}
	post, err := newPostWarp(p, rng)
	if err != nil {
		return nil, err
	}
	defer post.Close()

	span := field.Span(p.Min, p.Max, p.Step)
	if len(span) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam,
			"empty span: min %g, max %g, step %g", p.Min, p.Max, p.Step)
	}
	pts := field.Mesh(span, span)
	warp := field.SineFold()
	for i := range pts {
		pts[i] = warp(pts[i])
	}
	if err := post.apply(pts); err != nil {
		return nil, err
	}

	colorOf := field.Intensity(pal.Map)
	if p.Colorize {
		colorOf = field.TrigColor(20, 5, 8, 5)
	}
	points := make([]scene.Point, 0, len(pts))
	for _, v := range pts {
		if !v.Finite() {
			continue
		}
		points = append(points, scene.Point{
			Pos:   v,
			Size:  p.PointSize,
			Color: colorOf(v).WithAlpha(p.Alpha),
		})
	}
	return &scene.Scene{
		Piece:      "waves",
		Seed:       p.Seed,
		Background: scene.White,
		Panels:     []scene.Panel{{Points: points}},
	}, nil
}
