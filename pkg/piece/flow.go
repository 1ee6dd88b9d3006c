package piece

import (
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/field"
	"github.com/plotfield/plotfield/pkg/flow"
	"github.com/plotfield/plotfield/pkg/palette"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Flow scatters particles over a vector field and records their trails.
// Each trail takes its color from the palette position of its particle, so
// the ensemble fades across the ramp.
var Flow = &Piece{
	Name:      "flow",
	Summary:   "particle trails advected through a toroidal vector field",
	FrameW:    900,
	FrameH:    900,
	Normalize: flowDefaults,
	Build:     buildFlow,
}

func flowDefaults(p Params) Params {
	p = sharedDefaults(p)
	if p.FieldW == 0 {
		p.FieldW = 10
	}
	if p.FieldH == 0 {
		p.FieldH = 10
	}
	if p.Resolution == 0 {
		p.Resolution = 0.1
	}
	if p.Neighbourhood == 0 {
		p.Neighbourhood = 3
	}
	if p.Decay == "" {
		p.Decay = flow.DecayInvLinear
	}
	if p.Particles == 0 {
		p.Particles = 120
	}
	if p.Lifespan == 0 {
		p.Lifespan = 400
	}
	if p.StepSize == 0 {
		p.StepSize = 0.05
	}
	if p.Stroke == 0 {
		p.Stroke = 0.8
	}
	if p.Alpha == 0 {
		p.Alpha = 0.85
	}
	if p.Palette == "" {
		p.Palette = "ocean"
	}
	return p
}

func buildFlow(p Params, rng *rand.Rand) (*scene.Scene, error) {
	p = flowDefaults(p)
	pal, err := palette.Get(p.Palette)
	if err != nil {
		return nil, err
	}

	opts := flow.Options{
		Width:         p.FieldW,
		Height:        p.FieldH,
		Resolution:    p.Resolution,
		Neighbourhood: p.Neighbourhood,
		Decay:         p.Decay,
	}
	if p.NoiseField {
		opts.Init = flow.NoiseInit(int64(p.Seed), p.NoiseFreq)
	}
	f, err := flow.New(opts)
	if err != nil {
		return nil, err
	}

	sc := &scene.Scene{
		Piece:      "flow",
		Seed:       p.Seed,
		Background: scene.White,
	}

	if p.FieldOnly {
		sc.Panels = []scene.Panel{{
			Paths:  f.Quiver(p.Stroke, pal.Map(0.8).WithAlpha(p.Alpha)),
			Bounds: &scene.Bounds{MinX: 0, MinY: 0, MaxX: p.FieldW, MaxY: p.FieldH},
		}}
		return sc, nil
	}

	extent := scene.Bounds{MinX: 0, MinY: 0, MaxX: p.FieldW, MaxY: p.FieldH}
	starts := field.Scatter(rng, p.Particles, extent)
	paths := make([]scene.Path, 0, len(starts))
	for i, start := range starts {
		t := 0.5
		if len(starts) > 1 {
			t = float64(i) / float64(len(starts)-1)
		}
		paths = append(paths, scene.Path{
			Points: f.AdvectUnit(start, p.Lifespan, p.StepSize),
			Stroke: p.Stroke,
			Color:  pal.Map(t).WithAlpha(p.Alpha),
		})
	}
	sc.Panels = []scene.Panel{{Paths: paths}}
	return sc, nil
}
