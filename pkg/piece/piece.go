// Package piece holds the built-in art pieces and their parameter handling.
//
// # Overview
//
// A piece is one self-contained drawing: it owns its default parameters and
// a builder that turns parameters plus a seeded random stream into a
// renderable scene. Pieces register themselves in [All]; the CLI mounts one
// subcommand per entry and the pipeline dispatches builds by name.
//
// Builders are deterministic: the same parameters and seed always produce
// the same scene, which is what makes caching scenes by parameter hash
// sound.
package piece

import (
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/field"
	"github.com/plotfield/plotfield/pkg/scene"
	"github.com/plotfield/plotfield/pkg/script"
)

// DefaultSeed seeds a piece when the caller does not choose a seed.
const DefaultSeed uint64 = 42

// Piece is one self-contained drawing.
type Piece struct {
	// Name is the piece identifier used on the command line and in URLs.
	Name string

	// Summary is a one-line description for listings.
	Summary string

	// FrameW and FrameH are the piece's preferred output size in pixels,
	// used when the caller does not pick one.
	FrameW int
	FrameH int

	// Normalize fills zero-valued parameters with the piece's defaults.
	// It is idempotent.
	Normalize func(Params) Params

	// Build generates the scene. Builders normalize p themselves and draw
	// all randomness from rng, which the caller is expected to seed from
	// the normalized seed.
	Build func(p Params, rng *rand.Rand) (*scene.Scene, error)
}

// Defaults returns the piece's fully-populated default parameters.
func (pc *Piece) Defaults() Params { return pc.Normalize(Params{}) }

// All lists every built-in piece in display order.
var All = []*Piece{Distort, Flow, Strokes, Squares, Waves}

// Find returns the piece with the given name, or nil if there is none.
func Find(name string) *Piece {
	for _, pc := range All {
		if pc.Name == name {
			return pc
		}
	}
	return nil
}

// Names returns the piece names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, pc := range All {
		names[i] = pc.Name
	}
	return names
}

// Params collects every parameter the built-in pieces understand. Each
// piece reads its own subset and ignores the rest. A zero value selects the
// piece's default for that field, so the zero Params reproduces every
// piece's reference output (the flip side is that a handful of exact
// zeros, like a zero gap, are not reachable).
type Params struct {
	// Shared across pieces
	Seed      uint64  `json:"seed" toml:"seed"`
	Alpha     float64 `json:"alpha" toml:"alpha"`
	PointSize float64 `json:"point_size" toml:"point_size"`
	Stroke    float64 `json:"stroke" toml:"stroke"`
	Palette   string  `json:"palette" toml:"palette"`
	Colorize  bool    `json:"colorize" toml:"colorize"`

	// Lattice grid (distort)
	GridW int `json:"grid_w" toml:"grid_w"`
	GridH int `json:"grid_h" toml:"grid_h"`

	// Coefficient sweep (distort)
	Panels    int     `json:"panels" toml:"panels"`
	SweepFrom float64 `json:"sweep_from" toml:"sweep_from"`
	SweepTo   float64 `json:"sweep_to" toml:"sweep_to"`
	B         float64 `json:"b" toml:"b"`
	C         float64 `json:"c" toml:"c"`
	D         float64 `json:"d" toml:"d"`

	// Optional point warps (distort, waves)
	JitterAmount float64 `json:"jitter_amount" toml:"jitter_amount"`
	ScaleFactor  float64 `json:"scale_factor" toml:"scale_factor"`
	NoiseAmp     float64 `json:"noise_amp" toml:"noise_amp"`
	NoiseFreq    float64 `json:"noise_freq" toml:"noise_freq"`
	PolarRemap   bool    `json:"polar_remap" toml:"polar_remap"`
	Script       string  `json:"script,omitempty" toml:"script"`

	// Span mesh (waves)
	Min  float64 `json:"min" toml:"min"`
	Max  float64 `json:"max" toml:"max"`
	Step float64 `json:"step" toml:"step"`

	// Vector field (flow)
	FieldW        float64 `json:"field_w" toml:"field_w"`
	FieldH        float64 `json:"field_h" toml:"field_h"`
	Resolution    float64 `json:"resolution" toml:"resolution"`
	Neighbourhood int     `json:"neighbourhood" toml:"neighbourhood"`
	Decay         string  `json:"decay" toml:"decay"`
	Particles     int     `json:"particles" toml:"particles"`
	Lifespan      int     `json:"lifespan" toml:"lifespan"`
	StepSize      float64 `json:"step_size" toml:"step_size"`
	FieldOnly     bool    `json:"field_only" toml:"field_only"`
	NoiseField    bool    `json:"noise_field" toml:"noise_field"`

	// Spline strokes (strokes)
	Nodes   int `json:"nodes" toml:"nodes"`
	Strokes int `json:"strokes" toml:"strokes"`
	Samples int `json:"samples" toml:"samples"`

	// Square grid (squares)
	Rows       int     `json:"rows" toml:"rows"`
	Cols       int     `json:"cols" toml:"cols"`
	SquareSize float64 `json:"square_size" toml:"square_size"`
	Gap        float64 `json:"gap" toml:"gap"`
}

// sharedDefaults fills the piece-independent parameters.
func sharedDefaults(p Params) Params {
	if p.Seed == 0 {
		p.Seed = DefaultSeed
	}
	if p.ScaleFactor == 0 {
		p.ScaleFactor = 1
	}
	if p.NoiseFreq == 0 {
		p.NoiseFreq = 0.1
	}
	return p
}

// postWarp bundles the optional warps shared by the point pieces, applied
// after the piece's own transform. The scripted warp runs first so user
// code sees the piece's coordinates, then noise, jitter, scale, and the
// polar remap.
type postWarp struct {
	script *script.Warp
	warps  []field.Warp
}

func newPostWarp(p Params, rng *rand.Rand) (*postWarp, error) {
	pw := &postWarp{}
	if p.Script != "" {
		w, err := script.Load(p.Script)
		if err != nil {
			return nil, err
		}
		pw.script = w
	}
	if p.NoiseAmp > 0 {
		pw.warps = append(pw.warps, field.Noise(int64(p.Seed), p.NoiseFreq, p.NoiseAmp))
	}
	if p.JitterAmount > 0 {
		pw.warps = append(pw.warps, field.Jitter(rng, p.JitterAmount))
	}
	if p.ScaleFactor != 1 {
		pw.warps = append(pw.warps, field.Scale(p.ScaleFactor))
	}
	if p.PolarRemap {
		pw.warps = append(pw.warps, field.CartToPolar())
	}
	return pw, nil
}

func (pw *postWarp) apply(pts []scene.Vec2) error {
	if pw.script != nil {
		if err := pw.script.Apply(pts); err != nil {
			return err
		}
	}
	for _, w := range pw.warps {
		for i := range pts {
			pts[i] = w(pts[i])
		}
	}
	return nil
}

func (pw *postWarp) Close() {
	if pw.script != nil {
		pw.script.Close()
	}
}
