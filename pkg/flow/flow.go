// Package flow provides a vector field that advects particles along smooth
// paths.
//
// A [Field] holds one vector per grid cell at a configurable resolution.
// Sampling the field at an arbitrary position sums the vectors of the
// surrounding neighbourhood, weighted by an inverse-distance decay, so
// particle motion stays smooth across cell boundaries. The field is toroidal:
// neighbourhood windows wrap around the edges.
package flow

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Decay function names for neighbourhood weighting.
const (
	DecayInvLinear    = "inv_linear"
	DecayInvQuadratic = "inv_quadratic"
	DecayInvCubic     = "inv_cubic"
)

// ValidDecays maps decay names to their distance exponent.
var ValidDecays = map[string]float64{
	DecayInvLinear:    1,
	DecayInvQuadratic: 2,
	DecayInvCubic:     3,
}

// InitFunc produces the vector stored at field position (x, y).
type InitFunc func(x, y float64) scene.Vec2

// Options configures a flow field.
type Options struct {
	Width         float64  // field extent in x, must be > 0
	Height        float64  // field extent in y, must be > 0
	Resolution    float64  // grid cell size, must be > 0
	Neighbourhood int      // window size in cells; values < 2 clamp to 2
	Decay         string   // one of ValidDecays
	Init          InitFunc // nil selects the default sine swirl
}

// Field is a grid of vectors over [0, Width) x [0, Height).
type Field struct {
	width, height float64
	res           float64
	cols, rows    int
	window        int
	decayPow      float64
	vecs          []scene.Vec2
}

// New builds and initialises a flow field. Invalid decay names are an error;
// a neighbourhood below 2 silently clamps to 2 (a one-cell window would pin
// particles to grid lines).
func New(opts Options) (*Field, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "field extent must be positive, got %gx%g", opts.Width, opts.Height)
	}
	if opts.Resolution <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "field resolution must be positive, got %g", opts.Resolution)
	}

	decay := opts.Decay
	if decay == "" {
		decay = DecayInvLinear
	}
	pow, ok := ValidDecays[decay]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidParam, "invalid decay %q (valid: inv_linear, inv_quadratic, inv_cubic)", opts.Decay)
	}

	window := opts.Neighbourhood
	if window == 0 {
		window = 3
	}
	if window < 2 {
		window = 2
	}

	f := &Field{
		width:    opts.Width,
		height:   opts.Height,
		res:      opts.Resolution,
		cols:     int(math.Ceil(opts.Width / opts.Resolution)),
		rows:     int(math.Ceil(opts.Height / opts.Resolution)),
		window:   window,
		decayPow: pow,
	}
	f.vecs = make([]scene.Vec2, f.cols*f.rows)

	init := opts.Init
	if init == nil {
		init = f.sineSwirl
	}
	for c := range f.cols {
		for r := range f.rows {
			f.vecs[c*f.rows+r] = init(float64(c)*f.res, float64(r)*f.res)
		}
	}
	return f, nil
}

func (f *Field) Cols() int           { return f.cols }
func (f *Field) Rows() int           { return f.rows }
func (f *Field) Resolution() float64 { return f.res }

// At returns the stored vector for grid cell (c, r), wrapping out-of-range
// indices.
func (f *Field) At(c, r int) scene.Vec2 {
	return f.vecs[wrap(c, f.cols)*f.rows+wrap(r, f.rows)]
}

// sineSwirl is the default field generator:
//
//	vx = 2*pi*sin(x) + y
//	vy = 2*pi*cos(y) + x
//
// wrapped into the field extent.
func (f *Field) sineSwirl(x, y float64) scene.Vec2 {
	vx := math.Mod(2*math.Pi*math.Sin(x)+y, f.width)
	vy := math.Mod(2*math.Pi*math.Cos(y)+x, f.height)
	if vx < 0 {
		vx += f.width
	}
	if vy < 0 {
		vy += f.height
	}
	return scene.Vec2{X: vx, Y: vy}
}

// NoiseInit returns an InitFunc that reads a flow angle from 2D simplex
// noise, giving organically curved paths instead of the sine swirl.
func NoiseInit(seed int64, freq float64) InitFunc {
	n := opensimplex.New(seed)
	return func(x, y float64) scene.Vec2 {
		angle := n.Eval2(x*freq, y*freq) * 2 * math.Pi
		sin, cos := math.Sincos(angle)
		return scene.Vec2{X: cos, Y: sin}
	}
}

// VectorAt sums the window x window neighbourhood around (x, y), each cell
// weighted by 1/d^p where d is the distance from (x, y) to the cell center
// and p the decay exponent. Distances below a hundredth of a cell clamp so
// weights stay finite.
func (f *Field) VectorAt(x, y float64) scene.Vec2 {
	ci := int(math.Floor(x / f.res))
	ri := int(math.Floor(y / f.res))
	start := -(f.window / 2)

	minDist := f.res / 100
	var sum scene.Vec2
	for dc := range f.window {
		for dr := range f.window {
			c := ci + start + dc
			r := ri + start + dr
			cx := (float64(c) + 0.5) * f.res
			cy := (float64(r) + 0.5) * f.res
			d := math.Max(math.Hypot(cx-x, cy-y), minDist)
			w := 1 / math.Pow(d, f.decayPow)
			v := f.vecs[wrap(c, f.cols)*f.rows+wrap(r, f.rows)]
			sum.X += v.X * w
			sum.Y += v.Y * w
		}
	}
	return sum
}

// Advect traces a particle from start for lifespan steps, scaling each
// sampled vector by step. The trail includes the start position.
func (f *Field) Advect(start scene.Vec2, lifespan int, step float64) []scene.Vec2 {
	trail := make([]scene.Vec2, 0, lifespan+1)
	trail = append(trail, start)
	p := start
	for range lifespan {
		v := f.VectorAt(p.X, p.Y)
		p = scene.Vec2{X: p.X + v.X*step, Y: p.Y + v.Y*step}
		trail = append(trail, p)
	}
	return trail
}

// AdvectUnit traces a particle like Advect but normalizes each sampled
// vector, so every step covers exactly step. The trace stops early where the
// local field sums to zero.
func (f *Field) AdvectUnit(start scene.Vec2, lifespan int, step float64) []scene.Vec2 {
	trail := make([]scene.Vec2, 0, lifespan+1)
	trail = append(trail, start)
	p := start
	for range lifespan {
		v := f.VectorAt(p.X, p.Y)
		mag := math.Hypot(v.X, v.Y)
		if mag == 0 {
			break
		}
		p = scene.Vec2{X: p.X + v.X/mag*step, Y: p.Y + v.Y/mag*step}
		trail = append(trail, p)
	}
	return trail
}

// Quiver renders the stored field as arrow polylines, one per cell. Arrows
// are normalized to 0.8 of a cell so the grid stays readable at any
// resolution.
func (f *Field) Quiver(stroke float64, color scene.Color) []scene.Path {
	arrow := 0.4 * f.res
	paths := make([]scene.Path, 0, f.cols*f.rows)
	for c := range f.cols {
		for r := range f.rows {
			v := f.vecs[c*f.rows+r]
			mag := math.Hypot(v.X, v.Y)
			if mag == 0 {
				continue
			}
			ux, uy := v.X/mag, v.Y/mag

			cx := (float64(c) + 0.5) * f.res
			cy := (float64(r) + 0.5) * f.res
			tail := scene.Vec2{X: cx - ux*arrow, Y: cy - uy*arrow}
			tip := scene.Vec2{X: cx + ux*arrow, Y: cy + uy*arrow}
			barb := 0.3 * arrow
			left := scene.Vec2{X: tip.X - ux*barb - uy*barb, Y: tip.Y - uy*barb + ux*barb}
			right := scene.Vec2{X: tip.X - ux*barb + uy*barb, Y: tip.Y - uy*barb - ux*barb}

			paths = append(paths, scene.Path{
				Points: []scene.Vec2{tail, tip, left, tip, right},
				Stroke: stroke,
				Color:  color,
			})
		}
	}
	return paths
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
