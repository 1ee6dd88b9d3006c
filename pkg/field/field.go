package field

import (
	"math"
	"math/rand/v2"

	"github.com/plotfield/plotfield/pkg/scene"
)

// NewRand returns the seeded generator shared by every stochastic stage.
// The same seed always yields the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Span returns min, min+step, ... up to and including max. The endpoint is
// included when the range divides evenly within float tolerance, so
// Span(-10, 10, 0.01) has 2001 values. Returns nil when step <= 0 or
// max < min.
func Span(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

// Mesh returns the cartesian product of xs and ys, x varying slowest.
func Mesh(xs, ys []float64) []scene.Vec2 {
	out := make([]scene.Vec2, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			out = append(out, scene.Vec2{X: x, Y: y})
		}
	}
	return out
}

// Lattice returns the w x h integer lattice starting at the origin, x varying
// slowest.
func Lattice(w, h int) []scene.Vec2 {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]scene.Vec2, 0, w*h)
	for x := range w {
		for y := range h {
			out = append(out, scene.Vec2{X: float64(x), Y: float64(y)})
		}
	}
	return out
}

// Scatter returns n points uniformly distributed over the given bounds.
func Scatter(rng *rand.Rand, n int, b scene.Bounds) []scene.Vec2 {
	out := make([]scene.Vec2, n)
	for i := range out {
		out[i] = scene.Vec2{
			X: b.MinX + rng.Float64()*b.Width(),
			Y: b.MinY + rng.Float64()*b.Height(),
		}
	}
	return out
}
