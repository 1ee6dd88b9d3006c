package field

import (
	"math"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"

	"github.com/plotfield/plotfield/pkg/scene"
)

// Warp maps one data-space position to another. Warps may emit non-finite
// coordinates (SineQuartet divides by y); builders drop such points before
// assembling the scene.
type Warp func(scene.Vec2) scene.Vec2

// Chain applies warps left to right.
func Chain(warps ...Warp) Warp {
	return func(v scene.Vec2) scene.Vec2 {
		for _, w := range warps {
			v = w(v)
		}
		return v
	}
}

// SineQuartet is the distortion warp behind the distort piece:
//
//	x' = a*sin(x) + b*cos(y) + c*sin(x/y)
//	y' = a*cos(x') + d*sin(y)
//
// y' deliberately reads the already-warped x'.
func SineQuartet(a, b, c, d float64) Warp {
	return func(v scene.Vec2) scene.Vec2 {
		x := a*math.Sin(v.X) + b*math.Cos(v.Y) + c*math.Sin(v.X/v.Y)
		y := a*math.Cos(x) + d*math.Sin(v.Y)
		return scene.Vec2{X: x, Y: y}
	}
}

// SineFold is the wave warp: x' = x + y + pi*sin(y), y' = y + pi*sin(x).
func SineFold() Warp {
	return func(v scene.Vec2) scene.Vec2 {
		return scene.Vec2{
			X: v.X + v.Y + math.Pi*math.Sin(v.Y),
			Y: v.Y + math.Pi*math.Sin(v.X),
		}
	}
}

// Jitter displaces each coordinate by an independent normal sample.
func Jitter(rng *rand.Rand, sigma float64) Warp {
	return func(v scene.Vec2) scene.Vec2 {
		return scene.Vec2{
			X: v.X + rng.NormFloat64()*sigma,
			Y: v.Y + rng.NormFloat64()*sigma,
		}
	}
}

// Scale multiplies both coordinates by k.
func Scale(k float64) Warp {
	return func(v scene.Vec2) scene.Vec2 { return v.Scale(k) }
}

// CartToPolar maps (x, y) to (radius, angle).
func CartToPolar() Warp {
	return func(v scene.Vec2) scene.Vec2 {
		return scene.Vec2{X: math.Hypot(v.X, v.Y), Y: math.Atan2(v.Y, v.X)}
	}
}

// PolarToCart maps (radius, angle) back to cartesian.
func PolarToCart() Warp {
	return func(v scene.Vec2) scene.Vec2 {
		sin, cos := math.Sincos(v.Y)
		return scene.Vec2{X: v.X * cos, Y: v.X * sin}
	}
}

// Noise displaces each position along an angle read from 2D simplex noise.
// freq scales the noise lookup, amp the displacement distance.
func Noise(seed int64, freq, amp float64) Warp {
	n := opensimplex.New(seed)
	return func(v scene.Vec2) scene.Vec2 {
		angle := n.Eval2(v.X*freq, v.Y*freq) * math.Pi
		sin, cos := math.Sincos(angle)
		return scene.Vec2{X: v.X + amp*cos, Y: v.Y + amp*sin}
	}
}
