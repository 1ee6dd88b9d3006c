package field

import (
	"math"

	"github.com/plotfield/plotfield/pkg/scene"
)

// ColorFunc derives a point color from its warped position. Implementations
// must return clamped colors.
type ColorFunc func(scene.Vec2) scene.Color

// SizeFunc derives a point size from its warped position. Implementations
// must return non-negative sizes.
type SizeFunc func(scene.Vec2) float64

func UniformColor(c scene.Color) ColorFunc {
	c = c.Clamp()
	return func(scene.Vec2) scene.Color { return c }
}

func UniformSize(s float64) SizeFunc {
	s = math.Max(0, s)
	return func(scene.Vec2) float64 { return s }
}

// TrigColor mixes channels from scaled trigonometric waves over the
// position divided by four:
//
//	r = (sin(a*y)+1)/2, g = (cos(b*x)+1)/2, b = (sin(c*x-d*y)+1)/2
func TrigColor(a, b, c, d float64) ColorFunc {
	return func(v scene.Vec2) scene.Color {
		x, y := v.X/4, v.Y/4
		return scene.Color{
			R: (math.Sin(a*y) + 1) / 2,
			G: (math.Cos(b*x) + 1) / 2,
			B: (math.Sin(c*x-d*y) + 1) / 2,
			A: 1,
		}.Clamp()
	}
}

// ProductSize sizes a point by x*y + base, floored at zero.
func ProductSize(base float64) SizeFunc {
	return func(v scene.Vec2) float64 {
		return math.Max(0, v.X*v.Y+base)
	}
}

// Intensity maps |sin(x)| through ramp, so stripes of intensity follow the
// x coordinate.
func Intensity(ramp func(float64) scene.Color) ColorFunc {
	return func(v scene.Vec2) scene.Color {
		return ramp(math.Abs(math.Sin(v.X))).Clamp()
	}
}
