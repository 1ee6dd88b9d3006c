// Package spline samples smooth curves through control nodes.
package spline

import (
	"math"

	"github.com/plotfield/plotfield/pkg/scene"
)

// CatmullRom samples a centripetal Catmull-Rom spline through nodes and
// returns exactly samples points (floored at the node count). The curve
// passes through every node in order; the centripetal parameterization
// avoids loops and overshoot near tight node clusters. Endpoints use
// reflected phantom controls, so the curve starts and ends exactly on the
// first and last node.
func CatmullRom(nodes []scene.Vec2, samples int) []scene.Vec2 {
	n := len(nodes)
	if n == 0 || samples <= 0 {
		return nil
	}
	if n == 1 {
		return []scene.Vec2{nodes[0]}
	}
	if samples < n {
		samples = n
	}

	segs := n - 1
	base := (samples - 1) / segs
	rem := (samples - 1) % segs

	out := make([]scene.Vec2, 0, samples)
	for i := range segs {
		p1, p2 := nodes[i], nodes[i+1]
		p0 := reflect(p1, p2)
		if i > 0 {
			p0 = nodes[i-1]
		}
		p3 := reflect(p2, p1)
		if i+2 < n {
			p3 = nodes[i+2]
		}

		m := base
		if i < rem {
			m++
		}
		sampleSegment(&out, p0, p1, p2, p3, m)
	}
	return append(out, nodes[n-1])
}

// reflect extrapolates a phantom control beyond p: 2p - q.
func reflect(p, q scene.Vec2) scene.Vec2 {
	return scene.Vec2{X: 2*p.X - q.X, Y: 2*p.Y - q.Y}
}

// sampleSegment appends m points covering [p1, p2), starting exactly at p1.
func sampleSegment(out *[]scene.Vec2, p0, p1, p2, p3 scene.Vec2, m int) {
	t0 := 0.0
	t1 := t0 + knotStep(p0, p1)
	t2 := t1 + knotStep(p1, p2)
	t3 := t2 + knotStep(p2, p3)

	for j := range m {
		t := t1 + (t2-t1)*float64(j)/float64(m)

		a1 := lerp(p0, p1, (t-t0)/(t1-t0))
		a2 := lerp(p1, p2, (t-t1)/(t2-t1))
		a3 := lerp(p2, p3, (t-t2)/(t3-t2))
		b1 := lerp(a1, a2, (t-t0)/(t2-t0))
		b2 := lerp(a2, a3, (t-t1)/(t3-t1))
		*out = append(*out, lerp(b1, b2, (t-t1)/(t2-t1)))
	}
}

// knotStep is the centripetal knot increment sqrt(|q-p|), clamped away from
// zero so coincident nodes cannot produce 0/0.
func knotStep(p, q scene.Vec2) float64 {
	return math.Max(math.Sqrt(math.Hypot(q.X-p.X, q.Y-p.Y)), 1e-9)
}

func lerp(p, q scene.Vec2, t float64) scene.Vec2 {
	return scene.Vec2{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}
