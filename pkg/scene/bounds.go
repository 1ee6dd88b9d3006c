package scene

import "math"

// Bounds is an axis-aligned data-space extent.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// EmptyBounds returns inverted bounds that any Include call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func (b Bounds) Empty() bool {
	return !(b.MinX <= b.MaxX && b.MinY <= b.MaxY)
}

// Include grows the bounds to cover v. Non-finite vectors are ignored.
func (b *Bounds) Include(v Vec2) {
	if !v.Finite() {
		return
	}
	b.MinX = math.Min(b.MinX, v.X)
	b.MinY = math.Min(b.MinY, v.Y)
	b.MaxX = math.Max(b.MaxX, v.X)
	b.MaxY = math.Max(b.MaxY, v.Y)
}

func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Pad expands each side by frac of the larger dimension. Degenerate bounds
// (single point or line) pick up a minimum extent so they stay projectable.
func (b Bounds) Pad(frac float64) Bounds {
	span := math.Max(b.Width(), b.Height())
	if span == 0 {
		span = 1
	}
	m := span * frac
	out := Bounds{b.MinX - m, b.MinY - m, b.MaxX + m, b.MaxY + m}
	if out.Width() == 0 {
		out.MinX -= 0.5
		out.MaxX += 0.5
	}
	if out.Height() == 0 {
		out.MinY -= 0.5
		out.MaxY += 0.5
	}
	return out
}
