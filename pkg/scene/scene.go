package scene

import (
	"encoding/json"
	"math"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Color is RGBA with all channels in [0, 1]. A is opacity.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

func RGB(r, g, b float64) Color     { return Color{r, g, b, 1} }
func RGBA(r, g, b, a float64) Color { return Color{r, g, b, a} }
func Gray(v float64) Color          { return Color{v, v, v, 1} }

func (c Color) WithAlpha(a float64) Color { return Color{c.R, c.G, c.B, a} }

// Clamp returns c with every channel forced into [0, 1]. NaN channels
// collapse to 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	White = Gray(1)
	Black = Gray(0)
)

// Point is a filled dot. Size is a radius scale in output pixels,
// independent of the data-to-pixel transform.
type Point struct {
	Pos   Vec2    `json:"pos"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

// Path is an open polyline stroked at Stroke pixels.
type Path struct {
	Points []Vec2  `json:"points"`
	Stroke float64 `json:"stroke"`
	Color  Color   `json:"color"`
}

// Rect is an unfilled rectangle outline. Angle is degrees counterclockwise
// about Pos, which is the rectangle's anchor corner.
type Rect struct {
	Pos    Vec2    `json:"pos"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Angle  float64 `json:"angle"`
	Stroke float64 `json:"stroke"`
	Color  Color   `json:"color"`
}

// Corners returns the rectangle's four corners in data space, rotated about
// the anchor.
func (r Rect) Corners() [4]Vec2 {
	sin, cos := math.Sincos(r.Angle * math.Pi / 180)
	rot := func(dx, dy float64) Vec2 {
		return Vec2{r.Pos.X + dx*cos - dy*sin, r.Pos.Y + dx*sin + dy*cos}
	}
	return [4]Vec2{rot(0, 0), rot(r.W, 0), rot(r.W, r.H), rot(0, r.H)}
}

// Panel is one drawing surface. Marks render in slice order: points, then
// paths, then rects. Bounds, when nil, are fitted from content.
type Panel struct {
	Points []Point `json:"points,omitempty"`
	Paths  []Path  `json:"paths,omitempty"`
	Rects  []Rect  `json:"rects,omitempty"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

func (p *Panel) MarkCount() int {
	return len(p.Points) + len(p.Paths) + len(p.Rects)
}

// DataBounds returns the panel's explicit bounds when set, otherwise bounds
// fitted around all finite marks with a small margin. An empty panel maps to
// the unit square around the origin.
func (p *Panel) DataBounds() Bounds {
	if p.Bounds != nil {
		return *p.Bounds
	}
	b := EmptyBounds()
	for _, pt := range p.Points {
		b.Include(pt.Pos)
	}
	for _, path := range p.Paths {
		for _, v := range path.Points {
			b.Include(v)
		}
	}
	for _, r := range p.Rects {
		for _, v := range r.Corners() {
			b.Include(v)
		}
	}
	if b.Empty() {
		return Bounds{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	}
	return b.Pad(fitMargin)
}

// fitMargin keeps auto-fitted content off the panel edge.
const fitMargin = 0.02

type Scene struct {
	Piece      string  `json:"piece"`
	Seed       uint64  `json:"seed"`
	Background Color   `json:"background"`
	Panels     []Panel `json:"panels"`
}

func (s *Scene) MarkCount() int {
	n := 0
	for i := range s.Panels {
		n += s.Panels[i].MarkCount()
	}
	return n
}

func Marshal(s *Scene) ([]byte, error) {
	return json.Marshal(s)
}

func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
