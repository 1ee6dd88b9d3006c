package render

import (
	"math"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// Projections accepted by [WithProjection].
const (
	ProjectionCartesian = "cartesian"
	ProjectionPolar     = "polar"
)

// ValidProjections enumerates the accepted projection names.
var ValidProjections = map[string]bool{
	ProjectionCartesian: true,
	ProjectionPolar:     true,
}

// DefaultMargin is the outer frame margin in pixels.
const DefaultMargin = 24.0

// FrameOption configures [BuildFrame].
type FrameOption func(*frameConfig)

type frameConfig struct {
	width      int
	height     int
	margin     float64
	projection string
	axes       bool
}

// WithSize sets the output frame size in pixels.
func WithSize(w, h int) FrameOption {
	return func(c *frameConfig) { c.width, c.height = w, h }
}

// WithMargin sets the outer margin in pixels. Panel gutters are half the
// margin.
func WithMargin(m float64) FrameOption { return func(c *frameConfig) { c.margin = m } }

// WithProjection selects a projection from [ValidProjections].
func WithProjection(p string) FrameOption { return func(c *frameConfig) { c.projection = p } }

// WithAxes enables panel borders and origin lines.
func WithAxes(on bool) FrameOption { return func(c *frameConfig) { c.axes = on } }

// Frame is the computed pixel layout for one scene.
type Frame struct {
	W          int        `json:"width"`
	H          int        `json:"height"`
	Margin     float64    `json:"margin"`
	Projection string     `json:"projection"`
	ShowAxes   bool       `json:"show_axes,omitempty"`
	Viewports  []Viewport `json:"viewports"`
}

// BuildFrame tiles the scene's panels horizontally across the frame and
// fits each panel's data bounds into its viewport.
func BuildFrame(sc *scene.Scene, opts ...FrameOption) (*Frame, error) {
	cfg := frameConfig{margin: DefaultMargin, projection: ProjectionCartesian}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "frame size %dx%d must be positive", cfg.width, cfg.height)
	}
	if !ValidProjections[cfg.projection] {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid projection %q (valid: %s, %s)",
			cfg.projection, ProjectionCartesian, ProjectionPolar)
	}
	n := len(sc.Panels)
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "scene has no panels")
	}

	gutter := cfg.margin / 2
	cellW := (float64(cfg.width) - 2*cfg.margin - gutter*float64(n-1)) / float64(n)
	cellH := float64(cfg.height) - 2*cfg.margin
	if cellW <= 0 || cellH <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "frame %dx%d too small for %d panels at margin %g",
			cfg.width, cfg.height, n, cfg.margin)
	}

	f := &Frame{
		W:          cfg.width,
		H:          cfg.height,
		Margin:     cfg.margin,
		Projection: cfg.projection,
		ShowAxes:   cfg.axes,
		Viewports:  make([]Viewport, 0, n),
	}
	for i := range sc.Panels {
		x := cfg.margin + float64(i)*(cellW+gutter)
		f.Viewports = append(f.Viewports, newViewport(x, cfg.margin, cellW, cellH,
			sc.Panels[i].DataBounds(), cfg.projection))
	}
	return f, nil
}

// Viewport maps one panel's data bounds into a pixel rectangle. Pixel y
// grows downward.
type Viewport struct {
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	W      float64      `json:"w"`
	H      float64      `json:"h"`
	Bounds scene.Bounds `json:"bounds"`

	projection string
	scale      float64 // pixels per data unit
	offX       float64 // centering offset inside the rectangle
	offY       float64
	cx, cy     float64 // polar center
	rScale     float64 // polar pixels per radius unit
}

func newViewport(x, y, w, h float64, b scene.Bounds, projection string) Viewport {
	if b.Width() <= 0 || b.Height() <= 0 {
		b = b.Pad(0)
	}
	vp := Viewport{X: x, Y: y, W: w, H: h, Bounds: b, projection: projection}

	switch projection {
	case ProjectionPolar:
		rMax := math.Max(math.Abs(b.MinY), math.Abs(b.MaxY))
		if rMax == 0 {
			rMax = 1
		}
		vp.cx = x + w/2
		vp.cy = y + h/2
		vp.rScale = math.Min(w, h) / 2 / rMax
	default:
		vp.scale = math.Min(w/b.Width(), h/b.Height())
		vp.offX = (w - b.Width()*vp.scale) / 2
		vp.offY = (h - b.Height()*vp.scale) / 2
	}
	return vp
}

// Project maps a data position to pixels. ok is false when the projected
// coordinates are not finite; such marks must be skipped.
func (vp *Viewport) Project(v scene.Vec2) (px, py float64, ok bool) {
	if vp.projection == ProjectionPolar {
		// x is the angle in radians, y the radius.
		sin, cos := math.Sincos(v.X)
		px = vp.cx + v.Y*vp.rScale*cos
		py = vp.cy - v.Y*vp.rScale*sin
	} else {
		px = vp.X + vp.offX + (v.X-vp.Bounds.MinX)*vp.scale
		py = vp.Y + vp.H - vp.offY - (v.Y-vp.Bounds.MinY)*vp.scale
	}
	if math.IsNaN(px) || math.IsInf(px, 0) || math.IsNaN(py) || math.IsInf(py, 0) {
		return 0, 0, false
	}
	return px, py, true
}
