package render

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// axisGray is the chrome color for borders and origin lines.
const axisGray = 0.7

// RenderPNG rasterizes the framed scene onto a software canvas.
func RenderPNG(sc *scene.Scene, f *Frame) ([]byte, error) {
	if len(f.Viewports) != len(sc.Panels) {
		return nil, errors.New(errors.ErrCodeInternal, "frame has %d viewports for %d panels",
			len(f.Viewports), len(sc.Panels))
	}

	dc := gg.NewContext(f.W, f.H)
	bg := sc.Background
	dc.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	dc.Clear()

	for i := range sc.Panels {
		panel := &sc.Panels[i]
		vp := &f.Viewports[i]
		if f.ShowAxes {
			drawChromePNG(dc, vp)
		}
		for _, pt := range panel.Points {
			x, y, ok := vp.Project(pt.Pos)
			if !ok || pt.Size <= 0 {
				continue
			}
			c := pt.Color
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			dc.DrawCircle(x, y, pt.Size)
			dc.Fill()
		}
		for _, path := range panel.Paths {
			drawPathPNG(dc, vp, path)
		}
		for _, r := range panel.Rects {
			drawRectPNG(dc, vp, r)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding png")
	}
	return buf.Bytes(), nil
}

func drawPathPNG(dc *gg.Context, vp *Viewport, path scene.Path) {
	c := path.Color
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	dc.SetLineWidth(path.Stroke)

	pen := false
	for _, v := range path.Points {
		x, y, ok := vp.Project(v)
		if !ok {
			pen = false
			continue
		}
		if pen {
			dc.LineTo(x, y)
		} else {
			dc.MoveTo(x, y)
			pen = true
		}
	}
	dc.Stroke()
}

func drawRectPNG(dc *gg.Context, vp *Viewport, r scene.Rect) {
	var px, py [4]float64
	for i, v := range r.Corners() {
		x, y, ok := vp.Project(v)
		if !ok {
			return
		}
		px[i], py[i] = x, y
	}
	c := r.Color
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	dc.SetLineWidth(r.Stroke)
	dc.MoveTo(px[0], py[0])
	for i := 1; i < 4; i++ {
		dc.LineTo(px[i], py[i])
	}
	dc.ClosePath()
	dc.Stroke()
}

func drawChromePNG(dc *gg.Context, vp *Viewport) {
	dc.SetRGBA(axisGray, axisGray, axisGray, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(vp.X, vp.Y, vp.W, vp.H)
	dc.Stroke()

	if vp.projection == ProjectionPolar {
		return
	}
	b := vp.Bounds
	if b.MinX < 0 && b.MaxX > 0 {
		x0, y0, _ := vp.Project(scene.Vec2{X: 0, Y: b.MinY})
		_, y1, _ := vp.Project(scene.Vec2{X: 0, Y: b.MaxY})
		dc.DrawLine(x0, y0, x0, y1)
		dc.Stroke()
	}
	if b.MinY < 0 && b.MaxY > 0 {
		x0, y0, _ := vp.Project(scene.Vec2{X: b.MinX, Y: 0})
		x1, _, _ := vp.Project(scene.Vec2{X: b.MaxX, Y: 0})
		dc.DrawLine(x0, y0, x1, y0)
		dc.Stroke()
	}
}
