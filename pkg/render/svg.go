package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// RenderSVG writes the framed scene as a standalone SVG document.
func RenderSVG(sc *scene.Scene, f *Frame) ([]byte, error) {
	if len(f.Viewports) != len(sc.Panels) {
		return nil, errors.New(errors.ErrCodeInternal, "frame has %d viewports for %d panels",
			len(f.Viewports), len(sc.Panels))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		f.W, f.H, f.W, f.H)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"%s/>`+"\n",
		f.W, f.H, svgColor(sc.Background), svgOpacity("fill", sc.Background.A))

	for i := range sc.Panels {
		panel := &sc.Panels[i]
		vp := &f.Viewports[i]
		buf.WriteString("  <g>\n")
		if f.ShowAxes {
			writeChrome(&buf, vp)
		}
		for _, pt := range panel.Points {
			writeCircle(&buf, vp, pt)
		}
		for _, path := range panel.Paths {
			writePolyline(&buf, vp, path)
		}
		for _, r := range panel.Rects {
			writePolygon(&buf, vp, r)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeCircle(buf *bytes.Buffer, vp *Viewport, pt scene.Point) {
	x, y, ok := vp.Project(pt.Pos)
	if !ok || pt.Size <= 0 {
		return
	}
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>`+"\n",
		x, y, pt.Size, svgColor(pt.Color), svgOpacity("fill", pt.Color.A))
}

// writePolyline emits one polyline per finite run, breaking the line where
// projection fails.
func writePolyline(buf *bytes.Buffer, vp *Viewport, path scene.Path) {
	attrs := fmt.Sprintf(` fill="none" stroke="%s" stroke-width="%.2f"%s`,
		svgColor(path.Color), path.Stroke, svgOpacity("stroke", path.Color.A))

	var run []byte
	runLen := 0
	flush := func() {
		if runLen >= 2 {
			fmt.Fprintf(buf, `    <polyline points="%s"%s/>`+"\n", run, attrs)
		}
		run = run[:0]
		runLen = 0
	}
	for _, v := range path.Points {
		x, y, ok := vp.Project(v)
		if !ok {
			flush()
			continue
		}
		if runLen > 0 {
			run = append(run, ' ')
		}
		run = fmt.Appendf(run, "%.2f,%.2f", x, y)
		runLen++
	}
	flush()
}

func writePolygon(buf *bytes.Buffer, vp *Viewport, r scene.Rect) {
	var pts []byte
	for i, v := range r.Corners() {
		x, y, ok := vp.Project(v)
		if !ok {
			return
		}
		if i > 0 {
			pts = append(pts, ' ')
		}
		pts = fmt.Appendf(pts, "%.2f,%.2f", x, y)
	}
	fmt.Fprintf(buf, `    <polygon points="%s" fill="none" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
		pts, svgColor(r.Color), r.Stroke, svgOpacity("stroke", r.Color.A))
}

func writeChrome(buf *bytes.Buffer, vp *Viewport) {
	stroke := fmt.Sprintf(`stroke="%s" stroke-width="1"`, svgColor(scene.Gray(axisGray)))
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" %s/>`+"\n",
		vp.X, vp.Y, vp.W, vp.H, stroke)

	if vp.projection == ProjectionPolar {
		return
	}
	b := vp.Bounds
	if b.MinX < 0 && b.MaxX > 0 {
		x0, y0, _ := vp.Project(scene.Vec2{X: 0, Y: b.MinY})
		_, y1, _ := vp.Project(scene.Vec2{X: 0, Y: b.MaxY})
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s/>`+"\n", x0, y0, x0, y1, stroke)
	}
	if b.MinY < 0 && b.MaxY > 0 {
		x0, y0, _ := vp.Project(scene.Vec2{X: b.MinX, Y: 0})
		x1, _, _ := vp.Project(scene.Vec2{X: b.MaxX, Y: 0})
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s/>`+"\n", x0, y0, x1, y0, stroke)
	}
}

func svgColor(c scene.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", channel8(c.R), channel8(c.G), channel8(c.B))
}

// svgOpacity renders a fill-opacity or stroke-opacity attribute, omitted
// for fully opaque colors.
func svgOpacity(kind string, a float64) string {
	if a >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%.3f"`, kind, math.Max(0, a))
}

func channel8(v float64) uint8 {
	return uint8(math.Round(math.Min(1, math.Max(0, v)) * 255))
}
