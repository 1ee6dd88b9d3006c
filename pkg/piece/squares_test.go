package piece

import (
	"math"
	"testing"

	"github.com/plotfield/plotfield/pkg/scene"
)

func TestSquaresBuild(t *testing.T) {
	sc := build(t, Squares, Params{})
	if len(sc.Panels) != 1 {
		t.Fatalf("panel count = %d, want 1", len(sc.Panels))
	}
	rects := sc.Panels[0].Rects
	if got, want := len(rects), 12*12*5; got != want {
		t.Fatalf("rect count = %d, want %d", got, want)
	}

	// First cell: five insets anchored at (i/2, i/2) with shrinking sides
	// and no rotation (r = c = 0).
	for i := range 5 {
		r := rects[i]
		fi := float64(i)
		if r.Pos != (scene.Vec2{X: fi / 2, Y: fi / 2}) {
			t.Errorf("inset %d anchor = %+v, want (%v, %v)", i, r.Pos, fi/2, fi/2)
		}
		if r.W != 5-fi || r.H != 5-fi {
			t.Errorf("inset %d side = %vx%v, want %v", i, r.W, r.H, 5-fi)
		}
		if r.Angle != 0 {
			t.Errorf("inset %d angle = %v, want 0", i, r.Angle)
		}
	}

	// Last cell rotates by row+column degrees.
	last := rects[len(rects)-1]
	if last.Angle != 22 {
		t.Errorf("last cell angle = %v, want 22", last.Angle)
	}
}

func TestSquaresBounds(t *testing.T) {
	sc := build(t, Squares, Params{})
	b := sc.Panels[0].Bounds
	if b == nil {
		t.Fatal("squares panel has no explicit bounds")
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"min x", b.MinX, -5.1},
		{"min y", b.MinY, -5.1},
		{"max x", b.MaxX, 13 * 5.1},
		{"max y", b.MaxY, 13 * 5.1},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSquaresColors(t *testing.T) {
	// The logistic ramps stay strictly positive; the red channel's argument
	// grows past 36 on later rows, where float64 saturates it to exactly 1.
	sc := build(t, Squares, Params{})
	for i, r := range sc.Panels[0].Rects {
		for _, ch := range []float64{r.Color.R, r.Color.G, r.Color.B} {
			if ch <= 0 || ch > 1 {
				t.Fatalf("rect %d channel %v outside (0, 1]", i, ch)
			}
		}
		if r.Color.A != 1 {
			t.Fatalf("rect %d alpha = %v, want 1", i, r.Color.A)
		}
	}
}

func TestSquaresBlueJitterVaries(t *testing.T) {
	// Red and green are deterministic in (r, c, i); only blue carries the
	// gaussian, so it is the channel that moves across seeds.
	rects := build(t, Squares, Params{Rows: 1, Cols: 1}).Panels[0].Rects
	a := build(t, Squares, Params{Seed: 1, Rows: 1, Cols: 1}).Panels[0].Rects
	same := true
	for i := range rects {
		if rects[i].Color.B != a[i].Color.B {
			same = false
			break
		}
	}
	if same {
		t.Error("blue channel identical across seeds, want jitter")
	}
}

func TestSquaresGrid(t *testing.T) {
	sc := build(t, Squares, Params{Rows: 2, Cols: 3})
	rects := sc.Panels[0].Rects
	if got, want := len(rects), 2*3*5; got != want {
		t.Fatalf("rect count = %d, want %d", got, want)
	}
	// Cells advance column-first within a row at the 5.1 pitch.
	second := rects[5]
	if math.Abs(second.Pos.X-5.1) > 1e-9 || second.Pos.Y != 0 {
		t.Errorf("second cell anchor = %+v, want (5.1, 0)", second.Pos)
	}
	lastRow := rects[len(rects)-5]
	if math.Abs(lastRow.Pos.Y-5.1) > 1e-9 {
		t.Errorf("second row anchor y = %v, want 5.1", lastRow.Pos.Y)
	}
}
