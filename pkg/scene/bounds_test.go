package scene

import (
	"math"
	"testing"
)

func TestBoundsInclude(t *testing.T) {
	b := EmptyBounds()
	if !b.Empty() {
		t.Fatal("EmptyBounds() not empty")
	}

	b.Include(Vec2{1, 2})
	b.Include(Vec2{-3, 5})
	b.Include(Vec2{math.NaN(), 100})
	b.Include(Vec2{100, math.Inf(1)})

	want := Bounds{MinX: -3, MinY: 2, MaxX: 1, MaxY: 5}
	if b != want {
		t.Errorf("bounds = %v, want %v", b, want)
	}
}

func TestBoundsUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Bounds
		want Bounds
	}{
		{
			name: "overlapping",
			a:    Bounds{0, 0, 2, 2},
			b:    Bounds{1, 1, 3, 3},
			want: Bounds{0, 0, 3, 3},
		},
		{
			name: "empty left",
			a:    EmptyBounds(),
			b:    Bounds{1, 1, 3, 3},
			want: Bounds{1, 1, 3, 3},
		},
		{
			name: "empty right",
			a:    Bounds{0, 0, 2, 2},
			b:    EmptyBounds(),
			want: Bounds{0, 0, 2, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsPad(t *testing.T) {
	t.Run("regular", func(t *testing.T) {
		b := Bounds{0, 0, 10, 5}
		got := b.Pad(0.1)
		if got.MinX != -1 || got.MaxX != 11 || got.MinY != -1 || got.MaxY != 6 {
			t.Errorf("Pad(0.1) = %v", got)
		}
	})

	t.Run("single point stays projectable", func(t *testing.T) {
		b := Bounds{3, 3, 3, 3}
		got := b.Pad(0)
		if got.Width() <= 0 || got.Height() <= 0 {
			t.Errorf("Pad(0) on point = %v, want positive extent", got)
		}
	})

	t.Run("horizontal line stays projectable", func(t *testing.T) {
		b := Bounds{0, 2, 10, 2}
		got := b.Pad(0)
		if got.Height() <= 0 {
			t.Errorf("Pad(0) on line = %v, want positive height", got)
		}
	})
}
