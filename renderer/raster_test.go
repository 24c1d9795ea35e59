package renderer

import (
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestWoundIsNegative(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c r2.Vec
	}{
		{"already ordered", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 1, Y: 1}},
		{"reversed", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, c := wound(tt.a, tt.b, tt.c)
			if got := signedArea(a, b, c); got >= 0 {
				t.Errorf("expected negative winding, got %v", got)
			}
		})
	}
}

func TestFanCoversArea(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tris := fan(square)
	if len(tris) != 4 {
		t.Fatalf("expected 4 triangles, got %d", len(tris))
	}
	var area float64
	for _, tr := range tris {
		s := signedArea(tr[0], tr[1], tr[2])
		if s > 0 {
			t.Errorf("expected all triangles wound for raylib, got %v", s)
		}
		area += math.Abs(s) / 2
	}
	if math.Abs(area-100) > 1e-9 {
		t.Errorf("expected area 100, got %v", area)
	}

	if fan(square[:2]) != nil {
		t.Error("expected no triangles for a degenerate outline")
	}
}

func TestAreaStrip(t *testing.T) {
	top := []r2.Vec{{X: 0, Y: 2}, {X: 5, Y: 0}, {X: 10, Y: 2}}
	tris := areaStrip(top, 10)
	if len(tris) != 4 {
		t.Fatalf("expected 4 triangles, got %d", len(tris))
	}
	var area float64
	for _, tr := range tris {
		area += math.Abs(signedArea(tr[0], tr[1], tr[2])) / 2
	}
	// Two trapezoids of width 5 with heights 8 and 10
	if math.Abs(area-90) > 1e-9 {
		t.Errorf("expected area 90, got %v", area)
	}
}

func TestScanlineEvenOdd(t *testing.T) {
	outer := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	hole := []r2.Vec{{X: 3, Y: 3}, {X: 7, Y: 3}, {X: 7, Y: 7}, {X: 3, Y: 7}}
	subpaths := [][]r2.Vec{outer, hole}

	tests := []struct {
		y    float64
		want []float64
	}{
		{1, []float64{0, 10}},
		{5, []float64{0, 3, 7, 10}},
		{11, nil},
	}
	for _, tt := range tests {
		got := scanline(subpaths, tt.y, nil)
		if len(got) != len(tt.want) {
			t.Errorf("y=%v: expected %v, got %v", tt.y, tt.want, got)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("y=%v: expected %v, got %v", tt.y, tt.want, got)
			}
		}
	}

	minY, maxY := bounds(subpaths)
	if minY != 0 || maxY != 10 {
		t.Errorf("expected bounds 0..10, got %v..%v", minY, maxY)
	}
}

func TestRGBAScalesAlpha(t *testing.T) {
	c := rgba(color.NRGBA{R: 10, G: 20, B: 30, A: 200}, 0.5)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 100 {
		t.Errorf("expected 10,20,30,100, got %v", c)
	}
	if c := rgba(color.NRGBA{A: 200}, 2); c.A != 200 {
		t.Errorf("expected opacity clamped to 1, got %d", c.A)
	}
}
