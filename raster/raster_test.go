// seehuhn.de/go/sld - render styled layer descriptors
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// grid collects the output of a Rasterizer into a w×h array.
type grid struct {
	w, h int
	pix  []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	copy(g.pix[y*g.w+xMin:], coverage)
}

func (g *grid) at(x, y int) float32 {
	return g.pix[y*g.w+x]
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

// The triangle (0,0), (10,0), (10,1) has the diagonal y = x/10, so pixel x
// is covered by (2x+1)/20.
func TestTriangleCoverage(t *testing.T) {
	g := newGrid(10, 1)
	r := New(rect.Rect{URx: 10, URy: 1})
	r.Fill(Polygon(pt(0, 0), pt(10, 0), pt(10, 1)), NonZero, g.emit)

	for x := range 10 {
		want := float32(2*x+1) / 20
		if got := g.at(x, 0); math.Abs(float64(got-want)) > 1e-6 {
			t.Errorf("pixel %d: coverage %.4f, want %.4f", x, got, want)
		}
	}
}

func TestFillRules(t *testing.T) {
	ring := func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, pts := range Ellipse(2, 2, 28, 28) {
			if !yield(cmd, pts) {
				return
			}
		}
		for cmd, pts := range Ellipse(10, 10, 12, 12) {
			if !yield(cmd, pts) {
				return
			}
		}
	}

	cases := []struct {
		rule   FillRule
		centre float32
	}{
		{NonZero, 1},
		{EvenOdd, 0},
	}
	for _, c := range cases {
		g := newGrid(32, 32)
		r := New(rect.Rect{URx: 32, URy: 32})
		r.Fill(ring, c.rule, g.emit)
		if got := g.at(16, 16); !near(got, c.centre) {
			t.Errorf("rule %d: centre coverage %.3f, want %.3f", c.rule, got, c.centre)
		}
		if got := g.at(6, 16); !near(got, 1) {
			t.Errorf("rule %d: ring coverage %.3f, want 1", c.rule, got)
		}
		if got := g.at(0, 0); got != 0 {
			t.Errorf("rule %d: corner coverage %.3f, want 0", c.rule, got)
		}
	}
}

func TestClipAndTransform(t *testing.T) {
	g := newGrid(8, 8)
	r := New(rect.Rect{URx: 8, URy: 8})
	r.CTM = matrix.Scale(2, 2)
	r.Fill(Rect(1, 1, 10, 10), NonZero, g.emit)

	if got := g.at(1, 1); got != 0 {
		t.Errorf("pixel (1,1) = %.3f, want 0", got)
	}
	if got := g.at(2, 2); !near(got, 1) {
		t.Errorf("pixel (2,2) = %.3f, want 1", got)
	}
	if got := g.at(7, 7); !near(got, 1) {
		t.Errorf("pixel (7,7) = %.3f, want 1", got)
	}
}

func TestStrokeCaps(t *testing.T) {
	cases := []struct {
		cap     graphics.LineCapStyle
		outside float32 // coverage just beyond the end point
	}{
		{graphics.LineCapButt, 0},
		{graphics.LineCapSquare, 1},
	}
	for _, c := range cases {
		g := newGrid(20, 10)
		r := New(rect.Rect{URx: 20, URy: 10})
		r.Width = 2
		r.Cap = c.cap
		r.Stroke(Polyline(pt(2, 5), pt(18, 5)), g.emit)

		for _, y := range []int{4, 5} {
			if got := g.at(10, y); !near(got, 1) {
				t.Errorf("%s: pixel (10,%d) = %.3f, want 1", c.cap, y, got)
			}
		}
		if got := g.at(10, 3); got != 0 {
			t.Errorf("%s: pixel (10,3) = %.3f, want 0", c.cap, got)
		}
		if got := g.at(1, 4); !near(got, c.outside) {
			t.Errorf("%s: pixel (1,4) = %.3f, want %.3f", c.cap, got, c.outside)
		}
	}
}

func TestStrokeJoins(t *testing.T) {
	cases := []struct {
		join   graphics.LineJoinStyle
		corner float32
	}{
		{graphics.LineJoinMiter, 1},
		{graphics.LineJoinBevel, 0.5},
	}
	for _, c := range cases {
		g := newGrid(16, 16)
		r := New(rect.Rect{URx: 16, URy: 16})
		r.Width = 2
		r.Join = c.join
		r.Stroke(Polyline(pt(2, 10), pt(10, 10), pt(10, 2)), g.emit)

		if got := g.at(10, 10); !near(got, c.corner) {
			t.Errorf("%s: corner pixel = %.3f, want %.3f", c.join, got, c.corner)
		}
		if got := g.at(9, 9); !near(got, 1) {
			t.Errorf("%s: inner pixel = %.3f, want 1", c.join, got)
		}
	}
}

func TestStrokeDash(t *testing.T) {
	g := newGrid(20, 10)
	r := New(rect.Rect{URx: 20, URy: 10})
	r.Width = 2
	r.Dash = []float64{4, 4}
	r.Stroke(Polyline(pt(0, 5), pt(20, 5)), g.emit)

	for x, want := range map[int]float32{1: 1, 5: 0, 9: 1, 13: 0, 17: 1} {
		if got := g.at(x, 5); !near(got, want) {
			t.Errorf("pixel %d: coverage %.3f, want %.3f", x, got, want)
		}
	}

	// a phase of 4 swaps drawn and skipped parts
	g = newGrid(20, 10)
	r.DashPhase = 4
	r.Stroke(Polyline(pt(0, 5), pt(20, 5)), g.emit)
	if got := g.at(1, 5); got != 0 {
		t.Errorf("with phase: pixel 1 coverage %.3f, want 0", got)
	}
	if got := g.at(5, 5); !near(got, 1) {
		t.Errorf("with phase: pixel 5 coverage %.3f, want 1", got)
	}
}

func TestStrokeDot(t *testing.T) {
	g := newGrid(10, 10)
	r := New(rect.Rect{URx: 10, URy: 10})
	r.Width = 4
	r.Cap = graphics.LineCapRound
	r.Stroke(Polyline(pt(5, 5)), g.emit)
	if got := g.at(5, 5); !near(got, 1) {
		t.Errorf("round dot centre = %.3f, want 1", got)
	}

	g = newGrid(10, 10)
	r.Cap = graphics.LineCapButt
	r.Stroke(Polyline(pt(5, 5)), g.emit)
	for _, c := range g.pix {
		if c != 0 {
			t.Fatal("butt cap on a point must not draw")
		}
	}
}

func TestStrokeClosedRectangle(t *testing.T) {
	g := newGrid(20, 20)
	r := New(rect.Rect{URx: 20, URy: 20})
	r.Width = 2
	r.Stroke(Rect(4, 4, 12, 12), g.emit)

	// the miter fills the outer corner
	if got := g.at(3, 3); !near(got, 1) {
		t.Errorf("corner = %.3f, want 1", got)
	}
	if got := g.at(10, 10); got != 0 {
		t.Errorf("interior = %.3f, want 0", got)
	}
	if got := g.at(10, 4); !near(got, 1) {
		t.Errorf("edge = %.3f, want 1", got)
	}
}
