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

package render

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
	"seehuhn.de/go/sld/style"
)

func newRenderer(w, h int) (*image.RGBA, *Renderer) {
	img, c := canvas.NewRGBA(w, h)
	return img, New(c, matrix.Identity, 0, nil, nil)
}

func feature(g Geometry) *filter.Map {
	return &filter.Map{FID: "f1", Props: map[string]any{DefaultGeometry: g}}
}

func fill(col string) *style.Fill {
	return &style.Fill{Params: style.Params{}.Lit(style.ParamFill, col)}
}

func stroke(col, width string) *style.Stroke {
	return &style.Stroke{Params: style.Params{}.
		Lit(style.ParamStroke, col).
		Lit(style.ParamStrokeWidth, width)}
}

func alpha(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestRenderSkipsFailing(t *testing.T) {
	img, r := newRenderer(40, 40)
	bad := &style.PolygonSymbolizer{Fill: fill("#zzzzzz")}
	missing := &style.PointSymbolizer{Common: style.Common{Geometry: "location"}}
	good := &style.LineSymbolizer{Stroke: stroke("#ff0000", "4")}
	fts, err := style.NewFeatureTypeStyle("test", &style.Rule{
		Symbolizers: []style.Symbolizer{bad, missing, good},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := &style.Style{FeatureTypeStyles: []*style.FeatureTypeStyle{fts}}

	f := feature(LineString{{X: 0, Y: 20}, {X: 40, Y: 20}})
	skipped, err := r.Render(context.Background(), s, f)
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if c := img.RGBAAt(20, 20); c.R != 0xff || c.A != 0xff {
		t.Errorf("line not drawn: %v", c)
	}
}

func TestRenderCancelled(t *testing.T) {
	_, r := newRenderer(10, 10)
	fts, err := style.NewFeatureTypeStyle("test", &style.Rule{
		Symbolizers: []style.Symbolizer{&style.LineSymbolizer{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := &style.Style{FeatureTypeStyles: []*style.FeatureTypeStyle{fts}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, s, feature(LineString{{X: 0, Y: 5}, {X: 10, Y: 5}}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestPoint(t *testing.T) {
	img, r := newRenderer(40, 40)
	sym := &style.PointSymbolizer{Graphic: &style.Graphic{
		Sources: []style.GraphicSource{&style.Mark{WellKnownName: "square", Fill: fill("#ff0000")}},
		Size:    param.Lit("size", "10"),
	}}
	err := r.Symbolizer(context.Background(), sym, feature(Point{X: 20, Y: 20}))
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(20, 20); c.R != 0xff || c.G != 0 || c.A != 0xff {
		t.Errorf("centre = %v", c)
	}
	if a := alpha(img, 2, 2); a != 0 {
		t.Errorf("corner alpha = %d", a)
	}
}

func TestPointDisplacement(t *testing.T) {
	img, r := newRenderer(40, 40)
	sym := &style.PointSymbolizer{Graphic: &style.Graphic{
		Sources:       []style.GraphicSource{&style.Mark{WellKnownName: "square", Fill: fill("#ff0000")}},
		Size:          param.Lit("size", "6"),
		DisplacementY: param.Lit("displacement-y", "10"),
	}}
	err := r.Symbolizer(context.Background(), sym, feature(Point{X: 20, Y: 20}))
	if err != nil {
		t.Fatal(err)
	}
	// positive displacements move the symbol up
	if a := alpha(img, 20, 10); a != 0xff {
		t.Errorf("alpha at displaced centre = %d", a)
	}
	if a := alpha(img, 20, 20); a != 0 {
		t.Errorf("alpha at anchor = %d", a)
	}
}

func TestLine(t *testing.T) {
	img, r := newRenderer(40, 40)
	err := r.Draw(context.Background(), &style.LineSymbolizer{Stroke: stroke("#000000", "4")},
		nil, LineString{{X: 0, Y: 10}, {X: 40, Y: 10}})
	if err != nil {
		t.Fatal(err)
	}
	for _, y := range []int{8, 9, 10, 11} {
		if a := alpha(img, 20, y); a != 0xff {
			t.Errorf("alpha at y=%d is %d", y, a)
		}
	}
	if a := alpha(img, 20, 14); a != 0 {
		t.Errorf("alpha at y=14 is %d", a)
	}
}

func TestLineOffset(t *testing.T) {
	img, r := newRenderer(40, 40)
	sym := &style.LineSymbolizer{
		Stroke:              stroke("#000000", "2"),
		PerpendicularOffset: param.Lit("perpendicular-offset", "6"),
	}
	err := r.Draw(context.Background(), sym, nil, LineString{{X: 0, Y: 20}, {X: 40, Y: 20}})
	if err != nil {
		t.Fatal(err)
	}
	// left of a line running to the right is up on the page
	if a := alpha(img, 20, 14); a != 0xff {
		t.Errorf("alpha at offset line = %d", a)
	}
	if a := alpha(img, 20, 20); a != 0 {
		t.Errorf("alpha at original line = %d", a)
	}
}

func TestLineWrongGeometry(t *testing.T) {
	_, r := newRenderer(10, 10)
	err := r.Draw(context.Background(), &style.LineSymbolizer{}, nil, Point{X: 5, Y: 5})
	if !errors.Is(err, errWrongGeometry) {
		t.Errorf("got %v, want %v", err, errWrongGeometry)
	}
}

func TestPolygonHole(t *testing.T) {
	img, r := newRenderer(40, 40)
	outer := []vec.Vec2{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}}
	hole := []vec.Vec2{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30}}
	err := r.Draw(context.Background(), &style.PolygonSymbolizer{Fill: fill("#0000ff")},
		nil, Polygon{outer, hole})
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(5, 5); c.B != 0xff || c.A != 0xff {
		t.Errorf("outside hole: %v", c)
	}
	if a := alpha(img, 20, 20); a != 0 {
		t.Errorf("alpha inside hole = %d", a)
	}
}

func TestPolygonOutline(t *testing.T) {
	img, r := newRenderer(40, 40)
	ring := []vec.Vec2{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30}}
	err := r.Draw(context.Background(), &style.PolygonSymbolizer{Stroke: stroke("#000000", "2")},
		nil, Polygon{ring})
	if err != nil {
		t.Fatal(err)
	}
	if a := alpha(img, 20, 20); a != 0 {
		t.Errorf("interior alpha = %d", a)
	}
	if a := alpha(img, 20, 10); a == 0 {
		t.Error("outline missing")
	}
}

func TestRasterCategorize(t *testing.T) {
	img, r := newRenderer(40, 20)
	sym := &style.RasterSymbolizer{
		ColorMap: &colormap.Categorize{
			Thresholds: []float64{5},
			Values:     []colormap.Entry{colormap.MustEntry("#ff0000"), colormap.MustEntry("#0000ff")},
		},
	}
	cov := &Coverage{
		Grid:   &colormap.Grid{W: 2, H: 1, Data: []float32{0, 10}},
		Bounds: rect.Rect{LLx: 0, LLy: 20, URx: 40, URy: 0},
	}
	if err := r.Draw(context.Background(), sym, nil, cov); err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(10, 10); c.R < 0xf0 || c.B > 0x10 {
		t.Errorf("left cell: %v", c)
	}
	if c := img.RGBAAt(30, 10); c.B < 0xf0 || c.R > 0x10 {
		t.Errorf("right cell: %v", c)
	}
}

func TestRasterWrongGeometry(t *testing.T) {
	_, r := newRenderer(10, 10)
	err := r.Draw(context.Background(), &style.RasterSymbolizer{}, nil, Point{X: 1, Y: 1})
	if !errors.Is(err, errWrongGeometry) {
		t.Errorf("got %v, want %v", err, errWrongGeometry)
	}
}

func TestRasterShortGrid(t *testing.T) {
	img, r := newRenderer(10, 10)
	cov := &Coverage{
		Grid:   &colormap.Grid{W: 4, H: 4, Data: make([]float32, 15)},
		Bounds: rect.Rect{URx: 10, URy: 10},
	}
	err := r.Draw(context.Background(), &style.RasterSymbolizer{}, nil, cov)
	if !errors.Is(err, errWrongGeometry) {
		t.Errorf("got %v, want %v", err, errWrongGeometry)
	}
	if a := alpha(img, 5, 5); a != 0 {
		t.Errorf("short grid was drawn: alpha %d", a)
	}
}

func TestText(t *testing.T) {
	img, r := newRenderer(64, 32)
	sym := &style.TextSymbolizer{Label: param.Lit("label", "Abc")}
	if err := r.Draw(context.Background(), sym, nil, Point{X: 4, Y: 16}); err != nil {
		t.Fatal(err)
	}
	drawn := 0
	for y := range 32 {
		for x := range 64 {
			if alpha(img, x, y) != 0 {
				drawn++
				if x < 3 {
					t.Fatalf("pixel left of the anchor at (%d, %d)", x, y)
				}
			}
		}
	}
	if drawn == 0 {
		t.Error("no text drawn")
	}
}

func TestTextEmpty(t *testing.T) {
	img, r := newRenderer(16, 16)
	for _, sym := range []*style.TextSymbolizer{
		{},
		{Label: param.Lit("label", "  ")},
	} {
		if err := r.Draw(context.Background(), sym, nil, Point{X: 8, Y: 8}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatal("empty label drew pixels")
		}
	}
}

func TestTextAlongLine(t *testing.T) {
	img, r := newRenderer(200, 40)
	sym := &style.TextSymbolizer{
		Label:     param.Lit("label", "ab"),
		Placement: &style.LinePlacement{},
	}
	err := r.Draw(context.Background(), sym, nil, LineString{{X: 0, Y: 20}, {X: 200, Y: 20}})
	if err != nil {
		t.Fatal(err)
	}

	// the label is repeated along the line, centred on it
	var xs []int
	for x := range 200 {
		for y := range 40 {
			if alpha(img, x, y) != 0 {
				if y < 8 || y > 32 {
					t.Fatalf("pixel far from the line at (%d, %d)", x, y)
				}
				xs = append(xs, x)
				break
			}
		}
	}
	if len(xs) == 0 {
		t.Fatal("no text drawn")
	}
	if xs[0] > 20 || xs[len(xs)-1] < 180 {
		t.Errorf("labels cover x=%d..%d, want most of the line", xs[0], xs[len(xs)-1])
	}
}

func TestTextBadOffset(t *testing.T) {
	_, r := newRenderer(20, 20)
	sym := &style.TextSymbolizer{
		Label: param.Lit("label", "a"),
		Placement: &style.LinePlacement{
			PerpendicularOffset: param.Lit("perpendicular-offset", "sideways"),
		},
	}
	err := r.Draw(context.Background(), sym, nil, LineString{{X: 0, Y: 10}, {X: 20, Y: 10}})
	if err == nil {
		t.Error("invalid offset accepted")
	}
}

func TestLegendEntry(t *testing.T) {
	img, r := newRenderer(20, 20)
	rule := &style.Rule{
		Name: "water",
		Symbolizers: []style.Symbolizer{
			&style.PolygonSymbolizer{Fill: fill("#0000ff")},
			&style.TextSymbolizer{Label: param.Prop("label", "name")},
		},
	}
	skipped := r.LegendEntry(context.Background(), rule, rect.Rect{URx: 20, URy: 20}, nil)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if c := img.RGBAAt(10, 10); c.B != 0xff || c.A != 0xff {
		t.Errorf("centre = %v", c)
	}
	if a := alpha(img, 0, 0); a != 0 {
		t.Errorf("corner alpha = %d", a)
	}
	if r.Transform != matrix.Identity {
		t.Error("transform not restored")
	}
}

func TestGeometryOf(t *testing.T) {
	if _, err := GeometryOf(nil, ""); !errors.Is(err, filter.ErrNoFeature) {
		t.Errorf("nil feature: %v", err)
	}
	f := &filter.Map{FID: "a", Props: map[string]any{
		"geometry": Point{X: 1, Y: 2},
		"shape":    "circle",
	}}
	g, err := GeometryOf(f, "")
	if err != nil || g != (Point{X: 1, Y: 2}) {
		t.Errorf("default geometry: %v, %v", g, err)
	}
	if _, err := GeometryOf(f, "shape"); err == nil {
		t.Error("string accepted as geometry")
	}
	if _, err := GeometryOf(f, "other"); err == nil {
		t.Error("missing geometry accepted")
	}
}

func TestAlong(t *testing.T) {
	pts := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	cases := []struct {
		s     float64
		p     vec.Vec2
		angle float64
	}{
		{0, vec.Vec2{X: 0, Y: 0}, 0},
		{5, vec.Vec2{X: 5, Y: 0}, 0},
		{15, vec.Vec2{X: 10, Y: 5}, 90},
		{25, vec.Vec2{X: 10, Y: 10}, 90},
	}
	for _, c := range cases {
		p, angle, ok := along(pts, c.s)
		if !ok || p.Sub(c.p).Length() > 1e-9 || math.Abs(angle-c.angle) > 1e-9 {
			t.Errorf("along(%g) = %v, %g, %t", c.s, p, angle, ok)
		}
	}
	if _, _, ok := along(nil, 1); ok {
		t.Error("empty line")
	}
}

func TestOffsetLine(t *testing.T) {
	pts := []vec.Vec2{{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 20}}
	got := offsetLine(pts, 2)
	want := []vec.Vec2{{X: 0, Y: 8}, {X: 12, Y: 8}, {X: 12, Y: 20}}
	for i := range want {
		if got[i].Sub(want[i]).Length() > 1e-9 {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCentroid(t *testing.T) {
	ring := []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}
	c, ok := centroid(ring)
	if !ok || c.Sub(vec.Vec2{X: 2, Y: 1}).Length() > 1e-9 {
		t.Errorf("centroid = %v, %t", c, ok)
	}

	// degenerate rings use the mean of the points
	c, ok = centroid([]vec.Vec2{{X: 0, Y: 0}, {X: 2, Y: 2}})
	if !ok || c.Sub(vec.Vec2{X: 1, Y: 1}).Length() > 1e-9 {
		t.Errorf("degenerate centroid = %v, %t", c, ok)
	}
}

func TestAnchors(t *testing.T) {
	g := Collection{
		Point{X: 1, Y: 1},
		LineString{{X: 0, Y: 0}, {X: 10, Y: 0}},
		Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}},
	}
	got := anchors(g)
	want := []vec.Vec2{{X: 1, Y: 1}, {X: 5, Y: 0}, {X: 1, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d anchors, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Sub(want[i]).Length() > 1e-9 {
			t.Errorf("anchor %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
