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

package canvas

import (
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/font/basicfont"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
)

func TestFillRect(t *testing.T) {
	img, c := NewRGBA(10, 10)
	c.SetFillColor(color.NRGBA{R: 255, A: 255})
	c.FillRect(2, 2, 4, 4)

	if got := img.RGBAAt(3, 3); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside: %v", got)
	}
	if got := img.RGBAAt(7, 7); got != (color.RGBA{}) {
		t.Errorf("outside: %v", got)
	}
}

func TestSourceOver(t *testing.T) {
	img, c := NewRGBA(4, 4)
	c.SetFillColor(color.NRGBA{B: 255, A: 255})
	c.FillRect(0, 0, 4, 4)
	c.SetFillColor(color.NRGBA{R: 255, A: 128})
	c.FillRect(0, 0, 4, 4)

	got := img.RGBAAt(1, 1)
	if got.A != 255 {
		t.Errorf("alpha = %d, want 255", got.A)
	}
	if math.Abs(float64(got.R)-128) > 1 || math.Abs(float64(got.B)-127) > 1 {
		t.Errorf("blend = %v", got)
	}
}

func TestTransform(t *testing.T) {
	img, c := NewRGBA(20, 20)
	c.SetTransform(Concat(matrix.Scale(2, 2), Translation(5, 5)))
	c.SetFillColor(color.NRGBA{G: 255, A: 255})
	c.FillRect(0, 0, 2, 2)

	if got := img.RGBAAt(6, 6); got.G != 255 {
		t.Errorf("pixel (6,6) = %v", got)
	}
	if got := img.RGBAAt(9, 9); got.G != 0 {
		t.Errorf("pixel (9,9) = %v", got)
	}
}

func TestConcatInvert(t *testing.T) {
	m := Concat(Rotation(30), Translation(3, -2))
	inv, ok := Invert(m)
	if !ok {
		t.Fatal("rotation reported as singular")
	}
	p := vec.Vec2{X: 1.5, Y: 7}
	q := Apply(inv, Apply(m, p))
	if q.Sub(p).Length() > 1e-12 {
		t.Errorf("round trip gives %v", q)
	}

	if _, ok := Invert(matrix.Matrix{1, 2, 2, 4, 0, 0}); ok {
		t.Error("singular matrix inverted")
	}

	// positive angles turn the x-axis towards the (downward) y-axis
	r := Apply(Rotation(90), vec.Vec2{X: 1})
	if math.Abs(r.X) > 1e-12 || math.Abs(r.Y-1) > 1e-12 {
		t.Errorf("Rotation(90) maps (1,0) to %v", r)
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	img, c := NewRGBA(8, 8)
	c.DrawImage(src, Translation(3, 4))
	if got := img.RGBAAt(3, 4); got.A != 255 {
		t.Errorf("copied pixel = %v", got)
	}
	if got := img.RGBAAt(5, 4); got.A != 0 {
		t.Errorf("pixel beyond image = %v", got)
	}

	// scaled copies go through the interpolating path
	img, c = NewRGBA(8, 8)
	c.DrawImage(src, Concat(matrix.Scale(3, 3), Translation(1, 1)))
	if got := img.RGBAAt(3, 3); got.A != 255 {
		t.Errorf("scaled pixel = %v", got)
	}
}

func TestDrawString(t *testing.T) {
	img, c := NewRGBA(60, 20)
	c.SetFillColor(color.NRGBA{A: 255})
	c.DrawString("Hi", basicfont.Face7x13, vec.Vec2{X: 2, Y: 14}, 0)

	ink := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("no text drawn")
	}
}

// recorder is a [Page] which remembers the operators written.
type recorder struct {
	ops   []string
	fills []pdfcolor.Color
	width float64
}

func (r *recorder) Transform(matrix.Matrix)            { r.ops = append(r.ops, "cm") }
func (r *recorder) SetFillColor(c pdfcolor.Color)      { r.fills = append(r.fills, c) }
func (r *recorder) SetStrokeColor(pdfcolor.Color)      {}
func (r *recorder) SetLineWidth(w float64)             { r.width = w }
func (r *recorder) SetLineCap(graphics.LineCapStyle)   {}
func (r *recorder) SetLineJoin(graphics.LineJoinStyle) {}
func (r *recorder) SetMiterLimit(float64)              {}
func (r *recorder) SetLineDash([]float64, float64)     {}
func (r *recorder) MoveTo(x, y float64)                { r.ops = append(r.ops, "m") }
func (r *recorder) LineTo(x, y float64)                { r.ops = append(r.ops, "l") }
func (r *recorder) CurveTo(_, _, _, _, _, _ float64)   { r.ops = append(r.ops, "c") }
func (r *recorder) ClosePath()                         { r.ops = append(r.ops, "h") }
func (r *recorder) Fill()                              { r.ops = append(r.ops, "f") }
func (r *recorder) Stroke()                            { r.ops = append(r.ops, "S") }

func TestPDF(t *testing.T) {
	rec := &recorder{}
	c := NewPDF(rec, 100)
	c.SetTransform(matrix.Scale(2, 2))
	c.SetStrokeStyle(Stroke{Width: 1.5, MiterLimit: 10})
	c.DrawLine(vec.Vec2{}, vec.Vec2{X: 10})
	c.FillRect(0, 0, 1, 1)

	want := []string{"cm", "m", "l", "S", "m", "l", "l", "l", "h", "f"}
	if len(rec.ops) != len(want) {
		t.Fatalf("operators %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Fatalf("operators %v, want %v", rec.ops, want)
		}
	}
	if rec.width != 3 {
		t.Errorf("line width %g, want 3", rec.width)
	}

	// half transparent black on white is mid grey
	rec.fills = nil
	c.SetFillColor(color.NRGBA{A: 0x80})
	c.FillRect(0, 0, 1, 1)
	g := rec.fills[0].(pdfcolor.DeviceRGB)
	if math.Abs(g[0]-0.498) > 0.01 {
		t.Errorf("blended colour %v", g)
	}
}
