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
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/raster"
)

// Image draws onto an RGBA image, compositing with the "source over"
// operator.
type Image struct {
	Dst *image.RGBA

	ras    *raster.Rasterizer
	fill   color.NRGBA
	stroke color.NRGBA
	style  Stroke
}

var _ Canvas = (*Image)(nil)

// NewImage returns a canvas drawing onto dst.  The initial transformation
// maps user space to the pixel grid of dst.
func NewImage(dst *image.RGBA) *Image {
	b := dst.Bounds()
	ras := raster.New(rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	})
	c := &Image{
		Dst:    dst,
		ras:    ras,
		fill:   color.NRGBA{A: 255},
		stroke: color.NRGBA{A: 255},
	}
	c.SetStrokeStyle(DefaultStroke)
	return c
}

// NewRGBA allocates a transparent w×h image and returns it together with
// a canvas drawing onto it.
func NewRGBA(w, h int) (*image.RGBA, *Image) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return img, NewImage(img)
}

func (c *Image) SetTransform(m matrix.Matrix) { c.ras.CTM = m }
func (c *Image) Transform() matrix.Matrix     { return c.ras.CTM }

func (c *Image) SetFillColor(col color.NRGBA)   { c.fill = col }
func (c *Image) SetStrokeColor(col color.NRGBA) { c.stroke = col }

func (c *Image) SetStrokeStyle(s Stroke) {
	c.style = s
	c.ras.Width = s.Width
	c.ras.Cap = s.Cap
	c.ras.Join = s.Join
	c.ras.MiterLimit = max(s.MiterLimit, 1)
	c.ras.Dash = s.Dash
	c.ras.DashPhase = s.DashPhase
}

func (c *Image) FillPath(p path.Path) {
	if c.fill.A == 0 {
		return
	}
	c.ras.Fill(p, raster.NonZero, c.painter(c.fill))
}

func (c *Image) StrokePath(p path.Path) {
	if c.stroke.A == 0 || c.style.Width <= 0 {
		return
	}
	c.ras.Stroke(p, c.painter(c.stroke))
}

// painter returns a coverage callback compositing col over the image.
func (c *Image) painter(col color.NRGBA) raster.EmitFunc {
	sr, sg, sb, sa := float32(col.R), float32(col.G), float32(col.B), float32(col.A)/255
	return func(y, xMin int, coverage []float32) {
		off := c.Dst.PixOffset(xMin, y)
		px := c.Dst.Pix[off : off+4*len(coverage)]
		for i, cov := range coverage {
			a := cov * sa
			if a <= 0 {
				continue
			}
			p := px[4*i : 4*i+4 : 4*i+4]
			keep := 1 - a
			p[0] = uint8(sr*a + float32(p[0])*keep + 0.5)
			p[1] = uint8(sg*a + float32(p[1])*keep + 0.5)
			p[2] = uint8(sb*a + float32(p[2])*keep + 0.5)
			p[3] = uint8(255*a + float32(p[3])*keep + 0.5)
		}
	}
}

func (c *Image) FillPolygon(pts ...vec.Vec2) { c.FillPath(raster.Polygon(pts...)) }
func (c *Image) DrawPolygon(pts ...vec.Vec2) { c.StrokePath(raster.Polygon(pts...)) }
func (c *Image) FillRect(x, y, w, h float64) { c.FillPath(raster.Rect(x, y, w, h)) }
func (c *Image) DrawRect(x, y, w, h float64) { c.StrokePath(raster.Rect(x, y, w, h)) }
func (c *Image) FillOval(x, y, w, h float64) { c.FillPath(raster.Ellipse(x, y, w, h)) }
func (c *Image) DrawOval(x, y, w, h float64) { c.StrokePath(raster.Ellipse(x, y, w, h)) }
func (c *Image) DrawLine(a, b vec.Vec2)      { c.StrokePath(raster.Polyline(a, b)) }

// DrawString renders the text into an intermediate image, which is then
// placed with DrawImage.  This keeps rotated labels anti-aliased.
func (c *Image) DrawString(text string, face font.Face, origin vec.Vec2, angle float64) {
	if text == "" || c.fill.A == 0 {
		return
	}
	img, ascent := TextImage(text, face, c.fill)
	if img == nil {
		return
	}
	m := Concat(Translation(0, -float64(ascent)), Rotation(angle))
	c.DrawImage(img, m.Translate(origin.X, origin.Y))
}

// TextImage renders text in the given colour onto a tight, transparent
// image.  The baseline is ascent pixels below the top edge.
func TextImage(text string, face font.Face, col color.NRGBA) (img *image.RGBA, ascent int) {
	metrics := face.Metrics()
	adv := font.MeasureString(face, text)
	w := adv.Ceil()
	ascent = metrics.Ascent.Ceil()
	h := ascent + metrics.Descent.Ceil()
	if w <= 0 || h <= 0 {
		return nil, 0
	}
	img = image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)
	return img, ascent
}

// DrawImage composites img, interpolating bilinearly.  The matrix m acts
// on coordinates relative to the top-left corner of img.  Pure translations
// by whole pixels are copied directly.
func (c *Image) DrawImage(img image.Image, m matrix.Matrix) {
	t := Concat(m, c.ras.CTM)
	b := img.Bounds()
	if t[0] == 1 && t[1] == 0 && t[2] == 0 && t[3] == 1 &&
		t[4] == math.Trunc(t[4]) && t[5] == math.Trunc(t[5]) {
		at := image.Pt(int(t[4]), int(t[5]))
		draw.Draw(c.Dst, b.Sub(b.Min).Add(at), img, b.Min, draw.Over)
		return
	}

	// x/image/draw maps absolute source coordinates, while m is relative
	// to the top-left corner of img
	mx, my := float64(b.Min.X), float64(b.Min.Y)
	aff := f64.Aff3{
		t[0], t[2], t[4] - t[0]*mx - t[2]*my,
		t[1], t[3], t[5] - t[1]*mx - t[3]*my,
	}
	xdraw.BiLinear.Transform(c.Dst, aff, img, b, xdraw.Over, nil)
}
