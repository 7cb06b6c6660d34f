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

	"golang.org/x/image/font"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/sld/raster"
)

// Page is the part of a PDF content stream writer used by [PDF].  It is
// implemented by the pages of seehuhn.de/go/pdf/document.
type Page interface {
	Transform(m matrix.Matrix)
	SetFillColor(c pdfcolor.Color)
	SetStrokeColor(c pdfcolor.Color)
	SetLineWidth(w float64)
	SetLineCap(c graphics.LineCapStyle)
	SetLineJoin(j graphics.LineJoinStyle)
	SetMiterLimit(l float64)
	SetLineDash(dash []float64, phase float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
	Fill()
	Stroke()
}

// PDF draws onto a PDF page.  Coordinates are transformed before they are
// written, so the content stream only contains device space paths.
//
// PDF has no notion of partially transparent paint without extended
// graphics state, so colours are blended with a white page background.
// Images are written as one rectangle per run of equal pixels, which is
// adequate for the small symbols drawn by this module.
type PDF struct {
	page   Page
	ctm    matrix.Matrix
	fill   color.NRGBA
	stroke color.NRGBA
	style  Stroke
}

var _ Canvas = (*PDF)(nil)

// NewPDF returns a canvas for a page of the given height in points.  The
// y-axis of user space points down, with the origin in the top-left corner.
func NewPDF(page Page, height float64) *PDF {
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, height})
	return &PDF{
		page:   page,
		ctm:    matrix.Identity,
		fill:   color.NRGBA{A: 255},
		stroke: color.NRGBA{A: 255},
		style:  DefaultStroke,
	}
}

func (c *PDF) SetTransform(m matrix.Matrix) { c.ctm = m }
func (c *PDF) Transform() matrix.Matrix     { return c.ctm }

func (c *PDF) SetFillColor(col color.NRGBA)   { c.fill = col }
func (c *PDF) SetStrokeColor(col color.NRGBA) { c.stroke = col }
func (c *PDF) SetStrokeStyle(s Stroke)        { c.style = s }

func (c *PDF) FillPath(p path.Path) {
	if c.fill.A == 0 {
		return
	}
	c.page.SetFillColor(onWhite(c.fill))
	if c.emit(p) {
		c.page.Fill()
	}
}

func (c *PDF) StrokePath(p path.Path) {
	if c.stroke.A == 0 || c.style.Width <= 0 {
		return
	}

	// widths scale with the mean scale factor of the transformation
	scale := math.Sqrt(math.Abs(c.ctm[0]*c.ctm[3] - c.ctm[1]*c.ctm[2]))
	c.page.SetStrokeColor(onWhite(c.stroke))
	c.page.SetLineWidth(c.style.Width * scale)
	c.page.SetLineCap(c.style.Cap)
	c.page.SetLineJoin(c.style.Join)
	c.page.SetMiterLimit(max(c.style.MiterLimit, 1))
	if len(c.style.Dash) > 0 {
		dash := make([]float64, len(c.style.Dash))
		for i, d := range c.style.Dash {
			dash[i] = d * scale
		}
		c.page.SetLineDash(dash, c.style.DashPhase*scale)
	} else {
		c.page.SetLineDash(nil, 0)
	}
	if c.emit(p) {
		c.page.Stroke()
	}
}

// emit writes p to the content stream and reports whether p was non-empty.
// Quadratic segments are written as the equivalent cubic curves.
func (c *PDF) emit(p path.Path) bool {
	var cur vec.Vec2
	drawn := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			q := Apply(c.ctm, pts[0])
			c.page.MoveTo(q.X, q.Y)
			cur = pts[0]
		case path.CmdLineTo:
			q := Apply(c.ctm, pts[0])
			c.page.LineTo(q.X, q.Y)
			cur = pts[0]
		case path.CmdQuadTo:
			c1 := Apply(c.ctm, cur.Add(pts[0].Sub(cur).Mul(2.0/3)))
			c2 := Apply(c.ctm, pts[1].Add(pts[0].Sub(pts[1]).Mul(2.0/3)))
			q := Apply(c.ctm, pts[1])
			c.page.CurveTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			cur = pts[1]
		case path.CmdCubeTo:
			c1 := Apply(c.ctm, pts[0])
			c2 := Apply(c.ctm, pts[1])
			q := Apply(c.ctm, pts[2])
			c.page.CurveTo(c1.X, c1.Y, c2.X, c2.Y, q.X, q.Y)
			cur = pts[2]
		case path.CmdClose:
			c.page.ClosePath()
		}
		drawn = true
	}
	return drawn
}

func (c *PDF) FillPolygon(pts ...vec.Vec2) { c.FillPath(raster.Polygon(pts...)) }
func (c *PDF) DrawPolygon(pts ...vec.Vec2) { c.StrokePath(raster.Polygon(pts...)) }
func (c *PDF) FillRect(x, y, w, h float64) { c.FillPath(raster.Rect(x, y, w, h)) }
func (c *PDF) DrawRect(x, y, w, h float64) { c.StrokePath(raster.Rect(x, y, w, h)) }
func (c *PDF) FillOval(x, y, w, h float64) { c.FillPath(raster.Ellipse(x, y, w, h)) }
func (c *PDF) DrawOval(x, y, w, h float64) { c.StrokePath(raster.Ellipse(x, y, w, h)) }
func (c *PDF) DrawLine(a, b vec.Vec2)      { c.StrokePath(raster.Polyline(a, b)) }

// DrawString draws the text as an image, since the canvas does not embed
// fonts.
func (c *PDF) DrawString(text string, face font.Face, origin vec.Vec2, angle float64) {
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

func (c *PDF) DrawImage(img image.Image, m matrix.Matrix) {
	saved, savedCTM := c.fill, c.ctm
	defer func() { c.fill, c.ctm = saved, savedCTM }()
	c.ctm = Concat(m, c.ctm)

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		x := b.Min.X
		for x < b.Max.X {
			col := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			end := x + 1
			for end < b.Max.X && color.NRGBAModel.Convert(img.At(end, y)) == col {
				end++
			}
			if col.A > 0 {
				c.fill = col
				c.FillRect(float64(x-b.Min.X), float64(y-b.Min.Y), float64(end-x), 1)
			}
			x = end
		}
	}
}

// onWhite blends col with a white background.
func onWhite(col color.NRGBA) pdfcolor.Color {
	a := float64(col.A) / 255
	ch := func(v uint8) float64 {
		return (float64(v)*a + 255*(1-a)) / 255
	}
	return pdfcolor.DeviceRGB{ch(col.R), ch(col.G), ch(col.B)}
}
