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

// Package mark draws the well-known marks into small raster images.
package mark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/style"
)

// Loader fetches an image which replaces a mark.
type Loader interface {
	Load(ctx context.Context, url string, w, h int) (image.Image, error)
}

// DefaultStroke is used for marks without a stroke: a black line one unit
// wide with round caps and joins.
var DefaultStroke = style.StrokeParams{
	Color:    style.DefaultStroke.Color,
	Opacity:  1,
	Width:    1,
	LineJoin: "round",
	LineCap:  "round",
}

// Rasterizer draws marks.  The zero value draws all built-in shapes, uses
// the built-in fonts for glyph marks, and ignores symbol URLs.
type Rasterizer struct {
	Fonts   *fonts.Registry
	Symbols Loader
}

// Rasterize draws the named mark at the given size.  The result is square.
// Its side is size, plus room for the outline on both sides.
//
// The names "square", "circle", "triangle", "star", "cross" and "x" are
// recognised, ignoring case.  A name "CHAR:<font>:<code>" draws the glyph
// with the given decimal character code in the stroke colour, on a
// background of the fill colour.  Other names draw a square.
//
// If the fill has a symbol URL, the image at this URL is used instead of
// the shape when it can be loaded.
//
// A nil fill gives [style.DefaultFill] and a nil stroke gives
// [DefaultStroke].
func (r *Rasterizer) Rasterize(ctx context.Context, name string, size int, fill *style.FillParams, stroke *style.StrokeParams) (*image.RGBA, error) {
	if size <= 0 {
		return nil, &sld.ConstructionError{What: "mark size", Err: fmt.Errorf("%d is not positive", size)}
	}
	if fill == nil {
		fill = &style.DefaultFill
	}
	if stroke == nil {
		stroke = &DefaultStroke
	}

	if fill.Symbol != "" && r.Symbols != nil {
		img, err := r.Symbols.Load(ctx, fill.Symbol, size, size)
		if err == nil {
			return fit(img, size), nil
		}
		sld.Logger().Debug("mark symbol unavailable", "url", fill.Symbol, "error", err)
	}

	if len(name) > 5 && strings.EqualFold(name[:5], "CHAR:") {
		return r.glyph(name, size, fill, stroke)
	}

	width := 0.0
	if stroke.Visible() {
		width = stroke.Width
	}
	offset := int(math.Ceil(width*2+1)) / 2
	n := size + 2*offset
	img, c := canvas.NewRGBA(n, n)
	c.SetFillColor(fill.Paint())
	c.SetStrokeColor(stroke.Paint())
	c.SetStrokeStyle(stroke.Canvas())

	x, y, s := float64(offset), float64(offset), float64(size)
	paint := func(pts ...vec.Vec2) {
		c.FillPolygon(pts...)
		if width > 0 {
			c.DrawPolygon(pts...)
		}
	}
	switch strings.ToLower(name) {
	case "circle":
		c.FillOval(x, y, s, s)
		if width > 0 {
			c.DrawOval(x, y, s, s)
		}
	case "triangle":
		paint(Triangle(x, y, s)...)
	case "star":
		paint(Star(x, y, s)...)
	case "cross":
		// The crosses have no interior and are drawn with the stroke only.
		if width > 0 {
			c.DrawLine(vec.Vec2{X: x, Y: y + s/2}, vec.Vec2{X: x + s, Y: y + s/2})
			c.DrawLine(vec.Vec2{X: x + s/2, Y: y}, vec.Vec2{X: x + s/2, Y: y + s})
		}
	case "x":
		if width > 0 {
			c.DrawLine(vec.Vec2{X: x, Y: y}, vec.Vec2{X: x + s, Y: y + s})
			c.DrawLine(vec.Vec2{X: x, Y: y + s}, vec.Vec2{X: x + s, Y: y})
		}
	default:
		c.FillRect(x, y, s, s)
		if width > 0 {
			c.DrawRect(x, y, s, s)
		}
	}
	return img, nil
}

// Triangle returns the corners of a triangle filling the square with top
// left corner (x, y) and side s.  The base is at the top and the apex
// points down.
func Triangle(x, y, s float64) []vec.Vec2 {
	return []vec.Vec2{
		{X: x, Y: y},
		{X: x + s/2, Y: y + s},
		{X: x + s, Y: y},
	}
}

// Star returns the ten corners of a five-pointed star inscribed in the
// square with top left corner (x, y) and side s.  The first point is at the
// top.
func Star(x, y, s float64) []vec.Vec2 {
	outer := s / 2
	inner := outer * math.Sin(math.Pi/10) / math.Sin(3*math.Pi/10)
	cx, cy := x+outer, y+outer
	pts := make([]vec.Vec2, 10)
	for i := range pts {
		rad := outer
		if i%2 == 1 {
			rad = inner
		}
		sin, cos := math.Sincos(float64(i) * math.Pi / 5)
		pts[i] = vec.Vec2{X: cx + rad*sin, Y: cy - rad*cos}
	}
	return pts
}

var errGlyphSyntax = errors.New("expected CHAR:<font>:<code>")

// glyph draws a "CHAR:<font>:<code>" mark.
func (r *Rasterizer) glyph(name string, size int, fill *style.FillParams, stroke *style.StrokeParams) (*image.RGBA, error) {
	parts := strings.Split(name, ":")
	if len(parts) != 3 {
		return nil, &sld.EvaluationError{Param: "WellKnownName", Value: name, Err: errGlyphSyntax}
	}
	code, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 32)
	if err != nil {
		return nil, &sld.EvaluationError{Param: "WellKnownName", Value: name, Err: errGlyphSyntax}
	}

	reg := r.Fonts
	if reg == nil {
		reg = &fonts.Registry{}
	}
	face, err := reg.Face(parts[1], fonts.Regular, float64(size))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	img, c := canvas.NewRGBA(size, size)
	c.SetFillColor(fill.Paint())
	c.FillRect(0, 0, float64(size), float64(size))

	text := string(rune(code))
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	h := m.Ascent + m.Descent
	half := fixed.I(size / 2)
	origin := vec.Vec2{
		X: fixedFloat(half - adv/2),
		Y: fixedFloat(half + h/2 - m.Descent),
	}
	c.SetFillColor(stroke.Paint())
	c.DrawString(text, face, origin, 0)
	return img, nil
}

func fixedFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// fit scales img to size×size pixels.
func fit(img image.Image, size int) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect == image.Rect(0, 0, size, size) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Over, nil)
	return dst
}
