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

// Package canvas defines the drawing surface used to render symbols, and
// implements it for raster images and PDF pages.
//
// Coordinates are in user space.  The transformation set by SetTransform
// maps user space to the device space of the surface, where the unit is
// one pixel (or one PDF point) and the y-axis points down.
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
)

// Canvas is a drawing surface.
type Canvas interface {
	// SetTransform sets the map from user space to device space.
	SetTransform(m matrix.Matrix)
	Transform() matrix.Matrix

	SetFillColor(c color.NRGBA)
	SetStrokeColor(c color.NRGBA)
	SetStrokeStyle(s Stroke)

	FillPath(p path.Path)
	StrokePath(p path.Path)

	FillPolygon(pts ...vec.Vec2)
	DrawPolygon(pts ...vec.Vec2)
	FillRect(x, y, w, h float64)
	DrawRect(x, y, w, h float64)
	FillOval(x, y, w, h float64)
	DrawOval(x, y, w, h float64)
	DrawLine(a, b vec.Vec2)

	// DrawString draws text in the fill colour.  The baseline starts at
	// origin and is rotated by angle degrees, clockwise on the page.
	DrawString(text string, face font.Face, origin vec.Vec2, angle float64)

	// DrawImage draws img, with m mapping image pixel coordinates to user
	// space.
	DrawImage(img image.Image, m matrix.Matrix)
}

// Stroke collects the line parameters used by StrokePath.
type Stroke struct {
	Width      float64
	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
	Dash       []float64
	DashPhase  float64
}

// DefaultStroke is a solid line one unit wide, with butt caps and miter
// joins.
var DefaultStroke = Stroke{
	Width:      1,
	Cap:        graphics.LineCapButt,
	Join:       graphics.LineJoinMiter,
	MiterLimit: 10,
}

// Concat returns the transformation which applies a first and then b.
func Concat(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

// Rotation returns the rotation by deg degrees.  With the y-axis pointing
// down, positive angles turn clockwise.
func Rotation(deg float64) matrix.Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return matrix.Matrix{cos, sin, -sin, cos, 0, 0}
}

// Translation returns the translation by (dx, dy).
func Translation(dx, dy float64) matrix.Matrix {
	return matrix.Matrix{1, 0, 0, 1, dx, dy}
}

// Apply maps the point p using m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Invert returns the inverse of m.  The second return value is false if m
// is singular.
func Invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return matrix.Matrix{}, false
	}
	inv := matrix.Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
	}
	inv[4] = -(m[4]*inv[0] + m[5]*inv[2])
	inv[5] = -(m[4]*inv[1] + m[5]*inv[3])
	return inv, true
}
