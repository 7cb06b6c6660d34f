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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Builder records path construction commands.
type Builder struct {
	cmds []path.Command
	pts  [][]vec.Vec2
}

func (b *Builder) MoveTo(p vec.Vec2) *Builder {
	return b.add(path.CmdMoveTo, p)
}

func (b *Builder) LineTo(p vec.Vec2) *Builder {
	return b.add(path.CmdLineTo, p)
}

func (b *Builder) CubeTo(c1, c2, p vec.Vec2) *Builder {
	return b.add(path.CmdCubeTo, c1, c2, p)
}

func (b *Builder) Close() *Builder {
	return b.add(path.CmdClose)
}

func (b *Builder) add(cmd path.Command, pts ...vec.Vec2) *Builder {
	b.cmds = append(b.cmds, cmd)
	b.pts = append(b.pts, pts)
	return b
}

// Path returns the recorded commands as a path.
func (b *Builder) Path() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, cmd := range b.cmds {
			if !yield(cmd, b.pts[i]) {
				return
			}
		}
	}
}

// Polygon returns the closed path through the given points.
func Polygon(pts ...vec.Vec2) path.Path {
	b := &Builder{}
	for i, p := range pts {
		if i == 0 {
			b.MoveTo(p)
		} else {
			b.LineTo(p)
		}
	}
	return b.Close().Path()
}

// Polyline returns the open path through the given points.
func Polyline(pts ...vec.Vec2) path.Path {
	b := &Builder{}
	for i, p := range pts {
		if i == 0 {
			b.MoveTo(p)
		} else {
			b.LineTo(p)
		}
	}
	return b.Path()
}

// Rect returns the rectangle with corner (x, y), width w and height h.
func Rect(x, y, w, h float64) path.Path {
	return Polygon(
		vec.Vec2{X: x, Y: y},
		vec.Vec2{X: x + w, Y: y},
		vec.Vec2{X: x + w, Y: y + h},
		vec.Vec2{X: x, Y: y + h},
	)
}

// Ellipse returns the ellipse inscribed in the given rectangle, made of
// four cubic Bézier arcs.
func Ellipse(x, y, w, h float64) path.Path {
	const k = 4 * (math.Sqrt2 - 1) / 3
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	kx, ky := k*rx, k*ry
	p := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

	b := &Builder{}
	b.MoveTo(p(cx+rx, cy))
	b.CubeTo(p(cx+rx, cy+ky), p(cx+kx, cy+ry), p(cx, cy+ry))
	b.CubeTo(p(cx-kx, cy+ry), p(cx-rx, cy+ky), p(cx-rx, cy))
	b.CubeTo(p(cx-rx, cy-ky), p(cx-kx, cy-ry), p(cx, cy-ry))
	b.CubeTo(p(cx+kx, cy-ry), p(cx+rx, cy-ky), p(cx+rx, cy))
	return b.Close().Path()
}
