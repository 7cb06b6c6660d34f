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
	"fmt"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/raster"
)

// DefaultGeometry is the property holding the geometry of a feature, for
// symbolizers which do not name a geometry property.
const DefaultGeometry = "geometry"

// Geometry is one of [Point], [LineString], [Polygon], [Collection] and
// [*Coverage].  Coordinates are in map units.
type Geometry interface {
	isGeometry()
}

// Point is a single location.
type Point vec.Vec2

// LineString is a polyline.
type LineString []vec.Vec2

// Polygon is an area.  The first ring is the outer boundary, the others
// are holes.
type Polygon [][]vec.Vec2

// Collection is a group of geometries.
type Collection []Geometry

// Coverage is a grid of samples covering a rectangle.
type Coverage struct {
	Grid   *colormap.Grid
	Bounds rect.Rect
}

func (Point) isGeometry()      {}
func (LineString) isGeometry() {}
func (Polygon) isGeometry()    {}
func (Collection) isGeometry() {}
func (*Coverage) isGeometry()  {}

// GeometryOf returns the named geometry property of f.
func GeometryOf(f filter.Feature, name string) (Geometry, error) {
	if name == "" {
		name = DefaultGeometry
	}
	if f == nil {
		return nil, fmt.Errorf("geometry %q: %w", name, filter.ErrNoFeature)
	}
	v, ok := f.Property(name)
	if !ok || v == nil {
		return nil, fmt.Errorf("feature %q has no geometry %q", f.ID(), name)
	}
	g, ok := v.(Geometry)
	if !ok {
		return nil, fmt.Errorf("feature %q: property %q is a %T, not a geometry", f.ID(), name, v)
	}
	return g, nil
}

// anchors returns the points where point symbols are drawn: the points
// themselves, the middle of lines and the centroid of polygons.
func anchors(g Geometry) []vec.Vec2 {
	switch g := g.(type) {
	case Point:
		return []vec.Vec2{vec.Vec2(g)}
	case LineString:
		if p, _, ok := along(g, length(g)/2); ok {
			return []vec.Vec2{p}
		}
	case Polygon:
		if len(g) > 0 {
			if c, ok := centroid(g[0]); ok {
				return []vec.Vec2{c}
			}
		}
	case Collection:
		var res []vec.Vec2
		for _, sub := range g {
			res = append(res, anchors(sub)...)
		}
		return res
	}
	return nil
}

// lines returns the polylines of a geometry.  Polygon rings are closed by
// repeating the first point.
func lines(g Geometry) [][]vec.Vec2 {
	switch g := g.(type) {
	case LineString:
		return [][]vec.Vec2{g}
	case Polygon:
		var res [][]vec.Vec2
		for _, ring := range g {
			if len(ring) > 1 {
				closed := append(ring[:len(ring):len(ring)], ring[0])
				res = append(res, closed)
			}
		}
		return res
	case Collection:
		var res [][]vec.Vec2
		for _, sub := range g {
			res = append(res, lines(sub)...)
		}
		return res
	}
	return nil
}

// polygons returns the polygons of a geometry.
func polygons(g Geometry) []Polygon {
	switch g := g.(type) {
	case Polygon:
		return []Polygon{g}
	case Collection:
		var res []Polygon
		for _, sub := range g {
			res = append(res, polygons(sub)...)
		}
		return res
	}
	return nil
}

// area returns the signed area of a ring.
func area(ring []vec.Vec2) float64 {
	var a float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func centroid(ring []vec.Vec2) (vec.Vec2, bool) {
	a := area(ring)
	if a == 0 {
		if len(ring) == 0 {
			return vec.Vec2{}, false
		}
		var sum vec.Vec2
		for _, p := range ring {
			sum = sum.Add(p)
		}
		return sum.Mul(1 / float64(len(ring))), true
	}
	var cx, cy float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		cross := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	return vec.Vec2{X: cx / (6 * a), Y: cy / (6 * a)}, true
}

// polygonPath converts the rings into a path for the non-zero winding
// rule: the outer ring is oriented with positive area, holes with negative
// area.
func polygonPath(rings [][]vec.Vec2) path.Path {
	b := &raster.Builder{}
	for i, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		a := area(ring)
		reverse := (i == 0) != (a > 0)
		for j := range ring {
			k := j
			if reverse {
				k = len(ring) - 1 - j
			}
			if j == 0 {
				b.MoveTo(ring[k])
			} else {
				b.LineTo(ring[k])
			}
		}
		b.Close()
	}
	return b.Path()
}

func length(pts []vec.Vec2) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Sub(pts[i-1]).Length()
	}
	return l
}

// along returns the point at arc length s of a polyline, and the direction
// of the line there in degrees, clockwise from the x-axis.
func along(pts []vec.Vec2, s float64) (vec.Vec2, float64, bool) {
	if len(pts) == 0 {
		return vec.Vec2{}, 0, false
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		l := d.Length()
		if l == 0 {
			continue
		}
		if s <= l || i == len(pts)-1 {
			t := math.Min(math.Max(s/l, 0), 1)
			return pts[i-1].Add(d.Mul(t)), math.Atan2(d.Y, d.X) * 180 / math.Pi, true
		}
		s -= l
	}
	return pts[0], 0, true
}

// offsetLine shifts a polyline sideways by d.  Positive values move the
// line to the left of its direction, on a page with the y-axis pointing
// down.
func offsetLine(pts []vec.Vec2, d float64) []vec.Vec2 {
	if d == 0 || len(pts) < 2 {
		return pts
	}
	normal := func(a, b vec.Vec2) vec.Vec2 {
		v := b.Sub(a)
		l := v.Length()
		if l == 0 {
			return vec.Vec2{}
		}
		return vec.Vec2{X: v.Y / l, Y: -v.X / l}
	}
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		var n vec.Vec2
		switch {
		case i == 0:
			n = normal(pts[0], pts[1])
		case i == len(pts)-1:
			n = normal(pts[i-1], pts[i])
		default:
			n1, n2 := normal(pts[i-1], pts[i]), normal(pts[i], pts[i+1])
			n = n1.Add(n2)
			// scale the bisector so that both segments move by d
			if c := 1 + n1.Dot(n2); c > 1e-6 {
				n = n.Mul(1 / c)
			} else {
				n = n1
			}
		}
		res[i] = p.Add(n.Mul(d))
	}
	return res
}
