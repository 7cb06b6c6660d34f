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

// Package raster converts vector outlines into anti-aliased pixel coverage.
//
// Coverage is delivered row by row through a callback, so the caller
// decides how coverage is turned into colour.  The canvas package uses this
// to composite marks and labels onto RGBA images.
package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one pixel row.  coverage[i] is the
// fraction of pixel (xMin+i, y) covered by the shape, in the range 0 to 1.
// The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule selects how overlapping parts of a path are treated.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// segment is a line in device space.
type segment struct {
	x0, y0, x1, y1 float64
	slope          float64 // dx/dy
}

// Rasterizer turns paths into coverage values.  The zero value is not
// usable, use [New].  Buffers are reused between calls, so a Rasterizer
// must not be used concurrently.
type Rasterizer struct {
	// CTM maps user space to device space.
	CTM matrix.Matrix

	// Clip limits output to this rectangle in device space.  The
	// coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the polygon used to approximate it.
	Flatness float64

	// Width is the stroke width in user space.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	// Dash lists alternating lengths of drawn and skipped stroke parts, in
	// user space.  Nil draws solid lines.
	Dash      []float64
	DashPhase float64

	segs       []segment
	bbox       rect.Rect
	bboxEmpty  bool
	cover      []float32
	area       []float32
	rowTouched []bool

	lines []polyline
	outl  []vec.Vec2
	outlN []int
}

// New returns a Rasterizer for the given device rectangle, with the
// identity transformation and a one unit wide solid stroke.
func New(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   0.25,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: 10,
	}
}

// Fill computes the coverage of the interior of p.
func (r *Rasterizer) Fill(p path.Path, rule FillRule, emit EmitFunc) {
	r.beginSegments()
	r.walk(p, r.addSegment, func(cur, start vec.Vec2, _ bool) {
		if cur != start {
			r.addSegment(cur, start)
		}
	})
	r.scan(rule, emit)
}

// walk flattens p into line segments in user space.  end is called once
// for every subpath, with the final point, the start point and whether the
// subpath was closed by a ClosePath command.
func (r *Rasterizer) walk(p path.Path, line func(a, b vec.Vec2), end func(cur, start vec.Vec2, closed bool)) {
	var cur, start vec.Vec2
	open := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				end(cur, start, false)
			}
			cur, start = pts[0], pts[0]
			open = true
		case path.CmdLineTo:
			open = true
			line(cur, pts[0])
			cur = pts[0]
		case path.CmdQuadTo:
			open = true
			// degree elevation to a cubic is exact
			c1 := cur.Add(pts[0].Sub(cur).Mul(2.0 / 3))
			c2 := pts[1].Add(pts[0].Sub(pts[1]).Mul(2.0 / 3))
			r.flatten(cur, c1, c2, pts[1], line)
			cur = pts[1]
		case path.CmdCubeTo:
			open = true
			r.flatten(cur, pts[0], pts[1], pts[2], line)
			cur = pts[2]
		case path.CmdClose:
			if open {
				end(cur, start, true)
			}
			cur = start
			open = false
		}
	}
	if open {
		end(cur, start, false)
	}
}

// flatten approximates a cubic Bézier curve by line segments.  The number
// of segments follows Wang's formula, evaluated in device space.
func (r *Rasterizer) flatten(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	dd1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	dd2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := int(math.Ceil(math.Sqrt(0.75 * max(dd1, dd2) / r.Flatness)))
	n = max(n, 1)

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, q)
		prev = q
	}
}

// linear applies the CTM without its translation part.
func (r *Rasterizer) linear(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{X: m[0]*v.X + m[2]*v.Y, Y: m[1]*v.X + m[3]*v.Y}
}

func (r *Rasterizer) toDevice(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{X: m[0]*v.X + m[2]*v.Y + m[4], Y: m[1]*v.X + m[3]*v.Y + m[5]}
}

func (r *Rasterizer) beginSegments() {
	r.segs = r.segs[:0]
	r.bboxEmpty = true
}

// addSegment stores the user space segment a-b in device space.
func (r *Rasterizer) addSegment(a, b vec.Vec2) {
	r.addDeviceSegment(r.toDevice(a), r.toDevice(b))
}

func (r *Rasterizer) addDeviceSegment(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if math.Abs(dy) < 1e-10 {
		// horizontal segments do not change the winding number
		return
	}
	r.segs = append(r.segs, segment{
		x0: a.X, y0: a.Y, x1: b.X, y1: b.Y,
		slope: (b.X - a.X) / dy,
	})

	lo := rect.Rect{LLx: min(a.X, b.X), LLy: min(a.Y, b.Y), URx: max(a.X, b.X), URy: max(a.Y, b.Y)}
	if r.bboxEmpty {
		r.bbox = lo
		r.bboxEmpty = false
	} else {
		r.bbox.LLx = min(r.bbox.LLx, lo.LLx)
		r.bbox.LLy = min(r.bbox.LLy, lo.LLy)
		r.bbox.URx = max(r.bbox.URx, lo.URx)
		r.bbox.URy = max(r.bbox.URy, lo.URy)
	}
}

// scan accumulates the stored segments and emits the resulting rows.
//
// Every pixel carries two sums.  cover is the signed height of all segment
// pieces inside the pixel's column, and area weights each piece by the part
// of the pixel lying to its right.  Scanning a row from left to right,
// the coverage of a pixel is the running total of cover over all pixels to
// its left plus its own area.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	if r.bboxEmpty {
		return
	}
	x0 := max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	x1 := min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	y0 := max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	y1 := min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	w, h := x1-x0, y1-y0

	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	r.rowTouched = slices.Grow(r.rowTouched[:0], h)[:h]
	clear(r.cover)
	clear(r.area)
	clear(r.rowTouched)

	for i := range r.segs {
		s := &r.segs[i]
		top := max(int(math.Floor(min(s.y0, s.y1))), y0)
		bot := min(int(math.Floor(max(s.y0, s.y1)))+1, y1)
		for y := top; y < bot; y++ {
			row := (y - y0) * w
			s.accumulate(y, x0, r.cover[row:row+w], r.area[row:row+w])
			r.rowTouched[y-y0] = true
		}
	}

	for j := range h {
		if !r.rowTouched[j] {
			continue
		}
		row := r.cover[j*w : (j+1)*w]
		resolve(row, r.area[j*w:(j+1)*w], rule)

		lo, hi := 0, len(row)
		for lo < hi && row[lo] == 0 {
			lo++
		}
		for hi > lo && row[hi-1] == 0 {
			hi--
		}
		if lo < hi {
			emit(y0+j, x0+lo, row[lo:hi])
		}
	}
}

// accumulate adds the part of s inside the row [y, y+1) to the buffers,
// which start at device column x0.
func (s *segment) accumulate(y, x0 int, cover, area []float32) {
	ya := max(float64(y), min(s.y0, s.y1))
	yb := min(float64(y+1), max(s.y0, s.y1))
	if yb <= ya {
		return
	}
	dir := 1.0
	if s.y1 < s.y0 {
		dir = -1
	}
	w := len(cover)

	add := func(px int, dy, xMid float64) {
		c := float32(dir * dy)
		switch {
		case px < x0:
			// left of the buffer: the whole height counts for every pixel
			cover[0] += c
			area[0] += c
		case px < x0+w:
			cover[px-x0] += c
			area[px-x0] += c * float32(1-(xMid-float64(px)))
		}
	}

	xa := s.x0 + s.slope*(ya-s.y0)
	xb := s.x0 + s.slope*(yb-s.y0)
	pa, pb := int(math.Floor(xa)), int(math.Floor(xb))
	if pa == pb {
		add(pa, yb-ya, (xa+xb)/2)
		return
	}

	// the piece crosses column boundaries; split it at every boundary
	step := 1
	if pb < pa {
		step = -1
	}
	yPrev, xPrev := ya, xa
	for px := pa; ; px += step {
		var xNext float64
		if step > 0 {
			xNext = min(float64(px+1), xb)
		} else {
			xNext = max(float64(px), xb)
		}
		yNext := ya + (xNext-xa)/s.slope
		if px == pb {
			yNext = yb
		}
		if dy := yNext - yPrev; dy > 0 {
			add(px, dy, (xPrev+xNext)/2)
		}
		if px == pb {
			break
		}
		yPrev, xPrev = yNext, xNext
	}
}

// resolve turns the accumulated sums of one row into coverage, in place.
func resolve(cover, area []float32, rule FillRule) {
	var acc float32
	for i, c := range cover {
		v := acc + area[i]
		acc += c
		if v < 0 {
			v = -v
		}
		if rule == EvenOdd {
			v -= 2 * float32(math.Floor(float64(v/2)))
			if v > 1 {
				v = 2 - v
			}
		} else if v > 1 {
			v = 1
		}
		cover[i] = v
	}
}
