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
	"seehuhn.de/go/pdf/graphics"
)

// polyline is a flattened subpath in user space.  dir is only used for
// single point polylines created by dashing, where it gives the direction
// of the underlying path.
type polyline struct {
	pts    []vec.Vec2
	closed bool
	dir    vec.Vec2
}

// Stroke computes the coverage of the outline of p, using the stroke
// parameters Width, Cap, Join, MiterLimit, Dash and DashPhase.
//
// The outline is assembled from one polygon per line segment, join and
// cap.  All polygons are given the same orientation, so that filling them
// together with the nonzero rule yields their union.
func (r *Rasterizer) Stroke(p path.Path, emit EmitFunc) {
	if r.Width <= 0 {
		return
	}
	r.collect(p)
	if r.dashed() {
		r.applyDash()
	}

	r.beginSegments()
	d := r.Width / 2
	for i := range r.lines {
		r.strokeLine(&r.lines[i], d)
	}
	r.scan(NonZero, emit)
}

// collect flattens p into r.lines, dropping repeated points.
func (r *Rasterizer) collect(p path.Path) {
	for i := range r.lines {
		r.lines[i].pts = r.lines[i].pts[:0]
	}
	r.lines = r.lines[:0]

	var cur []vec.Vec2
	r.walk(p,
		func(a, b vec.Vec2) {
			if len(cur) == 0 {
				cur = append(cur, a)
			}
			if b.Sub(cur[len(cur)-1]).Length() > 1e-10 {
				cur = append(cur, b)
			}
		},
		func(_, start vec.Vec2, closed bool) {
			if len(cur) == 0 {
				cur = append(cur, start)
			}
			if closed && len(cur) > 2 && cur[len(cur)-1].Sub(cur[0]).Length() <= 1e-10 {
				cur = cur[:len(cur)-1]
			}
			r.lines = append(r.lines, polyline{
				pts:    append([]vec.Vec2(nil), cur...),
				closed: closed && len(cur) > 2,
			})
			cur = cur[:0]
		})
}

func (r *Rasterizer) dashed() bool {
	total := 0.0
	for _, x := range r.Dash {
		if x < 0 {
			return false
		}
		total += x
	}
	return total > 0
}

// applyDash replaces r.lines by the "on" pieces of the dash pattern.
func (r *Rasterizer) applyDash() {
	period := 0.0
	for _, x := range r.Dash {
		period += x
	}
	phase := math.Mod(r.DashPhase, period)
	if phase < 0 {
		phase += period
	}

	var out []polyline
	for _, pl := range r.lines {
		pts := pl.pts
		if pl.closed {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		if len(pts) < 2 {
			continue
		}

		// every subpath restarts the pattern
		idx, left := 0, r.Dash[0]
		for ph := phase; ph > 0; {
			if ph < left {
				left -= ph
				break
			}
			ph -= left
			idx = (idx + 1) % len(r.Dash)
			left = r.Dash[idx]
		}

		var piece []vec.Vec2
		on := idx%2 == 0
		if on {
			piece = append(piece, pts[0])
		}
		for k := 1; k < len(pts); k++ {
			a, b := pts[k-1], pts[k]
			seg := b.Sub(a)
			segLen := seg.Length()
			t := seg.Mul(1 / segLen)
			pos := 0.0
			for segLen-pos > left {
				pos += left
				q := a.Add(t.Mul(pos))
				if on {
					piece = append(piece, q)
					out = append(out, polyline{pts: piece, dir: t})
					piece = nil
				} else {
					piece = []vec.Vec2{q}
				}
				on = !on
				idx = (idx + 1) % len(r.Dash)
				left = r.Dash[idx]
			}
			left -= segLen - pos
			if on {
				piece = append(piece, b)
			}
		}
		if on && len(piece) > 0 {
			out = append(out, polyline{pts: piece, dir: pts[len(pts)-1].Sub(pts[len(pts)-2])})
		}
	}
	r.lines = out
}

// strokeLine adds the outline polygons for one polyline, with half width d.
func (r *Rasterizer) strokeLine(pl *polyline, d float64) {
	pts := pl.pts[:1]
	for _, q := range pl.pts[1:] {
		if q.Sub(pts[len(pts)-1]).Length() > 1e-10 {
			pts = append(pts, q)
		}
	}
	if len(pts) == 1 {
		r.strokePoint(pts[0], pl.dir, d)
		return
	}

	n := len(pts)
	body := func(a, b vec.Vec2) {
		nrm := normal(b.Sub(a)).Mul(d)
		r.polygon(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}
	for k := 1; k < n; k++ {
		body(pts[k-1], pts[k])
	}
	if pl.closed {
		body(pts[n-1], pts[0])
	}

	for k := 1; k < n-1; k++ {
		r.join(pts[k], pts[k].Sub(pts[k-1]), pts[k+1].Sub(pts[k]), d)
	}
	if pl.closed {
		r.join(pts[n-1], pts[n-1].Sub(pts[n-2]), pts[0].Sub(pts[n-1]), d)
		r.join(pts[0], pts[0].Sub(pts[n-1]), pts[1].Sub(pts[0]), d)
		return
	}
	r.cap(pts[0], unit(pts[0].Sub(pts[1])), d)
	r.cap(pts[n-1], unit(pts[n-1].Sub(pts[n-2])), d)
}

// strokePoint handles a subpath of length zero.  Without a direction only
// round caps produce output.
func (r *Rasterizer) strokePoint(p, dir vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.circle(p, d)
	case graphics.LineCapSquare:
		if dir.Length() == 0 {
			return
		}
		t := unit(dir).Mul(d)
		nrm := normal(dir).Mul(d)
		r.polygon(p.Sub(t).Add(nrm), p.Add(t).Add(nrm), p.Add(t).Sub(nrm), p.Sub(t).Sub(nrm))
	}
}

// cap adds the line cap at p; out points away from the line.
func (r *Rasterizer) cap(p, out vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.circle(p, d)
	case graphics.LineCapSquare:
		nrm := normal(out).Mul(d)
		ext := out.Mul(d)
		r.polygon(p.Add(nrm), p.Add(ext).Add(nrm), p.Add(ext).Sub(nrm), p.Sub(nrm))
	}
}

// join adds the join at p between incoming direction t1 and outgoing t2.
func (r *Rasterizer) join(p, t1, t2 vec.Vec2, d float64) {
	t1, t2 = unit(t1), unit(t2)
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < 1e-6 && t1.Dot(t2) > 0 {
		return
	}
	if r.Join == graphics.LineJoinRound {
		r.circle(p, d)
		return
	}

	// the gap to fill is on the outside of the turn
	side := -1.0
	if cross < 0 {
		side = 1
	}
	a := p.Add(normal(t1).Mul(side * d))
	b := p.Add(normal(t2).Mul(side * d))

	if r.Join == graphics.LineJoinMiter {
		cosHalf := math.Sqrt(max(0, (1+t1.Dot(t2))/2))
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
			bis := unit(normal(t1).Add(normal(t2))).Mul(side * d / cosHalf)
			r.polygon(p, a, p.Add(bis), b)
			return
		}
	}
	r.polygon(p, a, b)
}

// circle adds a regular polygon approximating a circle.  The number of
// corners keeps the error below the flatness in device space.
func (r *Rasterizer) circle(c vec.Vec2, radius float64) {
	rd := max(r.linear(vec.Vec2{X: radius}).Length(), r.linear(vec.Vec2{Y: radius}).Length())
	n := 8
	if rd > r.Flatness {
		n = max(n, int(math.Ceil(math.Pi/math.Acos(1-r.Flatness/rd))))
	}
	pts := make([]vec.Vec2, n)
	for i := range pts {
		phi := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vec.Vec2{X: c.X + radius*math.Cos(phi), Y: c.Y + radius*math.Sin(phi)}
	}
	r.polygon(pts...)
}

// polygon adds a closed polygon, oriented so that its signed area is
// positive.
func (r *Rasterizer) polygon(pts ...vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area == 0 {
		return
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if area < 0 {
			a, b = b, a
		}
		r.addSegment(a, b)
	}
}

// normal returns the unit vector perpendicular to v, turned by 90 degrees
// counter-clockwise.
func normal(v vec.Vec2) vec.Vec2 {
	u := unit(v)
	return vec.Vec2{X: -u.Y, Y: u.X}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return vec.Vec2{}
	}
	return v.Mul(1 / l)
}
