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
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/style"
)

// LegendEntry draws the symbolizers of a rule onto sample geometries
// filling the device rectangle box.  Parameters are evaluated for f, which
// may be nil.  Symbolizers which cannot be drawn are logged and skipped;
// their number is returned.
func (r *Renderer) LegendEntry(ctx context.Context, rule *style.Rule, box rect.Rect, f filter.Feature) int {
	saved := r.Transform
	r.Transform = matrix.Identity
	defer func() { r.Transform = saved }()

	skipped := 0
	for _, sym := range rule.Symbolizers {
		err := r.Draw(ctx, sym, f, sample(sym, box))
		if err != nil {
			skipped++
			sld.Logger().Warn("skipping legend symbolizer",
				"rule", rule.Name,
				"symbolizer", fmt.Sprintf("%T", sym),
				"error", err)
		}
	}
	return skipped
}

// sample returns a geometry showing the symbolizer inside box.
func sample(sym style.Symbolizer, box rect.Rect) Geometry {
	w, h := box.URx-box.LLx, box.URy-box.LLy
	centre := vec.Vec2{X: box.LLx + w/2, Y: box.LLy + h/2}
	switch sym := sym.(type) {
	case *style.LineSymbolizer:
		return LineString{
			{X: box.LLx + 0.1*w, Y: box.LLy + 0.8*h},
			{X: box.LLx + 0.4*w, Y: box.LLy + 0.3*h},
			{X: box.LLx + 0.6*w, Y: box.LLy + 0.7*h},
			{X: box.LLx + 0.9*w, Y: box.LLy + 0.2*h},
		}
	case *style.PolygonSymbolizer:
		return Polygon{{
			{X: box.LLx + 0.1*w, Y: box.LLy + 0.1*h},
			{X: box.LLx + 0.9*w, Y: box.LLy + 0.1*h},
			{X: box.LLx + 0.9*w, Y: box.LLy + 0.9*h},
			{X: box.LLx + 0.1*w, Y: box.LLy + 0.9*h},
		}}
	case *style.RasterSymbolizer:
		lo, hi := rampRange(sym.ColorMap)
		const n = 32
		g := &colormap.Grid{W: n, H: 1, Data: make([]float32, n)}
		for i := range g.Data {
			g.Data[i] = float32(lo + (hi-lo)*float64(i)/(n-1))
		}
		// device space has y pointing down, so the bounds are flipped
		return &Coverage{Grid: g, Bounds: rect.Rect{LLx: box.LLx, LLy: box.URy, URx: box.URx, URy: box.LLy}}
	default:
		return Point(centre)
	}
}

// rampRange returns a range of samples showing all colours of the ramp.
func rampRange(ramp colormap.Ramp) (lo, hi float64) {
	switch ramp := ramp.(type) {
	case *colormap.Interpolate:
		if n := len(ramp.Points); n > 0 {
			return ramp.Points[0].Data, ramp.Points[n-1].Data
		}
	case *colormap.Categorize:
		if n := len(ramp.Thresholds); n > 0 {
			lo, hi = ramp.Thresholds[0], ramp.Thresholds[n-1]
			pad := max((hi-lo)/float64(n), 1)
			return lo - pad, hi + pad
		}
	}
	return 0, 255
}
