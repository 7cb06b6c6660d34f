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

// Package render draws features onto a canvas, using the symbolizers
// selected by a style.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/graphic"
	"seehuhn.de/go/sld/raster"
	"seehuhn.de/go/sld/style"
)

// Renderer draws features.  A Renderer is not safe for concurrent use,
// but several renderers may share a compositor and a font registry.
type Renderer struct {
	Canvas canvas.Canvas

	// Transform maps map coordinates to device coordinates.
	Transform matrix.Matrix

	// Scale is the scale denominator used for rule selection.
	Scale float64

	Graphics *graphic.Compositor
	Fonts    *fonts.Registry
}

// New returns a renderer drawing onto c.  If g is nil, a compositor with
// its own cache is allocated.
func New(c canvas.Canvas, transform matrix.Matrix, scale float64, g *graphic.Compositor, reg *fonts.Registry) *Renderer {
	if reg == nil {
		reg = &fonts.Registry{}
	}
	if g == nil {
		g = graphic.NewCompositor(nil, nil, reg)
	}
	return &Renderer{
		Canvas:    c,
		Transform: transform,
		Scale:     scale,
		Graphics:  g,
		Fonts:     reg,
	}
}

// Render draws f with all symbolizers of s which apply at the scale of the
// renderer.  A symbolizer which fails is logged and skipped, and the
// remaining ones are still drawn.  The number of skipped symbolizers is
// returned.  An error is only returned if ctx is cancelled.
func (r *Renderer) Render(ctx context.Context, s *style.Style, f filter.Feature) (int, error) {
	skipped := 0
	for _, sym := range s.Symbolizers(f, r.Scale) {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		err := r.Symbolizer(ctx, sym, f)
		if err != nil {
			skipped++
			sld.Logger().Warn("skipping symbolizer",
				"feature", featureID(f),
				"symbolizer", fmt.Sprintf("%T", sym),
				"error", err)
		}
	}
	return skipped, nil
}

// Symbolizer draws f with a single symbolizer.  The geometry is taken from
// the feature property named by the symbolizer.
func (r *Renderer) Symbolizer(ctx context.Context, sym style.Symbolizer, f filter.Feature) error {
	g, err := GeometryOf(f, style.Base(sym).Geometry)
	if err != nil {
		return err
	}
	return r.Draw(ctx, sym, f, g)
}

var errWrongGeometry = errors.New("geometry not supported by symbolizer")

// Draw draws the geometry g with a single symbolizer.  The feature f is
// used to evaluate parameters.
func (r *Renderer) Draw(ctx context.Context, sym style.Symbolizer, f filter.Feature, g Geometry) error {
	switch sym := sym.(type) {
	case *style.PointSymbolizer:
		return r.point(ctx, sym, f, g)
	case *style.LineSymbolizer:
		return r.line(sym, f, g)
	case *style.PolygonSymbolizer:
		return r.polygon(sym, f, g)
	case *style.TextSymbolizer:
		return r.text(sym, f, g)
	case *style.RasterSymbolizer:
		return r.raster(sym, f, g)
	default:
		return fmt.Errorf("unknown symbolizer %T", sym)
	}
}

func (r *Renderer) device(p vec.Vec2) vec.Vec2 {
	return canvas.Apply(r.Transform, p)
}

func (r *Renderer) deviceLine(pts []vec.Vec2) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = r.device(p)
	}
	return res
}

func (r *Renderer) point(ctx context.Context, sym *style.PointSymbolizer, f filter.Feature, g Geometry) error {
	pts := anchors(g)
	if len(pts) == 0 {
		return errWrongGeometry
	}
	gr := sym.Graphic
	if gr == nil {
		gr = &style.Graphic{}
	}
	p, err := gr.Resolve(f)
	if err != nil {
		return err
	}
	img, err := r.Graphics.Draw(ctx, gr.Sources, p, f)
	if err != nil {
		return err
	}

	size := img.Rect.Size()
	r.Canvas.SetTransform(matrix.Identity)
	for _, pt := range pts {
		c := r.device(pt)
		// displacements point up the page
		x := c.X + p.Displacement.X - float64(size.X)/2
		y := c.Y - p.Displacement.Y - float64(size.Y)/2
		r.Canvas.DrawImage(img, canvas.Translation(x, y))
	}
	return nil
}

func (r *Renderer) line(sym *style.LineSymbolizer, f filter.Feature, g Geometry) error {
	ls := lines(g)
	if len(ls) == 0 {
		return errWrongGeometry
	}
	stroke := sym.Stroke
	if stroke == nil {
		stroke = &style.Stroke{}
	}
	sp, err := stroke.Resolve(f)
	if err != nil {
		return err
	}
	offset, err := sym.PerpendicularOffset.Float(f, 0)
	if err != nil {
		return err
	}
	if !sp.Visible() {
		return nil
	}

	r.Canvas.SetTransform(matrix.Identity)
	r.Canvas.SetStrokeColor(sp.Paint())
	r.Canvas.SetStrokeStyle(sp.Canvas())
	for _, l := range ls {
		r.Canvas.StrokePath(raster.Polyline(offsetLine(r.deviceLine(l), offset)...))
	}
	return nil
}

func (r *Renderer) polygon(sym *style.PolygonSymbolizer, f filter.Feature, g Geometry) error {
	polys := polygons(g)
	if len(polys) == 0 {
		return errWrongGeometry
	}
	fp, err := sym.Fill.Resolve(f)
	if err != nil {
		return err
	}
	sp, err := sym.Stroke.Resolve(f)
	if err != nil {
		return err
	}

	r.Canvas.SetTransform(matrix.Identity)
	for _, poly := range polys {
		rings := make([][]vec.Vec2, len(poly))
		for i, ring := range poly {
			rings[i] = r.deviceLine(ring)
		}
		if fp != nil {
			r.Canvas.SetFillColor(fp.Paint())
			r.Canvas.FillPath(polygonPath(rings))
		}
		if sp.Visible() {
			r.Canvas.SetStrokeColor(sp.Paint())
			r.Canvas.SetStrokeStyle(sp.Canvas())
			r.Canvas.StrokePath(polygonPath(rings))
		}
	}
	return nil
}

// greyRamp is used by raster symbolizers without a colour map.
var greyRamp = &colormap.Interpolate{
	Points: []colormap.Point{
		{Data: 0, Entry: colormap.Entry{A: 0xff}},
		{Data: 255, Entry: colormap.Entry{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
	},
}

func (r *Renderer) raster(sym *style.RasterSymbolizer, f filter.Feature, g Geometry) error {
	cov, ok := g.(*Coverage)
	if !ok || cov.Grid == nil || cov.Grid.W <= 0 || cov.Grid.H <= 0 {
		return errWrongGeometry
	}
	if len(cov.Grid.Data) < cov.Grid.W*cov.Grid.H {
		return fmt.Errorf("%d samples for a %d×%d grid: %w",
			len(cov.Grid.Data), cov.Grid.W, cov.Grid.H, errWrongGeometry)
	}
	opacity, err := sym.Opacity.Opacity(f, 1)
	if err != nil {
		return err
	}
	ramp := sym.ColorMap
	if ramp == nil {
		ramp = greyRamp
	}

	img := colormap.Classify(cov.Grid, ramp, opacity)
	if sym.Gamma > 0 && sym.Gamma != 1 {
		colormap.Gamma(img, sym.Gamma)
	}
	if sym.Relief != nil {
		sym.Relief.Shade(img, cov.Grid)
	}

	// grid cells to map coordinates, row 0 at the top
	b := cov.Bounds
	sx := (b.URx - b.LLx) / float64(cov.Grid.W)
	sy := (b.URy - b.LLy) / float64(cov.Grid.H)
	m := canvas.Concat(matrix.Matrix{sx, 0, 0, -sy, b.LLx, b.URy}, r.Transform)
	r.Canvas.SetTransform(matrix.Identity)
	r.Canvas.DrawImage(img, m)
	return nil
}

func featureID(f filter.Feature) string {
	if f == nil {
		return ""
	}
	return f.ID()
}

var black = color.NRGBA{A: 0xff}
