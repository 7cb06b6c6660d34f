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

package main

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

const pad = 4

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
)

type legendRow struct {
	title string
	rule  *style.Rule
}

// legend is a column of rules, each shown as a symbol followed by the
// rule title.
type legend struct {
	rows   []legendRow
	face   font.Face
	cell   int
	row    int
	Width  int
	Height int
}

func newLegend(styles []*style.Style, cell int, face font.Face) *legend {
	l := &legend{face: face, cell: cell}
	for _, s := range styles {
		for _, fts := range s.FeatureTypeStyles {
			for i, r := range fts.Rules {
				title := r.Title
				if title == "" {
					title = r.Name
				}
				if title == "" {
					title = fmt.Sprintf("rule %d", i+1)
				}
				l.rows = append(l.rows, legendRow{title: title, rule: r})
			}
		}
	}

	l.row = max(cell, face.Metrics().Height.Ceil()) + pad
	textWidth := 0
	for _, r := range l.rows {
		textWidth = max(textWidth, font.MeasureString(face, r.title).Ceil())
	}
	l.Width = pad + cell + pad + textWidth + pad
	l.Height = pad + len(l.rows)*l.row
	return l
}

// Draw paints the legend onto the canvas of r, which must cover at least
// Width×Height device units.  The number of symbolizers which could not
// be drawn is returned.
func (l *legend) Draw(ctx context.Context, r *render.Renderer) (int, error) {
	c := r.Canvas
	c.SetTransform(matrix.Identity)
	c.SetFillColor(white)
	c.FillRect(0, 0, float64(l.Width), float64(l.Height))

	m := l.face.Metrics()
	ascent := float64(m.Ascent.Ceil())
	descent := float64(m.Descent.Ceil())
	cell := float64(l.cell)

	skipped := 0
	for i, row := range l.rows {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		top := float64(pad + i*l.row)
		box := rect.Rect{LLx: pad, LLy: top, URx: pad + cell, URy: top + cell}
		skipped += r.LegendEntry(ctx, row.rule, box, nil)

		baseline := top + cell/2 + (ascent-descent)/2
		c.SetFillColor(black)
		c.DrawString(row.title, l.face, vec.Vec2{X: 2*pad + cell, Y: math.Round(baseline)}, 0)
	}
	return skipped, nil
}

// fit returns the map from coordinates in bounds to a w×h device area,
// preserving the aspect ratio.  The y-axis is flipped, so that north is up.
func fit(bounds rect.Rect, w, h int) matrix.Matrix {
	dx, dy := bounds.URx-bounds.LLx, bounds.URy-bounds.LLy
	availW, availH := float64(w-2*pad), float64(h-2*pad)
	s := math.Inf(1)
	if dx > 0 {
		s = availW / dx
	}
	if dy > 0 {
		s = min(s, availH/dy)
	}
	if math.IsInf(s, 1) {
		s = 1
	}
	cx, cy := (bounds.LLx+bounds.URx)/2, (bounds.LLy+bounds.URy)/2
	return matrix.Matrix{s, 0, 0, -s, float64(w)/2 - s*cx, float64(h)/2 + s*cy}
}

// drawMap renders all probes with every feature type style of the styles.
// Feature type styles are drawn one after the other, so that later ones
// are painted over earlier ones.
func drawMap(ctx context.Context, r *render.Renderer, styles []*style.Style, probes []probe, w, h int) (int, error) {
	r.Canvas.SetFillColor(white)
	r.Canvas.FillRect(0, 0, float64(w), float64(h))

	skipped := 0
	for _, s := range styles {
		for _, fts := range s.FeatureTypeStyles {
			layer := &style.Style{Name: s.Name, FeatureTypeStyles: []*style.FeatureTypeStyle{fts}}
			for _, p := range probes {
				n, err := r.Render(ctx, layer, p.Map)
				skipped += n
				if err != nil {
					return skipped, err
				}
			}
		}
	}
	return skipped, nil
}
