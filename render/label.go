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
	"image/color"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/style"
)

// label is a text ready to be placed.
type label struct {
	text  string
	face  font.Face
	color color.NRGBA
	halo  *style.HaloParams

	width, ascent, descent float64
}

func (r *Renderer) text(sym *style.TextSymbolizer, f filter.Feature, g Geometry) error {
	if sym.Label == nil {
		return nil
	}
	text, err := sym.Label.Evaluate(f)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	fp, err := sym.Font.Resolve(f)
	if err != nil {
		return err
	}
	fill, err := sym.Fill.Resolve(f)
	if err != nil {
		return err
	}
	halo, err := sym.Halo.Resolve(f)
	if err != nil {
		return err
	}
	face, err := r.Fonts.Face(fp.Family, fonts.VariantFor(fp.Weight, fp.Style), fp.Size)
	if err != nil {
		return err
	}
	defer face.Close()

	m := face.Metrics()
	l := &label{
		text:    text,
		face:    face,
		color:   black,
		halo:    halo,
		width:   toFloat(font.MeasureString(face, text)),
		ascent:  toFloat(m.Ascent),
		descent: toFloat(m.Descent),
	}
	if fill != nil {
		l.color = fill.Paint()
	}

	r.Canvas.SetTransform(matrix.Identity)
	if lp, ok := sym.Placement.(*style.LinePlacement); ok {
		if ls := lines(g); len(ls) > 0 {
			v, err := lp.Resolve(f)
			if err != nil {
				return err
			}
			for _, pts := range ls {
				r.alongLine(l, r.deviceLine(pts), v)
			}
			return nil
		}
	}

	pp, _ := sym.Placement.(*style.PointPlacement)
	v, err := pp.Resolve(f)
	if err != nil {
		return err
	}
	pts := anchors(g)
	if len(pts) == 0 {
		return errWrongGeometry
	}
	for _, p := range pts {
		r.atPoint(l, r.device(p), v)
	}
	return nil
}

// atPoint draws a label relative to the device point p.
func (r *Renderer) atPoint(l *label, p vec.Vec2, v style.PointPlacementValues) {
	h := l.ascent + l.descent
	o := vec.Vec2{
		X: -v.Anchor.X*l.width + v.Displacement.X,
		Y: v.Anchor.Y*h - l.descent - v.Displacement.Y,
	}
	origin := p.Add(canvas.Apply(canvas.Rotation(v.Rotation), o))
	r.drawText(l, l.text, origin, v.Rotation)
}

// alongLine draws a label following the line pts, one glyph at a time.
// The label is repeated along the line, separated by the gap, as often as
// it fits.
func (r *Renderer) alongLine(l *label, pts []vec.Vec2, v style.LinePlacementValues) {
	if len(pts) < 2 {
		return
	}
	if pts[len(pts)-1].X < pts[0].X {
		pts = slices.Clone(pts)
		slices.Reverse(pts)
	}

	// offset of the baseline from the line, pointing down the text
	h := l.ascent + l.descent
	shift := (l.ascent - l.descent) / 2
	switch v.Kind {
	case style.Above, style.Auto:
		shift -= h/2 + v.LineWidth/2
	case style.Below:
		shift += h/2 + v.LineWidth/2
	case style.Numeric:
		shift -= v.Offset
	}

	total := length(pts)
	n := 1
	if l.width > 0 && total > l.width {
		n = int((total + v.Gap) / (l.width + v.Gap))
	}
	used := float64(n)*l.width + float64(n-1)*v.Gap
	s := max((total-used)/2, 0)
	for range n {
		pos := s
		for _, ch := range l.text {
			adv, ok := l.face.GlyphAdvance(ch)
			a := 0.0
			if ok {
				a = toFloat(adv)
			}
			p, angle, _ := along(pts, pos+a/2)
			origin := p.Add(canvas.Apply(canvas.Rotation(angle), vec.Vec2{X: -a / 2, Y: shift}))
			r.drawText(l, string(ch), origin, angle)
			pos += a
		}
		s += l.width + v.Gap
	}
}

// drawText draws text with its halo.
func (r *Renderer) drawText(l *label, text string, origin vec.Vec2, angle float64) {
	if l.halo != nil && l.halo.Radius > 0 {
		r.Canvas.SetFillColor(l.halo.Color)
		rad := l.halo.Radius
		steps := max(8, int(math.Ceil(2*math.Pi*rad)))
		for i := range steps {
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
			r.Canvas.DrawString(text, l.face, origin.Add(vec.Vec2{X: rad * cos, Y: rad * sin}), angle)
		}
	}
	r.Canvas.SetFillColor(l.color)
	r.Canvas.DrawString(text, l.face, origin, angle)
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
