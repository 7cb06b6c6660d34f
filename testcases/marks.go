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

package testcases

import (
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

var markCases = []TestCase{
	markCase("square", "square", nil),
	markCase("circle", "circle", nil),
	markCase("triangle", "triangle", nil),
	markCase("star", "star", nil),
	markCase("cross", "cross", nil),
	markCase("x", "x", nil),
	markCase("square_rotated", "square", func(g *style.Graphic) {
		g.Rotation = lit("rotation", "45")
	}),
	markCase("circle_half_opacity", "circle", func(g *style.Graphic) {
		g.Opacity = lit("opacity", "0.5")
	}),
	markCase("circle_displaced", "circle", func(g *style.Graphic) {
		g.DisplacementX = lit("displacement-x", "8")
		g.DisplacementY = lit("displacement-y", "8")
	}),
	{
		Name:   "circle_property_colour",
		Width:  48,
		Height: 48,
		Symbolizer: &style.PointSymbolizer{
			Graphic: &style.Graphic{
				Sources: []style.GraphicSource{&style.Mark{
					WellKnownName: "circle",
					Fill: &style.Fill{Params: style.Params{
						style.ParamFill: propValue(style.ParamFill, "colour"),
					}},
				}},
				Size: lit("size", "24"),
			},
		},
		Geometry: render.Point(pt(24, 24)),
		Props:    map[string]any{"colour": "#0000ff"},
	},
}

// markCase draws a 24 pixel mark with red fill and a black outline in the
// middle of a 48×48 canvas.
func markCase(name, wkn string, modify func(*style.Graphic)) TestCase {
	g := &style.Graphic{
		Sources: []style.GraphicSource{&style.Mark{
			WellKnownName: wkn,
			Fill:          fill("#ff0000"),
			Stroke:        stroke("#000000", "2"),
		}},
		Size: lit("size", "24"),
	}
	if modify != nil {
		modify(g)
	}
	return TestCase{
		Name:       name,
		Width:      48,
		Height:     48,
		Symbolizer: &style.PointSymbolizer{Graphic: g},
		Geometry:   render.Point(pt(24, 24)),
	}
}
