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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

var (
	square = []vec.Vec2{pt(8, 8), pt(56, 8), pt(56, 56), pt(8, 56)}
	hole   = []vec.Vec2{pt(24, 24), pt(40, 24), pt(40, 40), pt(24, 40)}
)

var polygonCases = []TestCase{
	{
		Name:       "fill",
		Width:      64,
		Height:     64,
		Symbolizer: &style.PolygonSymbolizer{Fill: fill("#00a000")},
		Geometry:   render.Polygon{square},
	},
	{
		Name:   "fill_and_stroke",
		Width:  64,
		Height: 64,
		Symbolizer: &style.PolygonSymbolizer{
			Fill:   fill("#00a000"),
			Stroke: stroke("#000000", "4"),
		},
		Geometry: render.Polygon{square},
	},
	{
		Name:       "stroke_only",
		Width:      64,
		Height:     64,
		Symbolizer: &style.PolygonSymbolizer{Stroke: stroke("#000000", "2")},
		Geometry:   render.Polygon{square},
	},
	{
		// both rings have the same orientation, the hole must stay empty
		Name:       "hole",
		Width:      64,
		Height:     64,
		Symbolizer: &style.PolygonSymbolizer{Fill: fill("#0000ff")},
		Geometry:   render.Polygon{square, hole},
	},
	{
		Name:   "translucent_overlap",
		Width:  64,
		Height: 64,
		Symbolizer: &style.PolygonSymbolizer{
			Fill: &style.Fill{Params: style.Params{}.
				Lit(style.ParamFill, "#ff0000").
				Lit(style.ParamFillOpacity, "0.5")},
		},
		Geometry: render.Collection{
			render.Polygon{{pt(4, 4), pt(40, 4), pt(40, 40), pt(4, 40)}},
			render.Polygon{{pt(24, 24), pt(60, 24), pt(60, 60), pt(24, 60)}},
		},
	},
	{
		Name:   "triangle",
		Width:  64,
		Height: 64,
		Symbolizer: &style.PolygonSymbolizer{
			Fill:   fill("#ffcc00"),
			Stroke: stroke("#804000", "1"),
		},
		Geometry: render.Polygon{{pt(32, 6), pt(58, 54), pt(6, 54)}},
	},
}
