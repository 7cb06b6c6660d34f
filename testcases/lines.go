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
	"seehuhn.de/go/sld/param"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

var zigzag = render.LineString{pt(8, 48), pt(24, 16), pt(40, 48), pt(56, 16)}

var lineCases = []TestCase{
	{
		Name:       "default",
		Width:      64,
		Height:     64,
		Symbolizer: &style.LineSymbolizer{},
		Geometry:   zigzag,
	},
	lineCase("butt_mitre", style.Params{}.
		Lit(style.ParamStrokeLineCap, "butt").
		Lit(style.ParamStrokeLineJoin, "mitre")),
	lineCase("round_round", style.Params{}.
		Lit(style.ParamStrokeLineCap, "round").
		Lit(style.ParamStrokeLineJoin, "round")),
	lineCase("square_bevel", style.Params{}.
		Lit(style.ParamStrokeLineCap, "square").
		Lit(style.ParamStrokeLineJoin, "bevel")),
	lineCase("dashed", style.Params{}.
		Lit(style.ParamStrokeDashArray, "8 4")),
	lineCase("dashed_offset", style.Params{}.
		Lit(style.ParamStrokeDashArray, "8 4").
		Lit(style.ParamStrokeDashOffset, "6")),
	lineCase("translucent", style.Params{}.
		Lit(style.ParamStrokeOpacity, "0.5")),
	{
		Name:   "perpendicular_offset",
		Width:  64,
		Height: 64,
		Symbolizer: &style.LineSymbolizer{
			Stroke:              stroke("#0000ff", "2"),
			PerpendicularOffset: lit("perpendicular-offset", "6"),
		},
		Geometry: zigzag,
	},
	{
		Name:   "width_from_property",
		Width:  64,
		Height: 64,
		Symbolizer: &style.LineSymbolizer{
			Stroke: &style.Stroke{Params: style.Params{
				style.ParamStroke:      lit(style.ParamStroke, "#008000"),
				style.ParamStrokeWidth: propValue(style.ParamStrokeWidth, "lanes"),
			}},
		},
		Geometry: render.LineString{pt(8, 32), pt(56, 32)},
		Props:    map[string]any{"lanes": 4},
	},
}

// lineCase strokes the zigzag line in dark grey, 6 pixels wide, with the
// given additional parameters.
func lineCase(name string, params style.Params) TestCase {
	p := params.Lit(style.ParamStroke, "#333333").Lit(style.ParamStrokeWidth, "6")
	return TestCase{
		Name:       name,
		Width:      64,
		Height:     64,
		Symbolizer: &style.LineSymbolizer{Stroke: &style.Stroke{Params: p}},
		Geometry:   zigzag,
	}
}

func propValue(name, property string) *param.Value {
	return param.Prop(name, property)
}
