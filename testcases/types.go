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

// Package testcases lists symbols with reference renderings.  The cases
// are shared by the reference test of the render package and by the tools
// in the subdirectories, which export the cases and generate PDF versions
// of them.
package testcases

import (
	"context"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/fonts"
	"seehuhn.de/go/sld/graphic"
	"seehuhn.de/go/sld/param"
	"seehuhn.de/go/sld/render"
	"seehuhn.de/go/sld/style"
)

// TestCase defines a single rendering test.  Geometries are given in
// pixel coordinates, with the y-axis pointing down.
type TestCase struct {
	Name       string // lowercase a-z, 0-9 and _ only
	Width      int    // canvas width in pixels
	Height     int    // canvas height in pixels
	Symbolizer style.Symbolizer
	Geometry   render.Geometry

	// Props are additional feature properties, used by parameters which
	// read from the feature.
	Props map[string]any
}

// Feature returns the feature drawn by the test case.
func (tc TestCase) Feature() *filter.Map {
	props := map[string]any{render.DefaultGeometry: tc.Geometry}
	for k, v := range tc.Props {
		props[k] = v
	}
	return &filter.Map{FID: tc.Name, Props: props}
}

// Draw draws the test case onto c.  The compositor and the font registry
// may be nil.
func (tc TestCase) Draw(ctx context.Context, c canvas.Canvas, g *graphic.Compositor, reg *fonts.Registry) error {
	r := render.New(c, matrix.Identity, 0, g, reg)
	return r.Symbolizer(ctx, tc.Symbolizer, tc.Feature())
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func lit(name, text string) *param.Value {
	return param.Lit(name, text)
}

func fill(col string) *style.Fill {
	return &style.Fill{Params: style.Params{}.Lit(style.ParamFill, col)}
}

func stroke(col, width string) *style.Stroke {
	return &style.Stroke{Params: style.Params{}.
		Lit(style.ParamStroke, col).
		Lit(style.ParamStrokeWidth, width)}
}
