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

package style

import (
	"image/color"
	"math"
	"strings"

	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/sld/canvas"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
)

// Params maps CssParameter names to values.
type Params map[string]*param.Value

// Get returns the named parameter, or nil if it is not set.
func (p Params) Get(name string) *param.Value {
	if p == nil {
		return nil
	}
	return p[name]
}

// Lit returns a copy of p with the named parameter set to a literal.
func (p Params) Lit(name, text string) Params {
	res := make(Params, len(p)+1)
	for k, v := range p {
		res[k] = v
	}
	res[name] = param.Lit(name, text)
	return res
}

// Names of the recognised CssParameters.
const (
	ParamFill             = "fill"
	ParamFillOpacity      = "fill-opacity"
	ParamSymbol           = "symbol"
	ParamStroke           = "stroke"
	ParamStrokeOpacity    = "stroke-opacity"
	ParamStrokeWidth      = "stroke-width"
	ParamStrokeLineJoin   = "stroke-linejoin"
	ParamStrokeLineCap    = "stroke-linecap"
	ParamStrokeDashArray  = "stroke-dasharray"
	ParamStrokeDashOffset = "stroke-dashoffset"
	ParamFontFamily       = "font-family"
	ParamFontStyle        = "font-style"
	ParamFontWeight       = "font-weight"
	ParamFontSize         = "font-size"
)

var (
	gray  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Fill describes how an area is painted.
type Fill struct {
	Params Params
}

// FillParams is a [Fill] evaluated for one feature.
type FillParams struct {
	Color   color.NRGBA
	Opacity float64

	// Symbol is the URL of an image replacing a mark, or the empty string.
	Symbol string
}

// DefaultFill is used for marks without a fill.
var DefaultFill = FillParams{Color: gray, Opacity: 1}

// Resolve evaluates the fill for f.  Missing parameters take the values
// from [DefaultFill].  If fl is nil, the result is nil.
func (fl *Fill) Resolve(f filter.Feature) (*FillParams, error) {
	if fl == nil {
		return nil, nil
	}
	res := DefaultFill
	var err error
	res.Color, err = fl.Params.Get(ParamFill).Color(f, res.Color)
	if err != nil {
		return nil, err
	}
	res.Opacity, err = fl.Params.Get(ParamFillOpacity).Opacity(f, res.Opacity)
	if err != nil {
		return nil, err
	}
	if v := fl.Params.Get(ParamSymbol); v != nil {
		res.Symbol, err = v.Evaluate(f)
		if err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// Paint returns the colour with the opacity folded into the alpha channel.
func (p *FillParams) Paint() color.NRGBA {
	return withOpacity(p.Color, p.Opacity)
}

// Stroke describes how a line is drawn.
type Stroke struct {
	Params Params
}

// StrokeParams is a [Stroke] evaluated for one feature.
type StrokeParams struct {
	Color      color.NRGBA
	Opacity    float64
	Width      float64
	LineJoin   string
	LineCap    string
	Dash       []float64
	DashOffset float64
}

// DefaultStroke is a solid black line one unit wide, with mitre joins and
// butt caps.
var DefaultStroke = StrokeParams{
	Color:    black,
	Opacity:  1,
	Width:    1,
	LineJoin: "mitre",
	LineCap:  "butt",
}

// Resolve evaluates the stroke for f.  Missing parameters take the values
// from [DefaultStroke].  If s is nil, the result is nil.
func (s *Stroke) Resolve(f filter.Feature) (*StrokeParams, error) {
	return s.ResolveWith(f, DefaultStroke)
}

// ResolveWith is like [Stroke.Resolve] but takes missing parameters from
// def.
func (s *Stroke) ResolveWith(f filter.Feature, def StrokeParams) (*StrokeParams, error) {
	if s == nil {
		return nil, nil
	}
	res := def
	p := s.Params
	var err error
	if res.Color, err = p.Get(ParamStroke).Color(f, res.Color); err != nil {
		return nil, err
	}
	if res.Opacity, err = p.Get(ParamStrokeOpacity).Opacity(f, res.Opacity); err != nil {
		return nil, err
	}
	if res.Width, err = p.Get(ParamStrokeWidth).Positive(f, res.Width); err != nil {
		return nil, err
	}
	if res.LineJoin, err = p.Get(ParamStrokeLineJoin).Enum(f, res.LineJoin, "mitre", "miter", "round", "bevel"); err != nil {
		return nil, err
	}
	if res.LineCap, err = p.Get(ParamStrokeLineCap).Enum(f, res.LineCap, "butt", "round", "square"); err != nil {
		return nil, err
	}
	if v := p.Get(ParamStrokeDashArray); v != nil {
		if res.Dash, err = v.DashArray(f); err != nil {
			return nil, err
		}
	}
	if res.DashOffset, err = p.Get(ParamStrokeDashOffset).Float(f, res.DashOffset); err != nil {
		return nil, err
	}
	return &res, nil
}

// Visible reports whether the stroke paints anything.
func (p *StrokeParams) Visible() bool {
	return p != nil && p.Width > 0 && p.Opacity > 0
}

// Paint returns the colour with the opacity folded into the alpha channel.
func (p *StrokeParams) Paint() color.NRGBA {
	return withOpacity(p.Color, p.Opacity)
}

// Canvas converts the line style for use with [canvas.Canvas.SetStrokeStyle].
func (p *StrokeParams) Canvas() canvas.Stroke {
	res := canvas.DefaultStroke
	res.Width = p.Width
	switch strings.ToLower(p.LineCap) {
	case "round":
		res.Cap = graphics.LineCapRound
	case "square":
		res.Cap = graphics.LineCapSquare
	}
	switch strings.ToLower(p.LineJoin) {
	case "round":
		res.Join = graphics.LineJoinRound
	case "bevel":
		res.Join = graphics.LineJoinBevel
	}
	res.Dash = p.Dash
	res.DashPhase = p.DashOffset
	return res
}

// Font selects the typeface of a label.
type Font struct {
	Params Params
}

// FontParams is a [Font] evaluated for one feature.
type FontParams struct {
	Family string
	Style  string
	Weight string
	Size   float64
}

// DefaultFont is a sans-serif face of size 10.
var DefaultFont = FontParams{
	Family: "sans-serif",
	Style:  "normal",
	Weight: "normal",
	Size:   10,
}

// Resolve evaluates the font for f.  A nil Font gives [DefaultFont].
func (fn *Font) Resolve(f filter.Feature) (FontParams, error) {
	res := DefaultFont
	if fn == nil {
		return res, nil
	}
	var err error
	if v := fn.Params.Get(ParamFontFamily); v != nil {
		if res.Family, err = v.Evaluate(f); err != nil {
			return res, err
		}
	}
	if res.Style, err = fn.Params.Get(ParamFontStyle).Enum(f, res.Style, "normal", "italic", "oblique"); err != nil {
		return res, err
	}
	if res.Weight, err = fn.Params.Get(ParamFontWeight).Enum(f, res.Weight, "normal", "bold"); err != nil {
		return res, err
	}
	if res.Size, err = fn.Params.Get(ParamFontSize).Positive(f, res.Size); err != nil {
		return res, err
	}
	return res, nil
}

// Halo is an outline drawn around the glyphs of a label.
type Halo struct {
	Radius *param.Value

	// Fill gives the halo colour.  A nil Fill gives white.
	Fill *Fill
}

// HaloParams is a [Halo] evaluated for one feature.
type HaloParams struct {
	Radius float64
	Color  color.NRGBA
}

// Resolve evaluates the halo for f.  The radius defaults to 1.
func (h *Halo) Resolve(f filter.Feature) (*HaloParams, error) {
	if h == nil {
		return nil, nil
	}
	r, err := h.Radius.NonNegative(f, 1)
	if err != nil {
		return nil, err
	}
	res := &HaloParams{Radius: r, Color: white}
	fill, err := h.Fill.Resolve(f)
	if err != nil {
		return nil, err
	}
	if fill != nil {
		res.Color = fill.Paint()
	}
	return res, nil
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 1 {
		c.A = uint8(math.Round(float64(c.A) * max(opacity, 0)))
	}
	return c
}
