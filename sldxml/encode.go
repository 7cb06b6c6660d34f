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

package sldxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/style"
)

// Encode writes the styles as a Styled Layer Descriptor document.  Each
// style is placed into a named layer of the same name.
func Encode(w io.Writer, styles ...*style.Style) error {
	doc := &xmlSLD{Xmlns: nsSLD, Version: "1.1.0"}
	for _, s := range styles {
		us, err := fromStyle(s)
		if err != nil {
			return err
		}
		doc.Named = append(doc.Named, xmlLayer{Name: s.Name, Styles: []*xmlUserStyle{us}})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the document written by [Encode].
func Marshal(styles ...*style.Style) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, styles...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromStyle(s *style.Style) (*xmlUserStyle, error) {
	us := &xmlUserStyle{Name: s.Name, Description: description(s.Title, s.Abstract)}
	for _, fts := range s.FeatureTypeStyles {
		x := &xmlFTS{
			Name:            fts.Name,
			Description:     description(fts.Title, fts.Abstract),
			FeatureTypeName: fts.FeatureTypeName,
			SemanticTypes:   fts.SemanticTypes,
		}
		for _, r := range fts.Rules {
			xr, err := fromRule(r)
			if err != nil {
				return nil, fmt.Errorf("style %q: %w", s.Name, err)
			}
			x.Rules = append(x.Rules, xr)
		}
		us.FTS = append(us.FTS, x)
	}
	return us, nil
}

func description(title, abstract string) *xmlDescription {
	if title == "" && abstract == "" {
		return nil
	}
	return &xmlDescription{Title: title, Abstract: abstract}
}

func fromRule(r *style.Rule) (*xmlRule, error) {
	x := &xmlRule{
		Name:        r.Name,
		Description: description(r.Title, r.Abstract),
		MinScale:    r.Scale.Min,
		MaxScale:    r.Scale.Max,
	}
	if r.Else {
		x.Else = &struct{}{}
	} else if r.Filter != nil {
		x.Filter = &xmlFilter{F: r.Filter}
	}
	for _, sym := range r.Symbolizers {
		xs, err := fromSymbolizer(sym)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		x.Symbolizers = append(x.Symbolizers, xs)
	}
	return x, nil
}

func fromCommon(c *style.Common) xmlCommon {
	x := xmlCommon{Name: c.Name}
	if c.Geometry != "" {
		x.Geometry = &xmlGeometry{Property: c.Geometry}
	}
	return x
}

func fromSymbolizer(sym style.Symbolizer) (any, error) {
	common := fromCommon(style.Base(sym))
	switch sym := sym.(type) {
	case *style.PointSymbolizer:
		return &xmlPointSymbolizer{xmlCommon: common, Graphic: fromGraphic(sym.Graphic)}, nil
	case *style.LineSymbolizer:
		return &xmlLineSymbolizer{
			xmlCommon:           common,
			Stroke:              fromStroke(sym.Stroke),
			PerpendicularOffset: toValue(sym.PerpendicularOffset),
		}, nil
	case *style.PolygonSymbolizer:
		return &xmlPolygonSymbolizer{
			xmlCommon: common,
			Fill:      fromFill(sym.Fill),
			Stroke:    fromStroke(sym.Stroke),
		}, nil
	case *style.TextSymbolizer:
		x := &xmlTextSymbolizer{
			xmlCommon:      common,
			Label:          toValue(sym.Label),
			LabelPlacement: fromPlacement(sym.Placement),
			Fill:           fromFill(sym.Fill),
		}
		if sym.Font != nil {
			x.Font = fromParams(sym.Font.Params)
		}
		if sym.Halo != nil {
			x.Halo = &xmlHalo{Radius: toValue(sym.Halo.Radius), Fill: fromFill(sym.Halo.Fill)}
		}
		return x, nil
	case *style.RasterSymbolizer:
		x := &xmlRasterSymbolizer{xmlCommon: common, Opacity: toValue(sym.Opacity)}
		cm, err := fromRamp(sym.ColorMap)
		if err != nil {
			return nil, err
		}
		x.ColorMap = cm
		if sym.Gamma != 0 {
			x.ContrastEnhancement = &xmlContrast{Gamma: sym.Gamma}
		}
		if r := sym.Relief; r != nil {
			x.ShadedRelief = &xmlRelief{
				BrightnessOnly: r.BrightnessOnly,
				Factor:         r.Factor,
				Azimuth:        r.Azimuth,
				Altitude:       r.Altitude,
			}
		}
		return x, nil
	}
	return nil, fmt.Errorf("cannot write symbolizer of type %T", sym)
}

// fromParams writes the parameters in alphabetical order.
func fromParams(p style.Params) *xmlParams {
	x := &xmlParams{}
	for _, name := range slices.Sorted(maps.Keys(p)) {
		v := p[name]
		if v == nil {
			continue
		}
		x.Svg = append(x.Svg, &xmlValue{Name: name, Parts: v.Parts})
	}
	return x
}

func fromFill(f *style.Fill) *xmlParams {
	if f == nil {
		return nil
	}
	return fromParams(f.Params)
}

func fromStroke(s *style.Stroke) *xmlParams {
	if s == nil {
		return nil
	}
	return fromParams(s.Params)
}

func fromGraphic(g *style.Graphic) *xmlGraphic {
	if g == nil {
		return nil
	}
	x := &xmlGraphic{
		Opacity:  toValue(g.Opacity),
		Size:     toValue(g.Size),
		Rotation: toValue(g.Rotation),
	}
	for _, src := range g.Sources {
		switch src := src.(type) {
		case *style.Mark:
			x.Sources = append(x.Sources, &xmlMark{
				WellKnownName: src.WellKnownName,
				Fill:          fromFill(src.Fill),
				Stroke:        fromStroke(src.Stroke),
			})
		case *style.ExternalGraphic:
			x.Sources = append(x.Sources, &xmlExternalGraphic{
				OnlineResource: xmlResource{Href: src.URL},
				Format:         src.Format,
			})
		}
	}
	if g.DisplacementX != nil || g.DisplacementY != nil {
		x.Displacement = &xmlDisplacement{X: toValue(g.DisplacementX), Y: toValue(g.DisplacementY)}
	}
	return x
}

func fromPlacement(p style.LabelPlacement) *xmlLabelPlacement {
	switch p := p.(type) {
	case *style.PointPlacement:
		x := &xmlPointPlacement{Rotation: toValue(p.Rotation)}
		if p.Auto {
			x.Auto = "true"
		}
		if p.AnchorX != nil || p.AnchorY != nil {
			x.Anchor = &xmlAnchor{X: toValue(p.AnchorX), Y: toValue(p.AnchorY)}
		}
		if p.DisplacementX != nil || p.DisplacementY != nil {
			x.Displacement = &xmlDisplacement{X: toValue(p.DisplacementX), Y: toValue(p.DisplacementY)}
		}
		return &xmlLabelPlacement{Point: x}
	case *style.LinePlacement:
		return &xmlLabelPlacement{Line: &xmlLinePlacement{
			PerpendicularOffset: toValue(p.PerpendicularOffset),
			Gap:                 toValue(p.Gap),
		}}
	}
	return nil
}

func fromRamp(r colormap.Ramp) (*xmlColorMap, error) {
	switch r := r.(type) {
	case nil:
		return nil, nil
	case *colormap.Categorize:
		x := &xmlCategorize{LookupValue: "Rasterdata"}
		if r.BelongTo != colormap.Succeeding {
			x.BelongTo = r.BelongTo.String()
		}
		for _, v := range r.Values {
			x.Values = append(x.Values, v.String())
		}
		for _, t := range r.Thresholds {
			x.Thresholds = append(x.Thresholds, formatFloat(t))
		}
		return &xmlColorMap{Categorize: x}, nil
	case *colormap.Interpolate:
		x := &xmlInterpolate{
			LookupValue: "Rasterdata",
			Mode:        r.Mode.String(),
			Method:      r.Method.String(),
		}
		if r.Fallback != (colormap.Entry{}) {
			x.Fallback = r.Fallback.String()
		}
		for _, p := range r.Points {
			x.Points = append(x.Points, xmlPoint{Data: formatFloat(p.Data), Value: p.Entry.String()})
		}
		return &xmlColorMap{Interpolate: x}, nil
	}
	return nil, fmt.Errorf("cannot write colour map of type %T", r)
}

// MarshalXML writes the values and thresholds alternately, as required by
// the schema.
func (c *xmlCategorize) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if c.BelongTo != "" {
		start.Attr = append(start.Attr, attr("threshholdsBelongTo", c.BelongTo))
	}
	return encodeWith(e, start, func() error {
		if c.LookupValue != "" {
			if err := encodeText(e, "LookupValue", c.LookupValue); err != nil {
				return err
			}
		}
		for i, v := range c.Values {
			if i > 0 && i-1 < len(c.Thresholds) {
				if err := encodeText(e, "Threshold", c.Thresholds[i-1]); err != nil {
					return err
				}
			}
			if err := encodeText(e, "Value", v); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
