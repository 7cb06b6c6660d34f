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
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/colormap"
	"seehuhn.de/go/sld/style"
)

// Decode reads the user styles of a document.  The root element may be a
// StyledLayerDescriptor, a UserStyle or a single FeatureTypeStyle.
func Decode(r io.Reader) ([]*style.Style, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, errors.New("sldxml: no root element")
		} else if err != nil {
			return nil, fmt.Errorf("sldxml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		var styles []*xmlUserStyle
		switch start.Name.Local {
		case "StyledLayerDescriptor":
			doc := &xmlSLD{}
			if err := d.DecodeElement(doc, &start); err != nil {
				return nil, fmt.Errorf("sldxml: %w", err)
			}
			for _, l := range append(doc.Named, doc.User...) {
				styles = append(styles, l.Styles...)
			}
		case "UserStyle":
			us := &xmlUserStyle{}
			if err := d.DecodeElement(us, &start); err != nil {
				return nil, fmt.Errorf("sldxml: %w", err)
			}
			styles = append(styles, us)
		case "FeatureTypeStyle", "CoverageStyle":
			fts := &xmlFTS{}
			if err := d.DecodeElement(fts, &start); err != nil {
				return nil, fmt.Errorf("sldxml: %w", err)
			}
			styles = append(styles, &xmlUserStyle{FTS: []*xmlFTS{fts}})
		default:
			return nil, fmt.Errorf("sldxml: unexpected root element <%s>", start.Name.Local)
		}

		res := make([]*style.Style, 0, len(styles))
		for _, us := range styles {
			s, err := us.style()
			if err != nil {
				return nil, err
			}
			res = append(res, s)
		}
		return res, nil
	}
}

// Unmarshal is like [Decode] but reads from a byte slice.
func Unmarshal(data []byte) ([]*style.Style, error) {
	return Decode(bytes.NewReader(data))
}

func (d *xmlDescription) get(title, abstract string) (string, string) {
	if d == nil {
		return title, abstract
	}
	if d.Title != "" {
		title = d.Title
	}
	if d.Abstract != "" {
		abstract = d.Abstract
	}
	return title, abstract
}

func (us *xmlUserStyle) style() (*style.Style, error) {
	s := &style.Style{Name: us.Name}
	s.Title, s.Abstract = us.Description.get(us.Title, us.Abstract)
	for _, x := range append(us.FTS, us.Coverage...) {
		var rules []*style.Rule
		for _, xr := range x.Rules {
			r, err := xr.rule()
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
		fts, err := style.NewFeatureTypeStyle(x.Name, rules...)
		if err != nil {
			return nil, err
		}
		fts.Title, fts.Abstract = x.Description.get(x.Title, x.Abstract)
		fts.FeatureTypeName = x.FeatureTypeName
		fts.SemanticTypes = x.SemanticTypes
		s.FeatureTypeStyles = append(s.FeatureTypeStyles, fts)
	}
	return s, nil
}

func (x *xmlRule) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "Name":
				err = d.DecodeElement(&x.Name, &t)
			case "Title":
				err = d.DecodeElement(&x.Title, &t)
			case "Abstract":
				err = d.DecodeElement(&x.Abstract, &t)
			case "Description":
				x.Description = &xmlDescription{}
				err = d.DecodeElement(x.Description, &t)
			case "Filter":
				x.Filter = &xmlFilter{}
				err = d.DecodeElement(x.Filter, &t)
			case "ElseFilter":
				x.Else = &struct{}{}
				err = d.Skip()
			case "MinScaleDenominator":
				x.MinScale, err = decodeFloat(d, &t)
			case "MaxScaleDenominator":
				x.MaxScale, err = decodeFloat(d, &t)
			case "PointSymbolizer":
				err = decodeSymbolizer(d, &t, &xmlPointSymbolizer{}, &x.Symbolizers)
			case "LineSymbolizer":
				err = decodeSymbolizer(d, &t, &xmlLineSymbolizer{}, &x.Symbolizers)
			case "PolygonSymbolizer":
				err = decodeSymbolizer(d, &t, &xmlPolygonSymbolizer{}, &x.Symbolizers)
			case "TextSymbolizer":
				err = decodeSymbolizer(d, &t, &xmlTextSymbolizer{}, &x.Symbolizers)
			case "RasterSymbolizer":
				err = decodeSymbolizer(d, &t, &xmlRasterSymbolizer{}, &x.Symbolizers)
			default:
				sld.Logger().Debug("ignoring rule element", "element", t.Name.Local)
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func decodeSymbolizer(d *xml.Decoder, start *xml.StartElement, x any, list *[]any) error {
	if err := d.DecodeElement(x, start); err != nil {
		return err
	}
	*list = append(*list, x)
	return nil
}

func decodeFloat(d *xml.Decoder, start *xml.StartElement) (float64, error) {
	var s string
	if err := d.DecodeElement(&s, start); err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(trimmed(s), 64)
	if err != nil {
		return 0, fmt.Errorf("<%s>: %w", start.Name.Local, err)
	}
	return x, nil
}

func (x *xmlRule) rule() (*style.Rule, error) {
	r := &style.Rule{
		Name:  x.Name,
		Else:  x.Else != nil,
		Scale: style.ScaleRange{Min: x.MinScale, Max: x.MaxScale},
	}
	r.Title, r.Abstract = x.Description.get(x.Title, x.Abstract)
	if math.IsInf(r.Scale.Max, 1) {
		r.Scale.Max = 0
	}
	if x.Filter != nil {
		r.Filter = x.Filter.F
	}
	for _, xs := range x.Symbolizers {
		sym, err := toSymbolizer(xs)
		if err != nil {
			return nil, &sld.ConstructionError{What: fmt.Sprintf("rule %q", x.Name), Err: err}
		}
		r.Symbolizers = append(r.Symbolizers, sym)
	}
	return r, nil
}

func (x xmlCommon) common() style.Common {
	c := style.Common{Name: x.Name}
	if x.Geometry != nil {
		c.Geometry = strings.TrimSpace(x.Geometry.Property)
	}
	return c
}

func toSymbolizer(xs any) (style.Symbolizer, error) {
	switch x := xs.(type) {
	case *xmlPointSymbolizer:
		g, err := x.Graphic.graphic()
		if err != nil {
			return nil, err
		}
		return &style.PointSymbolizer{Common: x.common(), Graphic: g}, nil
	case *xmlLineSymbolizer:
		return &style.LineSymbolizer{
			Common:              x.common(),
			Stroke:              x.Stroke.stroke(),
			PerpendicularOffset: x.PerpendicularOffset.value("perpendicular-offset"),
		}, nil
	case *xmlPolygonSymbolizer:
		return &style.PolygonSymbolizer{
			Common: x.common(),
			Fill:   x.Fill.fill(),
			Stroke: x.Stroke.stroke(),
		}, nil
	case *xmlTextSymbolizer:
		s := &style.TextSymbolizer{
			Common:    x.common(),
			Label:     x.Label.value("label"),
			Fill:      x.Fill.fill(),
			Placement: x.LabelPlacement.placement(),
		}
		if x.Font != nil {
			s.Font = &style.Font{Params: x.Font.params()}
		}
		if x.Halo != nil {
			s.Halo = &style.Halo{Radius: x.Halo.Radius.value("radius"), Fill: x.Halo.Fill.fill()}
		}
		return s, nil
	case *xmlRasterSymbolizer:
		s := &style.RasterSymbolizer{
			Common:  x.common(),
			Opacity: x.Opacity.value("opacity"),
		}
		ramp, err := x.ColorMap.ramp()
		if err != nil {
			return nil, err
		}
		s.ColorMap = ramp
		if x.ContrastEnhancement != nil {
			s.Gamma = x.ContrastEnhancement.Gamma
		}
		if r := x.ShadedRelief; r != nil {
			s.Relief = &colormap.Relief{
				Factor:         r.Factor,
				Azimuth:        r.Azimuth,
				Altitude:       r.Altitude,
				BrightnessOnly: r.BrightnessOnly,
			}
		}
		return s, nil
	}
	return nil, fmt.Errorf("unexpected symbolizer %T", xs)
}

// params collects the parameters.  SvgParameter takes precedence over
// CssParameter when both are given.
func (x *xmlParams) params() style.Params {
	p := style.Params{}
	for _, v := range append(x.CSS, x.Svg...) {
		if v.Name == "" {
			continue
		}
		p[v.Name] = v.value(v.Name)
	}
	return p
}

func (x *xmlParams) fill() *style.Fill {
	if x == nil {
		return nil
	}
	return &style.Fill{Params: x.params()}
}

func (x *xmlParams) stroke() *style.Stroke {
	if x == nil {
		return nil
	}
	return &style.Stroke{Params: x.params()}
}

func (g *xmlGraphic) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "Mark":
				m := &xmlMark{}
				err = d.DecodeElement(m, &t)
				g.Sources = append(g.Sources, m)
			case "ExternalGraphic":
				e := &xmlExternalGraphic{}
				err = d.DecodeElement(e, &t)
				g.Sources = append(g.Sources, e)
			case "Opacity":
				g.Opacity = &xmlValue{}
				err = d.DecodeElement(g.Opacity, &t)
			case "Size":
				g.Size = &xmlValue{}
				err = d.DecodeElement(g.Size, &t)
			case "Rotation":
				g.Rotation = &xmlValue{}
				err = d.DecodeElement(g.Rotation, &t)
			case "Displacement":
				g.Displacement = &xmlDisplacement{}
				err = d.DecodeElement(g.Displacement, &t)
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (g *xmlGraphic) graphic() (*style.Graphic, error) {
	if g == nil {
		return nil, nil
	}
	res := &style.Graphic{
		Opacity:  g.Opacity.value("opacity"),
		Size:     g.Size.value("size"),
		Rotation: g.Rotation.value("rotation"),
	}
	if g.Displacement != nil {
		res.DisplacementX = g.Displacement.X.value("displacement-x")
		res.DisplacementY = g.Displacement.Y.value("displacement-y")
	}
	for _, src := range g.Sources {
		switch src := src.(type) {
		case *xmlMark:
			res.Sources = append(res.Sources, &style.Mark{
				WellKnownName: strings.TrimSpace(src.WellKnownName),
				Fill:          src.Fill.fill(),
				Stroke:        src.Stroke.stroke(),
			})
		case *xmlExternalGraphic:
			u := strings.TrimSpace(src.OnlineResource.url())
			if u == "" {
				return nil, errors.New("external graphic without a URL")
			}
			res.Sources = append(res.Sources, &style.ExternalGraphic{
				URL:    u,
				Format: strings.TrimSpace(src.Format),
			})
		}
	}
	return res, nil
}

func (x *xmlLabelPlacement) placement() style.LabelPlacement {
	switch {
	case x == nil:
		return nil
	case x.Point != nil:
		p := x.Point
		res := &style.PointPlacement{
			Rotation: p.Rotation.value("rotation"),
			Auto:     strings.EqualFold(strings.TrimSpace(p.Auto), "true"),
		}
		if p.Anchor != nil {
			res.AnchorX = p.Anchor.X.value("anchor-x")
			res.AnchorY = p.Anchor.Y.value("anchor-y")
		}
		if p.Displacement != nil {
			res.DisplacementX = p.Displacement.X.value("displacement-x")
			res.DisplacementY = p.Displacement.Y.value("displacement-y")
		}
		return res
	case x.Line != nil:
		return &style.LinePlacement{
			PerpendicularOffset: x.Line.PerpendicularOffset.value("perpendicular-offset"),
			Gap:                 x.Line.Gap.value("gap"),
		}
	}
	return nil
}

func (x *xmlColorMap) ramp() (colormap.Ramp, error) {
	switch {
	case x == nil:
		return nil, nil
	case x.Categorize != nil:
		c := x.Categorize
		belongTo := c.BelongTo
		if belongTo == "" {
			belongTo = c.BelongToAlt
		}
		b, err := colormap.ParseBelongTo(belongTo)
		if err != nil {
			return nil, err
		}
		values := make([]colormap.Entry, len(c.Values))
		for i, v := range c.Values {
			if values[i], err = colormap.ParseEntry(v); err != nil {
				return nil, err
			}
		}
		thresholds := make([]float64, len(c.Thresholds))
		for i, t := range c.Thresholds {
			if thresholds[i], err = strconv.ParseFloat(trimmed(t), 64); err != nil {
				return nil, fmt.Errorf("threshold %q: %w", t, err)
			}
		}
		return colormap.NewCategorize(thresholds, values, b)
	case x.Interpolate != nil:
		ip := x.Interpolate
		mode, err := colormap.ParseMode(ip.Mode)
		if err != nil {
			return nil, err
		}
		method, err := colormap.ParseMethod(ip.Method)
		if err != nil {
			return nil, err
		}
		var fallback colormap.Entry
		if strings.TrimSpace(ip.Fallback) != "" {
			if fallback, err = colormap.ParseEntry(ip.Fallback); err != nil {
				return nil, err
			}
		}
		points := make([]colormap.Point, len(ip.Points))
		for i, p := range ip.Points {
			if points[i].Data, err = strconv.ParseFloat(trimmed(p.Data), 64); err != nil {
				return nil, fmt.Errorf("interpolation point %q: %w", p.Data, err)
			}
			if points[i].Entry, err = colormap.ParseEntry(p.Value); err != nil {
				return nil, err
			}
		}
		return colormap.NewInterpolate(points, fallback, mode, method)
	}
	return nil, nil
}
