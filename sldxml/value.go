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
	"encoding/xml"
	"fmt"
	"strings"

	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
)

// xmlValue is a parameter value: a mix of text, property names and
// literals.  For SvgParameter elements, Name holds the parameter name.
type xmlValue struct {
	Name  string
	Parts []param.Component
}

func (v *xmlValue) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if v.Name != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "name"}, Value: v.Name})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, p := range v.Parts {
		var err error
		switch p := p.(type) {
		case param.Text:
			err = e.EncodeToken(xml.CharData(p))
		case param.Expr:
			err = encodeExpr(e, p.Expression, true)
		}
		if err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (v *xmlValue) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "name" {
			v.Name = a.Value
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			// text parts are trimmed when evaluated
			if s := strings.TrimSpace(string(t)); s != "" {
				v.Parts = append(v.Parts, param.Text(s))
			}
		case xml.StartElement:
			ex, err := decodeExpr(d, t)
			if err != nil {
				return err
			}
			if lit, ok := ex.(filter.Literal); ok {
				v.Parts = append(v.Parts, param.Text(lit))
			} else {
				v.Parts = append(v.Parts, param.Expr{Expression: ex})
			}
		case xml.EndElement:
			return nil
		}
	}
}

// value converts v into a parameter value with the given name.  A nil v
// gives nil.
func (v *xmlValue) value(name string) *param.Value {
	if v == nil {
		return nil
	}
	if v.Name != "" {
		name = v.Name
	}
	return param.New(name, v.Parts...)
}

// toValue is the inverse of [xmlValue.value].
func toValue(v *param.Value) *xmlValue {
	if v == nil {
		return nil
	}
	return &xmlValue{Parts: v.Parts}
}

// encodeExpr writes an expression.  Inside parameter values, literals are
// written as plain text.
func encodeExpr(e *xml.Encoder, ex filter.Expression, inValue bool) error {
	switch ex := ex.(type) {
	case filter.Property:
		return encodeText(e, "PropertyName", string(ex))
	case filter.Literal:
		if inValue {
			return e.EncodeToken(xml.CharData(ex))
		}
		return encodeText(e, "Literal", string(ex))
	case filter.Concat:
		if !inValue {
			return fmt.Errorf("cannot write %T as a filter operand", ex)
		}
		for _, sub := range ex {
			if err := encodeExpr(e, sub, true); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("cannot write expression of type %T", ex)
}

// decodeExpr reads an expression element.
func decodeExpr(d *xml.Decoder, start xml.StartElement) (filter.Expression, error) {
	switch start.Name.Local {
	case "PropertyName", "ValueReference":
		s, err := readText(d)
		if err != nil {
			return nil, err
		}
		return filter.Property(strings.TrimSpace(s)), nil
	case "Literal":
		s, err := readText(d)
		if err != nil {
			return nil, err
		}
		return filter.Literal(s), nil
	}
	return nil, fmt.Errorf("unsupported expression <%s>", start.Name.Local)
}

func encodeText(e *xml.Encoder, name, text string) error {
	return e.EncodeElement(text, xml.StartElement{Name: xml.Name{Local: name}})
}

// readText returns the text content of the current element, which must
// not contain child elements.
func readText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s>", t.Name.Local)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}
