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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"seehuhn.de/go/sld/filter"
)

// xmlFilter is an OGC filter element.
type xmlFilter struct {
	F filter.Filter
}

func (x *xmlFilter) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: nsOGC})
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeFilter(e, x.F); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (x *xmlFilter) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	ops, err := decodeOperands(d)
	if err != nil {
		return err
	}
	switch len(ops) {
	case 0:
		return errors.New("empty filter")
	case 1:
		x.F = ops[0]
	default:
		// several operators are combined, as in a filter encoding 2.0 And
		x.F = filter.And(ops)
	}
	return nil
}

var errUnsupportedFilter = errors.New("unsupported filter")

// encodeFilter writes one filter operator.  The constant filters are
// written as an empty And, which is always true, and an empty Or, which is
// always false.
func encodeFilter(e *xml.Encoder, f filter.Filter) error {
	switch f {
	case filter.True:
		f = filter.And(nil)
	case filter.False:
		f = filter.Or(nil)
	}

	switch f := f.(type) {
	case filter.And:
		return encodeLogic(e, "And", f)
	case filter.Or:
		return encodeLogic(e, "Or", f)
	case filter.Not:
		return encodeLogic(e, "Not", []filter.Filter{f.Filter})
	case *filter.Not:
		return encodeLogic(e, "Not", []filter.Filter{f.Filter})

	case *filter.Compare:
		start := element(f.Op.String())
		if f.CaseInsensitive {
			start.Attr = append(start.Attr, attr("matchCase", "false"))
		}
		return encodeWith(e, start, func() error {
			if err := encodeExpr(e, f.Left, false); err != nil {
				return err
			}
			return encodeExpr(e, f.Right, false)
		})

	case *filter.Like:
		start := element("PropertyIsLike")
		start.Attr = append(start.Attr,
			attr("wildCard", string(orDefault(f.WildCard, '*'))),
			attr("singleChar", string(orDefault(f.SingleChar, '.'))),
			attr("escapeChar", string(orDefault(f.Escape, '!'))))
		return encodeWith(e, start, func() error {
			if err := encodeExpr(e, f.Value, false); err != nil {
				return err
			}
			return encodeText(e, "Literal", f.Pattern)
		})

	case *filter.IsNull:
		return encodeWith(e, element("PropertyIsNull"), func() error {
			return encodeText(e, "PropertyName", f.Property)
		})

	case *filter.Between:
		return encodeWith(e, element("PropertyIsBetween"), func() error {
			if err := encodeExpr(e, f.Value, false); err != nil {
				return err
			}
			err := encodeWith(e, element("LowerBoundary"), func() error {
				return encodeExpr(e, f.Lower, false)
			})
			if err != nil {
				return err
			}
			return encodeWith(e, element("UpperBoundary"), func() error {
				return encodeExpr(e, f.Upper, false)
			})
		})
	}
	return fmt.Errorf("%w: %T", errUnsupportedFilter, f)
}

func encodeLogic(e *xml.Encoder, name string, ops []filter.Filter) error {
	return encodeWith(e, element(name), func() error {
		for _, op := range ops {
			if err := encodeFilter(e, op); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeWith(e *xml.Encoder, start xml.StartElement, body func() error) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// decodeOperands reads the filter operators inside the current element.
func decodeOperands(d *xml.Decoder) ([]filter.Filter, error) {
	var res []filter.Filter
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			f, err := decodeFilter(d, t)
			if err != nil {
				return nil, err
			}
			res = append(res, f)
		case xml.EndElement:
			return res, nil
		}
	}
}

func decodeFilter(d *xml.Decoder, start xml.StartElement) (filter.Filter, error) {
	name := start.Name.Local
	switch name {
	case "And":
		ops, err := decodeOperands(d)
		return filter.And(ops), err
	case "Or":
		ops, err := decodeOperands(d)
		return filter.Or(ops), err
	case "Not":
		ops, err := decodeOperands(d)
		if err != nil {
			return nil, err
		}
		if len(ops) != 1 {
			return nil, fmt.Errorf("<Not> with %d operands", len(ops))
		}
		return filter.Not{Filter: ops[0]}, nil

	case "PropertyIsLike":
		like := &filter.Like{}
		for _, a := range start.Attr {
			r, _ := utf8.DecodeRuneInString(a.Value)
			switch a.Name.Local {
			case "wildCard":
				like.WildCard = r
			case "singleChar":
				like.SingleChar = r
			case "escapeChar", "escape":
				like.Escape = r
			}
		}
		exprs, err := decodeExprs(d)
		if err != nil {
			return nil, err
		}
		if len(exprs) != 2 {
			return nil, fmt.Errorf("<%s> with %d operands", name, len(exprs))
		}
		lit, ok := exprs[1].(filter.Literal)
		if !ok {
			return nil, fmt.Errorf("<%s>: pattern is not a literal", name)
		}
		like.Value, like.Pattern = exprs[0], string(lit)
		return like, nil

	case "PropertyIsNull":
		exprs, err := decodeExprs(d)
		if err != nil {
			return nil, err
		}
		if len(exprs) != 1 {
			return nil, fmt.Errorf("<%s> with %d operands", name, len(exprs))
		}
		p, ok := exprs[0].(filter.Property)
		if !ok {
			return nil, fmt.Errorf("<%s>: operand is not a property", name)
		}
		return &filter.IsNull{Property: string(p)}, nil

	case "PropertyIsBetween":
		return decodeBetween(d)
	}

	if op, ok := filter.ParseOp(name); ok {
		cmp := &filter.Compare{Op: op}
		for _, a := range start.Attr {
			if a.Name.Local == "matchCase" {
				match, err := strconv.ParseBool(a.Value)
				if err != nil {
					return nil, fmt.Errorf("<%s>: invalid matchCase %q", name, a.Value)
				}
				cmp.CaseInsensitive = !match
			}
		}
		exprs, err := decodeExprs(d)
		if err != nil {
			return nil, err
		}
		if len(exprs) != 2 {
			return nil, fmt.Errorf("<%s> with %d operands", name, len(exprs))
		}
		cmp.Left, cmp.Right = exprs[0], exprs[1]
		return cmp, nil
	}

	return nil, fmt.Errorf("%w: <%s>", errUnsupportedFilter, name)
}

// decodeExprs reads the expressions inside the current element.
func decodeExprs(d *xml.Decoder) ([]filter.Expression, error) {
	var res []filter.Expression
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ex, err := decodeExpr(d, t)
			if err != nil {
				return nil, err
			}
			res = append(res, ex)
		case xml.EndElement:
			return res, nil
		}
	}
}

func decodeBetween(d *xml.Decoder) (filter.Filter, error) {
	b := &filter.Between{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var target *filter.Expression
			switch t.Name.Local {
			case "LowerBoundary":
				target = &b.Lower
			case "UpperBoundary":
				target = &b.Upper
			}
			if target == nil {
				b.Value, err = decodeExpr(d, t)
				if err != nil {
					return nil, err
				}
				continue
			}
			exprs, err := decodeExprs(d)
			if err != nil {
				return nil, err
			}
			if len(exprs) != 1 {
				return nil, fmt.Errorf("<%s> with %d expressions", t.Name.Local, len(exprs))
			}
			*target = exprs[0]
		case xml.EndElement:
			if b.Value == nil || b.Lower == nil || b.Upper == nil {
				return nil, errors.New("incomplete <PropertyIsBetween>")
			}
			return b, nil
		}
	}
}

func element(name string) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func orDefault(r, def rune) rune {
	if r == 0 {
		return def
	}
	return r
}

// trimmed is used for numeric element content.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
