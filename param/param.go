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

// Package param evaluates style parameter values.
//
// A parameter value, like the content of an SLD CssParameter element, is a
// sequence of literal text and expressions.  The value is evaluated for a
// feature by evaluating the expressions and concatenating the results.
// Values without expressions are called simple; their typed results are
// computed once and then reused.
package param

import (
	"strings"
	"sync"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/filter"
)

// Component is a part of a [Value], either [Text] or [Expr].
type Component interface {
	isComponent()
}

// Text is literal text.  Surrounding white space is ignored.
type Text string

// Expr is an expression evaluated for each feature.
type Expr struct {
	filter.Expression
}

func (Text) isComponent() {}
func (Expr) isComponent() {}

// Random is the reserved value asking for a random colour or opacity.
const Random = "random"

// Value is a parameter value.  Values are immutable and safe for
// concurrent use.
type Value struct {
	// Name identifies the parameter in error messages, for example
	// "stroke-width".
	Name  string
	Parts []Component

	simple bool
	text   string
	memo   sync.Map // string -> result
}

type result struct {
	v   any
	err error
}

// New returns a value made from the given parts.
func New(name string, parts ...Component) *Value {
	v := &Value{Name: name, Parts: parts, simple: true}
	var b strings.Builder
	for _, p := range parts {
		switch p := p.(type) {
		case Text:
			b.WriteString(strings.TrimSpace(string(p)))
		default:
			v.simple = false
		}
	}
	if v.simple {
		v.text = b.String()
	}
	return v
}

// Lit returns a simple value with the given text.
func Lit(name, text string) *Value {
	return New(name, Text(text))
}

// Prop returns a value which reads the named feature property.
func Prop(name, property string) *Value {
	return New(name, Expr{filter.Property(property)})
}

// IsSimple reports whether v contains no expressions.
func (v *Value) IsSimple() bool {
	return v.simple
}

// Evaluate computes the text of v for the feature f.  For simple values f
// may be nil.
func (v *Value) Evaluate(f filter.Feature) (string, error) {
	if v.simple {
		return v.text, nil
	}
	var b strings.Builder
	for _, p := range v.Parts {
		switch p := p.(type) {
		case Text:
			b.WriteString(strings.TrimSpace(string(p)))
		case Expr:
			s, err := p.Evaluate(f)
			if err != nil {
				return "", &sld.EvaluationError{Param: v.Name, Err: err}
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// String returns the literal text of a simple value, and a placeholder
// otherwise.
func (v *Value) String() string {
	if v.simple {
		return v.text
	}
	return v.Name + "(expression)"
}

// typed evaluates v and applies parse to the result.  For simple values
// the outcome, including errors, is stored under key.  The reserved word
// "random" is never stored, since each use must produce a fresh value.
func (v *Value) typed(f filter.Feature, key string, parse func(string) (any, error)) (any, error) {
	if v.simple {
		if r, ok := v.memo.Load(key); ok {
			r := r.(result)
			return r.v, r.err
		}
		if isRandom(v.text) {
			return parse(v.text)
		}
		x, err := parse(v.text)
		v.memo.Store(key, result{x, err})
		return x, err
	}

	s, err := v.Evaluate(f)
	if err != nil {
		return nil, err
	}
	return parse(s)
}

func isRandom(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), Random)
}
