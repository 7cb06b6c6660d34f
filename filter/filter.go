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

// Package filter evaluates feature filters and expressions.
//
// Only the small part of the OGC filter language needed to select style
// rules is provided: property access, literals, comparisons and the
// logical operators.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Feature is a geographic feature whose properties can be queried.
type Feature interface {
	ID() string

	// Property returns the value of the named property.  The second
	// return value is false if the feature has no such property.
	Property(name string) (any, bool)
}

// Map is a [Feature] backed by a map.
type Map struct {
	FID   string
	Props map[string]any
}

func (m *Map) ID() string { return m.FID }

func (m *Map) Property(name string) (any, bool) {
	v, ok := m.Props[name]
	return v, ok
}

// ErrNoFeature is returned when an expression needs feature data but was
// evaluated without a feature.
var ErrNoFeature = errors.New("no feature")

// Expression computes a string value from a feature.
type Expression interface {
	Evaluate(f Feature) (string, error)
}

// Literal is a constant expression.
type Literal string

func (l Literal) Evaluate(Feature) (string, error) {
	return string(l), nil
}

// Property looks up a feature property by name.
type Property string

func (p Property) Evaluate(f Feature) (string, error) {
	if f == nil {
		return "", fmt.Errorf("property %q: %w", string(p), ErrNoFeature)
	}
	v, ok := f.Property(string(p))
	if !ok {
		return "", fmt.Errorf("feature %q has no property %q", f.ID(), string(p))
	}
	return format(v), nil
}

// Concat joins the values of several expressions.
type Concat []Expression

func (c Concat) Evaluate(f Feature) (string, error) {
	var b strings.Builder
	for _, e := range c {
		s, err := e.Evaluate(f)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
