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

package filter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Filter decides whether a feature is selected.
type Filter interface {
	Evaluate(f Feature) (bool, error)
}

type constant bool

func (c constant) Evaluate(Feature) (bool, error) { return bool(c), nil }

func (c constant) String() string {
	if c {
		return "TRUE"
	}
	return "FALSE"
}

// The filters selecting every feature and no feature.
var (
	True  Filter = constant(true)
	False Filter = constant(false)
)

// And is true if all its operands are true.  The empty And is true.
type And []Filter

func (a And) Evaluate(f Feature) (bool, error) {
	for _, x := range a {
		ok, err := x.Evaluate(f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Or is true if at least one operand is true.  The empty Or is false.
type Or []Filter

func (o Or) Evaluate(f Feature) (bool, error) {
	for _, x := range o {
		ok, err := x.Evaluate(f)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Not negates a filter.
type Not struct {
	Filter Filter
}

func (n Not) Evaluate(f Feature) (bool, error) {
	ok, err := n.Filter.Evaluate(f)
	return !ok && err == nil, err
}

// Op is a comparison operator.
type Op int

const (
	EqualTo Op = iota
	NotEqualTo
	LessThan
	LessThanOrEqualTo
	GreaterThan
	GreaterThanOrEqualTo
)

var opNames = [...]string{
	EqualTo:              "PropertyIsEqualTo",
	NotEqualTo:           "PropertyIsNotEqualTo",
	LessThan:             "PropertyIsLessThan",
	LessThanOrEqualTo:    "PropertyIsLessThanOrEqualTo",
	GreaterThan:          "PropertyIsGreaterThan",
	GreaterThanOrEqualTo: "PropertyIsGreaterThanOrEqualTo",
}

// String returns the element name of the operator in OGC filter encoding.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp is the inverse of [Op.String].
func ParseOp(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// Compare compares the values of two expressions.  If both values are
// numbers they are compared numerically, otherwise as strings.
type Compare struct {
	Op          Op
	Left, Right Expression

	// CaseInsensitive applies to string comparisons.
	CaseInsensitive bool
}

func (c *Compare) Evaluate(f Feature) (bool, error) {
	a, err := c.Left.Evaluate(f)
	if err != nil {
		return false, err
	}
	b, err := c.Right.Evaluate(f)
	if err != nil {
		return false, err
	}

	var cmp int
	x, errX := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errX == nil && errY == nil {
		switch {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		}
	} else {
		if c.CaseInsensitive {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}
		cmp = strings.Compare(a, b)
	}

	switch c.Op {
	case EqualTo:
		return cmp == 0, nil
	case NotEqualTo:
		return cmp != 0, nil
	case LessThan:
		return cmp < 0, nil
	case LessThanOrEqualTo:
		return cmp <= 0, nil
	case GreaterThan:
		return cmp > 0, nil
	case GreaterThanOrEqualTo:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("unknown comparison operator %d", int(c.Op))
}

// Between is true if Lower <= Value <= Upper, compared numerically.
type Between struct {
	Value, Lower, Upper Expression
}

func (b *Between) Evaluate(f Feature) (bool, error) {
	var v [3]float64
	for i, e := range []Expression{b.Value, b.Lower, b.Upper} {
		s, err := e.Evaluate(f)
		if err != nil {
			return false, err
		}
		v[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return false, fmt.Errorf("PropertyIsBetween: %w", err)
		}
	}
	if math.IsNaN(v[0]) {
		return false, nil
	}
	return v[1] <= v[0] && v[0] <= v[2], nil
}

// IsNull is true if the property is absent or has no value.
type IsNull struct {
	Property string
}

func (n *IsNull) Evaluate(f Feature) (bool, error) {
	if f == nil {
		return false, fmt.Errorf("PropertyIsNull: %w", ErrNoFeature)
	}
	v, ok := f.Property(n.Property)
	return !ok || v == nil, nil
}

// Like matches the value of an expression against a pattern.  WildCard
// matches any sequence of characters, SingleChar matches one character,
// and Escape quotes the character following it.
type Like struct {
	Value      Expression
	Pattern    string
	WildCard   rune
	SingleChar rune
	Escape     rune

	once  sync.Once
	re    *regexp.Regexp
	reErr error
}

func (l *Like) Evaluate(f Feature) (bool, error) {
	l.once.Do(func() { l.re, l.reErr = l.compile() })
	if l.reErr != nil {
		return false, l.reErr
	}
	s, err := l.Value.Evaluate(f)
	if err != nil {
		return false, err
	}
	return l.re.MatchString(s), nil
}

func (l *Like) compile() (*regexp.Regexp, error) {
	wild, single, esc := l.WildCard, l.SingleChar, l.Escape
	if wild == 0 {
		wild = '*'
	}
	if single == 0 {
		single = '.'
	}
	if esc == 0 {
		esc = '!'
	}

	var b strings.Builder
	b.WriteString("^")
	quoted := false
	for _, r := range l.Pattern {
		switch {
		case quoted:
			b.WriteString(regexp.QuoteMeta(string(r)))
			quoted = false
		case r == esc:
			quoted = true
		case r == wild:
			b.WriteString(".*")
		case r == single:
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
