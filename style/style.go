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

// Package style holds the in-memory form of a styled layer descriptor and
// decides which symbolizers apply to a feature.
//
// A [Style] contains feature type styles, which contain rules.  A rule is
// gated by a scale range and a filter, and carries the symbolizers drawn
// for the features it selects.  All rules selecting a feature contribute,
// in document order, so that later rules draw over earlier ones.
package style

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/filter"
)

// Style is a named list of feature type styles.
type Style struct {
	Name     string
	Title    string
	Abstract string

	FeatureTypeStyles []*FeatureTypeStyle
}

// Symbolizers returns the symbolizers of all feature type styles which
// apply to f at the given scale denominator.
func (s *Style) Symbolizers(f filter.Feature, scale float64) []Symbolizer {
	var res []Symbolizer
	for _, fts := range s.FeatureTypeStyles {
		res = append(res, fts.Select(f, scale)...)
	}
	return res
}

// FeatureTypeStyle is an ordered list of rules for one feature type.  Use
// [NewFeatureTypeStyle] to create values of this type.
type FeatureTypeStyle struct {
	Name            string
	Title           string
	Abstract        string
	FeatureTypeName string
	SemanticTypes   []string

	Rules []*Rule
}

// ScaleRange is the range [Min, Max) of scale denominators.  A zero Max
// means that there is no upper bound.
type ScaleRange struct {
	Min, Max float64
}

// Contains reports whether the scale denominator lies in the range.
func (r ScaleRange) Contains(scale float64) bool {
	return scale >= r.Min && (r.Max == 0 || scale < r.Max)
}

// Upper returns the upper bound, which is +Inf for unbounded ranges.
func (r ScaleRange) Upper() float64 {
	if r.Max == 0 {
		return math.Inf(1)
	}
	return r.Max
}

// Rule is a group of symbolizers selected by a filter and a scale range.
type Rule struct {
	Name     string
	Title    string
	Abstract string

	// Filter selects features.  A nil filter selects all features.
	Filter filter.Filter

	// Else marks a rule which applies to the features not selected by any
	// other rule of the same feature type style.  Else rules must not have
	// a Filter.
	Else bool

	Scale       ScaleRange
	Symbolizers []Symbolizer

	derived filter.Filter
}

// EffectiveFilter returns the filter used for selection.  For else rules
// this is the filter derived by [NewFeatureTypeStyle].
func (r *Rule) EffectiveFilter() filter.Filter {
	if r.Else {
		return r.derived
	}
	return r.Filter
}

var errElseWithFilter = errors.New("rule has both an ElseFilter and a Filter")

// NewFeatureTypeStyle checks the rules and derives the filter of the else
// rules.  The filter of an else rule is the negation of the disjunction of
// the filters of all other rules.  If one of the other rules has no filter,
// the else rules never apply.  If there are no other rules, else rules
// apply to every feature.
func NewFeatureTypeStyle(name string, rules ...*Rule) (*FeatureTypeStyle, error) {
	var explicit []filter.Filter
	unfiltered := false
	nonElse := 0
	for i, r := range rules {
		if r == nil {
			return nil, &sld.ConstructionError{What: fmt.Sprintf("rule %d", i), Err: errors.New("nil rule")}
		}
		if r.Else && r.Filter != nil {
			return nil, &sld.ConstructionError{What: ruleName(i, r), Err: errElseWithFilter}
		}
		if r.Else {
			continue
		}
		nonElse++
		if r.Filter == nil {
			unfiltered = true
		} else {
			explicit = append(explicit, r.Filter)
		}
	}

	var derived filter.Filter
	switch {
	case nonElse == 0:
		// nothing to negate
	case unfiltered:
		derived = filter.False
	case len(explicit) == 1:
		derived = filter.Not{Filter: explicit[0]}
	default:
		derived = filter.Not{Filter: filter.Or(explicit)}
	}
	for _, r := range rules {
		if r.Else {
			r.derived = derived
		}
	}

	return &FeatureTypeStyle{Name: name, Rules: rules}, nil
}

func ruleName(i int, r *Rule) string {
	if r.Name != "" {
		return fmt.Sprintf("rule %q", r.Name)
	}
	return fmt.Sprintf("rule %d", i)
}

// Matching returns the rules which apply to f at the given scale
// denominator, in document order.  A rule whose filter fails to evaluate
// is logged and skipped.
func (fts *FeatureTypeStyle) Matching(f filter.Feature, scale float64) []*Rule {
	var res []*Rule
	for i, r := range fts.Rules {
		if !r.Scale.Contains(scale) {
			continue
		}
		if flt := r.EffectiveFilter(); flt != nil {
			ok, err := flt.Evaluate(f)
			if err != nil {
				sld.Logger().Warn("skipping rule", "rule", ruleName(i, r), "feature", featureID(f), "error", err)
				continue
			}
			if !ok {
				continue
			}
		}
		res = append(res, r)
	}
	return res
}

// Select returns the symbolizers of all rules which apply to f, in the
// order they should be drawn.  Symbolizers whose own scale range excludes
// the scale are left out.
func (fts *FeatureTypeStyle) Select(f filter.Feature, scale float64) []Symbolizer {
	var res []Symbolizer
	for _, r := range fts.Matching(f, scale) {
		for _, s := range r.Symbolizers {
			if s.common().Scale.Contains(scale) {
				res = append(res, s)
			}
		}
	}
	return res
}

func featureID(f filter.Feature) string {
	if f == nil {
		return ""
	}
	return f.ID()
}
