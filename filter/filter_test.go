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
	"errors"
	"testing"
)

var road = &Map{
	FID: "road.1",
	Props: map[string]any{
		"class": "motorway",
		"lanes": 4,
		"speed": 120.0,
		"name":  "A9",
		"ref":   nil,
	},
}

func TestExpressions(t *testing.T) {
	cases := []struct {
		expr Expression
		want string
	}{
		{Literal("x"), "x"},
		{Property("lanes"), "4"},
		{Property("speed"), "120"},
		{Concat{Literal("Rte "), Property("name")}, "Rte A9"},
	}
	for _, c := range cases {
		got, err := c.expr.Evaluate(road)
		if err != nil {
			t.Errorf("%v: %v", c.expr, err)
			continue
		}
		if got != c.want {
			t.Errorf("%v: got %q, want %q", c.expr, got, c.want)
		}
	}

	if _, err := Property("missing").Evaluate(road); err == nil {
		t.Error("missing property did not fail")
	}
	if _, err := Property("name").Evaluate(nil); !errors.Is(err, ErrNoFeature) {
		t.Errorf("nil feature: got %v", err)
	}
}

func TestFilters(t *testing.T) {
	eq := func(p string, v string) Filter {
		return &Compare{Op: EqualTo, Left: Property(p), Right: Literal(v)}
	}
	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"eq", eq("class", "motorway"), true},
		{"eq numeric", eq("lanes", "4.0"), true},
		{"lt numeric", &Compare{Op: LessThan, Left: Property("lanes"), Right: Literal("10")}, true},
		{"lt string", &Compare{Op: LessThan, Left: Literal("b"), Right: Literal("a")}, false},
		{"case", &Compare{Op: EqualTo, Left: Property("class"), Right: Literal("MOTORWAY"), CaseInsensitive: true}, true},
		{"and", And{eq("class", "motorway"), eq("lanes", "2")}, false},
		{"or", Or{eq("class", "path"), eq("lanes", "4")}, true},
		{"not", Not{eq("class", "motorway")}, false},
		{"empty and", And{}, true},
		{"empty or", Or{}, false},
		{"between", &Between{Value: Property("speed"), Lower: Literal("100"), Upper: Literal("130")}, true},
		{"null", &IsNull{Property: "ref"}, true},
		{"null absent", &IsNull{Property: "nothing"}, true},
		{"not null", &IsNull{Property: "name"}, false},
		{"like", &Like{Value: Property("class"), Pattern: "motor*"}, true},
		{"like single", &Like{Value: Property("name"), Pattern: "A."}, true},
		{"like escape", &Like{Value: Literal("a*b"), Pattern: "a!*b"}, true},
		{"like escape mismatch", &Like{Value: Literal("axb"), Pattern: "a!*b"}, false},
		{"true", True, true},
		{"false", False, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.f.Evaluate(road)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("got %t, want %t", got, c.want)
			}
		})
	}
}

func TestFilterErrors(t *testing.T) {
	bad := &Compare{Op: EqualTo, Left: Property("missing"), Right: Literal("1")}
	for _, f := range []Filter{bad, Not{bad}, And{True, bad}, Or{False, bad}} {
		ok, err := f.Evaluate(road)
		if err == nil {
			t.Errorf("%T: expected an error", f)
		}
		if ok {
			t.Errorf("%T: true despite the error", f)
		}
	}
}

func TestOpNames(t *testing.T) {
	for op := EqualTo; op <= GreaterThanOrEqualTo; op++ {
		back, ok := ParseOp(op.String())
		if !ok || back != op {
			t.Errorf("%s does not parse back", op)
		}
	}
}
