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

package sld

import "fmt"

// EvaluationError reports a parameter which could not be evaluated for a
// feature, or whose value is invalid for its role.  Renderers report the
// error and skip the affected symbolizer.
type EvaluationError struct {
	Param string // name of the parameter, for example "stroke-width"
	Value string // the offending value, if one was obtained
	Err   error
}

func (e *EvaluationError) Error() string {
	switch {
	case e.Value != "" && e.Err != nil:
		return fmt.Sprintf("%s: invalid value %q: %v", e.Param, e.Value, e.Err)
	case e.Value != "":
		return fmt.Sprintf("%s: invalid value %q", e.Param, e.Value)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Param, e.Err)
	}
	return e.Param + ": evaluation failed"
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// ConstructionError reports a style tree which violates a structural rule,
// for example a rule with both an ElseFilter and a Filter.  It is returned
// to the caller which built the tree.
type ConstructionError struct {
	What string
	Err  error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return "invalid " + e.What + ": " + e.Err.Error()
	}
	return "invalid " + e.What
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// CompositingError reports a vector graphic which failed to render.  The
// compositor recovers from it by rendering the graphic as a raster image.
type CompositingError struct {
	Source string // URL of the graphic
	Err    error
}

func (e *CompositingError) Error() string {
	return "compositing " + e.Source + ": " + e.Err.Error()
}

func (e *CompositingError) Unwrap() error {
	return e.Err
}
