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

package style

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sld"
	"seehuhn.de/go/sld/filter"
	"seehuhn.de/go/sld/param"
)

// LabelPlacement is either a [*PointPlacement] or a [*LinePlacement].
type LabelPlacement interface {
	isLabelPlacement()
}

func (*PointPlacement) isLabelPlacement() {}
func (*LinePlacement) isLabelPlacement()  {}

// PointPlacement places a label relative to a point.
type PointPlacement struct {
	AnchorX, AnchorY             *param.Value
	DisplacementX, DisplacementY *param.Value
	Rotation                     *param.Value

	// Auto asks the renderer to choose the position of the label.
	Auto bool
}

// PointPlacementValues is a [PointPlacement] evaluated for one feature.
type PointPlacementValues struct {
	// Anchor is the point of the label, in units of the label size, which
	// is placed at the location.  (0, 0) is the lower left corner.
	Anchor       vec.Vec2
	Displacement vec.Vec2
	Rotation     float64
	Auto         bool
}

// DefaultPointPlacement anchors the label at the middle of its left edge.
var DefaultPointPlacement = PointPlacementValues{Anchor: vec.Vec2{X: 0, Y: 0.5}}

// Resolve evaluates the placement for f.  A nil placement gives
// [DefaultPointPlacement].
func (p *PointPlacement) Resolve(f filter.Feature) (PointPlacementValues, error) {
	res := DefaultPointPlacement
	if p == nil {
		return res, nil
	}
	var err error
	if res.Anchor.X, err = p.AnchorX.Float(f, res.Anchor.X); err != nil {
		return res, err
	}
	if res.Anchor.Y, err = p.AnchorY.Float(f, res.Anchor.Y); err != nil {
		return res, err
	}
	if res.Displacement.X, err = p.DisplacementX.Float(f, 0); err != nil {
		return res, err
	}
	if res.Displacement.Y, err = p.DisplacementY.Float(f, 0); err != nil {
		return res, err
	}
	if res.Rotation, err = p.Rotation.Float(f, 0); err != nil {
		return res, err
	}
	res.Auto = p.Auto
	return res, nil
}

// OffsetKind says how a label is offset from its line.
type OffsetKind int

// These are the possible offset kinds.  Numeric is used for explicit
// distances.
const (
	Numeric OffsetKind = iota
	Center
	Above
	Below
	Auto
)

var offsetKeywords = []string{Center: "center", Above: "above", Below: "below", Auto: "auto"}

func (k OffsetKind) String() string {
	if k > Numeric && int(k) < len(offsetKeywords) {
		return offsetKeywords[k]
	}
	return "numeric"
}

// LinePlacement places a label along a line.
type LinePlacement struct {
	// PerpendicularOffset is one of the keywords "center", "above",
	// "below" and "auto", or a distance.
	PerpendicularOffset *param.Value

	LineWidth *param.Value
	Gap       *param.Value
}

// LinePlacementValues is a [LinePlacement] evaluated for one feature.
type LinePlacementValues struct {
	Kind OffsetKind

	// Offset is the distance from the line, for Kind == Numeric.
	Offset float64

	LineWidth float64
	Gap       float64
}

// DefaultLinePlacement puts labels onto the line.
var DefaultLinePlacement = LinePlacementValues{LineWidth: 3, Gap: 6}

var errBadOffset = errors.New("neither a keyword nor a number")

// Resolve evaluates the placement for f.  Keywords take precedence over
// numbers.  A nil placement gives [DefaultLinePlacement].
func (p *LinePlacement) Resolve(f filter.Feature) (LinePlacementValues, error) {
	res := DefaultLinePlacement
	if p == nil {
		return res, nil
	}
	if v := p.PerpendicularOffset; v != nil {
		s, err := v.Evaluate(f)
		if err != nil {
			return res, err
		}
		res.Kind, res.Offset, err = parseOffset(s)
		if err != nil {
			return res, &sld.EvaluationError{Param: v.Name, Value: s, Err: err}
		}
	}
	var err error
	if res.LineWidth, err = p.LineWidth.NonNegative(f, res.LineWidth); err != nil {
		return res, err
	}
	if res.Gap, err = p.Gap.NonNegative(f, res.Gap); err != nil {
		return res, err
	}
	return res, nil
}

func parseOffset(s string) (OffsetKind, float64, error) {
	s = strings.TrimSpace(s)
	for k, kw := range offsetKeywords {
		if kw != "" && strings.EqualFold(s, kw) {
			return OffsetKind(k), 0, nil
		}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return Numeric, 0, errBadOffset
	}
	return Numeric, x, nil
}
