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

// Package sldxml reads and writes styles as Styled Layer Descriptor
// documents.
//
// Only the part of SLD 1.1 and Symbology Encoding 1.1 which corresponds to
// the style tree of package style is supported.  Elements are matched by
// their local name, so documents using the SLD 1.0 or the SE 1.1
// namespaces are both accepted.  Written documents use the SE 1.1 element
// names.
//
// The following fields of the style tree have no counterpart in the
// document and are not written: the scale range of individual
// symbolizers, the title of external graphics and the line width of line
// placements.
package sldxml

import (
	"encoding/xml"
)

const (
	nsSLD   = "http://www.opengis.net/sld"
	nsOGC   = "http://www.opengis.net/ogc"
	nsXLink = "http://www.w3.org/1999/xlink"
)

type xmlSLD struct {
	XMLName xml.Name   `xml:"StyledLayerDescriptor"`
	Xmlns   string     `xml:"xmlns,attr,omitempty"`
	Version string     `xml:"version,attr,omitempty"`
	Named   []xmlLayer `xml:"NamedLayer"`
	User    []xmlLayer `xml:"UserLayer"`
}

type xmlLayer struct {
	Name   string          `xml:"Name,omitempty"`
	Styles []*xmlUserStyle `xml:"UserStyle"`
}

type xmlDescription struct {
	Title    string `xml:"Title,omitempty"`
	Abstract string `xml:"Abstract,omitempty"`
}

type xmlUserStyle struct {
	Name        string          `xml:"Name,omitempty"`
	Title       string          `xml:"Title,omitempty"`
	Abstract    string          `xml:"Abstract,omitempty"`
	Description *xmlDescription `xml:"Description"`
	FTS         []*xmlFTS       `xml:"FeatureTypeStyle"`
	Coverage    []*xmlFTS       `xml:"CoverageStyle"`
}

type xmlFTS struct {
	Name            string          `xml:"Name,omitempty"`
	Title           string          `xml:"Title,omitempty"`
	Abstract        string          `xml:"Abstract,omitempty"`
	Description     *xmlDescription `xml:"Description"`
	FeatureTypeName string          `xml:"FeatureTypeName,omitempty"`
	SemanticTypes   []string        `xml:"SemanticTypeIdentifier"`
	Rules           []*xmlRule      `xml:"Rule"`
}

// xmlRule is written with the struct layout, but read by UnmarshalXML
// since the order of the symbolizers matters.
type xmlRule struct {
	Name        string          `xml:"Name,omitempty"`
	Title       string          `xml:"Title,omitempty"`
	Abstract    string          `xml:"Abstract,omitempty"`
	Description *xmlDescription `xml:"Description"`
	Filter      *xmlFilter      `xml:"Filter"`
	Else        *struct{}       `xml:"ElseFilter"`
	MinScale    float64         `xml:"MinScaleDenominator,omitempty"`
	MaxScale    float64         `xml:"MaxScaleDenominator,omitempty"`
	Symbolizers []any
}

type xmlGeometry struct {
	Property string `xml:"PropertyName"`
}

type xmlCommon struct {
	Name     string       `xml:"Name,omitempty"`
	Geometry *xmlGeometry `xml:"Geometry"`
}

type xmlPointSymbolizer struct {
	XMLName xml.Name `xml:"PointSymbolizer"`
	xmlCommon
	Graphic *xmlGraphic `xml:"Graphic"`
}

type xmlLineSymbolizer struct {
	XMLName xml.Name `xml:"LineSymbolizer"`
	xmlCommon
	Stroke              *xmlParams `xml:"Stroke"`
	PerpendicularOffset *xmlValue  `xml:"PerpendicularOffset"`
}

type xmlPolygonSymbolizer struct {
	XMLName xml.Name `xml:"PolygonSymbolizer"`
	xmlCommon
	Fill   *xmlParams `xml:"Fill"`
	Stroke *xmlParams `xml:"Stroke"`
}

type xmlTextSymbolizer struct {
	XMLName xml.Name `xml:"TextSymbolizer"`
	xmlCommon
	Label          *xmlValue          `xml:"Label"`
	Font           *xmlParams         `xml:"Font"`
	LabelPlacement *xmlLabelPlacement `xml:"LabelPlacement"`
	Halo           *xmlHalo           `xml:"Halo"`
	Fill           *xmlParams         `xml:"Fill"`
}

type xmlRasterSymbolizer struct {
	XMLName xml.Name `xml:"RasterSymbolizer"`
	xmlCommon
	Opacity             *xmlValue    `xml:"Opacity"`
	ColorMap            *xmlColorMap `xml:"ColorMap"`
	ContrastEnhancement *xmlContrast `xml:"ContrastEnhancement"`
	ShadedRelief        *xmlRelief   `xml:"ShadedRelief"`
}

// xmlParams holds the SvgParameter elements of a Fill, Stroke or Font.
// The SLD 1.0 name CssParameter is accepted when reading.
type xmlParams struct {
	Svg []*xmlValue `xml:"SvgParameter"`
	CSS []*xmlValue `xml:"CssParameter"`
}

// xmlGraphic is written with the struct layout, but read by UnmarshalXML
// since marks and external graphics may be mixed.
type xmlGraphic struct {
	Sources      []any
	Opacity      *xmlValue        `xml:"Opacity"`
	Size         *xmlValue        `xml:"Size"`
	Rotation     *xmlValue        `xml:"Rotation"`
	Displacement *xmlDisplacement `xml:"Displacement"`
}

type xmlMark struct {
	XMLName       xml.Name   `xml:"Mark"`
	WellKnownName string     `xml:"WellKnownName,omitempty"`
	Fill          *xmlParams `xml:"Fill"`
	Stroke        *xmlParams `xml:"Stroke"`
}

type xmlExternalGraphic struct {
	XMLName        xml.Name    `xml:"ExternalGraphic"`
	OnlineResource xmlResource `xml:"OnlineResource"`
	Format         string      `xml:"Format,omitempty"`
}

type xmlResource struct {
	Href string `xml:"http://www.w3.org/1999/xlink href,attr,omitempty"`

	// Any catches href attributes with an undeclared prefix.
	Any string `xml:"href,attr,omitempty"`
}

func (r xmlResource) url() string {
	if r.Href != "" {
		return r.Href
	}
	return r.Any
}

type xmlDisplacement struct {
	X *xmlValue `xml:"DisplacementX"`
	Y *xmlValue `xml:"DisplacementY"`
}

type xmlAnchor struct {
	X *xmlValue `xml:"AnchorPointX"`
	Y *xmlValue `xml:"AnchorPointY"`
}

type xmlLabelPlacement struct {
	Point *xmlPointPlacement `xml:"PointPlacement"`
	Line  *xmlLinePlacement  `xml:"LinePlacement"`
}

type xmlPointPlacement struct {
	Auto         string           `xml:"auto,attr,omitempty"`
	Anchor       *xmlAnchor       `xml:"AnchorPoint"`
	Displacement *xmlDisplacement `xml:"Displacement"`
	Rotation     *xmlValue        `xml:"Rotation"`
}

type xmlLinePlacement struct {
	PerpendicularOffset *xmlValue `xml:"PerpendicularOffset"`
	Gap                 *xmlValue `xml:"Gap"`
}

type xmlHalo struct {
	Radius *xmlValue  `xml:"Radius"`
	Fill   *xmlParams `xml:"Fill"`
}

type xmlColorMap struct {
	Categorize  *xmlCategorize  `xml:"Categorize"`
	Interpolate *xmlInterpolate `xml:"Interpolate"`
}

// xmlCategorize is read with the struct layout, but written by MarshalXML
// since values and thresholds alternate.
type xmlCategorize struct {
	// The SE schema spells the attribute with a double h.  Both spellings
	// are accepted.
	BelongTo    string `xml:"threshholdsBelongTo,attr,omitempty"`
	BelongToAlt string `xml:"thresholdsBelongTo,attr,omitempty"`

	LookupValue string   `xml:"LookupValue,omitempty"`
	Values      []string `xml:"Value"`
	Thresholds  []string `xml:"Threshold"`
}

type xmlInterpolate struct {
	Fallback    string     `xml:"fallbackValue,attr,omitempty"`
	Mode        string     `xml:"mode,attr,omitempty"`
	Method      string     `xml:"method,attr,omitempty"`
	LookupValue string     `xml:"LookupValue,omitempty"`
	Points      []xmlPoint `xml:"InterpolationPoint"`
}

type xmlPoint struct {
	Data  string `xml:"Data"`
	Value string `xml:"Value"`
}

type xmlContrast struct {
	Gamma float64 `xml:"GammaValue,omitempty"`
}

type xmlRelief struct {
	BrightnessOnly bool    `xml:"BrightnessOnly"`
	Factor         float64 `xml:"ReliefFactor,omitempty"`
	Azimuth        float64 `xml:"AzimuthAngle"`
	Altitude       float64 `xml:"IlluminationAngle"`
}
