// Package overlay converts GeoJSON feature collections into renderable
// overlay objects: markers, circles, polylines and polygons.
package overlay

import "github.com/woozymasta/geolayers/internal/geo"

// Marker is a point overlay anchored at a single coordinate.
type Marker struct {
	ID     string         `json:"id"`
	Anchor geo.Coordinate `json:"anchor"`
	Icon   string         `json:"icon,omitempty"`
	Color  string         `json:"color,omitempty"`
	Label  string         `json:"label,omitempty"`
}

// Circle is an area overlay defined by a center and a radius in meters.
type Circle struct {
	ID          string         `json:"id"`
	Center      geo.Coordinate `json:"center"`
	Radius      float64        `json:"radius"`
	Color       string         `json:"color,omitempty"`
	BorderColor string         `json:"border_color,omitempty"`
	BorderWidth float64        `json:"border_width,omitempty"`
	Fill        bool           `json:"fill"`
}

// Polyline is an open coordinate path overlay.
type Polyline struct {
	ID     string   `json:"id"`
	Points geo.Ring `json:"points"`
	Color  string   `json:"color,omitempty"`
	Width  float64  `json:"width,omitempty"`
}

// Polygon is an area overlay with an outer boundary and optional holes.
type Polygon struct {
	ID          string     `json:"id"`
	Outer       geo.Ring   `json:"outer"`
	Holes       []geo.Ring `json:"holes,omitempty"`
	BorderColor string     `json:"border_color,omitempty"`
	FillColor   string     `json:"fill_color,omitempty"`
	BorderWidth float64    `json:"border_width,omitempty"`
	Fill        bool       `json:"fill"`
}

// Hard-coded fallbacks used by lazy default seeding.
const (
	DefaultMarkerColor      = "#2196f3"
	DefaultAssetMarkerColor = "#e53935"
	DefaultMarkerIcon       = "pin"
	DefaultCircleColor      = "#2196f34d"
	DefaultBorderColor      = "#1565c0"
	DefaultPolylineColor    = "#1565c0"
	DefaultPolygonFillColor = "#2196f333"
	DefaultStrokeWidth      = 2.0
)

// Style holds the default styling values used by the built-in factories when
// a user factory is not supplied. Zero fields are seeded with the hard-coded
// fallbacks on the first Parse call of an engine instance; already-set values
// are never overwritten.
type Style struct {
	MarkerColor      string `yaml:"marker_color,omitempty"`
	MarkerAssetColor string `yaml:"marker_asset_color,omitempty"`
	MarkerIcon       string `yaml:"marker_icon,omitempty"`

	CircleColor       string  `yaml:"circle_color,omitempty"`
	CircleBorderColor string  `yaml:"circle_border_color,omitempty"`
	CircleBorderWidth float64 `yaml:"circle_border_width,omitempty"`
	CircleFill        *bool   `yaml:"circle_fill,omitempty"`

	PolylineColor string  `yaml:"polyline_color,omitempty"`
	PolylineWidth float64 `yaml:"polyline_width,omitempty"`

	PolygonBorderColor string  `yaml:"polygon_border_color,omitempty"`
	PolygonFillColor   string  `yaml:"polygon_fill_color,omitempty"`
	PolygonBorderWidth float64 `yaml:"polygon_border_width,omitempty"`
	PolygonFill        *bool   `yaml:"polygon_fill,omitempty"`
}

// seed fills every unset field with its fallback.
func (s *Style) seed() {
	fillTrue := true

	if s.MarkerColor == "" {
		s.MarkerColor = DefaultMarkerColor
	}
	if s.MarkerAssetColor == "" {
		s.MarkerAssetColor = DefaultAssetMarkerColor
	}
	if s.MarkerIcon == "" {
		s.MarkerIcon = DefaultMarkerIcon
	}
	if s.CircleColor == "" {
		s.CircleColor = DefaultCircleColor
	}
	if s.CircleBorderColor == "" {
		s.CircleBorderColor = DefaultBorderColor
	}
	if s.CircleBorderWidth == 0 {
		s.CircleBorderWidth = DefaultStrokeWidth
	}
	if s.CircleFill == nil {
		s.CircleFill = &fillTrue
	}
	if s.PolylineColor == "" {
		s.PolylineColor = DefaultPolylineColor
	}
	if s.PolylineWidth == 0 {
		s.PolylineWidth = DefaultStrokeWidth
	}
	if s.PolygonBorderColor == "" {
		s.PolygonBorderColor = DefaultBorderColor
	}
	if s.PolygonFillColor == "" {
		s.PolygonFillColor = DefaultPolygonFillColor
	}
	if s.PolygonBorderWidth == 0 {
		s.PolygonBorderWidth = DefaultStrokeWidth
	}
	if s.PolygonFill == nil {
		s.PolygonFill = &fillTrue
	}
}
