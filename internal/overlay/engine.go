package overlay

import (
	"encoding/json"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/woozymasta/geolayers/internal/geo"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Factory callbacks, one per overlay kind. Each receives the extracted
// geometry data plus the full feature so it can read arbitrary properties.
// A returned error aborts the rest of the current parse call.
type (
	MarkerFactory   func(anchor geo.Coordinate, f *Feature) (Marker, error)
	CircleFactory   func(center geo.Coordinate, radius float64, f *Feature) (Circle, error)
	PolylineFactory func(points geo.Ring, f *Feature) (Polyline, error)
	PolygonFactory  func(outer geo.Ring, holes []geo.Ring, f *Feature) (Polygon, error)
)

// Filter decides whether a feature is processed at all. It must not mutate
// the feature. A nil filter processes everything.
type Filter func(f *Feature) bool

// Engine is the overlay synthesizer. Each Parse call appends to the four
// output collections; they are never replaced or rolled back, so a caller
// wanting a fresh result set creates a new engine. The engine is not safe
// for concurrent Parse calls; callers own the synchronization.
type Engine struct {
	Markers   []Marker
	Circles   []Circle
	Polylines []Polyline
	Polygons  []Polygon

	// Style defaults consumed by the built-in factories. Unset fields are
	// seeded on the first Parse call, not at construction time.
	Style Style

	MarkerFunc   MarkerFactory
	CircleFunc   CircleFactory
	PolylineFunc PolylineFactory
	PolygonFunc  PolygonFactory
	FilterFunc   Filter

	seeded bool
}

// New creates an empty engine. Factories, filter and style defaults may be
// assigned before the first Parse call.
func New() *Engine {
	return &Engine{}
}

// The seven recognized geometry kinds, after first-rune case normalization.
const (
	kindPoint           = "point"
	kindCircle          = "circle"
	kindMultiPoint      = "multiPoint"
	kindLineString      = "lineString"
	kindMultiLineString = "multiLineString"
	kindPolygon         = "polygon"
	kindMultiPolygon    = "multiPolygon"
)

// ParseString decodes GeoJSON text and ingests it, see ParseBytes.
func (e *Engine) ParseString(text string) error {
	return e.ParseBytes([]byte(text))
}

// ParseBytes decodes GeoJSON text into a generic value tree and ingests it.
// Invalid JSON returns a *DecodeError before any feature is processed; valid
// JSON whose top level is not an object is a *ShapeError.
func (e *Engine) ParseBytes(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &DecodeError{Err: err}
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return &ShapeError{Msg: fmt.Sprintf("top-level value is not an object (got %T)", doc)}
	}

	return e.Parse(obj)
}

// Parse ingests an already-decoded feature collection. Every feature that
// passes the filter is dispatched by geometry kind and turned into one or
// more overlay objects via the configured (or default) factories.
//
// Any shape, unknown-kind or factory error aborts the whole call. Overlays
// appended before the failing feature stay in the collections; results of
// earlier calls are never affected.
func (e *Engine) Parse(doc map[string]interface{}) error {
	e.ensureDefaults()

	rawFeatures, ok := doc["features"].([]interface{})
	if !ok {
		return ErrMissingFeatures
	}

	for i, raw := range rawFeatures {
		if err := e.parseFeature(raw); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}

	log.Debug().
		Int("features", len(rawFeatures)).
		Int("markers", len(e.Markers)).
		Int("circles", len(e.Circles)).
		Int("polylines", len(e.Polylines)).
		Int("polygons", len(e.Polygons)).
		Msg("Feature collection ingested")

	return nil
}

// ensureDefaults lazily seeds unset style defaults. Runs once per engine
// instance, on the first ingestion call.
func (e *Engine) ensureDefaults() {
	if e.seeded {
		return
	}
	e.Style.seed()
	e.seeded = true
}

func (e *Engine) parseFeature(raw interface{}) error {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return &ShapeError{Msg: fmt.Sprintf("feature is not an object (got %T)", raw)}
	}

	geom, ok := obj["geometry"].(map[string]interface{})
	if !ok {
		return &ShapeError{Msg: "feature has no geometry object"}
	}

	propsRaw, ok := obj["properties"]
	if !ok {
		return &ShapeError{Msg: "feature has no properties member"}
	}
	props, ok := propsRaw.(map[string]interface{})
	if !ok {
		if propsRaw != nil {
			return &ShapeError{Msg: fmt.Sprintf("feature properties is not an object (got %T)", propsRaw)}
		}
		// explicit null: treat as an empty property bag
		props = map[string]interface{}{}
	}

	tag, ok := geom["type"].(string)
	if !ok {
		return &ShapeError{Msg: "geometry has no type tag"}
	}

	f := &Feature{
		Kind:        normalizeKind(tag),
		Coordinates: geom["coordinates"],
		Properties:  props,
	}

	if e.FilterFunc != nil && !e.FilterFunc(f) {
		log.Trace().Str("kind", f.Kind).Msg("Feature rejected by filter")
		return nil
	}

	switch f.Kind {
	case kindPoint:
		c, err := geo.Position(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		return e.handlePoint(c, f)

	case kindCircle:
		c, err := geo.Position(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		return e.emitCircle(c, f)

	case kindMultiPoint:
		coords, err := geo.Positions(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		for _, c := range coords {
			if err := e.handlePoint(c, f); err != nil {
				return err
			}
		}
		return nil

	case kindLineString:
		line, err := geo.Line(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		return e.emitPolyline(line, f)

	case kindMultiLineString:
		lines, err := geo.Rings(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		for _, line := range lines {
			if err := e.emitPolyline(line, f); err != nil {
				return err
			}
		}
		return nil

	case kindPolygon:
		rings, err := geo.Rings(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		return e.emitPolygon(rings[0], rings[1:], f)

	case kindMultiPolygon:
		polys, err := geo.Polygons(f.Coordinates)
		if err != nil {
			return &ShapeError{Msg: err.Error()}
		}
		for _, rings := range polys {
			if err := e.emitPolygon(rings[0], rings[1:], f); err != nil {
				return err
			}
		}
		return nil

	default:
		return &UnknownKindError{Kind: tag}
	}
}

// handlePoint applies the property-routing exceptions for point-shaped
// geometry: a subType of "Circle" turns the marker into a circle, and a
// metadata sequence fans out one extra circle per entry, in entry order.
func (e *Engine) handlePoint(c geo.Coordinate, f *Feature) error {
	wantMarker := f.StringProp("subType") != "Circle"

	if md, ok := f.Properties["metadata"].([]interface{}); ok {
		for i, raw := range md {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				return &ShapeError{Msg: fmt.Sprintf("metadata[%d] is not an object (got %T)", i, raw)}
			}
			aux := f.With(map[string]interface{}{
				"subType": entry["subType"],
				"radius":  entry["radius"],
			})
			if err := e.emitCircle(c, aux); err != nil {
				return err
			}
		}
	} else if !wantMarker {
		return e.emitCircle(c, f)
	}

	if wantMarker {
		return e.emitMarker(c, f)
	}

	return nil
}

func (e *Engine) emitMarker(c geo.Coordinate, f *Feature) error {
	factory := e.MarkerFunc
	if factory == nil {
		factory = e.defaultMarker
	}

	m, err := factory(c, f)
	if err != nil {
		return fmt.Errorf("marker factory: %w", err)
	}
	e.Markers = append(e.Markers, m)

	return nil
}

func (e *Engine) emitCircle(c geo.Coordinate, f *Feature) error {
	factory := e.CircleFunc
	if factory == nil {
		factory = e.defaultCircle
	}

	circle, err := factory(c, f.NumberProp("radius"), f)
	if err != nil {
		return fmt.Errorf("circle factory: %w", err)
	}
	e.Circles = append(e.Circles, circle)

	return nil
}

func (e *Engine) emitPolyline(points geo.Ring, f *Feature) error {
	factory := e.PolylineFunc
	if factory == nil {
		factory = e.defaultPolyline
	}

	line, err := factory(points, f)
	if err != nil {
		return fmt.Errorf("polyline factory: %w", err)
	}
	e.Polylines = append(e.Polylines, line)

	return nil
}

func (e *Engine) emitPolygon(outer geo.Ring, holes []geo.Ring, f *Feature) error {
	factory := e.PolygonFunc
	if factory == nil {
		factory = e.defaultPolygon
	}

	poly, err := factory(outer, holes, f)
	if err != nil {
		return fmt.Errorf("polygon factory: %w", err)
	}
	e.Polygons = append(e.Polygons, poly)

	return nil
}

func (e *Engine) defaultMarker(c geo.Coordinate, f *Feature) (Marker, error) {
	color := e.Style.MarkerColor
	if f.StringProp("type") == "asset" {
		color = e.Style.MarkerAssetColor
	}

	return Marker{
		ID:     uuid.NewString(),
		Anchor: c,
		Icon:   e.Style.MarkerIcon,
		Color:  color,
		Label:  f.StringProp("name"),
	}, nil
}

func (e *Engine) defaultCircle(c geo.Coordinate, radius float64, f *Feature) (Circle, error) {
	return Circle{
		ID:          uuid.NewString(),
		Center:      c,
		Radius:      radius,
		Color:       e.Style.CircleColor,
		BorderColor: e.Style.CircleBorderColor,
		BorderWidth: e.Style.CircleBorderWidth,
		Fill:        *e.Style.CircleFill,
	}, nil
}

func (e *Engine) defaultPolyline(points geo.Ring, f *Feature) (Polyline, error) {
	return Polyline{
		ID:     uuid.NewString(),
		Points: points,
		Color:  e.Style.PolylineColor,
		Width:  e.Style.PolylineWidth,
	}, nil
}

func (e *Engine) defaultPolygon(outer geo.Ring, holes []geo.Ring, f *Feature) (Polygon, error) {
	return Polygon{
		ID:          uuid.NewString(),
		Outer:       outer,
		Holes:       holes,
		BorderColor: e.Style.PolygonBorderColor,
		FillColor:   e.Style.PolygonFillColor,
		BorderWidth: e.Style.PolygonBorderWidth,
		Fill:        *e.Style.PolygonFill,
	}, nil
}

// normalizeKind lowercases the first rune of the geometry type tag, so both
// "Point" and "point" resolve to the same kind.
func normalizeKind(tag string) string {
	if tag == "" {
		return tag
	}
	r, size := utf8.DecodeRuneInString(tag)

	return string(unicode.ToLower(r)) + tag[size:]
}
