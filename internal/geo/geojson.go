// Package geo handles geographic data structures and coordinate extraction.
package geo

import "fmt"

// Coordinate is a single geographic position in (latitude, longitude) order,
// the order overlay objects expect. GeoJSON documents store positions the
// other way around as [lon, lat]; the extractors below do the swap.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Ring is an ordered, non-empty coordinate sequence. The first ring of a
// polygon is its outer boundary, every later ring is a hole.
type Ring []Coordinate

// Position extracts one [lon, lat] pair from a decoded coordinate tree.
// Any third (elevation) member is ignored.
func Position(v interface{}) (Coordinate, error) {
	pair, ok := v.([]interface{})
	if !ok {
		return Coordinate{}, fmt.Errorf("position: expected array, got %T", v)
	}
	if len(pair) < 2 {
		return Coordinate{}, fmt.Errorf("position: need [lon, lat], got %d element(s)", len(pair))
	}

	lon, err := Number(pair[0])
	if err != nil {
		return Coordinate{}, fmt.Errorf("position longitude: %w", err)
	}
	lat, err := Number(pair[1])
	if err != nil {
		return Coordinate{}, fmt.Errorf("position latitude: %w", err)
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Positions extracts a sequence of positions (multiPoint coordinates).
func Positions(v interface{}) ([]Coordinate, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("positions: expected array, got %T", v)
	}

	coords := make([]Coordinate, 0, len(list))
	for i, raw := range list {
		c, err := Position(raw)
		if err != nil {
			return nil, fmt.Errorf("positions[%d]: %w", i, err)
		}
		coords = append(coords, c)
	}

	return coords, nil
}

// Line extracts a single ring (lineString coordinates).
func Line(v interface{}) (Ring, error) {
	coords, err := Positions(v)
	if err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("line: empty coordinate sequence")
	}

	return Ring(coords), nil
}

// Rings extracts a sequence of rings (polygon or multiLineString
// coordinates). For polygons ring 0 is the outer boundary.
func Rings(v interface{}) ([]Ring, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("rings: expected array, got %T", v)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("rings: empty ring sequence")
	}

	rings := make([]Ring, 0, len(list))
	for i, raw := range list {
		r, err := Line(raw)
		if err != nil {
			return nil, fmt.Errorf("rings[%d]: %w", i, err)
		}
		rings = append(rings, r)
	}

	return rings, nil
}

// Polygons extracts a sequence of ring sequences (multiPolygon coordinates).
// Each entry independently follows the first-ring-is-outer rule.
func Polygons(v interface{}) ([][]Ring, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("polygons: expected array, got %T", v)
	}

	polys := make([][]Ring, 0, len(list))
	for i, raw := range list {
		rings, err := Rings(raw)
		if err != nil {
			return nil, fmt.Errorf("polygons[%d]: %w", i, err)
		}
		polys = append(polys, rings)
	}

	return polys, nil
}

// Number coerces a decoded JSON scalar to float64. encoding/json always
// yields float64, yaml.v3 may yield int.
func Number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
