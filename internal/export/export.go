// Package export serializes overlay collections back into GeoJSON.
package export

import (
	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/overlay"

	geojson "github.com/paulmach/go.geojson"
)

// CircleSegments is the number of chord segments used to approximate a
// circle overlay as a polygon ring.
const CircleSegments = 64

// FeatureCollection converts the engine's four overlay collections into a
// GeoJSON feature collection. Circles have no GeoJSON geometry of their own
// and are written as polygon approximations carrying their radius and a
// subType of "Circle" in properties.
func FeatureCollection(e *overlay.Engine) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range e.Markers {
		f := geojson.NewPointFeature(position(m.Anchor))
		f.SetProperty("id", m.ID)
		if m.Label != "" {
			f.SetProperty("name", m.Label)
		}
		if m.Icon != "" {
			f.SetProperty("icon", m.Icon)
		}
		if m.Color != "" {
			f.SetProperty("color", m.Color)
		}
		fc.AddFeature(f)
	}

	for _, c := range e.Circles {
		ring := circleRing(c.Center, c.Radius)
		f := geojson.NewPolygonFeature([][][]float64{positions(ring)})
		f.SetProperty("id", c.ID)
		f.SetProperty("subType", "Circle")
		f.SetProperty("radius", c.Radius)
		f.SetProperty("center", position(c.Center))
		if c.Color != "" {
			f.SetProperty("color", c.Color)
		}
		fc.AddFeature(f)
	}

	for _, l := range e.Polylines {
		f := geojson.NewLineStringFeature(positions(l.Points))
		f.SetProperty("id", l.ID)
		if l.Color != "" {
			f.SetProperty("color", l.Color)
		}
		fc.AddFeature(f)
	}

	for _, p := range e.Polygons {
		rings := make([][][]float64, 0, len(p.Holes)+1)
		rings = append(rings, positions(p.Outer))
		for _, h := range p.Holes {
			rings = append(rings, positions(h))
		}
		f := geojson.NewPolygonFeature(rings)
		f.SetProperty("id", p.ID)
		if p.FillColor != "" {
			f.SetProperty("color", p.FillColor)
		}
		fc.AddFeature(f)
	}

	return fc
}

// circleRing approximates a circle as a closed ring of CircleSegments
// chords, walked clockwise from north.
func circleRing(center geo.Coordinate, radius float64) geo.Ring {
	ring := make(geo.Ring, 0, CircleSegments+1)
	for i := 0; i < CircleSegments; i++ {
		bearing := float64(i) * 360.0 / CircleSegments
		ring = append(ring, geo.Destination(center, radius, bearing))
	}
	// close the ring
	ring = append(ring, ring[0])

	return ring
}

func position(c geo.Coordinate) []float64 {
	return []float64{c.Lon, c.Lat}
}

func positions(ring geo.Ring) [][]float64 {
	out := make([][]float64, 0, len(ring))
	for _, c := range ring {
		out = append(out, position(c))
	}

	return out
}
