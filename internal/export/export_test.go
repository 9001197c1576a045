package export

import (
	"encoding/json"
	"testing"

	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/overlay"

	"github.com/stretchr/testify/require"
)

func TestFeatureCollectionRoundTrip(t *testing.T) {
	e := overlay.New()
	require.NoError(t, e.ParseString(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [14.481, 45.982]},
				"properties": {"name": "tower"}
			},
			{
				"type": "Feature",
				"geometry": {"type": "LineString", "coordinates": [[1, 2], [3, 4]]},
				"properties": {}
			},
			{
				"type": "Feature",
				"geometry": {"type": "Polygon", "coordinates": [
					[[0, 0], [10, 0], [10, 10], [0, 0]],
					[[1, 1], [2, 1], [2, 2], [1, 1]]
				]},
				"properties": {}
			}
		]
	}`))

	fc := FeatureCollection(e)
	require.Len(t, fc.Features, 3)

	point := fc.Features[0]
	require.True(t, point.Geometry.IsPoint())
	require.Equal(t, []float64{14.481, 45.982}, point.Geometry.Point)
	require.Equal(t, "tower", point.Properties["name"])

	line := fc.Features[1]
	require.True(t, line.Geometry.IsLineString())
	require.Equal(t, [][]float64{{1, 2}, {3, 4}}, line.Geometry.LineString)

	poly := fc.Features[2]
	require.True(t, poly.Geometry.IsPolygon())
	require.Len(t, poly.Geometry.Polygon, 2, "outer ring plus hole")

	// the whole collection must marshal cleanly
	_, err := json.Marshal(fc)
	require.NoError(t, err)
}

func TestCircleApproximation(t *testing.T) {
	e := overlay.New()
	require.NoError(t, e.ParseString(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [14.481, 45.982]},
			"properties": {"radius": 400, "subType": "Circle"}
		}]
	}`))

	fc := FeatureCollection(e)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	require.True(t, f.Geometry.IsPolygon())
	require.Equal(t, "Circle", f.Properties["subType"])
	require.Equal(t, 400.0, f.Properties["radius"])

	ring := f.Geometry.Polygon[0]
	require.Len(t, ring, CircleSegments+1)
	require.Equal(t, ring[0], ring[len(ring)-1], "ring is closed")

	// every vertex sits ~400m from the center
	center := geo.Coordinate{Lat: 45.982, Lon: 14.481}
	for _, pos := range ring {
		dLat := (pos[1] - center.Lat) * geo.MetersPerLatDegree
		dLon := (pos[0] - center.Lon) * geo.MetersPerLonDegree(center.Lat)
		distSq := dLat*dLat + dLon*dLon
		require.InDelta(t, 400.0*400.0, distSq, 400.0*400.0*0.01)
	}
}
