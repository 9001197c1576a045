package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDestinationNorth(t *testing.T) {
	start := Coordinate{Lat: 45, Lon: 14}
	dst := Destination(start, 1000, 0)

	require.InDelta(t, start.Lat+1000/MetersPerLatDegree, dst.Lat, 1e-6)
	require.InDelta(t, start.Lon, dst.Lon, 1e-6)
}

func TestDestinationEastAtEquator(t *testing.T) {
	start := Coordinate{Lat: 0, Lon: 0}
	dst := Destination(start, 1000, 90)

	require.InDelta(t, 0, dst.Lat, 1e-6)
	require.InDelta(t, 1000/MetersPerLatDegree, dst.Lon, 1e-6)
}

func TestDestinationRoundTrip(t *testing.T) {
	start := Coordinate{Lat: 51.5, Lon: -0.1}
	out := Destination(start, 5000, 137)
	back := Destination(out, 5000, 137+180)

	require.InDelta(t, start.Lat, back.Lat, 1e-4)
	require.InDelta(t, start.Lon, back.Lon, 1e-4)
}

func TestDestinationClampsLatitude(t *testing.T) {
	dst := Destination(Coordinate{Lat: 85, Lon: 0}, 500000, 0)
	require.Equal(t, MaxLat, dst.Lat)
}

func TestMetersPerLonDegree(t *testing.T) {
	require.InDelta(t, MetersPerLatDegree, MetersPerLonDegree(0), 1e-6)
	require.Less(t, MetersPerLonDegree(60), MetersPerLatDegree/1.9)
	require.Greater(t, MetersPerLonDegree(60), MetersPerLatDegree/2.1)
}
