package geo

import "math"

// EarthRadius is the mean earth radius in meters.
const EarthRadius = 6371008.8

// MaxLat is the Web Mercator latitude clamp.
const MaxLat = 85.05112878

// MetersPerLatDegree is the north-south extent of one degree of latitude.
const MetersPerLatDegree = EarthRadius * math.Pi / 180.0

// MetersPerLonDegree returns the east-west extent of one degree of longitude
// at the given latitude. Degenerates to zero near the poles.
func MetersPerLonDegree(lat float64) float64 {
	return MetersPerLatDegree * math.Cos(lat*math.Pi/180.0)
}

// Destination computes the point reached by travelling dist meters from c on
// the given initial bearing (degrees clockwise from north), on a spherical
// earth. Latitude is clamped to the Mercator range so results stay
// projectable.
func Destination(c Coordinate, dist, bearing float64) Coordinate {
	latRad := c.Lat * math.Pi / 180.0
	lonRad := c.Lon * math.Pi / 180.0
	brgRad := bearing * math.Pi / 180.0
	angular := dist / EarthRadius

	sinLat := math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(brgRad)
	dstLat := math.Asin(sinLat)

	y := math.Sin(brgRad) * math.Sin(angular) * math.Cos(latRad)
	x := math.Cos(angular) - sinLat*math.Sin(latRad)
	dstLon := lonRad + math.Atan2(y, x)

	lat := dstLat * 180.0 / math.Pi
	lon := dstLon * 180.0 / math.Pi

	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	// Normalize longitude to [-180, 180)
	lon = math.Mod(lon+540.0, 360.0) - 180.0

	return Coordinate{Lat: lat, Lon: lon}
}
