package geospatial

import "math"

const (
	earthRadiusKm = 6371.0

	// kmPerDegreeLat approximates the length of one degree of latitude.
	kmPerDegreeLat = 111.0
)

// Haversine calculates the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DistanceKm is Haversine rounded to one decimal place.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return Round1(Haversine(lat1, lon1, lat2, lon2))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BoundingBox returns a box around a point with the given radius in kilometers.
// Every point within radiusKm of (lat, lon) lies inside the box.
//
// The longitude half-width is taken at the circle's tangent meridians, which
// is wider than the parallel through the center at high latitudes. When the
// circle reaches a pole or crosses the antimeridian the full longitude range
// is returned.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusKm / kmPerDegreeLat
	minLat, maxLat = lat-latDelta, lat+latDelta
	if minLat <= -90 || maxLat >= 90 {
		return math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180
	}

	angular := radiusKm / earthRadiusKm
	s := math.Sin(angular) / math.Cos(toRad(lat))
	if angular >= math.Pi/2 || s >= 1 {
		return minLat, -180, maxLat, 180
	}
	lonDelta := math.Asin(s) * 180 / math.Pi

	minLon, maxLon = lon-lonDelta, lon+lonDelta
	if minLon < -180 || maxLon > 180 {
		return minLat, -180, maxLat, 180
	}
	return minLat, minLon, maxLat, maxLon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
