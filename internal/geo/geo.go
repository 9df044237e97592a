// AngelaMos | 2026
// geo.go

// Package geo holds the geofence math used for check-ins and location
// pings.
package geo

import (
	"math"
)

const earthRadiusMeters = 6_371_000.0

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Distance is the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Within reports whether p lies inside the circle of radiusMeters around
// center. The boundary counts as inside.
func Within(p, center Point, radiusMeters float64) bool {
	return Distance(p, center) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
