package estimate

import "math"

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance between two coordinates
// in kilometers.
func HaversineKm(from, to Coordinate) float64 {
	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLng := degreesToRadians(to.Longitude - from.Longitude)

	lat1Rad := degreesToRadians(from.Latitude)
	lat2Rad := degreesToRadians(to.Latitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
