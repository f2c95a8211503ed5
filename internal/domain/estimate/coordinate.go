package estimate

import "math"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether both components are finite numbers.
func (c Coordinate) Valid() bool {
	return isFinite(c.Latitude) && isFinite(c.Longitude)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RouteQuery is the immutable input for one estimation request. Pickup or
// Dropoff may be nil when the caller could not resolve an address.
type RouteQuery struct {
	Pickup    *Coordinate
	Dropoff   *Coordinate
	Providers []ProviderID
}

// Resolvable reports whether both endpoints are present and finite. A query
// that is not resolvable must short-circuit to an all-unavailable result set
// without touching the network.
func (q RouteQuery) Resolvable() bool {
	return q.Pickup != nil && q.Pickup.Valid() && q.Dropoff != nil && q.Dropoff.Valid()
}
