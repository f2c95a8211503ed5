package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_IdenticalPoints(t *testing.T) {
	harare := Coordinate{Latitude: -17.8252, Longitude: 31.0335}
	assert.Zero(t, HaversineKm(harare, harare))
}

func TestHaversineKm_HarareShortTrip(t *testing.T) {
	pickup := Coordinate{Latitude: -17.8252, Longitude: 31.0335}
	dropoff := Coordinate{Latitude: -17.9, Longitude: 31.05}

	got := HaversineKm(pickup, dropoff)
	assert.InDelta(t, 8.7, got, 0.5)
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := Coordinate{Latitude: -17.8252, Longitude: 31.0335}
	b := Coordinate{Latitude: -17.86, Longitude: 31.10}
	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
}
