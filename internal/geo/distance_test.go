package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMeters(0, 0, 0, 0))
	assert.Equal(t, 0.0, DistanceMeters(54.6872, 25.2797, 54.6872, 25.2797))
	assert.Equal(t, 0.0, DistanceMeters(-33.8688, 151.2093, -33.8688, 151.2093))
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	d1 := DistanceMeters(54.6872, 25.2797, 55.1694, 23.8813)
	d2 := DistanceMeters(55.1694, 23.8813, 54.6872, 25.2797)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceMeters_EquatorDegree(t *testing.T) {
	// 0.01 degrees of latitude at the equator is roughly 1.11 km,
	// well past a 100 m geofence radius.
	d := DistanceMeters(0, 0, 0.01, 0)
	assert.Greater(t, d, 100.0)
	assert.InDelta(t, 1111.0, d, 5.0)
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// Vilnius cathedral to Kaunas castle, ~91 km.
	d := DistanceMeters(54.6858, 25.2873, 54.8989, 23.8853)
	assert.InDelta(t, 91000, d, 2000)
}

func TestDistance_PointForm(t *testing.T) {
	a := Point{Latitude: 10, Longitude: 20}
	b := Point{Latitude: 10, Longitude: 20}
	assert.Equal(t, 0.0, Distance(a, b))
}
