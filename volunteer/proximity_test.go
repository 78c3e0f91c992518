package volunteer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{name: "same point", lat1: 40, lon1: -75, lat2: 40, lon2: -75, want: 0, delta: 1e-9},
		{name: "one degree of latitude", lat1: 40, lon1: -75, lat2: 41, lon2: -75, want: 111.195, delta: 0.01},
		{name: "london to paris", lat1: 51.5074, lon1: -0.1278, lat2: 48.8566, lon2: 2.3522, want: 343.5, delta: 1},
		{name: "antipodes", lat1: 0, lon1: 0, lat2: 0, lon2: 180, want: math.Pi * EarthRadiusKm, delta: 1e-6},
		{name: "across the antimeridian", lat1: 0, lon1: 179.5, lat2: 0, lon2: -179.5, want: 111.195, delta: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			require.InDelta(t, tt.want, got, tt.delta)
			require.InDelta(t, got, Haversine(tt.lat2, tt.lon2, tt.lat1, tt.lon1), 1e-9, "distance is symmetric")
		})
	}
}

func TestHaversineNeverNaN(t *testing.T) {
	for _, p := range [][4]float64{
		{90, 0, -90, 0},
		{0, 0, 0, 180},
		{45.0000001, 10, 45.0000001, 10},
	} {
		got := Haversine(p[0], p[1], p[2], p[3])
		require.False(t, math.IsNaN(got), "%v", p)
	}
}
