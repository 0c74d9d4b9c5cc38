package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name        string
		vehicleType string
		distance    float64
		want        float64
	}{
		{"mini truck", "mini truck", 10, 200},
		{"mini truck mixed case", "Mini Truck", 10, 200},
		{"pickup", "pickup", 5, 110},
		{"tempo", "Tempo", 10, 250},
		{"unknown type falls back to default rate", "flatbed", 10, 150},
		{"zero distance is base fare only", "tempo", 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CalculatePrice(tt.distance, tt.vehicleType))
		})
	}
}

func TestBaseRateFor(t *testing.T) {
	require.Equal(t, MiniTruckRatePerKm, BaseRateFor("MINI TRUCK"))
	require.Equal(t, PickupRatePerKm, BaseRateFor("Pickup"))
	require.Equal(t, TempoRatePerKm, BaseRateFor("tempo"))
	require.Equal(t, DefaultRatePerKm, BaseRateFor(""))
}

func TestIsValidCoordinate(t *testing.T) {
	require.True(t, IsValidCoordinate(0, 0))
	require.True(t, IsValidCoordinate(-90, 180))
	require.False(t, IsValidCoordinate(91, 0))
	require.False(t, IsValidCoordinate(0, -181))
}
