package utils

import "strings"

const (
	// Per-km base rates by vehicle type
	MiniTruckRatePerKm = 15.0
	PickupRatePerKm    = 12.0
	TempoRatePerKm     = 20.0
	DefaultRatePerKm   = 10.0

	// Fixed surcharge added to every estimate
	BaseFare = 50.0
)

// BaseRateFor returns the per-km rate for a vehicle type. The match is
// case-insensitive; unrecognized types fall back to the default rate.
func BaseRateFor(vehicleType string) float64 {
	switch strings.ToLower(vehicleType) {
	case "mini truck":
		return MiniTruckRatePerKm
	case "pickup":
		return PickupRatePerKm
	case "tempo":
		return TempoRatePerKm
	default:
		return DefaultRatePerKm
	}
}

// CalculatePrice estimates the trip price from distance and vehicle type.
func CalculatePrice(distanceKm float64, vehicleType string) float64 {
	return BaseRateFor(vehicleType)*distanceKm + BaseFare
}
