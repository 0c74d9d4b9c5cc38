package models

import (
	"time"

	"gorm.io/gorm"
)

// Location is a single driver position sample recorded during a trip.
// Samples are append-only: they are never updated or deleted, and they
// reference booking and driver by id so the store resolves them on read.
type Location struct {
	gorm.Model
	BookingID uint     `json:"bookingId" gorm:"column:booking_id;not null;index"`
	Booking   *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	DriverID  uint     `json:"driverId" gorm:"column:driver_id;not null;index"`
	Driver    *User    `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	Latitude  float64   `json:"latitude" gorm:"column:latitude;not null"`
	Longitude float64   `json:"longitude" gorm:"column:longitude;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp;not null;index"`

	// Optional reverse geocoded address
	Address string `json:"address,omitempty" gorm:"column:address"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "locations"
}
