package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusCreated             BookingStatus = "CREATED"
	StatusSearchingDriver     BookingStatus = "SEARCHING_DRIVER"
	StatusDriverAssigned      BookingStatus = "DRIVER_ASSIGNED"
	StatusDriverReachedPickup BookingStatus = "DRIVER_REACHED_PICKUP"
	StatusTripStarted         BookingStatus = "TRIP_STARTED"
	StatusInTransit           BookingStatus = "IN_TRANSIT"
	StatusCompleted           BookingStatus = "COMPLETED"
	StatusCancelled           BookingStatus = "CANCELLED"
	StatusPaid                BookingStatus = "PAID"
)

// ActiveStatuses are the states in which a driver is occupied by a booking.
// A driver may hold at most one booking in this set at any time.
var ActiveStatuses = []BookingStatus{
	StatusDriverAssigned,
	StatusDriverReachedPickup,
	StatusTripStarted,
	StatusInTransit,
}

// statusSuccessors is the forward order of the lifecycle. DRIVER_ASSIGNED
// and CANCELLED are absent on purpose: the former is only reachable through
// driver assignment, the latter only through cancellation.
var statusSuccessors = map[BookingStatus][]BookingStatus{
	StatusCreated:             {StatusSearchingDriver},
	StatusSearchingDriver:     {},
	StatusDriverAssigned:      {StatusDriverReachedPickup},
	StatusDriverReachedPickup: {StatusTripStarted},
	StatusTripStarted:         {StatusInTransit},
	StatusInTransit:           {StatusCompleted},
	StatusCompleted:           {StatusPaid},
	StatusPaid:                {},
	StatusCancelled:           {},
}

// ParseBookingStatus converts a wire value into a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := statusSuccessors[status]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// CanTransition reports whether the lifecycle allows moving from s to next
// via a plain status update.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range statusSuccessors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// InProgress reports whether the trip is physically underway, which blocks
// cancellation.
func (s BookingStatus) InProgress() bool {
	return s == StatusTripStarted || s == StatusInTransit
}

// IsActive reports whether the status occupies the assigned driver.
func (s BookingStatus) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	CustomerID uint  `json:"customerId" gorm:"column:customer_id;not null;index"`
	Customer   *User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID   *uint `json:"driverId,omitempty" gorm:"column:driver_id;index"`
	Driver     *User `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	PickupLocation  string   `json:"pickupLocation" gorm:"column:pickup_location;not null"`
	PickupLatitude  *float64 `json:"pickupLatitude,omitempty" gorm:"column:pickup_latitude"`
	PickupLongitude *float64 `json:"pickupLongitude,omitempty" gorm:"column:pickup_longitude"`
	DropLocation    string   `json:"dropLocation" gorm:"column:drop_location;not null"`
	DropLatitude    *float64 `json:"dropLatitude,omitempty" gorm:"column:drop_latitude"`
	DropLongitude   *float64 `json:"dropLongitude,omitempty" gorm:"column:drop_longitude"`

	VehicleType string `json:"vehicleType" gorm:"column:vehicle_type;not null"` // mini truck, pickup, tempo

	EstimatedPrice *float64 `json:"estimatedPrice,omitempty" gorm:"column:estimated_price"`
	FinalPrice     *float64 `json:"finalPrice,omitempty" gorm:"column:final_price"`
	Distance       *float64 `json:"distance,omitempty" gorm:"column:distance"` // in km

	Status BookingStatus `json:"status" gorm:"column:status;not null;index"`

	DriverAssignedAt *time.Time `json:"driverAssignedAt,omitempty" gorm:"column:driver_assigned_at"`
	TripStartedAt    *time.Time `json:"tripStartedAt,omitempty" gorm:"column:trip_started_at"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" gorm:"column:completed_at"`

	CustomerNotes string `json:"customerNotes,omitempty" gorm:"column:customer_notes"`
	DriverNotes   string `json:"driverNotes,omitempty" gorm:"column:driver_notes"`

	IsPaid        bool   `json:"isPaid" gorm:"column:is_paid;not null;default:false"`
	PaymentMethod string `json:"paymentMethod,omitempty" gorm:"column:payment_method"`
	CustomerPhone string `json:"customerPhone,omitempty" gorm:"column:customer_phone"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
