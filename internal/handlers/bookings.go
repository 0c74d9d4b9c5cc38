package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/services"
)

// CreateBooking handles the creation of a new booking
func CreateBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.GetUint("userId")

		var input struct {
			PickupLocation  string   `json:"pickupLocation" binding:"required"`
			PickupLatitude  *float64 `json:"pickupLatitude"`
			PickupLongitude *float64 `json:"pickupLongitude"`
			DropLocation    string   `json:"dropLocation" binding:"required"`
			DropLatitude    *float64 `json:"dropLatitude"`
			DropLongitude   *float64 `json:"dropLongitude"`
			VehicleType     string   `json:"vehicleType" binding:"required"`
			Distance        *float64 `json:"distance"`
			CustomerNotes   string   `json:"customerNotes"`
			CustomerPhone   string   `json:"customerPhone"`
			PaymentMethod   string   `json:"paymentMethod"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := svc.CreateBooking(c.Request.Context(), services.CreateBookingInput{
			CustomerID:      customerID,
			PickupLocation:  input.PickupLocation,
			PickupLatitude:  input.PickupLatitude,
			PickupLongitude: input.PickupLongitude,
			DropLocation:    input.DropLocation,
			DropLatitude:    input.DropLatitude,
			DropLongitude:   input.DropLongitude,
			VehicleType:     input.VehicleType,
			Distance:        input.Distance,
			CustomerNotes:   input.CustomerNotes,
			CustomerPhone:   input.CustomerPhone,
			PaymentMethod:   input.PaymentMethod,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, booking)
	}
}

// GetCustomerBookings retrieves all bookings for a customer
func GetCustomerBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := parseIDParam(c, "customerId")
		if !ok {
			return
		}

		bookings, err := svc.CustomerBookings(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// GetDriverBookings retrieves all bookings assigned to a driver
func GetDriverBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseIDParam(c, "driverId")
		if !ok {
			return
		}

		bookings, err := svc.DriverBookings(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// GetDriverActiveBooking retrieves the driver's current trip, if any
func GetDriverActiveBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseIDParam(c, "driverId")
		if !ok {
			return
		}

		booking, err := svc.ActiveBooking(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}
		if booking == nil {
			c.Status(204)
			return
		}

		c.JSON(200, booking)
	}
}

// GetPendingBookings lists bookings waiting for driver assignment, oldest first
func GetPendingBookings(svc *services.DispatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.PendingBookings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// AssignDriver assigns a driver to a waiting booking
func AssignDriver(svc *services.DispatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}
		driverID, ok := parseIDParam(c, "driverId")
		if !ok {
			return
		}

		booking, err := svc.AssignDriver(c.Request.Context(), bookingID, driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// UpdateBookingStatus applies a lifecycle transition
func UpdateBookingStatus(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := svc.UpdateStatus(c.Request.Context(), bookingID, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// CancelBooking cancels a booking that is not on an in-progress trip
func CancelBooking(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		booking, err := svc.CancelBooking(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// GetAllBookings lists every booking, newest first
func GetAllBookings(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := svc.AllBookings(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBookingByID retrieves a single booking
func GetBookingByID(svc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		booking, err := svc.BookingByID(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}
