package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/services"
)

// RecordLocation handles driver position updates during an active trip
func RecordLocation(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != string(models.RoleDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can update location"})
			return
		}

		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}
		driverID := c.GetUint("userId")

		var input struct {
			Latitude  *float64 `json:"latitude" binding:"required"`
			Longitude *float64 `json:"longitude" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		sample, err := svc.RecordLocation(c.Request.Context(), bookingID, driverID,
			*input.Latitude, *input.Longitude)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, sample)
	}
}

// GetBookingPath returns the full ordered trip path for a booking
func GetBookingPath(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		path, err := svc.TripPath(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, path)
	}
}

// GetDriverLatestLocation returns a driver's most recent position sample
func GetDriverLatestLocation(svc *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseIDParam(c, "driverId")
		if !ok {
			return
		}

		sample, err := svc.LatestForDriver(c.Request.Context(), driverID)
		if err != nil {
			// Another instance may still hold a cached position.
			if errors.Is(err, domain.ErrNotFound) {
				if lat, lng, cerr := services.GetDriverLocation(c.Request.Context(), driverID); cerr == nil {
					c.JSON(200, gin.H{
						"driverId":  driverID,
						"latitude":  lat,
						"longitude": lng,
					})
					return
				}
			}
			respondError(c, err)
			return
		}

		c.JSON(200, sample)
	}
}
