package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/internal/services"
)

// UpdateDriverAvailability flips a driver's online flag
func UpdateDriverAvailability(svc *services.DispatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input struct {
			IsOnline *bool `json:"isOnline" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver, err := svc.SetAvailability(c.Request.Context(), driverID, *input.IsOnline)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"message":  "Availability updated successfully",
			"isOnline": driver.IsOnline,
		})
	}
}

// GetDriverProfile retrieves a driver's profile
func GetDriverProfile(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseIDParam(c, "driverId")
		if !ok {
			return
		}

		driver, err := store.Users().FindByID(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, driver)
	}
}

// UpdateDriverProfile updates a driver's own profile information
func UpdateDriverProfile(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input struct {
			Name          *string `json:"name"`
			Phone         *string `json:"phone"`
			VehicleType   *string `json:"vehicleType"`
			VehicleNumber *string `json:"vehicleNumber"`
			LicenseNumber *string `json:"licenseNumber"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver, err := store.Users().FindByID(c.Request.Context(), driverID)
		if err != nil {
			respondError(c, err)
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Name != nil {
			driver.Name = *input.Name
		}
		if input.Phone != nil {
			driver.Phone = *input.Phone
		}
		if input.VehicleType != nil {
			driver.VehicleType = *input.VehicleType
		}
		if input.VehicleNumber != nil {
			driver.VehicleNumber = *input.VehicleNumber
		}
		if input.LicenseNumber != nil {
			driver.LicenseNumber = *input.LicenseNumber
		}

		if err := store.Users().Save(c.Request.Context(), driver); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, driver)
	}
}
