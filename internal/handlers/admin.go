package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/internal/services"
)

// GetAllUsers lists every user
func GetAllUsers(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := store.Users().FindAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, users)
	}
}

// GetAllDrivers lists every driver
func GetAllDrivers(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		drivers, err := store.Users().FindByRole(c.Request.Context(), models.RoleDriver)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, drivers)
	}
}

// GetAvailableDrivers lists online drivers for manual matching
func GetAvailableDrivers(svc *services.DispatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		drivers, err := svc.AvailableDrivers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, drivers)
	}
}

// GetDashboardStats aggregates counts for the admin dashboard
func GetDashboardStats(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		users := store.Users()
		bookings := store.Bookings()

		totalUsers, err := users.Count(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		totalDrivers, _ := users.CountByRole(ctx, models.RoleDriver)
		totalCustomers, _ := users.CountByRole(ctx, models.RoleCustomer)

		totalBookings, _ := bookings.Count(ctx)
		tripStarted, _ := bookings.CountByStatus(ctx, models.StatusTripStarted)
		inTransit, _ := bookings.CountByStatus(ctx, models.StatusInTransit)
		completedBookings, _ := bookings.CountByStatus(ctx, models.StatusCompleted)
		pendingBookings, _ := bookings.CountByStatus(ctx, models.StatusSearchingDriver)

		onlineDrivers, err := users.FindOnlineDrivers(ctx)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"totalUsers":        totalUsers,
			"totalDrivers":      totalDrivers,
			"totalCustomers":    totalCustomers,
			"totalBookings":     totalBookings,
			"activeBookings":    tripStarted + inTransit,
			"completedBookings": completedBookings,
			"pendingBookings":   pendingBookings,
			"onlineDrivers":     len(onlineDrivers),
		})
	}
}

// DeleteUser removes a user record
func DeleteUser(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseIDParam(c, "userId")
		if !ok {
			return
		}

		if err := store.Users().Delete(c.Request.Context(), userID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(200)
	}
}
