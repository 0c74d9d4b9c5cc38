package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/domain"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/pkg/utils"
)

type RegisterInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Role          string `json:"role" binding:"required,oneof=CUSTOMER DRIVER"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	LicenseNumber string `json:"licenseNumber"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if _, err := store.Users().FindByEmail(c.Request.Context(), input.Email); err == nil {
			c.JSON(409, gin.H{"error": "Email already registered"})
			return
		} else if !errors.Is(err, domain.ErrNotFound) {
			c.JSON(500, gin.H{"error": "Failed to check email"})
			return
		}

		user := models.User{
			Name:          input.Name,
			Email:         input.Email,
			Password:      input.Password,
			Phone:         input.Phone,
			Address:       input.Address,
			Role:          models.Role(input.Role),
			VehicleType:   input.VehicleType,
			VehicleNumber: input.VehicleNumber,
			LicenseNumber: input.LicenseNumber,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := store.Users().Create(c.Request.Context(), &user); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create user"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{
			"token": token,
			"user": gin.H{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

func Login(store repositories.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := store.Users().FindByEmail(c.Request.Context(), input.Email)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}
