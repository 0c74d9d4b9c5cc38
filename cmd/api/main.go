package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tucktruck/tucktruck-backend/internal/database"
	"github.com/tucktruck/tucktruck-backend/internal/handlers"
	"github.com/tucktruck/tucktruck-backend/internal/middleware"
	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/repositories"
	"github.com/tucktruck/tucktruck-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (optional - location fan-out degrades to websocket only)
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	store := repositories.NewGormStore(db)
	bookingSvc := services.NewBookingService(store, hub)
	dispatchSvc := services.NewDispatchService(store, hub)
	trackingSvc := services.NewTrackingService(store, services.LocationFanout{
		hub,
		services.RedisLocationPublisher{},
	})

	// Initialize router
	r := gin.Default()
	r.Use(middleware.PrometheusMiddleware())

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(store))
			auth.POST("/login", handlers.Login(store))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingSvc))
				bookings.GET("", handlers.GetAllBookings(bookingSvc))
				bookings.GET("/pending", handlers.GetPendingBookings(dispatchSvc))
				bookings.GET("/customer/:customerId", handlers.GetCustomerBookings(bookingSvc))
				bookings.GET("/driver/:driverId", handlers.GetDriverBookings(bookingSvc))
				bookings.GET("/driver/:driverId/active", handlers.GetDriverActiveBooking(bookingSvc))
				bookings.GET("/:bookingId", handlers.GetBookingByID(bookingSvc))
				bookings.POST("/:bookingId/assign/:driverId", handlers.AssignDriver(dispatchSvc))
				bookings.PATCH("/:bookingId/status", handlers.UpdateBookingStatus(bookingSvc))
				bookings.POST("/:bookingId/cancel", handlers.CancelBooking(bookingSvc))
				bookings.POST("/:bookingId/location", handlers.RecordLocation(trackingSvc))
				bookings.GET("/:bookingId/locations", handlers.GetBookingPath(trackingSvc))
			}

			drivers := protected.Group("/drivers")
			{
				drivers.PATCH("/availability", handlers.UpdateDriverAvailability(dispatchSvc))
				drivers.GET("/:driverId", handlers.GetDriverProfile(store))
				drivers.PUT("/profile", handlers.UpdateDriverProfile(store))
				drivers.GET("/:driverId/location", handlers.GetDriverLatestLocation(trackingSvc))
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(string(models.RoleAdmin)))
			{
				admin.GET("/users", handlers.GetAllUsers(store))
				admin.GET("/drivers", handlers.GetAllDrivers(store))
				admin.GET("/drivers/available", handlers.GetAvailableDrivers(dispatchSvc))
				admin.GET("/bookings", handlers.GetAllBookings(bookingSvc))
				admin.GET("/stats", handlers.GetDashboardStats(store))
				admin.POST("/bookings/:bookingId/assign/:driverId", handlers.AssignDriver(dispatchSvc))
				admin.DELETE("/users/:userId", handlers.DeleteUser(store))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
