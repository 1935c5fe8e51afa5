package routes

import (
	"CarePoint/cache"
	"CarePoint/config"
	"CarePoint/controllers"
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/repositories"
	"CarePoint/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://carepoint.clinic", "https://staging.carepoint.clinic"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)
	reviewRepo := repositories.NewReviewRepository(db, cache)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo)
	reviewService := services.NewReviewService(reviewRepo, appointmentRepo)
	userService := services.NewUserService(userRepo, appointmentRepo)
	adminService := services.NewAdminService(userRepo, appointmentRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	userHandler := handlers.NewUserHandler(userService)
	doctorHandler := handlers.NewDoctorHandler(appointmentService, userService)
	adminHandler := handlers.NewAdminHandler(adminService, appointmentService)

	// Register routes
	api := router.Group("/api")

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(api)

	controllers.SetupClinicRoutes(api, appointmentHandler, userHandler, reviewHandler)
	controllers.SetupDoctorRoutes(api, doctorHandler)
	controllers.SetupAdminRoutes(api, adminHandler, appointmentHandler)

	controllers.SetupRootRoute(router)

	return router
}
