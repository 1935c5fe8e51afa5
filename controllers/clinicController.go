package controllers

import (
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/models"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers the patient-facing surface: booking,
// doctor discovery, and reviews.
func SetupClinicRoutes(api *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler, userHandler *handlers.UserHandler, reviewHandler *handlers.ReviewHandler) {
	appointments := api.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RolePatient),
	)
	{
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("/available-hours", appointmentHandler.AvailableHours)
		appointments.GET("/my-appointments", appointmentHandler.MyAppointments)
		appointments.PUT("/:id/cancel", appointmentHandler.Cancel)
	}

	confirm := api.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RoleDoctor),
	)
	{
		confirm.PUT("/:id/confirm", appointmentHandler.Confirm)
	}

	status := api.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin, models.RoleDoctor),
	)
	{
		status.PATCH("/:id/status", appointmentHandler.PatchStatus)
	}

	// Public doctor discovery and review browsing.
	users := api.Group("/users")
	{
		users.GET("/doctors/featured", userHandler.FeaturedDoctors)
		users.GET("/doctors/by-department", userHandler.DoctorsByDepartment)
		users.GET("/doctors/:id/reviews", reviewHandler.DoctorReviews)
	}

	reviews := api.Group("/users").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RolePatient),
	)
	{
		reviews.POST("/doctors/:id/reviews", reviewHandler.Add)
		reviews.PUT("/doctors/reviews/:id", reviewHandler.Edit)
		reviews.DELETE("/doctors/reviews/:id", reviewHandler.Delete)
		reviews.GET("/reviews/my", reviewHandler.MyReviews)
	}

	profile := api.Group("/users").Use(middlewares.TokenAuthMiddleware())
	{
		profile.GET("/me", userHandler.Me)
		profile.PUT("/profile", userHandler.UpdateProfile)
		profile.GET("/:id", userHandler.GetUser)
	}

	api.GET("/reviews/latest", reviewHandler.Latest)
}
