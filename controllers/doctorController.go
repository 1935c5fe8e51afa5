package controllers

import (
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/models"

	"github.com/gin-gonic/gin"
)

// SetupDoctorRoutes registers the doctor dashboard surface.
func SetupDoctorRoutes(api *gin.RouterGroup, doctorHandler *handlers.DoctorHandler) {
	doctor := api.Group("/doctor").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RoleDoctor),
	)
	{
		doctor.GET("/stats", doctorHandler.Stats)
		doctor.GET("/appointments", doctorHandler.Appointments)
		doctor.GET("/patients", doctorHandler.Patients)
		doctor.GET("/profile", doctorHandler.Profile)
		doctor.PUT("/profile", doctorHandler.UpdateProfile)
	}
}
