package controllers

import (
	"CarePoint/handlers"
	"CarePoint/middlewares"
	"CarePoint/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the admin surface.
func SetupAdminRoutes(api *gin.RouterGroup, adminHandler *handlers.AdminHandler, appointmentHandler *handlers.AppointmentHandler) {
	admin := api.Group("/admin").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin),
	)
	{
		admin.GET("/doctors", adminHandler.ListDoctors)
		admin.POST("/doctors", adminHandler.CreateDoctor)
		admin.PUT("/doctors/:id", adminHandler.UpdateDoctor)
		admin.DELETE("/doctors/:id", adminHandler.DeleteDoctor)
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/appointments", adminHandler.Appointments)
		admin.PATCH("/appointments/:id/status", appointmentHandler.PatchStatus)
	}
}
