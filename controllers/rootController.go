package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthHandler reports liveness for load balancers and uptime checks.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetupRootRoute sets up the root and health routes for the application
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "CarePoint API"})
	})
	router.GET("/health", healthHandler)
}
