package controllers

import (
	"CarePoint/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes on the API group.
// Every auth route is public; refresh carries its own token in the body.
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", ac.Handler.Register)
		auth.POST("/login", ac.Handler.Login)
		auth.POST("/refresh", ac.Handler.RefreshToken)
		auth.POST("/logoff", ac.Handler.Logoff)
		auth.POST("/password-reset/request", ac.Handler.SendResetCode)
		auth.POST("/password-reset/confirm", ac.Handler.ResetPassword)
	}
}
