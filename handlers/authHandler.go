package handlers

import (
	"CarePoint/services"
	"CarePoint/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles new account registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var in utils.RegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	c.JSON(201, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Login authenticates the user and returns tokens along with user info.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	c.JSON(200, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken exchanges a still-valid token for a fresh access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.RefreshToken == "" {
		c.JSON(400, gin.H{"error": "refresh token is required"})
		return
	}

	claims, err := utils.ValidateToken(in.RefreshToken)
	if err != nil {
		c.JSON(401, gin.H{"error": "invalid or expired token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"accessToken": accessToken})
}

// Logoff logs the user out by clearing cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.JSON(200, gin.H{"message": "logged out"})
}

// SendResetCode emails a password reset code. The response does not
// reveal whether the address belongs to an account.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(400, gin.H{"error": "email is required"})
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "if the email is registered, a reset code has been sent"})
}

// ResetPassword sets a new password after checking the emailed code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), in.Email, in.Code, in.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "password updated"})
}
