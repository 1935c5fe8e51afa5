package handlers

import (
	"CarePoint/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// FeaturedDoctors lists doctors with completion counts and clinic totals.
func (h *UserHandler) FeaturedDoctors(c *gin.Context) {
	result, err := h.service.FeaturedDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, result)
}

// DoctorsByDepartment lists doctors filtered by department.
func (h *UserHandler) DoctorsByDepartment(c *gin.Context) {
	doctors, err := h.service.DoctorsByDepartment(c.Request.Context(), c.Query("department"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctors)
}

// GetUser returns a user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}

// UpdateProfile updates the authenticated user's own profile. Email and
// password changes require the current password.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := subject(c)
	if !ok {
		return
	}

	var in services.ProfileUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, user)
}
