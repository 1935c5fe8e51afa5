package handlers

import (
	"CarePoint/services"
	"CarePoint/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin        *services.AdminService
	appointments *services.AppointmentService
}

func NewAdminHandler(admin *services.AdminService, appointments *services.AppointmentService) *AdminHandler {
	return &AdminHandler{admin: admin, appointments: appointments}
}

// CreateDoctor registers a doctor account. The role is forced to doctor
// regardless of what the payload claims.
func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var in utils.RegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	doctor, err := h.admin.CreateDoctor(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, doctor)
}

// UpdateDoctor changes a doctor's name, email, or department.
func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	var in struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	doctor, err := h.admin.UpdateDoctor(c.Request.Context(), c.Param("id"), in.Name, in.Email, in.Department)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctor)
}

// DeleteDoctor removes a doctor account. Past appointments and reviews
// are kept for the record.
func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	if err := h.admin.DeleteDoctor(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "doctor deleted"})
}

// ListDoctors lists every doctor account.
func (h *AdminHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.admin.ListDoctors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctors)
}

// Stats returns the admin dashboard aggregate.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, stats)
}

// Appointments lists all bookings, optionally filtered by status or doctor.
func (h *AdminHandler) Appointments(c *gin.Context) {
	appointments, err := h.appointments.ListAll(c.Request.Context(), c.Query("status"), c.Query("doctorId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}
