package handlers

import (
	"CarePoint/services"

	"github.com/gin-gonic/gin"
)

// DoctorHandler serves the doctor dashboard: queue, stats, and roster.
type DoctorHandler struct {
	appointments *services.AppointmentService
	users        *services.UserService
}

func NewDoctorHandler(appointments *services.AppointmentService, users *services.UserService) *DoctorHandler {
	return &DoctorHandler{appointments: appointments, users: users}
}

// Appointments lists the authenticated doctor's queue, oldest first,
// optionally filtered by status.
func (h *DoctorHandler) Appointments(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	appointments, err := h.appointments.DoctorAppointments(c.Request.Context(), doctorID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

// Stats returns the doctor dashboard aggregate.
func (h *DoctorHandler) Stats(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	stats, err := h.appointments.Stats(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, stats)
}

// Patients lists the patients the doctor has seen with visit counts.
func (h *DoctorHandler) Patients(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	roster, err := h.appointments.PatientRoster(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, roster)
}

// Profile returns the authenticated doctor's own profile.
func (h *DoctorHandler) Profile(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	doctor, err := h.users.GetUser(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctor)
}

// UpdateProfile updates the authenticated doctor's own profile.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	var in services.ProfileUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	doctor, err := h.users.UpdateProfile(c.Request.Context(), doctorID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctor)
}
