package handlers

import (
	"CarePoint/services"
	"CarePoint/utils"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create books an appointment for the authenticated patient.
func (h *AppointmentHandler) Create(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	var in utils.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	appointment, err := h.service.ProposeBooking(c.Request.Context(), patientID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, appointment)
}

// AvailableHours lists the open slots for a doctor on a date.
func (h *AppointmentHandler) AvailableHours(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")

	hours, err := h.service.AvailableHours(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"availableHours": hours})
}

// MyAppointments lists the authenticated patient's bookings.
func (h *AppointmentHandler) MyAppointments(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	appointments, err := h.service.MyAppointments(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

// Cancel cancels one of the authenticated patient's pending bookings.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	var in struct {
		Reason string `json:"reason"`
	}
	// Body is optional: a cancellation may carry no reason.
	_ = c.ShouldBindJSON(&in)

	appointment, err := h.service.Cancel(c.Request.Context(), patientID, c.Param("id"), in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Confirm lets the authenticated doctor close out a pending visit.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	doctorID, ok := subject(c)
	if !ok {
		return
	}

	appointment, err := h.service.Confirm(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// PatchStatus sets an appointment to an arbitrary status. Admins may
// touch any appointment, doctors only their own.
func (h *AppointmentHandler) PatchStatus(c *gin.Context) {
	actorID, ok := subject(c)
	if !ok {
		return
	}
	actorRole, ok := subjectRole(c)
	if !ok {
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	appointment, err := h.service.OverrideStatus(c.Request.Context(), actorID, actorRole, c.Param("id"), in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}
