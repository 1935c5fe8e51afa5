package handlers

import (
	"CarePoint/services"
	"CarePoint/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Add creates a review for a completed appointment with the doctor.
func (h *ReviewHandler) Add(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	var in utils.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), patientID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, review)
}

// Edit updates the rating or comment of the caller's own review.
func (h *ReviewHandler) Edit(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	var in utils.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.service.EditReview(c.Request.Context(), patientID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, review)
}

// Delete removes the caller's own review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), patientID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "review deleted"})
}

// DoctorReviews lists all reviews for a doctor.
func (h *ReviewHandler) DoctorReviews(c *gin.Context) {
	reviews, err := h.service.DoctorReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, reviews)
}

// MyReviews lists the authenticated patient's reviews.
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	patientID, ok := subject(c)
	if !ok {
		return
	}

	reviews, err := h.service.MyReviews(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, reviews)
}

// Latest lists the most recent reviews for the landing page.
func (h *ReviewHandler) Latest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	reviews, err := h.service.LatestReviews(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, reviews)
}
