package handlers

import (
	"CarePoint/middlewares"
	"CarePoint/models"
	"CarePoint/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// respondError maps the business error taxonomy to HTTP statuses in one
// place. Unknown errors are logged and returned as a generic server error
// so store-layer detail never leaks to clients.
func respondError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErrs.Error()})
		return
	}

	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrDoctorNotFound),
		errors.Is(err, models.ErrAppointmentNotFound),
		errors.Is(err, models.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrSlotTaken),
		errors.Is(err, models.ErrSameDayBooking),
		errors.Is(err, models.ErrReviewExists),
		errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrPastDate),
		errors.Is(err, models.ErrNotCancellable),
		errors.Is(err, models.ErrNotConfirmable),
		errors.Is(err, models.ErrNotCompleted),
		errors.Is(err, models.ErrNoDepartment),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrInvalidSlot),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrEmptyComment),
		errors.Is(err, models.ErrWrongPassword),
		errors.Is(err, utils.ErrPasswordTooShort),
		errors.Is(err, utils.ErrPasswordNotComplex),
		errors.Is(err, utils.ErrInvalidResetCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		middlewares.HttpError(c, "internal server error", http.StatusInternalServerError, err)
	}
}

// subject pulls the authenticated user's ID out of the request context.
func subject(c *gin.Context) (string, bool) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}

// subjectRole pulls the authenticated user's role out of the request context.
func subjectRole(c *gin.Context) (string, bool) {
	role, err := middlewares.ExtractUserRoleFromContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return role, true
}
