package utils

import (
	"CarePoint/models"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidResetCode   = errors.New("invalid reset code")
)

// RegistrationInput is the payload accepted by the register endpoint.
type RegistrationInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// ValidateRegistration validates a registration payload. Department is
// required exactly when the requested role is doctor.
func ValidateRegistration(in RegistrationInput) error {
	return validation.Errors{
		"name":     validation.Validate(in.Name, validation.Required, validation.Length(2, 100)),
		"email":    validation.Validate(in.Email, validation.Required, is.Email),
		"password": validation.Validate(in.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
		"role":     validation.Validate(in.Role, validation.In("", models.RolePatient, models.RoleDoctor)),
		"department": validation.Validate(in.Department,
			validation.When(in.Role == models.RoleDoctor, validation.Required.Error("department is required for doctors"))),
	}.Filter()
}

// BookingInput is the payload accepted by the booking endpoint.
type BookingInput struct {
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Complaint string `json:"complaint"`
}

// ValidateBooking checks the shape of a booking request; calendar and
// conflict rules are enforced by the appointment service.
func ValidateBooking(in BookingInput) error {
	return validation.Errors{
		"doctorId": validation.Validate(in.DoctorID, validation.Required),
		"date":     validation.Validate(in.Date, validation.Required, validation.Date("2006-01-02").Error(models.ErrInvalidDate.Error())),
		"time":     validation.Validate(in.Time, validation.Required),
	}.Filter()
}

// ReviewInput is the payload accepted by the review add/edit endpoints.
type ReviewInput struct {
	AppointmentID string `json:"appointmentId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// ValidateReview enforces the rating range and a non-empty trimmed comment.
func ValidateReview(in ReviewInput) error {
	return validation.Errors{
		"rating":  validation.Validate(in.Rating, validation.Required.Error(models.ErrInvalidRating.Error()), validation.Min(1).Error(models.ErrInvalidRating.Error()), validation.Max(5).Error(models.ErrInvalidRating.Error())),
		"comment": validation.Validate(strings.TrimSpace(in.Comment), validation.Required.Error(models.ErrEmptyComment.Error())),
	}.Filter()
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	return validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// ValidateNewPassword applies the password length and complexity rules
// on their own, for flows that change a password without a reset code.
func ValidateNewPassword(password string) error {
	return validation.Errors{
		"password": validation.Validate(password, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
