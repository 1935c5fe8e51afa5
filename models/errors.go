package models

import "errors"

// Business-rule errors surfaced to clients. Handlers map each class to a
// single HTTP status in one place; the messages are the user-facing text.
var (
	// Missing entities.
	ErrUserNotFound        = errors.New("user not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrReviewNotFound      = errors.New("review not found")

	// Authorization. One generic message regardless of the underlying
	// reason, so the response does not reveal other users' resources.
	ErrNotPermitted = errors.New("you are not permitted to perform this action")

	// Invalid state for the requested transition.
	ErrPastDate       = errors.New("appointments cannot be booked for a past date")
	ErrNotCancellable = errors.New("this appointment can no longer be cancelled")
	ErrNotConfirmable = errors.New("this appointment can no longer be confirmed")
	ErrNotCompleted   = errors.New("reviews are only allowed for completed appointments")
	ErrNoDepartment   = errors.New("doctor has no department assigned")

	// Uniqueness conflicts.
	ErrSlotTaken      = errors.New("this time slot is already booked")
	ErrSameDayBooking = errors.New("you already have an appointment on this date")
	ErrReviewExists   = errors.New("this appointment has already been reviewed")
	ErrEmailTaken     = errors.New("this email is already in use")

	// Validation.
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidSlot   = errors.New("time is outside working hours")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidRating = errors.New("rating must be a whole number between 1 and 5")
	ErrEmptyComment  = errors.New("comment cannot be empty")

	// Authentication.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
