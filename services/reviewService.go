package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"
	"strings"
)

type ReviewService struct {
	reviews      *repositories.ReviewRepository
	appointments *repositories.AppointmentRepository
}

func NewReviewService(reviews *repositories.ReviewRepository, appointments *repositories.AppointmentRepository) *ReviewService {
	return &ReviewService{reviews: reviews, appointments: appointments}
}

// AddReview creates the one allowed review for a completed appointment
// and recomputes the doctor's rating. An appointment that does not exist
// or is not owned by the caller is reported identically, so the response
// does not reveal other patients' bookings.
func (s *ReviewService) AddReview(ctx context.Context, patientID, doctorID string, in utils.ReviewInput) (*models.Review, error) {
	if err := utils.ValidateReview(in); err != nil {
		return nil, err
	}

	appointment, err := s.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, models.ErrAppointmentNotFound
	}
	if doctorID != "" && appointment.DoctorID != doctorID {
		return nil, models.ErrAppointmentNotFound
	}
	if appointment.Status != models.StatusCompleted {
		return nil, models.ErrNotCompleted
	}
	if appointment.HasReview {
		return nil, models.ErrReviewExists
	}

	review := &models.Review{
		PatientID:     patientID,
		DoctorID:      appointment.DoctorID,
		AppointmentID: appointment.ID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	return s.reviews.GetPopulated(ctx, review.ID)
}

// EditReview updates the owning patient's review, marks it edited and
// recomputes the doctor's rating.
func (s *ReviewService) EditReview(ctx context.Context, patientID, reviewID string, in utils.ReviewInput) (*models.Review, error) {
	if err := utils.ValidateReview(in); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.PatientID != patientID {
		return nil, models.ErrNotPermitted
	}

	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)
	review.IsEdited = true
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	return s.reviews.GetPopulated(ctx, review.ID)
}

// DeleteReview removes the owning patient's review, clears the
// appointment's review linkage and recomputes the doctor's rating over
// the remaining set.
func (s *ReviewService) DeleteReview(ctx context.Context, patientID, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.PatientID != patientID {
		return models.ErrNotPermitted
	}

	return s.reviews.Delete(ctx, review)
}

// DoctorReviews lists a doctor's reviews, newest first.
func (s *ReviewService) DoctorReviews(ctx context.Context, doctorID string) ([]models.Review, error) {
	return s.reviews.ListByDoctor(ctx, doctorID)
}

// MyReviews lists the caller's own reviews, newest first.
func (s *ReviewService) MyReviews(ctx context.Context, patientID string) ([]models.Review, error) {
	return s.reviews.ListByPatient(ctx, patientID)
}

// LatestReviews lists the newest reviews clinic-wide.
func (s *ReviewService) LatestReviews(ctx context.Context, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.reviews.Latest(ctx, limit)
}
