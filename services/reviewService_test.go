package services

import (
	"CarePoint/models"
	"CarePoint/utils"
	"context"
	"errors"
	"testing"
)

func newReviewService(env *testEnv) *ReviewService {
	return NewReviewService(env.reviews, env.appointments)
}

func doctorRating(t *testing.T, env *testEnv, doctorID string) float64 {
	t.Helper()
	var doctor models.User
	if err := env.db.First(&doctor, "id = ?", doctorID).Error; err != nil {
		t.Fatalf("failed to load doctor: %v", err)
	}
	return doctor.Rating
}

func TestAddReview(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	patient := env.createPatient(t, "Ama Mensah")
	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", "09:00", models.StatusCompleted)

	review, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: appointment.ID,
		Rating:        4,
		Comment:       "  very thorough  ",
	})
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	if review.Comment != "very thorough" {
		t.Errorf("comment = %q, want trimmed", review.Comment)
	}
	if review.Patient == nil || review.Patient.Name != "Ama Mensah" {
		t.Errorf("patient not populated on review response")
	}

	// The appointment now carries the review linkage.
	var stored models.Appointment
	if err := env.db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("failed to reload appointment: %v", err)
	}
	if !stored.HasReview || stored.ReviewID == nil || *stored.ReviewID != review.ID {
		t.Errorf("appointment linkage = hasReview %v reviewID %v, want linked", stored.HasReview, stored.ReviewID)
	}

	if got := doctorRating(t, env, doctor.ID); got != 4.0 {
		t.Errorf("doctor rating = %v, want 4.0", got)
	}
}

func TestAddReviewRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	patient := env.createPatient(t, "Ama Mensah")
	stranger := env.createPatient(t, "Kofi Adjei")
	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")

	pending := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-11", "09:00", models.StatusPending)
	if _, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: pending.ID, Rating: 5, Comment: "great",
	}); !errors.Is(err, models.ErrNotCompleted) {
		t.Errorf("pending appointment error = %v, want ErrNotCompleted", err)
	}

	completed := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", "09:00", models.StatusCompleted)

	// Another patient's appointment reads as missing, not forbidden.
	if _, err := svc.AddReview(ctx, stranger.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: completed.ID, Rating: 5, Comment: "great",
	}); !errors.Is(err, models.ErrAppointmentNotFound) {
		t.Errorf("foreign appointment error = %v, want ErrAppointmentNotFound", err)
	}

	if _, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: completed.ID, Rating: 5, Comment: "great",
	}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: completed.ID, Rating: 3, Comment: "changed my mind",
	}); !errors.Is(err, models.ErrReviewExists) {
		t.Errorf("duplicate review error = %v, want ErrReviewExists", err)
	}
}

func TestRatingAggregation(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")

	// Each appointment takes its own slot so the active-slot index is happy.
	slots := SlotTemplate()
	addReview := func(rating int) *models.Review {
		patient := env.createPatient(t, "Patient")
		slot := slots[0]
		slots = slots[1:]
		appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", slot, models.StatusCompleted)
		review, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
			AppointmentID: appointment.ID, Rating: rating, Comment: "noted",
		})
		if err != nil {
			t.Fatalf("AddReview(%d) error = %v", rating, err)
		}
		return review
	}

	addReview(5)
	second := addReview(4)
	if got := doctorRating(t, env, doctor.ID); got != 4.5 {
		t.Errorf("rating after 5,4 = %v, want 4.5", got)
	}

	// 5, 4, 4 averages 4.333... and rounds to one decimal.
	third := addReview(4)
	if got := doctorRating(t, env, doctor.ID); got != 4.3 {
		t.Errorf("rating after 5,4,4 = %v, want 4.3", got)
	}

	// Editing re-derives the average from the full set.
	if _, err := svc.EditReview(ctx, second.PatientID, second.ID, utils.ReviewInput{
		AppointmentID: second.AppointmentID, Rating: 1, Comment: "on reflection",
	}); err != nil {
		t.Fatalf("EditReview() error = %v", err)
	}
	if got := doctorRating(t, env, doctor.ID); got != 3.3 {
		t.Errorf("rating after edit to 5,1,4 = %v, want 3.3", got)
	}

	// Deleting every review resets the rating to zero.
	for _, review := range []*models.Review{third, second} {
		if err := svc.DeleteReview(ctx, review.PatientID, review.ID); err != nil {
			t.Fatalf("DeleteReview() error = %v", err)
		}
	}
	var remaining []models.Review
	if err := env.db.Where("doctor_id = ?", doctor.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("failed to list reviews: %v", err)
	}
	if err := svc.DeleteReview(ctx, remaining[0].PatientID, remaining[0].ID); err != nil {
		t.Fatalf("DeleteReview(last) error = %v", err)
	}
	if got := doctorRating(t, env, doctor.ID); got != 0 {
		t.Errorf("rating after deleting all reviews = %v, want 0", got)
	}
}

func TestEditReviewOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	patient := env.createPatient(t, "Ama Mensah")
	stranger := env.createPatient(t, "Kofi Adjei")
	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", "09:00", models.StatusCompleted)

	review, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: appointment.ID, Rating: 5, Comment: "great",
	})
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	if _, err := svc.EditReview(ctx, stranger.ID, review.ID, utils.ReviewInput{
		AppointmentID: appointment.ID, Rating: 1, Comment: "sabotage",
	}); !errors.Is(err, models.ErrNotPermitted) {
		t.Errorf("stranger edit error = %v, want ErrNotPermitted", err)
	}

	edited, err := svc.EditReview(ctx, patient.ID, review.ID, utils.ReviewInput{
		AppointmentID: appointment.ID, Rating: 3, Comment: "updated view",
	})
	if err != nil {
		t.Fatalf("EditReview() error = %v", err)
	}
	if !edited.IsEdited {
		t.Errorf("IsEdited = false after edit")
	}
	if edited.Rating != 3 {
		t.Errorf("rating = %d, want 3", edited.Rating)
	}

	if err := svc.DeleteReview(ctx, stranger.ID, review.ID); !errors.Is(err, models.ErrNotPermitted) {
		t.Errorf("stranger delete error = %v, want ErrNotPermitted", err)
	}
}

func TestDeleteReviewAllowsRereview(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	patient := env.createPatient(t, "Ama Mensah")
	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", "09:00", models.StatusCompleted)

	review, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: appointment.ID, Rating: 2, Comment: "rushed",
	})
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	if err := svc.DeleteReview(ctx, patient.ID, review.ID); err != nil {
		t.Fatalf("DeleteReview() error = %v", err)
	}

	var stored models.Appointment
	if err := env.db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("failed to reload appointment: %v", err)
	}
	if stored.HasReview || stored.ReviewID != nil {
		t.Errorf("appointment still linked after delete")
	}

	if _, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
		AppointmentID: appointment.ID, Rating: 4, Comment: "second impression",
	}); err != nil {
		t.Errorf("re-review after delete error = %v, want nil", err)
	}
}

func TestLatestReviews(t *testing.T) {
	env := newTestEnv(t)
	svc := newReviewService(env)
	ctx := context.Background()

	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	for i := 0; i < 8; i++ {
		patient := env.createPatient(t, "Patient")
		appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", SlotTemplate()[i], models.StatusCompleted)
		if _, err := svc.AddReview(ctx, patient.ID, doctor.ID, utils.ReviewInput{
			AppointmentID: appointment.ID, Rating: 5, Comment: "noted",
		}); err != nil {
			t.Fatalf("AddReview() error = %v", err)
		}
	}

	reviews, err := svc.LatestReviews(ctx, 0)
	if err != nil {
		t.Fatalf("LatestReviews() error = %v", err)
	}
	if len(reviews) != 6 {
		t.Errorf("default limit returned %d reviews, want 6", len(reviews))
	}

	reviews, err = svc.LatestReviews(ctx, 3)
	if err != nil {
		t.Fatalf("LatestReviews(3) error = %v", err)
	}
	if len(reviews) != 3 {
		t.Errorf("limit 3 returned %d reviews", len(reviews))
	}
}
