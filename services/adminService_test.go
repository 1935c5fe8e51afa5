package services

import (
	"CarePoint/models"
	"CarePoint/utils"
	"context"
	"errors"
	"testing"
)

func TestCreateDoctorForcesRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.users, env.appointments)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, utils.RegistrationInput{
		Name:       "Dr. Osei",
		Email:      "osei@example.com",
		Password:   "Str0ng!pass",
		Role:       models.RoleAdmin, // ignored
		Department: "Cardiology",
	})
	if err != nil {
		t.Fatalf("CreateDoctor() error = %v", err)
	}
	if doctor.Role != models.RoleDoctor {
		t.Errorf("role = %q, want doctor", doctor.Role)
	}

	// Department stays mandatory for doctor accounts.
	if _, err := svc.CreateDoctor(ctx, utils.RegistrationInput{
		Name:     "Dr. Boateng",
		Email:    "boateng@example.com",
		Password: "Str0ng!pass",
	}); err == nil {
		t.Errorf("CreateDoctor() accepted missing department")
	}
}

func TestUpdateDoctor(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.users, env.appointments)
	ctx := context.Background()

	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	patient := env.createPatient(t, "Ama Mensah")

	updated, err := svc.UpdateDoctor(ctx, doctor.ID, "Dr. K. Osei", "", "Surgery")
	if err != nil {
		t.Fatalf("UpdateDoctor() error = %v", err)
	}
	if updated.Name != "Dr. K. Osei" || updated.Department != "Surgery" {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := svc.UpdateDoctor(ctx, patient.ID, "X", "", ""); !errors.Is(err, models.ErrDoctorNotFound) {
		t.Errorf("update non-doctor error = %v, want ErrDoctorNotFound", err)
	}
	if _, err := svc.UpdateDoctor(ctx, "no-such-id", "X", "", ""); !errors.Is(err, models.ErrDoctorNotFound) {
		t.Errorf("update missing error = %v, want ErrDoctorNotFound", err)
	}
}

func TestDeleteDoctor(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.users, env.appointments)
	ctx := context.Background()

	doctor := env.createDoctor(t, "Dr. Osei", "Cardiology")
	patient := env.createPatient(t, "Ama Mensah")

	// A history record survives the account deletion.
	appointment := env.createAppointment(t, patient.ID, doctor.ID, "2026-03-01", "09:00", models.StatusCompleted)

	if err := svc.DeleteDoctor(ctx, doctor.ID); err != nil {
		t.Fatalf("DeleteDoctor() error = %v", err)
	}
	if err := svc.DeleteDoctor(ctx, doctor.ID); !errors.Is(err, models.ErrDoctorNotFound) {
		t.Errorf("double delete error = %v, want ErrDoctorNotFound", err)
	}
	if err := svc.DeleteDoctor(ctx, patient.ID); !errors.Is(err, models.ErrDoctorNotFound) {
		t.Errorf("delete patient error = %v, want ErrDoctorNotFound", err)
	}

	var stored models.Appointment
	if err := env.db.First(&stored, "id = ?", appointment.ID).Error; err != nil {
		t.Fatalf("appointment cascaded away: %v", err)
	}
	if stored.Department != "General" {
		t.Errorf("department snapshot lost: %q", stored.Department)
	}
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.users, env.appointments)
	ctx := context.Background()

	first := env.createPatient(t, "Ama Mensah")
	second := env.createPatient(t, "Kofi Adjei")
	env.createDoctor(t, "Dr. Osei", "Cardiology")
	cardio := env.createDoctor(t, "Dr. Boateng", "Cardiology")
	derm := env.createDoctor(t, "Dr. Nkrumah", "Dermatology")
	env.createUser(t, "Root", models.RoleAdmin, "")

	env.createAppointment(t, first.ID, cardio.ID, "2026-03-01", "09:00", models.StatusCompleted)
	env.createAppointment(t, second.ID, derm.ID, "2026-03-02", "09:00", models.StatusPending)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalDoctors != 3 {
		t.Errorf("total doctors = %d, want 3", stats.TotalDoctors)
	}
	// Admin accounts are not counted among users.
	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalAppointments != 2 {
		t.Errorf("total appointments = %d, want 2", stats.TotalAppointments)
	}
	if len(stats.RecentAppointments) != 2 {
		t.Errorf("recent appointments = %d, want 2", len(stats.RecentAppointments))
	}

	departments := make(map[string]int64)
	for _, d := range stats.DepartmentStats {
		departments[d.Department] = d.Count
	}
	if departments["Cardiology"] != 2 || departments["Dermatology"] != 1 {
		t.Errorf("department stats = %v, want Cardiology 2 / Dermatology 1", departments)
	}
}
