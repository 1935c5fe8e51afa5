package database_test

import (
	"errors"
	"fmt"
	"testing"

	"CarePoint/database"
	"CarePoint/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBookingUsers(t *testing.T, db *gorm.DB) (patientID, doctorID string) {
	t.Helper()

	patient := models.User{
		ID:       uuid.New().String(),
		Name:     "Index Patient",
		Email:    uuid.New().String() + "@carepoint.test",
		Password: "irrelevant",
		Role:     models.RolePatient,
	}
	doctor := models.User{
		ID:         uuid.New().String(),
		Name:       "Index Doctor",
		Email:      uuid.New().String() + "@carepoint.test",
		Password:   "irrelevant",
		Role:       models.RoleDoctor,
		Department: "General",
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return patient.ID, doctor.ID
}

func rawAppointment(patientID, doctorID, date, timeSlot, status string) *models.Appointment {
	return &models.Appointment{
		ID:         uuid.New().String(),
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       date,
		Time:       timeSlot,
		Status:     status,
		Department: "General",
	}
}

// The active-slot index must reject a second non-cancelled row for the
// same (doctor, date, time) even when the insert bypasses the
// application checks, and must stop guarding a slot once the holder
// cancels.
func TestActiveSlotIndex(t *testing.T) {
	db := openMigratedDB(t)
	patientID, doctorID := seedBookingUsers(t, db)
	otherPatientID, _ := seedBookingUsers(t, db)

	first := rawAppointment(patientID, doctorID, "2026-04-01", "09:00", models.StatusPending)
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	rival := rawAppointment(otherPatientID, doctorID, "2026-04-01", "09:00", models.StatusConfirmed)
	if err := db.Create(rival).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate-key error for occupied slot, got %v", err)
	}

	if err := db.Model(first).Update("status", models.StatusCancelled).Error; err != nil {
		t.Fatalf("cancel first: %v", err)
	}
	if err := db.Create(rival).Error; err != nil {
		t.Fatalf("insert over cancelled row: %v", err)
	}
}

// The patient-day index must reject a second non-cancelled booking by
// one patient on one date regardless of doctor or slot, while a
// cancelled same-day row leaves the patient free to book again.
func TestPatientDayIndex(t *testing.T) {
	db := openMigratedDB(t)
	patientID, doctorID := seedBookingUsers(t, db)
	_, otherDoctorID := seedBookingUsers(t, db)

	first := rawAppointment(patientID, doctorID, "2026-04-02", "09:00", models.StatusPending)
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := rawAppointment(patientID, otherDoctorID, "2026-04-02", "14:00", models.StatusPending)
	if err := db.Create(second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate-key error for second same-day booking, got %v", err)
	}

	if err := db.Model(first).Update("status", models.StatusCancelled).Error; err != nil {
		t.Fatalf("cancel first: %v", err)
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("insert after same-day cancellation: %v", err)
	}
}
