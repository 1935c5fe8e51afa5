package services

import (
	"CarePoint/cache"
	"CarePoint/database"
	"CarePoint/models"
	"CarePoint/repositories"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the repositories against an in-memory SQLite database.
// Redis stays unconfigured, so the distributed locks are skipped and the
// unique indexes alone arbitrate conflicts, same as a single-node deploy.
type testEnv struct {
	db           *gorm.DB
	users        repositories.UserRepository
	appointments *repositories.AppointmentRepository
	reviews      *repositories.ReviewRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	c := cache.Disabled()
	return &testEnv{
		db:           db,
		users:        repositories.NewUserRepository(db, c),
		appointments: repositories.NewAppointmentRepository(db, c),
		reviews:      repositories.NewReviewRepository(db, c),
	}
}

func (e *testEnv) createUser(t *testing.T, name, role, department string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Sup3r$ecret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:       name,
		Email:      fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password:   string(hashed),
		Role:       role,
		Department: department,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create %s account: %v", role, err)
	}
	return user
}

func (e *testEnv) createPatient(t *testing.T, name string) *models.User {
	return e.createUser(t, name, models.RolePatient, "")
}

func (e *testEnv) createDoctor(t *testing.T, name, department string) *models.User {
	return e.createUser(t, name, models.RoleDoctor, department)
}

// createAppointment seeds a booking directly through the repository with
// the given status, bypassing the service-level checks.
func (e *testEnv) createAppointment(t *testing.T, patientID, doctorID, date, slot, status string) *models.Appointment {
	t.Helper()

	appointment := &models.Appointment{
		ID:         uuid.New().String(),
		PatientID:  patientID,
		DoctorID:   doctorID,
		Department: "General",
		Date:       date,
		Time:       slot,
		Status:     status,
	}
	if err := e.db.Create(appointment).Error; err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return appointment
}
