package repositories

import (
	"CarePoint/cache"
	"CarePoint/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AppointmentCacheExpiry = 24 * time.Hour

// DoctorCounts is one doctor's aggregate used by the featured listing.
type DoctorCounts struct {
	DoctorID              string `json:"doctor_id"`
	CompletedAppointments int64  `json:"completed_appointments"`
	TotalPatients         int64  `json:"total_patients"`
}

// RosterEntry is one patient on a doctor's roster: grouped completed
// appointments with the most recent visit and the total visit count.
type RosterEntry struct {
	PatientID  string `json:"patient_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	LastVisit  string `json:"last_visit"`
	VisitCount int64  `json:"visit_count"`
}

type AppointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{db: db, cache: cache}
}

// CreateBooking runs the booking-conflict check and the insert as one
// atomic step: a Redis lock on the slot serializes concurrent requests,
// the checks and insert share a transaction, and the partial unique
// indexes turn any race the lock missed into a duplicate-key error.
func (r *AppointmentRepository) CreateBooking(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}

	lockKey := fmt.Sprintf("booking_lock:%s_%s_%s", appointment.DoctorID, appointment.Date, appointment.Time)
	err := withLock(ctx, lockKey, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var slotCount int64
			if err := tx.Model(&models.Appointment{}).
				Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
					appointment.DoctorID, appointment.Date, appointment.Time, models.StatusCancelled).
				Count(&slotCount).Error; err != nil {
				return fmt.Errorf("failed to check slot availability: %w", err)
			}
			if slotCount > 0 {
				return models.ErrSlotTaken
			}

			var sameDayCount int64
			if err := tx.Model(&models.Appointment{}).
				Where("patient_id = ? AND date = ? AND status <> ?",
					appointment.PatientID, appointment.Date, models.StatusCancelled).
				Count(&sameDayCount).Error; err != nil {
				return fmt.Errorf("failed to check same-day bookings: %w", err)
			}
			if sameDayCount > 0 {
				return models.ErrSameDayBooking
			}

			if err := tx.Create(appointment).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				return fmt.Errorf("failed to create appointment: %w", err)
			}
			return nil
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A race the lock missed lost against one of the two partial
		// unique indexes; look at the surviving row to name the conflict.
		return r.classifyBookingConflict(ctx, appointment)
	}
	if err != nil {
		return err
	}

	return r.invalidate(ctx)
}

// classifyBookingConflict reports which booking invariant a rejected
// insert collided with. The translated duplicate-key error does not say
// which index fired, so the winner row decides.
func (r *AppointmentRepository) classifyBookingConflict(ctx context.Context, appointment *models.Appointment) error {
	var slotCount int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
			appointment.DoctorID, appointment.Date, appointment.Time, models.StatusCancelled).
		Count(&slotCount).Error
	if err != nil {
		return fmt.Errorf("failed to classify booking conflict: %w", err)
	}
	if slotCount > 0 {
		return models.ErrSlotTaken
	}
	return models.ErrSameDayBooking
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department, rating")
		}).
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// ListByPatient returns a patient's bookings, most recent date first.
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("appointments_cache:patient:%s", patientID)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var appointments []models.Appointment
		if err := json.Unmarshal([]byte(cached), &appointments); err == nil {
			return appointments, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get appointments from cache: %v", err)
	}

	var appointments []models.Appointment
	err = r.db.WithContext(ctx).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department, rating")
		}).
		Preload("Review", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, rating, comment, is_edited")
		}).
		Where("patient_id = ?", patientID).
		Order("date DESC").Order("time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}

	if appointmentsJSON, err := json.Marshal(appointments); err == nil {
		if err := r.cache.Set(ctx, cacheKey, appointmentsJSON, AppointmentCacheExpiry); err != nil {
			log.Printf("Failed to set appointments in cache: %v", err)
		}
	}

	return appointments, nil
}

// ListByDoctor returns a doctor's queue in calendar order, optionally
// filtered by status.
func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID, status string) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		}).
		Where("doctor_id = ?", doctorID)
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Order("date ASC").Order("time ASC").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

// ListAll returns every booking for the admin screens, newest date first,
// optionally filtered by status and doctor.
func (r *AppointmentRepository) ListAll(ctx context.Context, status, doctorID string) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		})
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}

	var appointments []models.Appointment
	if err := query.Order("date DESC").Order("time DESC").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// BookedTimes returns the slot labels already held for a doctor on a date,
// cancelled bookings excluded.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}
	return times, nil
}

// SetStatus persists a state transition. Reason is stored only when the
// transition carries one (patient cancellation).
func (r *AppointmentRepository) SetStatus(ctx context.Context, id, status string, reason *string) error {
	lockKey := fmt.Sprintf("appointment_lock:%s", id)
	err := withLock(ctx, lockKey, func() error {
		updates := map[string]interface{}{"status": status}
		if reason != nil {
			updates["cancellation_reason"] = *reason
		}
		res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update appointment status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrAppointmentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	return r.invalidate(ctx)
}

// setReviewRef updates the review linkage inside an existing transaction.
func setReviewRef(tx *gorm.DB, appointmentID string, reviewID *string) error {
	return tx.Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Updates(map[string]interface{}{
			"has_review": reviewID != nil,
			"review_id":  reviewID,
		}).Error
}

// CountForDoctor counts a doctor's appointments, optionally by status.
func (r *AppointmentRepository) CountForDoctor(ctx context.Context, doctorID, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("doctor_id = ?", doctorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// CountOnDate counts a doctor's non-cancelled appointments on one date.
func (r *AppointmentRepository) CountOnDate(ctx context.Context, doctorID, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments on date: %w", err)
	}
	return count, nil
}

// DistinctPatientCount counts the distinct patients a doctor has seen.
func (r *AppointmentRepository) DistinctPatientCount(ctx context.Context, doctorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct patients: %w", err)
	}
	return count, nil
}

// CountsByDoctor returns per-doctor completed-appointment and distinct
// completed-patient tallies in one grouped query.
func (r *AppointmentRepository) CountsByDoctor(ctx context.Context) (map[string]DoctorCounts, error) {
	var rows []DoctorCounts
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Select("doctor_id, COUNT(*) AS completed_appointments, COUNT(DISTINCT patient_id) AS total_patients").
		Where("status = ?", models.StatusCompleted).
		Group("doctor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate doctor counts: %w", err)
	}

	counts := make(map[string]DoctorCounts, len(rows))
	for _, row := range rows {
		counts[row.DoctorID] = row
	}
	return counts, nil
}

// DistinctCompletedPatients counts distinct patients over all completed
// appointments, clinic-wide.
func (r *AppointmentRepository) DistinctCompletedPatients(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("status = ?", models.StatusCompleted).
		Distinct("patient_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed patients: %w", err)
	}
	return count, nil
}

// CountAll counts every appointment in the system.
func (r *AppointmentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Appointment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

// Recent returns the newest bookings for the admin dashboard.
func (r *AppointmentRepository) Recent(ctx context.Context, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent appointments: %w", err)
	}
	return appointments, nil
}

// PatientRoster groups a doctor's completed appointments per patient,
// most recently seen first.
func (r *AppointmentRepository) PatientRoster(ctx context.Context, doctorID string) ([]RosterEntry, error) {
	var roster []RosterEntry
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Select("appointments.patient_id, users.name, users.email, users.phone, MAX(appointments.date) AS last_visit, COUNT(*) AS visit_count").
		Joins("JOIN users ON users.id = appointments.patient_id").
		Where("appointments.doctor_id = ? AND appointments.status = ?", doctorID, models.StatusCompleted).
		Group("appointments.patient_id, users.name, users.email, users.phone").
		Order("last_visit DESC").
		Scan(&roster).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build patient roster: %w", err)
	}
	return roster, nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "appointments_cache*")
}
