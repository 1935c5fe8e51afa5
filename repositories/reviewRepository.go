package repositories

import (
	"CarePoint/cache"
	"CarePoint/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReviewCacheExpiry = 24 * time.Hour

type ReviewRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewReviewRepository(db *gorm.DB, cache *cache.Cache) *ReviewRepository {
	return &ReviewRepository{db: db, cache: cache}
}

// Create inserts the review, links it to its appointment and recomputes
// the doctor's rating, all in one transaction under the doctor's rating
// lock. The unique index on appointment_id rejects a duplicate review
// even if two requests slip past the lock.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	err := withLock(ctx, r.ratingLockKey(review.DoctorID), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(review).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.ErrReviewExists
				}
				return fmt.Errorf("failed to create review: %w", err)
			}
			if err := setReviewRef(tx, review.AppointmentID, &review.ID); err != nil {
				return fmt.Errorf("failed to link review to appointment: %w", err)
			}
			return recomputeRating(tx, review.DoctorID)
		})
	})
	if err != nil {
		return err
	}

	return r.invalidate(ctx, review.DoctorID)
}

// Update saves an edited review and recomputes the doctor's rating.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := withLock(ctx, r.ratingLockKey(review.DoctorID), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(review).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
			return recomputeRating(tx, review.DoctorID)
		})
	})
	if err != nil {
		return err
	}

	return r.invalidate(ctx, review.DoctorID)
}

// Delete removes the review, clears the appointment's review linkage and
// recomputes the doctor's rating over the remaining set.
func (r *ReviewRepository) Delete(ctx context.Context, review *models.Review) error {
	err := withLock(ctx, r.ratingLockKey(review.DoctorID), func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := setReviewRef(tx, review.AppointmentID, nil); err != nil {
				return fmt.Errorf("failed to unlink review from appointment: %w", err)
			}
			if err := tx.Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
				return fmt.Errorf("failed to delete review: %w", err)
			}
			return recomputeRating(tx, review.DoctorID)
		})
	})
	if err != nil {
		return err
	}

	return r.invalidate(ctx, review.DoctorID)
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// GetPopulated returns a review with the patient and doctor display
// fields loaded, for the response bodies of the mutating endpoints.
func (r *ReviewRepository) GetPopulated(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, photo")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		}).
		First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

// ListByDoctor returns a doctor's reviews, newest first.
func (r *ReviewRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("reviews_cache:doctor:%s", doctorID)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var reviews []models.Review
		if err := json.Unmarshal([]byte(cached), &reviews); err == nil {
			return reviews, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get reviews from cache: %v", err)
	}

	var reviews []models.Review
	err = r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		}).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor reviews: %w", err)
	}

	if reviewsJSON, err := json.Marshal(reviews); err == nil {
		if err := r.cache.Set(ctx, cacheKey, reviewsJSON, ReviewCacheExpiry); err != nil {
			log.Printf("Failed to set reviews in cache: %v", err)
		}
	}

	return reviews, nil
}

// ListByPatient returns the reviews a patient has written, newest first.
func (r *ReviewRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		}).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patient reviews: %w", err)
	}
	return reviews, nil
}

// Latest returns the newest reviews clinic-wide.
func (r *ReviewRepository) Latest(ctx context.Context, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, department")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest reviews: %w", err)
	}
	return reviews, nil
}

// recomputeRating re-derives the doctor's average from the full current
// review set inside the caller's transaction. Always recomputing from
// scratch avoids the drift an incrementally adjusted running average
// accumulates from missed updates.
func recomputeRating(tx *gorm.DB, doctorID string) error {
	var avg float64
	err := tx.Model(&models.Review{}).
		Where("doctor_id = ?", doctorID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("failed to average ratings: %w", err)
	}

	rounded := math.Round(avg*10) / 10
	if err := tx.Model(&models.User{}).Where("id = ?", doctorID).Update("rating", rounded).Error; err != nil {
		return fmt.Errorf("failed to persist doctor rating: %w", err)
	}
	return nil
}

func (r *ReviewRepository) invalidate(ctx context.Context, doctorID string) error {
	if err := r.cache.DeleteAll(ctx, "reviews_cache*"); err != nil {
		return fmt.Errorf("failed to invalidate review caches: %w", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("user_cache:%s", doctorID)); err != nil {
		return fmt.Errorf("failed to invalidate doctor cache: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "doctors_cache*"); err != nil {
		return fmt.Errorf("failed to invalidate doctors caches: %w", err)
	}
	return r.cache.DeleteAll(ctx, "appointments_cache*")
}

func (r *ReviewRepository) ratingLockKey(doctorID string) string {
	return fmt.Sprintf("rating_lock:%s", doctorID)
}
