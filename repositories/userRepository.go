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

const (
	UserCacheExpiry   = 24 * time.Hour
	DoctorCacheExpiry = 24 * time.Hour
)

// userDisplayColumns excludes the password hash; profile and auth flows
// that need the hash use GetWithPassword, which is never cached.
const userDisplayColumns = "id, name, email, role, department, phone, specialization, bio, photo, rating, created_at, updated_at"

// DepartmentCount is one row of the per-department doctor tally.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetWithPassword(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTakenByOther(ctx context.Context, email, userID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	ListDoctors(ctx context.Context) ([]models.User, error)
	ListDoctorsByDepartment(ctx context.Context, department string) ([]models.User, error)
	DeleteDoctor(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int64, error)
	DepartmentCounts(ctx context.Context) ([]DepartmentCount, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return r.invalidate(ctx, user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.userCacheKey(id)
	cachedUser, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(cachedUser), &user); err == nil {
			return &user, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.User
	err = r.db.WithContext(ctx).Select(userDisplayColumns).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if userJSON, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, cacheKey, userJSON, UserCacheExpiry); err != nil {
			log.Printf("Failed to set user in cache: %v", err)
		}
	}

	return &user, nil
}

func (r *userRepository) GetWithPassword(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) EmailTakenByOther(ctx context.Context, email, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return r.invalidate(ctx, user.ID)
}

func (r *userRepository) ListDoctors(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "doctors_cache"
	cachedDoctors, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var doctors []models.User
		if err := json.Unmarshal([]byte(cachedDoctors), &doctors); err == nil {
			return doctors, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get doctors from cache: %v", err)
	}

	var doctors []models.User
	err = r.db.WithContext(ctx).Select(userDisplayColumns).
		Where("role = ?", models.RoleDoctor).
		Order("created_at DESC").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	if doctorsJSON, err := json.Marshal(doctors); err == nil {
		if err := r.cache.Set(ctx, cacheKey, doctorsJSON, DoctorCacheExpiry); err != nil {
			log.Printf("Failed to set doctors in cache: %v", err)
		}
	}

	return doctors, nil
}

func (r *userRepository) ListDoctorsByDepartment(ctx context.Context, department string) ([]models.User, error) {
	var doctors []models.User
	err := r.db.WithContext(ctx).Select(userDisplayColumns).
		Where("role = ? AND department = ?", models.RoleDoctor, department).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors by department: %w", err)
	}
	return doctors, nil
}

func (r *userRepository) DeleteDoctor(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete doctor: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrDoctorNotFound
	}
	return r.invalidate(ctx, id)
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func (r *userRepository) DepartmentCounts(ctx context.Context) ([]DepartmentCount, error) {
	var counts []DepartmentCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("department, COUNT(*) AS count").
		Where("role = ?", models.RoleDoctor).
		Group("department").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count doctors per department: %w", err)
	}
	return counts, nil
}

func (r *userRepository) invalidate(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.userCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete user cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "doctors_cache*")
}

func (r *userRepository) userCacheKey(id string) string {
	return fmt.Sprintf("user_cache:%s", id)
}
