package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"

	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdateInput is the payload of the profile update endpoints.
// Changing the email or the password requires the current password.
type ProfileUpdateInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Bio             string `json:"bio"`
	Specialization  string `json:"specialization"`
	Photo           string `json:"photo"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// FeaturedDoctor is a doctor enriched with completion counts for the
// public listing.
type FeaturedDoctor struct {
	models.User
	CompletedAppointments int64 `json:"completed_appointments"`
	TotalPatients         int64 `json:"total_patients"`
}

// FeaturedResult is the featured listing with clinic-wide totals.
type FeaturedResult struct {
	Doctors []FeaturedDoctor `json:"doctors"`
	Stats   struct {
		TotalDoctors  int64 `json:"total_doctors"`
		TotalPatients int64 `json:"total_patients"`
	} `json:"stats"`
}

type UserService struct {
	users        repositories.UserRepository
	appointments *repositories.AppointmentRepository
}

func NewUserService(users repositories.UserRepository, appointments *repositories.AppointmentRepository) *UserService {
	return &UserService{users: users, appointments: appointments}
}

// GetUser returns a user without credential fields.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies a profile edit for any account. Email changes
// are checked for uniqueness, and email or password changes require the
// current password to match.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdateInput) (*models.User, error) {
	user, err := s.users.GetWithPassword(ctx, userID)
	if err != nil {
		return nil, err
	}

	emailChanging := in.Email != "" && in.Email != user.Email
	if emailChanging || in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, models.ErrWrongPassword
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, models.ErrWrongPassword
		}
	}

	if emailChanging {
		taken, err := s.users.EmailTakenByOther(ctx, in.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrEmailTaken
		}
		user.Email = in.Email
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Specialization != "" {
		user.Specialization = in.Specialization
	}
	if in.Photo != "" {
		user.Photo = in.Photo
	}

	if in.NewPassword != "" {
		if err := utils.ValidateNewPassword(in.NewPassword); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, userID)
}

// FeaturedDoctors lists every doctor enriched with completed-appointment
// and distinct-patient counts, plus clinic-wide totals. Read-only.
func (s *UserService) FeaturedDoctors(ctx context.Context) (*FeaturedResult, error) {
	doctors, err := s.users.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.appointments.CountsByDoctor(ctx)
	if err != nil {
		return nil, err
	}
	totalPatients, err := s.appointments.DistinctCompletedPatients(ctx)
	if err != nil {
		return nil, err
	}

	result := &FeaturedResult{Doctors: make([]FeaturedDoctor, 0, len(doctors))}
	for _, doctor := range doctors {
		entry := FeaturedDoctor{User: doctor}
		if c, ok := counts[doctor.ID]; ok {
			entry.CompletedAppointments = c.CompletedAppointments
			entry.TotalPatients = c.TotalPatients
		}
		result.Doctors = append(result.Doctors, entry)
	}
	result.Stats.TotalDoctors = int64(len(doctors))
	result.Stats.TotalPatients = totalPatients
	return result, nil
}

// DoctorsByDepartment lists the doctors of one department.
func (s *UserService) DoctorsByDepartment(ctx context.Context, department string) ([]models.User, error) {
	return s.users.ListDoctorsByDepartment(ctx, department)
}
