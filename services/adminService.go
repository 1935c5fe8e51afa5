package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// AdminStats is the admin dashboard aggregate.
type AdminStats struct {
	TotalDoctors       int64                          `json:"total_doctors"`
	TotalUsers         int64                          `json:"total_users"`
	TotalAppointments  int64                          `json:"total_appointments"`
	RecentAppointments []models.Appointment           `json:"recent_appointments"`
	DepartmentStats    []repositories.DepartmentCount `json:"department_stats"`
}

type AdminService struct {
	users        repositories.UserRepository
	appointments *repositories.AppointmentRepository
}

func NewAdminService(users repositories.UserRepository, appointments *repositories.AppointmentRepository) *AdminService {
	return &AdminService{users: users, appointments: appointments}
}

// CreateDoctor registers a doctor account on behalf of an admin.
func (s *AdminService) CreateDoctor(ctx context.Context, in utils.RegistrationInput) (*models.User, error) {
	in.Role = models.RoleDoctor
	if err := utils.ValidateRegistration(in); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	doctor := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hashed),
		Role:       models.RoleDoctor,
		Department: in.Department,
	}
	if err := s.users.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// UpdateDoctor edits a doctor's name, email and department.
func (s *AdminService) UpdateDoctor(ctx context.Context, id, name, email, department string) (*models.User, error) {
	doctor, err := s.users.GetWithPassword(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrDoctorNotFound
		}
		return nil, err
	}
	if doctor.Role != models.RoleDoctor {
		return nil, models.ErrDoctorNotFound
	}

	if email != "" && email != doctor.Email {
		taken, err := s.users.EmailTakenByOther(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrEmailTaken
		}
		doctor.Email = email
	}
	if name != "" {
		doctor.Name = name
	}
	if department != "" {
		doctor.Department = department
	}

	if err := s.users.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// DeleteDoctor removes a doctor account. Appointments and reviews that
// reference the doctor keep their denormalized snapshots and are not
// cascaded.
func (s *AdminService) DeleteDoctor(ctx context.Context, id string) error {
	return s.users.DeleteDoctor(ctx, id)
}

// ListDoctors lists every doctor account.
func (s *AdminService) ListDoctors(ctx context.Context) ([]models.User, error) {
	return s.users.ListDoctors(ctx)
}

// Stats assembles the admin dashboard aggregate.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	totalDoctors, err := s.users.CountByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.CountByRole(ctx, models.RolePatient)
	if err != nil {
		return nil, err
	}
	totalAppointments, err := s.appointments.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.appointments.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	departments, err := s.users.DepartmentCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalDoctors:       totalDoctors,
		TotalUsers:         totalUsers,
		TotalAppointments:  totalAppointments,
		RecentAppointments: recent,
		DepartmentStats:    departments,
	}, nil
}
