package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a patient or doctor account with a bcrypt-hashed
// password. Admin accounts are only created through seeding.
func (s *AuthService) Register(ctx context.Context, in utils.RegistrationInput) (*models.User, error) {
	if err := utils.ValidateRegistration(in); err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RolePatient
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hashed),
		Role:       role,
		Department: in.Department,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a login attempt. A missing account and a wrong
// password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// RequestPasswordReset stores a 6-digit code for the account and emails
// it. An unknown email is treated as success so the endpoint does not
// reveal which addresses have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := utils.SetResetCode(ctx, email, code); err != nil {
		return err
	}
	if err := utils.SendResetCodeEmail(email, code); err != nil {
		log.Printf("Failed to email reset code to %s: %v", email, err)
		return err
	}
	return nil
}

// ConfirmPasswordReset validates the emailed code and replaces the
// account's password hash. The code is single-use.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := utils.ValidatePasswordReset(code, newPassword); err != nil {
		return err
	}

	stored, err := utils.GetResetCode(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil || *stored != code {
		return utils.ErrInvalidResetCode
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return utils.DeleteResetCode(ctx, email)
}
