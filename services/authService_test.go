package services

import (
	"CarePoint/models"
	"CarePoint/utils"
	"context"
	"errors"
	"testing"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users)
	ctx := context.Background()

	user, err := svc.Register(ctx, utils.RegistrationInput{
		Name:     "Ama Mensah",
		Email:    "ama@example.com",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Role != models.RolePatient {
		t.Errorf("default role = %q, want %q", user.Role, models.RolePatient)
	}
	if user.Password == "Str0ng!pass" {
		t.Errorf("password stored in plaintext")
	}

	// The email is claimed.
	if _, err := svc.Register(ctx, utils.RegistrationInput{
		Name:     "Impostor",
		Email:    "ama@example.com",
		Password: "An0ther!pass",
	}); !errors.Is(err, models.ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users)
	ctx := context.Background()

	cases := []struct {
		name  string
		input utils.RegistrationInput
	}{
		{"missing name", utils.RegistrationInput{Email: "a@example.com", Password: "Str0ng!pass"}},
		{"bad email", utils.RegistrationInput{Name: "Ama", Email: "not-an-email", Password: "Str0ng!pass"}},
		{"weak password", utils.RegistrationInput{Name: "Ama", Email: "a@example.com", Password: "short"}},
		{"doctor without department", utils.RegistrationInput{Name: "Dr. Osei", Email: "osei@example.com", Password: "Str0ng!pass", Role: models.RoleDoctor}},
		{"admin role rejected", utils.RegistrationInput{Name: "Root", Email: "root@example.com", Password: "Str0ng!pass", Role: models.RoleAdmin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.input); err == nil {
				t.Errorf("Register() accepted invalid input")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, utils.RegistrationInput{
		Name:     "Ama Mensah",
		Email:    "ama@example.com",
		Password: "Str0ng!pass",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Authenticate(ctx, "ama@example.com", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.Email != "ama@example.com" {
		t.Errorf("authenticated wrong user: %s", user.Email)
	}

	// Wrong password and unknown account read identically.
	_, wrongPass := svc.Authenticate(ctx, "ama@example.com", "not-the-password")
	_, unknown := svc.Authenticate(ctx, "ghost@example.com", "Str0ng!pass")
	if !errors.Is(wrongPass, models.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(unknown, models.ErrInvalidCredentials) {
		t.Errorf("unknown account error = %v, want ErrInvalidCredentials", unknown)
	}
}
