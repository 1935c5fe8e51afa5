package models

import (
	"time"
)

// Account roles. A doctor is a user with role "doctor" and a department.
const (
	RolePatient = "user"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User represents any account: patient, doctor, or admin.
type User struct {
	ID             string    `gorm:"primaryKey;column:id" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Email          string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password       string    `gorm:"column:password;not null" json:"-"`
	Role           string    `gorm:"column:role;check:role IN ('user', 'doctor', 'admin');not null;default:'user';index" json:"role"`
	Department     string    `gorm:"column:department;index" json:"department,omitempty"`
	Phone          string    `gorm:"column:phone" json:"phone,omitempty"`
	Specialization string    `gorm:"column:specialization" json:"specialization,omitempty"`
	Bio            string    `gorm:"column:bio" json:"bio,omitempty"`
	Photo          string    `gorm:"column:photo" json:"photo,omitempty"`
	Rating         float64   `gorm:"column:rating;default:0" json:"rating"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsDoctor reports whether the account is a doctor with a department assigned.
// Bookings may only target accounts that pass this check.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor && u.Department != ""
}
