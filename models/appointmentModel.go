package models

import (
	"time"
)

// Appointment statuses. Cancelled and completed are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment represents one booking between a patient and a doctor.
// Department is a snapshot of the doctor's department at booking time,
// kept even if the doctor later moves departments.
// Date is a calendar day "2006-01-02"; Time is a half-hour slot label "15:04".
type Appointment struct {
	ID                 string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID          string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID           string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Department         string    `gorm:"column:department;not null" json:"department"`
	Date               string    `gorm:"column:date;not null;index" json:"date"`
	Time               string    `gorm:"column:time;not null" json:"time"`
	Status             string    `gorm:"column:status;check:status IN ('pending', 'confirmed', 'cancelled', 'completed');not null;default:'pending'" json:"status"`
	Complaint          string    `gorm:"column:complaint" json:"complaint,omitempty"`
	HasReview          bool      `gorm:"column:has_review;not null;default:false" json:"has_review"`
	ReviewID           *string   `gorm:"column:review_id" json:"review_id,omitempty"`
	CancellationReason *string   `gorm:"column:cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient            *User     `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Doctor             *User     `gorm:"foreignKey:DoctorID;references:ID" json:"doctor,omitempty"`
	Review             *Review   `gorm:"foreignKey:ReviewID;references:ID" json:"review,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
