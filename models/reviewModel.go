package models

import (
	"time"
)

// Review represents a patient's rating and comment for one completed
// appointment. The unique index on AppointmentID enforces at most one
// review per appointment at the storage layer.
type Review struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID     string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID      string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	AppointmentID string    `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`
	Rating        int       `gorm:"column:rating;check:rating BETWEEN 1 AND 5;not null" json:"rating"`
	Comment       string    `gorm:"column:comment;not null" json:"comment"`
	IsEdited      bool      `gorm:"column:is_edited;not null;default:false" json:"is_edited"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient       *User     `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Doctor        *User     `gorm:"foreignKey:DoctorID;references:ID" json:"doctor,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
