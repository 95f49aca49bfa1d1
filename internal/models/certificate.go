package models

import "time"

// Certificate is an issued course-completion record. Lookups by certificate
// number are public and read-only.
type Certificate struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CertificateNumber string    `gorm:"size:64;uniqueIndex;not null" json:"certificate_number"`
	StudentID         uint      `gorm:"not null;index" json:"student_id"`
	CourseID          uint      `gorm:"not null;index" json:"course_id"`
	IssuedAt          time.Time `json:"issued_at"`
	Student           Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course            Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
