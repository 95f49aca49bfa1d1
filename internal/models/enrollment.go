package models

import "time"

// Enrollment joins a student to a course. A student may enroll in a given
// course at most once; the composite unique index enforces the pair.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"student_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_pair" json:"course_id"`
	Student   Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course    Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
