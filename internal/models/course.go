package models

import "time"

// Course lifecycle states.
const (
	CourseStatusUpcoming  = "upcoming"
	CourseStatusLive      = "live"
	CourseStatusCompleted = "completed"
)

// Course is an offering students can enroll in and pay for month by month.
type Course struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	DurationMonths int       `gorm:"not null" json:"duration_months"`
	FeePerMonth    float64   `gorm:"not null" json:"fee_per_month"`
	Status         string    `gorm:"size:16;default:'upcoming';index" json:"status"`
	StartDate      time.Time `json:"start_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsValidCourseStatus reports whether the given status is one of the known states.
func IsValidCourseStatus(status string) bool {
	switch status {
	case CourseStatusUpcoming, CourseStatusLive, CourseStatusCompleted:
		return true
	default:
		return false
	}
}
