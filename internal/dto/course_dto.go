package dto

import (
	"time"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// CourseCreateRequest describes the payload for creating a new course.
type CourseCreateRequest struct {
	Title          string  `json:"title" validate:"required,min=3"`
	Description    string  `json:"description" validate:"omitempty"`
	DurationMonths int     `json:"duration_months" validate:"required,gt=0"`
	FeePerMonth    float64 `json:"fee_per_month" validate:"required,gt=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=upcoming live completed"`
	StartDate      string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// CourseUpdateRequest describes the payload for updating a course.
type CourseUpdateRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=3"`
	Description    *string  `json:"description" validate:"omitempty"`
	DurationMonths *int     `json:"duration_months" validate:"omitempty,gt=0"`
	FeePerMonth    *float64 `json:"fee_per_month" validate:"omitempty,gt=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=upcoming live completed"`
	StartDate      *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DurationMonths int       `json:"duration_months"`
	FeePerMonth    float64   `json:"fee_per_month"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		DurationMonths: model.DurationMonths,
		FeePerMonth:    model.FeePerMonth,
		Status:         model.Status,
		StartDate:      model.StartDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
