package dto

import (
	"time"

	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
)

// EnrollmentCreateRequest is the admin payload for enrolling a student.
type EnrollmentCreateRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentResponse is the serialized representation returned to API clients.
type EnrollmentResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	CourseID    uint      `json:"course_id"`
	StudentName string    `json:"student_name,omitempty"`
	RollNumber  string    `json:"roll_number,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		CourseID:    model.CourseID,
		StudentName: model.Student.Name,
		RollNumber:  model.Student.RollNumber,
		CourseTitle: model.Course.Title,
		CreatedAt:   model.CreatedAt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
