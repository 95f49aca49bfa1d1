package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
)

// ErrEnrollmentNotFound indicates the requested enrollment does not exist.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// EnrollmentService exposes enrollment use cases.
type EnrollmentService interface {
	Create(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error)
	ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type enrollmentService struct {
	repo        repository.EnrollmentRepository
	studentRepo repository.StudentRepository
	courseRepo  repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:        repo,
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Create(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.studentRepo.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrStudentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}
	if _, err := s.courseRepo.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	exists, err := s.repo.Exists(ctx, payload.StudentID, payload.CourseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if exists {
		return dto.EnrollmentResponse{}, apperr.Conflict("student is already enrolled in this course")
	}

	enrollment := models.Enrollment{
		StudentID: payload.StudentID,
		CourseID:  payload.CourseID,
	}
	if err := s.repo.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, translateConflict(err, "student is already enrolled in this course")
	}

	s.logger.Info().
		Uint("student_id", payload.StudentID).
		Uint("course_id", payload.CourseID).
		Msg("enrollment created")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("enrollment_id", id).Msg("enrollment removed")
	return nil
}
