package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
)

// ErrCertificateNotEligible indicates the student is not enrolled in the course.
var ErrCertificateNotEligible = errors.New("student is not enrolled in this course")

const verificationCachePrefix = "cit:cert:verify:"

// CertificateService issues completion certificates and serves the public
// verification endpoint.
type CertificateService interface {
	Issue(ctx context.Context, payload dto.CertificateIssueRequest) (dto.CertificateResponse, error)
	Verify(ctx context.Context, certificateNumber string) (dto.VerificationResult, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.CertificateResponse, error)
}

type certificateService struct {
	repo           repository.CertificateRepository
	enrollmentRepo repository.EnrollmentRepository
	validator      *validator.Validate
	cache          *redis.Client
	cacheTTL       time.Duration
	logger         zerolog.Logger
	now            func() time.Time
}

// NewCertificateService builds a new certificate service. The cache client
// may be nil; verification then always hits the database.
func NewCertificateService(
	repo repository.CertificateRepository,
	enrollmentRepo repository.EnrollmentRepository,
	validate *validator.Validate,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) CertificateService {
	return &certificateService{
		repo:           repo,
		enrollmentRepo: enrollmentRepo,
		validator:      validate,
		cache:          cache,
		cacheTTL:       cacheTTL,
		logger:         logger.With().Str("component", "certificate_service").Logger(),
		now:            time.Now,
	}
}

func (s *certificateService) Issue(ctx context.Context, payload dto.CertificateIssueRequest) (dto.CertificateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CertificateResponse{}, err
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, payload.StudentID, payload.CourseID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}
	if !enrolled {
		return dto.CertificateResponse{}, ErrCertificateNotEligible
	}

	certificate := models.Certificate{
		CertificateNumber: s.generateCertificateNumber(),
		StudentID:         payload.StudentID,
		CourseID:          payload.CourseID,
		IssuedAt:          s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &certificate); err != nil {
		return dto.CertificateResponse{}, translateConflict(err, "certificate number already exists")
	}

	// Reload with the student and course attached for the response.
	issued, err := s.repo.GetByNumber(ctx, certificate.CertificateNumber)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	s.logger.Info().
		Str("certificate_number", issued.CertificateNumber).
		Uint("student_id", payload.StudentID).
		Uint("course_id", payload.CourseID).
		Msg("certificate issued")

	return dto.NewCertificateResponse(issued), nil
}

func (s *certificateService) Verify(ctx context.Context, certificateNumber string) (dto.VerificationResult, error) {
	certificateNumber = strings.TrimSpace(certificateNumber)
	if certificateNumber == "" {
		return dto.VerificationResult{Found: false}, nil
	}

	if cached, ok := s.fromCache(ctx, certificateNumber); ok {
		return cached, nil
	}

	certificate, err := s.repo.GetByNumber(ctx, certificateNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An unknown number is a negative result, not a failure.
			return dto.VerificationResult{Found: false}, nil
		}
		return dto.VerificationResult{}, err
	}

	response := dto.NewCertificateResponse(certificate)
	result := dto.VerificationResult{Found: true, Certificate: &response}
	s.toCache(ctx, certificateNumber, result)

	return result, nil
}

func (s *certificateService) ListByStudent(ctx context.Context, studentID uint) ([]dto.CertificateResponse, error) {
	certificates, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CertificateResponse, 0, len(certificates))
	for _, certificate := range certificates {
		responses = append(responses, dto.NewCertificateResponse(certificate))
	}

	return responses, nil
}

func (s *certificateService) fromCache(ctx context.Context, number string) (dto.VerificationResult, bool) {
	if s.cache == nil {
		return dto.VerificationResult{}, false
	}

	raw, err := s.cache.Get(ctx, verificationCachePrefix+number).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("verification cache read failed")
		}
		return dto.VerificationResult{}, false
	}

	var result dto.VerificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return dto.VerificationResult{}, false
	}

	return result, true
}

func (s *certificateService) toCache(ctx context.Context, number string, result dto.VerificationResult) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, verificationCachePrefix+number, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("verification cache write failed")
	}
}

func (s *certificateService) generateCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CIT-CERT-%d-%s", s.now().Year(), suffix)
}
