package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/models"
	"github.com/adityaharshit/code-i-technology-sub001/internal/observability"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/document"
)

var (
	// ErrPhotoMissing indicates the student has no profile photo on record.
	ErrPhotoMissing = errors.New("student photo is required before an id card can be generated")
	// ErrIDCardNotEligible indicates the student has no approved payment for the course.
	ErrIDCardNotEligible = errors.New("an approved payment for the course is required")
)

// IDCardService assembles and renders printable student ID cards.
type IDCardService interface {
	Generate(ctx context.Context, studentID, courseID uint) (dto.ArtifactResponse, error)
}

type idCardService struct {
	studentRepo      repository.StudentRepository
	courseRepo       repository.CourseRepository
	transactionRepo  repository.TransactionRepository
	fetcher          ResourceFetcher
	frontTemplateURL string
	backTemplateURL  string
	logger           zerolog.Logger
}

// NewIDCardService builds a new ID card service.
func NewIDCardService(
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	transactionRepo repository.TransactionRepository,
	fetcher ResourceFetcher,
	frontTemplateURL, backTemplateURL string,
	logger zerolog.Logger,
) IDCardService {
	return &idCardService{
		studentRepo:      studentRepo,
		courseRepo:       courseRepo,
		transactionRepo:  transactionRepo,
		fetcher:          fetcher,
		frontTemplateURL: frontTemplateURL,
		backTemplateURL:  backTemplateURL,
		logger:           logger.With().Str("component", "idcard_service").Logger(),
	}
}

func (s *idCardService) Generate(ctx context.Context, studentID, courseID uint) (dto.ArtifactResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ArtifactResponse{}, ErrStudentNotFound
		}
		return dto.ArtifactResponse{}, err
	}

	// The photo precondition is checked before any template is fetched so a
	// fixable profile problem never costs network round trips.
	if student.PhotoURL == "" {
		return dto.ArtifactResponse{}, ErrPhotoMissing
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ArtifactResponse{}, ErrCourseNotFound
		}
		return dto.ArtifactResponse{}, err
	}

	paid, err := s.transactionRepo.HasPaidForCourse(ctx, studentID, courseID)
	if err != nil {
		return dto.ArtifactResponse{}, err
	}
	if !paid {
		return dto.ArtifactResponse{}, ErrIDCardNotEligible
	}

	expiry := cardExpiry(course)

	data := document.IDCardData{
		Name:       student.Name,
		RollNumber: student.RollNumber,
		Gender:     student.Gender,
		Mobile:     student.Mobile,
		BloodGroup: student.BloodGroup,
		Expiry:     expiry,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		payload, err := s.fetcher.Fetch(groupCtx, s.frontTemplateURL)
		if err != nil {
			return apperr.Resource("front template", err)
		}
		data.FrontTemplate = payload
		return nil
	})
	group.Go(func() error {
		payload, err := s.fetcher.Fetch(groupCtx, s.backTemplateURL)
		if err != nil {
			return apperr.Resource("back template", err)
		}
		data.BackTemplate = payload
		return nil
	})
	group.Go(func() error {
		payload, err := s.fetcher.Fetch(groupCtx, student.PhotoURL)
		if err != nil {
			return apperr.Resource("student photo", err)
		}
		data.Photo = payload
		return nil
	})
	group.Go(func() error {
		payload, err := qrcode.Encode(qrPayload(student, course.Title, expiry), qrcode.Medium, 256)
		if err != nil {
			return apperr.Resource("qr code", err)
		}
		data.QRCode = payload
		return nil
	})

	if err := group.Wait(); err != nil {
		observability.DocumentsRendered().WithLabelValues("id_card", "error").Inc()
		return dto.ArtifactResponse{}, err
	}

	content, err := document.RenderIDCard(data)
	if err != nil {
		observability.DocumentsRendered().WithLabelValues("id_card", "error").Inc()
		return dto.ArtifactResponse{}, fmt.Errorf("failed to render id card: %w", err)
	}

	observability.DocumentsRendered().WithLabelValues("id_card", "success").Inc()
	s.logger.Info().Str("roll_number", student.RollNumber).Uint("course_id", courseID).Msg("id card rendered")

	return dto.ArtifactResponse{
		FileName:    fmt.Sprintf("%s_IDCard.pdf", student.RollNumber),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// cardExpiry is the course end date: start date plus duration. Courses
// without a scheduled start fall back to a duration-long validity window.
func cardExpiry(course models.Course) time.Time {
	if !course.StartDate.IsZero() {
		return course.StartDate.AddDate(0, course.DurationMonths, 0)
	}
	return time.Now().AddDate(0, course.DurationMonths, 0)
}

func qrPayload(student models.Student, courseTitle string, expiry time.Time) string {
	lines := []string{
		"Name: " + student.Name,
		"Roll Number: " + student.RollNumber,
		"Course: " + courseTitle,
		"DOB: " + student.DateOfBirth.Format("02/01/2006"),
		"Blood Group: " + student.BloodGroup,
		"Email: " + student.Email,
		"Valid Till: " + expiry.Format("02/01/2006"),
	}
	return strings.Join(lines, "\n")
}
